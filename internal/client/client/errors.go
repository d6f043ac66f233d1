package client

import "errors"

var (
	ErrInvalidBaseURL = errors.New("invalid base url")
	ErrNoTokenSource  = errors.New("token source is not configured")
)
