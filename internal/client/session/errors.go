package session

import "errors"

var (
	// ErrRefreshTokenNotFound means UpdateToken found no refresh cookie and
	// did not contact the backend.
	ErrRefreshTokenNotFound = errors.New("refresh token not found")

	// ErrInvalidToken means an access token could not be decoded.
	ErrInvalidToken = errors.New("invalid access token")
)
