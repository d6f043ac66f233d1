package services

import (
	"errors"

	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/apierror"
)

// Local preconditions, checked before any request is sent.
var (
	ErrOrderIncomplete = errors.New("order needs a name and an e-mail address")
	ErrEmptyMessage    = errors.New("message is empty")
)

// normalized converts err into *apierror.Response, keeping nil as nil.
func normalized(err error) error {
	if err == nil {
		return nil
	}
	return apierror.Normalize(err)
}
