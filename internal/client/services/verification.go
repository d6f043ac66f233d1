package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/apierror"
	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/models"
)

// DefaultVerificationAttempts is the number of codes the backend accepts
// before a resend is required.
const DefaultVerificationAttempts = 3

type VerificationAPI interface {
	VerifyEmail(ctx context.Context, email, code string) error
	ResendVerification(ctx context.Context, email string) error
}

// VerificationService confirms e-mail addresses after registration.
//
// Contract:
//   - Verify: on failure, attempts is what the backend reported as left,
//     or -1 when the response did not say.
//   - Resend: issues a new code and resets the attempt counter.
type VerificationService interface {
	Verify(ctx context.Context, email, code string) (attempts int, err error)
	Resend(ctx context.Context, email string) (attempts int, err error)
}

type verificationService struct {
	api VerificationAPI
}

func NewVerificationService(api VerificationAPI) VerificationService {
	return &verificationService{api: api}
}

func (s *verificationService) Verify(ctx context.Context, email, code string) (int, error) {
	err := s.api.VerifyEmail(ctx, email, code)
	if err == nil {
		return DefaultVerificationAttempts, nil
	}
	return attemptsLeft(err), normalized(err)
}

func (s *verificationService) Resend(ctx context.Context, email string) (int, error) {
	if err := s.api.ResendVerification(ctx, email); err != nil {
		return -1, normalized(err)
	}
	return DefaultVerificationAttempts, nil
}

func attemptsLeft(err error) int {
	var re *apierror.ResponseError
	if !errors.As(err, &re) {
		return -1
	}
	var v models.Verification
	if json.Unmarshal(re.Body, &v) != nil || v.Attempts == nil {
		return -1
	}
	return *v.Attempts
}
