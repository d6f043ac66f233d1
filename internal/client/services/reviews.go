package services

import (
	"context"
	"strings"

	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/apierror"
	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/models"
)

type ReviewAPI interface {
	Reviews(ctx context.Context, lang string) ([]models.Review, error)
}

// ReviewService loads the public reviews. Abandoned loads (cancelled
// context) come back with code "canceled"; use IsCanceled to drop them.
type ReviewService interface {
	List(ctx context.Context, lang string) ([]models.Review, error)
}

type reviewService struct {
	api ReviewAPI
}

func NewReviewService(api ReviewAPI) ReviewService {
	return &reviewService{api: api}
}

func (s *reviewService) List(ctx context.Context, lang string) ([]models.Review, error) {
	reviews, err := s.api.Reviews(ctx, ReviewLanguage(lang))
	if err != nil {
		return nil, normalized(err)
	}
	return reviews, nil
}

// ReviewLanguage reduces a locale to the language the backend keys reviews
// by: "de-AT" becomes "de", and "ua" becomes "uk".
func ReviewLanguage(locale string) string {
	lang, _, _ := strings.Cut(locale, "-")
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "ua" {
		return "uk"
	}
	return lang
}

// IsCanceled reports whether err is an abandoned request.
func IsCanceled(err error) bool {
	res, ok := apierror.As(err)
	return ok && res.Code == apierror.CodeCanceled
}
