package cookies

import (
	"context"
	"time"

	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/models"
)

type Repository interface {
	Get(ctx context.Context, name string) (*models.Cookie, error)
	Put(ctx context.Context, c *models.Cookie) error
	// PutAll stores every cookie or none of them.
	PutAll(ctx context.Context, cs []*models.Cookie) error
	Delete(ctx context.Context, names ...string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	List(ctx context.Context) ([]*models.Cookie, error)
}
