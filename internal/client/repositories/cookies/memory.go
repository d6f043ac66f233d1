package cookies

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/models"
)

// MemoryRepository keeps cookies for the lifetime of the process.
type MemoryRepository struct {
	mu      sync.RWMutex
	cookies map[string]models.Cookie
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{cookies: map[string]models.Cookie{}}
}

func (r *MemoryRepository) Get(_ context.Context, name string) (*models.Cookie, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.cookies[name]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *MemoryRepository) Put(_ context.Context, c *models.Cookie) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.put(c)
	return nil
}

func (r *MemoryRepository) put(c *models.Cookie) {
	cp := *c
	if cp.UpdatedAt.IsZero() {
		cp.UpdatedAt = time.Now()
	}
	r.cookies[c.Name] = cp
}

func (r *MemoryRepository) PutAll(_ context.Context, cs []*models.Cookie) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range cs {
		r.put(c)
	}
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, names ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range names {
		delete(r.cookies, n)
	}
	return nil
}

func (r *MemoryRepository) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for name, c := range r.cookies {
		if c.Expired(now) {
			delete(r.cookies, name)
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepository) List(_ context.Context) ([]*models.Cookie, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.Cookie, 0, len(r.cookies))
	for _, c := range r.cookies {
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
