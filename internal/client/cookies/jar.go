// Package cookies implements a browser-like cookie jar over a persistent
// repository. Expired cookies read as absent and are removed on access.
// Values can be sealed at rest when a Sealer is configured.
package cookies

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/models"
	cookierepo "github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/repositories/cookies"
	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/common"
	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/logging"
)

// ErrSealed is returned when a sealed cookie is read by a jar without a
// Sealer.
var ErrSealed = errors.New("cookie is sealed and no passphrase is configured")

type Sealer interface {
	Seal(plaintext []byte) ([]byte, error)
	Open(sealed []byte) ([]byte, error)
}

// Options are the attributes of a cookie being set. A zero SameSite means
// Strict.
type Options struct {
	TTL      time.Duration
	Secure   bool
	SameSite string
}

// Strict returns Secure, SameSite=Strict options expiring after ttl.
func Strict(ttl time.Duration) Options {
	return Options{TTL: ttl, Secure: true, SameSite: models.SameSiteStrict}
}

// Entry is one cookie for SetAll.
type Entry struct {
	Name    string
	Value   string
	Options Options
}

type Jar struct {
	repo   cookierepo.Repository
	sealer Sealer
	now    func() time.Time
	log    logging.Logger
}

type Option func(*Jar)

func WithSealer(s Sealer) Option { return func(j *Jar) { j.sealer = s } }

func WithClock(now func() time.Time) Option { return func(j *Jar) { j.now = now } }

func WithLogger(l logging.Logger) Option { return func(j *Jar) { j.log = l } }

func NewJar(repo cookierepo.Repository, opts ...Option) *Jar {
	j := &Jar{repo: repo, now: time.Now, log: logging.Nop()}
	for _, o := range opts {
		o(j)
	}
	return j
}

// Get returns the value of a live cookie. ok is false when the cookie is
// missing or expired.
func (j *Jar) Get(ctx context.Context, name string) (value string, ok bool, err error) {
	c, err := j.repo.Get(ctx, name)
	if err != nil {
		return "", false, fmt.Errorf("read cookie %s: %w", name, err)
	}
	if c == nil {
		return "", false, nil
	}

	if c.Expired(j.now()) {
		j.log.Debug(ctx, "cookie expired", "name", name, "expires_at", c.ExpiresAt)
		if err := j.repo.Delete(ctx, name); err != nil {
			return "", false, fmt.Errorf("remove expired cookie %s: %w", name, err)
		}
		return "", false, nil
	}

	if !c.Sealed {
		return c.Value, true, nil
	}

	plain, err := j.open(c.Value)
	if err != nil {
		return "", false, fmt.Errorf("open cookie %s: %w", name, err)
	}
	return plain, true, nil
}

func (j *Jar) Set(ctx context.Context, name, value string, opts Options) error {
	c, err := j.build(name, value, opts)
	if err != nil {
		return err
	}
	if err := j.repo.Put(ctx, c); err != nil {
		return fmt.Errorf("write cookie %s: %w", name, err)
	}
	return nil
}

// SetAll writes every entry or none of them.
func (j *Jar) SetAll(ctx context.Context, entries ...Entry) error {
	cs := make([]*models.Cookie, 0, len(entries))
	for _, e := range entries {
		c, err := j.build(e.Name, e.Value, e.Options)
		if err != nil {
			return err
		}
		cs = append(cs, c)
	}
	if err := j.repo.PutAll(ctx, cs); err != nil {
		return fmt.Errorf("write cookies: %w", err)
	}
	return nil
}

// Remove deletes the named cookies. Missing cookies are ignored.
func (j *Jar) Remove(ctx context.Context, names ...string) error {
	if err := j.repo.Delete(ctx, names...); err != nil {
		return fmt.Errorf("remove cookies: %w", err)
	}
	return nil
}

// Purge drops every expired cookie and returns how many were removed.
func (j *Jar) Purge(ctx context.Context) (int64, error) {
	n, err := j.repo.DeleteExpired(ctx, j.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		j.log.Debug(ctx, "purged expired cookies", "count", n)
	}
	return n, nil
}

// AccessToken returns the access cookie, or "" when it is absent.
func (j *Jar) AccessToken(ctx context.Context) (string, error) {
	v, _, err := j.Get(ctx, common.AccessCookieName)
	return v, err
}

// RefreshToken returns the refresh cookie, or "" when it is absent.
func (j *Jar) RefreshToken(ctx context.Context) (string, error) {
	v, _, err := j.Get(ctx, common.RefreshCookieName)
	return v, err
}

func (j *Jar) build(name, value string, opts Options) (*models.Cookie, error) {
	now := j.now()
	c := &models.Cookie{
		Name:      name,
		Value:     value,
		ExpiresAt: now.Add(opts.TTL),
		Secure:    opts.Secure,
		SameSite:  opts.SameSite,
		UpdatedAt: now,
	}
	if c.SameSite == "" {
		c.SameSite = models.SameSiteStrict
	}

	if j.sealer != nil {
		sealed, err := j.sealer.Seal([]byte(value))
		if err != nil {
			return nil, fmt.Errorf("seal cookie %s: %w", name, err)
		}
		c.Value = base64.StdEncoding.EncodeToString(sealed)
		c.Sealed = true
	}
	return c, nil
}

func (j *Jar) open(value string) (string, error) {
	if j.sealer == nil {
		return "", ErrSealed
	}
	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return "", err
	}
	plain, err := j.sealer.Open(raw)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}
