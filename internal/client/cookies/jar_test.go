package cookies

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/models"
	cookierepo "github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/repositories/cookies"
	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/common"
	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/cryptox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func newClock() *clock {
	return &clock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestJar_SetGet(t *testing.T) {
	clk := newClock()
	repo := cookierepo.NewMemoryRepository()
	j := NewJar(repo, WithClock(clk.now))
	ctx := context.Background()

	require.NoError(t, j.Set(ctx, common.AccessCookieName, "tok", Strict(common.AccessCookieTTL)))

	v, ok, err := j.Get(ctx, common.AccessCookieName)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok", v)

	stored, err := repo.Get(ctx, common.AccessCookieName)
	require.NoError(t, err)
	assert.True(t, stored.Secure)
	assert.Equal(t, models.SameSiteStrict, stored.SameSite)
	assert.Equal(t, clk.t.Add(5*time.Minute), stored.ExpiresAt)
}

func TestJar_ExpiredReadsAbsentAndIsPurged(t *testing.T) {
	clk := newClock()
	repo := cookierepo.NewMemoryRepository()
	j := NewJar(repo, WithClock(clk.now))
	ctx := context.Background()

	require.NoError(t, j.Set(ctx, "access", "a", Strict(5*time.Minute)))
	clk.advance(5 * time.Minute)

	v, ok, err := j.Get(ctx, "access")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)

	stored, err := repo.Get(ctx, "access")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestJar_SetAllRemove(t *testing.T) {
	j := NewJar(cookierepo.NewMemoryRepository())
	ctx := context.Background()

	require.NoError(t, j.SetAll(ctx,
		Entry{Name: "access", Value: "a", Options: Strict(time.Minute)},
		Entry{Name: "refresh", Value: "r", Options: Strict(time.Hour)},
	))

	access, err := j.AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", access)
	refresh, err := j.RefreshToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "r", refresh)

	require.NoError(t, j.Remove(ctx, "access", "refresh"))
	require.NoError(t, j.Remove(ctx, "access", "refresh"))

	access, err = j.AccessToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, access)
}

func TestJar_Purge(t *testing.T) {
	clk := newClock()
	j := NewJar(cookierepo.NewMemoryRepository(), WithClock(clk.now))
	ctx := context.Background()

	require.NoError(t, j.Set(ctx, "short", "1", Strict(time.Second)))
	require.NoError(t, j.Set(ctx, "long", "2", Strict(time.Hour)))
	clk.advance(time.Minute)

	n, err := j.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestJar_SealedRoundTrip(t *testing.T) {
	repo := cookierepo.NewMemoryRepository()
	j := NewJar(repo, WithSealer(cryptox.NewSealer([]byte("passphrase"))))
	ctx := context.Background()

	require.NoError(t, j.Set(ctx, "refresh", "eyJ.refresh.sig", Strict(time.Hour)))

	stored, err := repo.Get(ctx, "refresh")
	require.NoError(t, err)
	assert.True(t, stored.Sealed)
	assert.NotContains(t, stored.Value, "refresh")

	v, ok, err := j.Get(ctx, "refresh")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "eyJ.refresh.sig", v)

	_, _, err = NewJar(repo).Get(ctx, "refresh")
	require.ErrorIs(t, err, ErrSealed)

	_, _, err = NewJar(repo, WithSealer(cryptox.NewSealer([]byte("other")))).Get(ctx, "refresh")
	require.Error(t, err)
}

type failingRepo struct {
	cookierepo.Repository
	err error
}

func (f failingRepo) Get(context.Context, string) (*models.Cookie, error) {
	return nil, f.err
}

func (f failingRepo) PutAll(context.Context, []*models.Cookie) error {
	return f.err
}

func TestJar_RepositoryErrorsAreWrapped(t *testing.T) {
	boom := errors.New("boom")
	j := NewJar(failingRepo{Repository: cookierepo.NewMemoryRepository(), err: boom})
	ctx := context.Background()

	_, _, err := j.Get(ctx, "access")
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "read cookie access")

	err = j.SetAll(ctx, Entry{Name: "access", Value: "a", Options: Strict(time.Minute)})
	require.ErrorIs(t, err, boom)
}
