package session

import (
	"context"
	"errors"
	"sync"

	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/apierror"
	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/cookies"
	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/models"
	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/common"
	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/logging"
	"golang.org/x/sync/singleflight"
)

// API is the subset of the backend client the store needs.
type API interface {
	Login(ctx context.Context, creds models.Credentials) (*models.AuthTokens, error)
	Register(ctx context.Context, reg models.Registration) (*models.AuthTokens, error)
	GoogleLogin(ctx context.Context, accessToken string) (*models.AuthTokens, error)
	AdminLogin(ctx context.Context, creds models.Credentials) (*models.AuthTokens, error)
	RefreshToken(ctx context.Context, refresh string) (*models.AuthTokens, error)
	UserData(ctx context.Context) (*models.UserData, error)
	UpdateProfile(ctx context.Context, upd models.ProfileUpdate) error
	SendResetLink(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, reset models.PasswordReset) error
	OnUnauthorized(refresh func(ctx context.Context) error, expire func(ctx context.Context))
}

// Cookies is the persisted slot for the token pair.
type Cookies interface {
	Get(ctx context.Context, name string) (string, bool, error)
	SetAll(ctx context.Context, entries ...cookies.Entry) error
	Remove(ctx context.Context, names ...string) error
}

// State is a point-in-time copy of the session.
type State struct {
	Tokens          *models.AuthTokens
	User            *models.User
	UserData        *models.UserData
	IsAuthenticated bool

	// Loading is set while a login or registration is in flight.
	Loading bool

	AuthLoading bool
	AuthError   *apierror.Response

	ProfileLoading bool
	ProfileError   *apierror.Response
}

type Store struct {
	api     API
	cookies Cookies
	log     logging.Logger

	accessTTL  cookies.Options
	refreshTTL cookies.Options

	refresh singleflight.Group

	mu    sync.RWMutex
	state State
}

type Option func(*Store)

func WithLogger(l logging.Logger) Option { return func(s *Store) { s.log = l } }

// WithCookieOptions overrides the attributes of the access and refresh
// cookies.
func WithCookieOptions(access, refresh cookies.Options) Option {
	return func(s *Store) { s.accessTTL, s.refreshTTL = access, refresh }
}

// New builds a logged-out Store and registers it with api so that a 401 on
// an authenticated request refreshes the token pair, and logs the session
// out when that does not help.
func New(api API, jar Cookies, opts ...Option) *Store {
	s := &Store{
		api:        api,
		cookies:    jar,
		log:        logging.Nop(),
		accessTTL:  cookies.Strict(common.AccessCookieTTL),
		refreshTTL: cookies.Strict(common.RefreshCookieTTL),
		state:      State{AuthLoading: true},
	}
	for _, o := range opts {
		o(s)
	}

	api.OnUnauthorized(s.UpdateToken, func(ctx context.Context) {
		s.log.Info(ctx, "backend rejected the access token, logging out")
		s.LogoutUser(ctx)
	})
	return s
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := s.state
	if st.Tokens != nil {
		t := *st.Tokens
		st.Tokens = &t
	}
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	if st.UserData != nil {
		d := *st.UserData
		st.UserData = &d
	}
	return st
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsAuthenticated
}

func (s *Store) User() *models.User {
	return s.Snapshot().User
}

func (s *Store) Tokens() *models.AuthTokens {
	return s.Snapshot().Tokens
}

func (s *Store) UserData() *models.UserData {
	return s.Snapshot().UserData
}

func (s *Store) update(fn func(st *State)) {
	s.mu.Lock()
	fn(&s.state)
	s.mu.Unlock()
}

// SetTokens adopts tokens, or clears the session when tokens is nil. An
// access token that cannot be decoded clears the session and returns
// ErrInvalidToken.
func (s *Store) SetTokens(tokens *models.AuthTokens) error {
	if tokens == nil {
		s.update(clearAuth)
		return nil
	}

	u, err := DecodeUser(tokens.Access)
	if err != nil {
		s.update(clearAuth)
		return err
	}

	t := *tokens
	s.update(func(st *State) {
		st.Tokens = &t
		st.User = u
		st.IsAuthenticated = true
	})
	return nil
}

func clearAuth(st *State) {
	st.Tokens = nil
	st.User = nil
	st.IsAuthenticated = false
}

// InitAuth restores a persisted session. Missing cookies leave the store
// logged out without an error. A 401 while fetching the profile logs out;
// any other profile failure is recorded and the session is kept.
func (s *Store) InitAuth(ctx context.Context) error {
	s.update(func(st *State) {
		st.AuthLoading = true
		st.AuthError = nil
	})
	defer s.update(func(st *State) { st.AuthLoading = false })

	access, okAccess, err := s.cookies.Get(ctx, common.AccessCookieName)
	if err != nil {
		return s.authFailed(ctx, err)
	}
	refresh, okRefresh, err := s.cookies.Get(ctx, common.RefreshCookieName)
	if err != nil {
		return s.authFailed(ctx, err)
	}
	if !okAccess || !okRefresh {
		s.log.Debug(ctx, "no persisted session")
		s.update(clearAuth)
		return nil
	}

	if err := s.SetTokens(&models.AuthTokens{Access: access, Refresh: refresh}); err != nil {
		s.LogoutUser(ctx)
		return err
	}

	if err := s.FetchUserData(ctx); err != nil {
		if apierror.IsUnauthorized(err) {
			return err
		}
		s.log.Warn(ctx, "profile fetch failed, keeping session", "error", err)
	}
	return nil
}

func (s *Store) authFailed(ctx context.Context, err error) *apierror.Response {
	res := apierror.Normalize(err)
	s.log.Debug(ctx, "auth operation failed", "code", res.Code, "status", res.Status)
	s.update(func(st *State) { st.AuthError = res })
	return res
}

// LoginUser authenticates with e-mail and password and starts a session.
func (s *Store) LoginUser(ctx context.Context, email, password string) error {
	return s.authenticate(ctx, func() (*models.AuthTokens, error) {
		return s.api.Login(ctx, models.Credentials{Email: email, Password: password})
	})
}

// GoogleLogin exchanges a Google access token for a session.
func (s *Store) GoogleLogin(ctx context.Context, googleToken string) error {
	return s.authenticate(ctx, func() (*models.AuthTokens, error) {
		return s.api.GoogleLogin(ctx, googleToken)
	})
}

// AdminLogin starts a staff session through the admin login endpoint.
func (s *Store) AdminLogin(ctx context.Context, email, password string) error {
	return s.authenticate(ctx, func() (*models.AuthTokens, error) {
		return s.api.AdminLogin(ctx, models.Credentials{Email: email, Password: password})
	})
}

// RegisterUser creates an account. loggedIn is false when the backend
// withholds tokens until the e-mail address is verified.
func (s *Store) RegisterUser(ctx context.Context, reg models.Registration) (loggedIn bool, err error) {
	pending := false
	err = s.authenticate(ctx, func() (*models.AuthTokens, error) {
		tokens, err := s.api.Register(ctx, reg)
		if err == nil && !tokens.Valid() {
			pending = true
		}
		return tokens, err
	})
	return err == nil && !pending, err
}

func (s *Store) authenticate(ctx context.Context, call func() (*models.AuthTokens, error)) error {
	s.update(func(st *State) {
		st.Loading = true
		st.AuthError = nil
	})
	defer s.update(func(st *State) { st.Loading = false })

	tokens, err := call()
	if err != nil {
		return s.authFailed(ctx, err)
	}
	if !tokens.Valid() {
		s.log.Info(ctx, "account created, e-mail verification pending")
		return nil
	}

	if err := s.adopt(ctx, tokens); err != nil {
		return err
	}

	if err := s.FetchUserData(ctx); err != nil {
		s.log.Warn(ctx, "profile fetch after login failed", "error", err)
	}
	return nil
}

// adopt persists tokens and makes them current.
func (s *Store) adopt(ctx context.Context, tokens *models.AuthTokens) error {
	if err := s.SetTokens(tokens); err != nil {
		s.LogoutUser(ctx)
		return err
	}
	err := s.cookies.SetAll(ctx,
		cookies.Entry{Name: common.AccessCookieName, Value: tokens.Access, Options: s.accessTTL},
		cookies.Entry{Name: common.RefreshCookieName, Value: tokens.Refresh, Options: s.refreshTTL},
	)
	if err != nil {
		s.update(clearAuth)
		return s.authFailed(ctx, err)
	}
	return nil
}

// UpdateToken exchanges the refresh cookie for a new token pair. Concurrent
// callers share a single request. Without a refresh cookie the session is
// logged out and ErrRefreshTokenNotFound is returned. Any other failure
// logs out and returns the normalized error.
func (s *Store) UpdateToken(ctx context.Context) error {
	ch := s.refresh.DoChan("refresh", func() (any, error) {
		return nil, s.refreshOnce(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return apierror.Normalize(ctx.Err())
	case r := <-ch:
		if r.Shared {
			s.log.Debug(ctx, "joined in-flight token refresh")
		}
		return r.Err
	}
}

func (s *Store) refreshOnce(ctx context.Context) error {
	refresh, ok, err := s.cookies.Get(ctx, common.RefreshCookieName)
	if err != nil {
		s.LogoutUser(ctx)
		return apierror.Normalize(err)
	}
	if !ok || refresh == "" {
		s.LogoutUser(ctx)
		return ErrRefreshTokenNotFound
	}

	tokens, err := s.api.RefreshToken(ctx, refresh)
	if err != nil {
		s.LogoutUser(ctx)
		res := apierror.Normalize(err)
		s.update(func(st *State) { st.AuthError = res })
		return res
	}
	if tokens.Refresh == "" {
		tokens.Refresh = refresh
	}

	if err := s.adopt(ctx, tokens); err != nil {
		s.LogoutUser(ctx)
		return err
	}
	s.log.Debug(ctx, "access token refreshed")
	return nil
}

// FetchUserData loads the profile. A 401 that survives a token refresh logs
// out; other failures are recorded in the profile error slot.
func (s *Store) FetchUserData(ctx context.Context) error {
	s.update(func(st *State) {
		st.ProfileLoading = true
		st.ProfileError = nil
	})
	defer s.update(func(st *State) { st.ProfileLoading = false })

	data, err := s.api.UserData(ctx)
	if err != nil {
		res := apierror.Normalize(err)
		if apierror.IsUnauthorized(res) {
			s.LogoutUser(ctx)
		} else {
			s.update(func(st *State) { st.ProfileError = res })
		}
		return res
	}

	s.update(func(st *State) { st.UserData = data })
	return nil
}

// UpdateUserProfile sends a profile change and reloads the profile so that
// server-side normalization is reflected.
func (s *Store) UpdateUserProfile(ctx context.Context, upd models.ProfileUpdate) error {
	if err := s.api.UpdateProfile(ctx, upd); err != nil {
		res := apierror.Normalize(err)
		s.update(func(st *State) { st.ProfileError = res })
		return res
	}
	return s.FetchUserData(ctx)
}

func (s *Store) SendResetLink(ctx context.Context, email string) error {
	if err := s.api.SendResetLink(ctx, email); err != nil {
		return apierror.Normalize(err)
	}
	return nil
}

func (s *Store) ResetPassword(ctx context.Context, uid, token, password string) error {
	err := s.api.ResetPassword(ctx, models.PasswordReset{UID: uid, Token: token, Password: password})
	if err != nil {
		return apierror.Normalize(err)
	}
	return nil
}

// LogoutUser clears the token cookies and every state field. It is safe to
// call repeatedly.
func (s *Store) LogoutUser(ctx context.Context) {
	if err := s.cookies.Remove(ctx, common.AccessCookieName, common.RefreshCookieName); err != nil {
		s.log.Error(ctx, "failed to remove token cookies", "error", err)
	}
	s.update(func(st *State) {
		*st = State{}
	})
}

// IsRefreshTokenNotFound reports whether err is the missing-cookie condition.
func IsRefreshTokenNotFound(err error) bool {
	return errors.Is(err, ErrRefreshTokenNotFound)
}
