package fakeapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/models"
	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/common"
	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const defaultVerificationAttempts = 3

// User is a backend account.
type User struct {
	ID            int64
	Email         string
	Password      string
	FirstName     string
	LastName      string
	ProfileImgURL string
	PhoneNumber   *string
	City          *string
	Street        *string
	Zip           *string
	DateJoined    time.Time
	Staff         bool
	Verified      bool
	Disabled      bool

	code     string
	attempts int
}

type failure struct {
	status int
	body   string
}

type Server struct {
	secret               []byte
	accessTTL            time.Duration
	refreshTTL           time.Duration
	now                  func() time.Time
	rotate               bool
	registerIssuesTokens bool
	refreshDelay         time.Duration
	verificationCode     string
	log                  logging.Logger

	mu           sync.Mutex
	nextID       int64
	users        map[int64]*User
	orders       []*models.Order
	orderOwner   map[int64]int64
	messages     []*models.Message
	requests     []*models.ContactRequest
	answers      map[int64][]models.RequestAnswer
	translations []*models.Translation
	reviews      map[string][]models.Review
	resetTokens  map[string]int64
	failures     map[string][]failure
	hits         map[string]int
}

type Option func(*Server)

func WithSecret(secret []byte) Option { return func(s *Server) { s.secret = secret } }

func WithTokenTTL(access, refresh time.Duration) Option {
	return func(s *Server) { s.accessTTL, s.refreshTTL = access, refresh }
}

func WithClock(now func() time.Time) Option { return func(s *Server) { s.now = now } }

// WithoutRotation makes token-refresh return only a new access token.
func WithoutRotation() Option { return func(s *Server) { s.rotate = false } }

// WithRegisterTokens makes registration log the user in immediately instead
// of waiting for e-mail verification.
func WithRegisterTokens() Option { return func(s *Server) { s.registerIssuesTokens = true } }

// WithRefreshDelay slows token-refresh down, to widen race windows in tests.
func WithRefreshDelay(d time.Duration) Option { return func(s *Server) { s.refreshDelay = d } }

func WithVerificationCode(code string) Option { return func(s *Server) { s.verificationCode = code } }

func WithLogger(l logging.Logger) Option { return func(s *Server) { s.log = l } }

func New(opts ...Option) *Server {
	s := &Server{
		secret:           []byte("fakeapi-secret"),
		accessTTL:        common.AccessCookieTTL,
		refreshTTL:       common.RefreshCookieTTL,
		now:              time.Now,
		rotate:           true,
		verificationCode: "123456",
		log:              logging.Nop(),
		users:            map[int64]*User{},
		orderOwner:       map[int64]int64{},
		answers:          map[int64][]models.RequestAnswer{},
		reviews:          map[string][]models.Review{},
		resetTokens:      map[string]int64{},
		failures:         map[string][]failure{},
		hits:             map[string]int{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// FailNext makes the next request to method+path answer status with body.
// Failures queue up per route.
func (s *Server) FailNext(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := routeKey(method, path)
	s.failures[key] = append(s.failures[key], failure{status: status, body: body})
}

// Hits returns how many requests reached method+path.
func (s *Server) Hits(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[routeKey(method, path)]
}

func routeKey(method, path string) string {
	return method + " /" + strings.Trim(path, "/") + "/"
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.scripted)

	r.Route("/user", func(r chi.Router) {
		r.Post("/register/", s.handleRegister)
		r.Post("/email-verification/", s.handleVerifyEmail)
		r.Post("/resend-verification/", s.handleResendVerification)
		r.Post("/login/", s.handleLogin)
		r.Post("/login/google/", s.handleGoogleLogin)
		r.Post("/token-refresh/", s.handleRefresh)
		r.Post("/password-reset-link/", s.handleResetLink)
		r.Post("/password-reset-confirm/", s.handleResetConfirm)
		r.Get("/reviews/", s.handleReviews)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticated)
			r.Get("/user-data/", s.handleUserData)
			r.Patch("/update/", s.handleUpdateProfile)
		})
	})

	r.Route("/orders", func(r chi.Router) {
		r.With(s.optionalAuth).Post("/", s.handleCreateOrder)
		r.Group(func(r chi.Router) {
			r.Use(s.authenticated)
			r.Get("/", s.handleListOrders)
			r.With(s.staffOnly).Get("/user/{userID}/", s.handleUserOrders)
			r.Get("/{id}/", s.handleGetOrder)
			r.With(s.staffOnly).Patch("/{id}/", s.handleUpdateOrder)
			r.With(s.staffOnly).Delete("/{id}/", s.handleDeleteOrder)
			r.With(s.staffOnly).Post("/{id}/toggle/", s.handleToggleOrder)
		})
	})

	r.Route("/messages", func(r chi.Router) {
		r.Use(s.authenticated)
		r.Get("/", s.handleListMessages)
		r.Post("/", s.handleSendMessage)
		r.Post("/toggle/", s.handleToggleMessages)
	})

	r.Route("/requests", func(r chi.Router) {
		r.With(s.optionalAuth).Post("/", s.handleCreateRequest)
		r.Group(func(r chi.Router) {
			r.Use(s.authenticated, s.staffOnly)
			r.Get("/", s.handleListRequests)
			r.Post("/{id}/toggle/", s.handleToggleRequest)
			r.Get("/{id}/answers/", s.handleListAnswers)
			r.Post("/{id}/answers/", s.handleAnswerRequest)
		})
	})

	r.Route("/admin-user", func(r chi.Router) {
		r.Post("/login/", s.handleAdminLogin)
		r.Group(func(r chi.Router) {
			r.Use(s.authenticated, s.staffOnly)
			r.Get("/customers/", s.handleCustomers)
			r.Get("/translations/", s.handleListTranslations)
			r.Post("/translations/", s.handleSaveTranslation)
			r.Delete("/translations/{id}/", s.handleDeleteTranslation)
		})
	})

	r.Route("/statistics", func(r chi.Router) {
		r.Use(s.authenticated, s.staffOnly)
		r.Get("/", s.handleBaseStats)
		r.Get("/status-distribution/", s.handleStatusDistribution)
		r.Get("/ordering-dynamics/", s.handleOrderingDynamics)
		r.Get("/type-distribution/", s.handleTypeDistribution)
		r.Get("/customers-geography/", s.handleGeography)
		r.Get("/customers-growth/", s.handleGrowth)
		r.Get("/order-request-comparison/", s.handleComparison)
	})

	return r
}

// scripted counts hits and replays failures queued with FailNext.
func (s *Server) scripted(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := routeKey(r.Method, r.URL.Path)

		s.mu.Lock()
		s.hits[key]++
		var f *failure
		if queue := s.failures[key]; len(queue) > 0 {
			f = &queue[0]
			s.failures[key] = queue[1:]
		}
		s.mu.Unlock()

		s.log.Debug(r.Context(), "fakeapi request", "route", key, "request_id", r.Header.Get(common.RequestIDHeaderName))

		if f != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(f.body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

type ctxKey struct{}

func userFrom(ctx context.Context) *User {
	u, _ := ctx.Value(ctxKey{}).(*User)
	return u
}

func (s *Server) bearerUser(r *http.Request) (*User, bool) {
	header := r.Header.Get(common.AuthorizationHeaderName)
	token, ok := strings.CutPrefix(header, common.BearerPrefix)
	if !ok || token == "" {
		return nil, false
	}
	id, err := ParseToken(token, tokenTypeAccess, s.secret, s.now())
	if err != nil {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	return u, ok && !u.Disabled
}

func (s *Server) authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := s.bearerUser(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"detail": "Given token not valid for any token type",
				"code":   "token_not_valid",
			})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, u)))
	})
}

func (s *Server) optionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u, ok := s.bearerUser(r); ok {
			r = r.WithContext(context.WithValue(r.Context(), ctxKey{}, u))
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) staffOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u := userFrom(r.Context()); u == nil || !u.Staff {
			writeJSON(w, http.StatusForbidden, map[string]string{
				"detail": "You do not have permission to perform this action.",
				"code":   "permission_denied",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, code, detail string) {
	body := map[string]string{"detail": detail}
	if code != "" {
		body["code"] = code
	}
	writeJSON(w, status, body)
}

func writeFieldErrors(w http.ResponseWriter, fields map[string][]string) {
	writeJSON(w, http.StatusBadRequest, map[string]any{"errors": fields})
}

// readInput accepts JSON or form bodies and returns the text fields and the
// names of uploaded files.
func readInput(r *http.Request) (map[string]string, []string, error) {
	fields := map[string]string{}
	ct := r.Header.Get("Content-Type")

	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			return nil, nil, err
		}
		for k, v := range r.MultipartForm.Value {
			if len(v) > 0 {
				fields[k] = v[0]
			}
		}
		var files []string
		for _, hs := range r.MultipartForm.File {
			for _, h := range hs {
				files = append(files, h.Filename)
			}
		}
		return fields, files, nil
	}

	if r.ContentLength == 0 {
		return fields, nil, nil
	}
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, nil, err
	}
	for k, v := range raw {
		switch t := v.(type) {
		case string:
			fields[k] = t
		case float64:
			fields[k] = strconv.FormatFloat(t, 'f', -1, 64)
		case bool:
			fields[k] = strconv.FormatBool(t)
		}
	}
	return fields, nil, nil
}

func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil
}

func badBody(w http.ResponseWriter) {
	writeDetail(w, http.StatusBadRequest, "parse_error", "Malformed request.")
}

func notFound(w http.ResponseWriter) {
	writeDetail(w, http.StatusNotFound, "not_found", "Not found.")
}

func parsePositive(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, strconv.ErrRange
	}
	return n, nil
}

func itoa(n int) string { return strconv.Itoa(n) }

func boolString(b bool) string { return strconv.FormatBool(b) }
