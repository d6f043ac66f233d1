package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/apierror"
	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/common"
	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/logging"
	"github.com/google/uuid"
)

const maxBodySize = 4 << 20

// TokenSource supplies the access token for authenticated requests. An
// empty token means the request is sent without Authorization.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

type HTTPClient struct {
	baseURL   *url.URL
	http      *http.Client
	tokens    TokenSource
	log       logging.Logger
	userAgent string
	timeout   time.Duration

	mu      sync.RWMutex
	refresh func(ctx context.Context) error
	expire  func(ctx context.Context)
}

type Option func(*HTTPClient)

func WithHTTPClient(hc *http.Client) Option { return func(c *HTTPClient) { c.http = hc } }

func WithLogger(l logging.Logger) Option { return func(c *HTTPClient) { c.log = l } }

func WithUserAgent(ua string) Option { return func(c *HTTPClient) { c.userAgent = ua } }

// WithTimeout bounds every request. Zero leaves deadlines to the caller's
// context and the http.Client.
func WithTimeout(d time.Duration) Option { return func(c *HTTPClient) { c.timeout = d } }

func WithUnauthorizedHook(refresh func(ctx context.Context) error, expire func(ctx context.Context)) Option {
	return func(c *HTTPClient) { c.refresh, c.expire = refresh, expire }
}

// New builds an HTTPClient for the backend rooted at baseURL.
func New(baseURL string, tokens TokenSource, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	c := &HTTPClient{
		baseURL:   u,
		http:      http.DefaultClient,
		tokens:    tokens,
		log:       logging.Nop(),
		userAgent: "rosenblum-client",
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// OnUnauthorized registers the session recovery for authenticated requests
// answered with 401. refresh renews the token pair, after which the request
// is replayed once. expire runs when refresh fails or the replay is
// rejected again. Either may be nil.
func (c *HTTPClient) OnUnauthorized(refresh func(ctx context.Context) error, expire func(ctx context.Context)) {
	c.mu.Lock()
	c.refresh, c.expire = refresh, expire
	c.mu.Unlock()
}

// BaseURL returns the backend root.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL.String()
}

type request struct {
	method string
	path   string
	query  url.Values
	json   any
	form   *multipartForm
	auth   bool
}

func (c *HTTPClient) endpoint(path string, query url.Values) string {
	ref := &url.URL{Path: strings.TrimPrefix(path, "/")}
	if len(query) > 0 {
		ref.RawQuery = query.Encode()
	}
	return c.baseURL.ResolveReference(ref).String()
}

type payload struct {
	data        []byte
	contentType string
}

func (r request) encode() (payload, error) {
	switch {
	case r.form != nil:
		buf, ct, err := r.form.encode()
		if err != nil {
			return payload{}, fmt.Errorf("encode form for %s: %w", r.path, err)
		}
		return payload{data: buf.Bytes(), contentType: ct}, nil
	case r.json != nil:
		buf, err := json.Marshal(r.json)
		if err != nil {
			return payload{}, fmt.Errorf("encode body for %s: %w", r.path, err)
		}
		return payload{data: buf, contentType: "application/json"}, nil
	}
	return payload{}, nil
}

// do sends req and decodes a 2xx JSON body into out when out is non-nil.
// An authenticated request answered with 401 is replayed once after a
// successful token refresh.
func (c *HTTPClient) do(ctx context.Context, req request, out any) error {
	if req.auth && c.tokens == nil {
		return fmt.Errorf("%s %s: %w", req.method, req.path, ErrNoTokenSource)
	}

	body, err := req.encode()
	if err != nil {
		return err
	}

	err = c.send(ctx, req, body, out)
	if !req.auth || !apierror.IsUnauthorized(err) {
		return err
	}

	c.mu.RLock()
	refresh, expire := c.refresh, c.expire
	c.mu.RUnlock()

	if refresh != nil && ctx.Err() == nil {
		if rerr := refresh(ctx); rerr == nil {
			err = c.send(ctx, req, body, out)
			if !apierror.IsUnauthorized(err) {
				return err
			}
		} else {
			c.log.Debug(ctx, "token refresh after 401 failed", "path", req.path, "error", rerr)
		}
	}

	if expire != nil && ctx.Err() == nil {
		expire(context.WithoutCancel(ctx))
	}
	return err
}

func (c *HTTPClient) send(ctx context.Context, req request, body payload, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	target := c.endpoint(req.path, req.query)

	var reader io.Reader
	if body.data != nil {
		reader = bytes.NewReader(body.data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, reader)
	if err != nil {
		return fmt.Errorf("build request %s %s: %w", req.method, req.path, err)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(common.RequestIDHeaderName, requestID)
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
	if body.contentType != "" {
		httpReq.Header.Set("Content-Type", body.contentType)
	}

	if req.auth {
		token, err := c.tokens.AccessToken(ctx)
		if err != nil {
			return fmt.Errorf("read access token: %w", err)
		}
		if token != "" {
			httpReq.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
		}
	}

	log := c.log.With("method", req.method, "path", req.path, "request_id", requestID)
	start := time.Now()

	resp, err := c.http.Do(httpReq)
	if err != nil {
		log.Debug(ctx, "request failed", "error", err)
		return &apierror.NetworkError{Op: req.method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &apierror.NetworkError{Op: req.method, URL: target, Err: err}
	}

	log.Debug(ctx, "request done", "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &apierror.ResponseError{Status: resp.StatusCode, Body: data, Header: resp.Header.Clone()}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.path, err)
	}
	return nil
}

// listOf decodes either a bare JSON array or a paginated envelope.
type listOf[T any] struct {
	items []T
}

func (l *listOf[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &l.items)
	}
	var page struct {
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return err
	}
	l.items = page.Results
	return nil
}
