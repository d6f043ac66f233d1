package fakeapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	t   *testing.T
	srv *Server
	url string
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	s := New(opts...)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return &harness{t: t, srv: s, url: ts.URL}
}

func (h *harness) call(method, path, token string, body any) (int, []byte) {
	h.t.Helper()
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(h.t, err)
		rd = bytes.NewReader(buf)
	}
	req, err := http.NewRequest(method, h.url+path, rd)
	require.NoError(h.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(h.t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(h.t, err)
	return resp.StatusCode, data
}

func (h *harness) login(email, password string) *models.AuthTokens {
	h.t.Helper()
	status, body := h.call(http.MethodPost, "/user/login/", "", models.Credentials{Email: email, Password: password})
	require.Equal(h.t, http.StatusOK, status, string(body))
	tokens := &models.AuthTokens{}
	require.NoError(h.t, json.Unmarshal(body, tokens))
	return tokens
}

func TestLogin(t *testing.T) {
	h := newHarness(t)
	h.srv.AddUser("anna@example.com", "secret-pw", "Anna", "Schmidt", false)

	tokens := h.login("anna@example.com", "secret-pw")
	assert.True(t, tokens.Valid())

	status, body := h.call(http.MethodPost, "/user/login/", "", models.Credentials{Email: "anna@example.com", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.JSONEq(t, `{"detail":"No active account found with the given credentials","code":"authentication_failed"}`, string(body))
}

func TestRegisterThenVerify(t *testing.T) {
	h := newHarness(t, WithVerificationCode("777777"))

	reg := models.Registration{Email: "new@example.com", FirstName: "N", LastName: "U", Password: "pw-123456"}
	status, _ := h.call(http.MethodPost, "/user/register/", "", reg)
	require.Equal(t, http.StatusCreated, status)

	status, body := h.call(http.MethodPost, "/user/register/", "", reg)
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, string(body), "email_exists")

	status, _ = h.call(http.MethodPost, "/user/login/", "", models.Credentials{Email: reg.Email, Password: reg.Password})
	assert.Equal(t, http.StatusForbidden, status)

	status, body = h.call(http.MethodPost, "/user/email-verification/", "", map[string]string{"email": reg.Email, "code": "000000"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), `"attempts":2`)

	status, _ = h.call(http.MethodPost, "/user/email-verification/", "", map[string]string{"email": reg.Email, "code": "777777"})
	assert.Equal(t, http.StatusOK, status)

	assert.True(t, h.login(reg.Email, reg.Password).Valid())
}

func TestVerifyAttemptsExhausted(t *testing.T) {
	h := newHarness(t)
	reg := models.Registration{Email: "x@example.com", FirstName: "X", LastName: "Y", Password: "pw-123456"}
	status, _ := h.call(http.MethodPost, "/user/register/", "", reg)
	require.Equal(t, http.StatusCreated, status)

	for range defaultVerificationAttempts {
		status, _ = h.call(http.MethodPost, "/user/email-verification/", "", map[string]string{"email": reg.Email, "code": "bad"})
		require.Equal(t, http.StatusBadRequest, status)
	}
	status, _ = h.call(http.MethodPost, "/user/email-verification/", "", map[string]string{"email": reg.Email, "code": "bad"})
	assert.Equal(t, http.StatusTooManyRequests, status)
}

func TestRefresh(t *testing.T) {
	h := newHarness(t)
	h.srv.AddUser("anna@example.com", "pw", "Anna", "", false)
	tokens := h.login("anna@example.com", "pw")

	status, body := h.call(http.MethodPost, "/user/token-refresh/", "", map[string]string{"refresh": tokens.Refresh})
	require.Equal(t, http.StatusOK, status)
	var next models.AuthTokens
	require.NoError(t, json.Unmarshal(body, &next))
	assert.True(t, next.Valid())

	status, _ = h.call(http.MethodPost, "/user/token-refresh/", "", map[string]string{"refresh": tokens.Access})
	assert.Equal(t, http.StatusUnauthorized, status, "access token must not refresh")
}

func TestRefreshWithoutRotation(t *testing.T) {
	h := newHarness(t, WithoutRotation())
	h.srv.AddUser("anna@example.com", "pw", "Anna", "", false)
	tokens := h.login("anna@example.com", "pw")

	status, body := h.call(http.MethodPost, "/user/token-refresh/", "", map[string]string{"refresh": tokens.Refresh})
	require.Equal(t, http.StatusOK, status)
	var next models.AuthTokens
	require.NoError(t, json.Unmarshal(body, &next))
	assert.NotEmpty(t, next.Access)
	assert.Empty(t, next.Refresh)
}

func TestExpiredAccessToken(t *testing.T) {
	var offset atomic.Int64
	base := time.Now()
	clock := func() time.Time { return base.Add(time.Duration(offset.Load())) }
	h := newHarness(t, WithClock(clock), WithTokenTTL(time.Minute, time.Hour))
	h.srv.AddUser("anna@example.com", "pw", "Anna", "", false)
	tokens := h.login("anna@example.com", "pw")

	status, _ := h.call(http.MethodGet, "/user/user-data/", tokens.Access, nil)
	require.Equal(t, http.StatusOK, status)

	offset.Store(int64(2 * time.Minute))
	status, body := h.call(http.MethodGet, "/user/user-data/", tokens.Access, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, string(body), "token_not_valid")
}

func TestFailNextAndHits(t *testing.T) {
	h := newHarness(t)
	h.srv.FailNext(http.MethodGet, "user/reviews", http.StatusBadGateway, "<html>bad gateway</html>")

	status, body := h.call(http.MethodGet, "/user/reviews/?lang=de", "", nil)
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "<html>bad gateway</html>", string(body))

	status, _ = h.call(http.MethodGet, "/user/reviews/?lang=de", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2, h.srv.Hits(http.MethodGet, "/user/reviews/"))
}

func TestOrdersVisibility(t *testing.T) {
	h := newHarness(t)
	h.srv.AddUser("anna@example.com", "pw", "Anna", "", false)
	h.srv.AddUser("boss@example.com", "pw", "Boss", "", true)
	customer := h.login("anna@example.com", "pw")
	admin := h.login("boss@example.com", "pw")

	order := map[string]string{"name": "Anna", "email": "anna@example.com", "city": "Berlin"}
	status, body := h.call(http.MethodPost, "/orders/", customer.Access, order)
	require.Equal(t, http.StatusCreated, status, string(body))
	status, _ = h.call(http.MethodPost, "/orders/", "", order)
	require.Equal(t, http.StatusCreated, status)

	var page models.Page[models.Order]
	_, body = h.call(http.MethodGet, "/orders/", customer.Access, nil)
	require.NoError(t, json.Unmarshal(body, &page))
	assert.Equal(t, 1, page.Count)

	_, body = h.call(http.MethodGet, "/orders/", admin.Access, nil)
	require.NoError(t, json.Unmarshal(body, &page))
	assert.Equal(t, 2, page.Count)
	assert.Equal(t, 2, page.NewCount)

	status, _ = h.call(http.MethodDelete, "/orders/"+itoa(int(page.Results[0].ID))+"/", customer.Access, nil)
	assert.Equal(t, http.StatusForbidden, status)

	var stats models.BaseStats
	_, body = h.call(http.MethodGet, "/statistics/", admin.Access, nil)
	require.NoError(t, json.Unmarshal(body, &stats))
	assert.Equal(t, models.BaseStats{TotalOrders: 2, NewOrders: 2}, stats)

	var geo []models.GeographyStat
	_, body = h.call(http.MethodGet, "/statistics/customers-geography/", admin.Access, nil)
	require.NoError(t, json.Unmarshal(body, &geo))
	assert.Equal(t, []models.GeographyStat{{City: "Berlin", Count: 2}}, geo)
}

func TestPaginate(t *testing.T) {
	items := make([]int, 25)
	r := httptest.NewRequest(http.MethodGet, "/orders/?page=3", nil)

	page := paginate(r, items, 4)
	assert.Equal(t, 25, page.Count)
	assert.Equal(t, 4, page.NewCount)
	assert.Len(t, page.Results, 5)
	assert.False(t, page.HasNext())
	require.NotNil(t, page.Previous)
	assert.Equal(t, "/orders/?page=2", *page.Previous)

	r = httptest.NewRequest(http.MethodGet, "/orders/?page=9", nil)
	assert.Empty(t, paginate(r, items, 0).Results)
}

func TestToggleMessages(t *testing.T) {
	h := newHarness(t)
	anna := h.srv.AddUser("anna@example.com", "pw", "Anna", "", false)
	boss := h.srv.AddUser("boss@example.com", "pw", "Boss", "", true)
	customer := h.login("anna@example.com", "pw")
	admin := h.login("boss@example.com", "pw")

	for range 2 {
		status, _ := h.call(http.MethodPost, "/messages/", admin.Access, map[string]any{"id": anna.ID, "message": "hello"})
		require.Equal(t, http.StatusCreated, status)
	}

	status, body := h.call(http.MethodPost, "/messages/toggle/", customer.Access, map[string]any{"sender_id": boss.ID})
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"success","updated_count":2}`, string(body))

	var msgs []models.Message
	_, body = h.call(http.MethodGet, "/messages/", customer.Access, nil)
	require.NoError(t, json.Unmarshal(body, &msgs))
	require.Len(t, msgs, 2)
	assert.True(t, msgs[0].Viewed)
}
