package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/apierror"
	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/client"
	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/cookies"
	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/models"
	cookierepo "github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/repositories/cookies"
	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/session"
	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/fakeapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	backend *fakeapi.Server
	api     *client.HTTPClient
	store   *session.Store
	admin   *fakeapi.User
	anna    *fakeapi.User
}

func setup(t *testing.T, opts ...fakeapi.Option) *fixture {
	t.Helper()
	backend := fakeapi.New(opts...)
	admin := backend.AddUser("office@example.com", "admin-pw", "Office", "Rosenblum", true)
	anna := backend.AddUser("anna@example.com", "anna-pw", "Anna", "Schmidt", false)

	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	jar := cookies.NewJar(cookierepo.NewMemoryRepository())
	api, err := client.New(srv.URL, jar)
	require.NoError(t, err)

	return &fixture{backend: backend, api: api, store: session.New(api, jar), admin: admin, anna: anna}
}

func (f *fixture) loginCustomer(t *testing.T) {
	t.Helper()
	require.NoError(t, f.store.LoginUser(context.Background(), "anna@example.com", "anna-pw"))
}

func TestOrderService_CreateReloadsList(t *testing.T) {
	f := setup(t)
	f.loginCustomer(t)
	svc := NewOrderService(f.api)
	ctx := context.Background()

	form := models.OrderForm{
		Name:  "Anna Schmidt",
		Email: "anna@example.com",
		City:  "Berlin",
		Files: []*models.Upload{{Name: "passport.pdf", Reader: strings.NewReader("%PDF")}},
	}
	order, orders, err := svc.Create(ctx, form)
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, "review", order.Status)
	require.Len(t, order.Files, 1)
	assert.Equal(t, "passport.pdf", order.Files[0].FileName)
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)
	assert.Equal(t, 1, f.backend.Hits(http.MethodGet, "orders"))

	_, _, err = svc.Create(ctx, models.OrderForm{Name: "x"})
	assert.ErrorIs(t, err, ErrOrderIncomplete)
}

func TestOrderService_ListRequiresSession(t *testing.T) {
	f := setup(t)
	_, err := NewOrderService(f.api).List(context.Background())
	res, ok := apierror.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, res.Status)
}

func TestMessageService(t *testing.T) {
	f := setup(t)
	f.loginCustomer(t)
	ctx := context.Background()

	svc := NewMessageService(f.api, f.admin.ID)
	msg, err := svc.Send(ctx, "Wann ist meine Übersetzung fertig?")
	require.NoError(t, err)
	assert.Equal(t, f.admin.ID, msg.Receiver)

	_, err = svc.Send(ctx, "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	msgs, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)

	n, err := svc.ToggleRead(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestContactService(t *testing.T) {
	f := setup(t)
	svc := NewContactService(f.api)
	ctx := context.Background()

	require.NoError(t, svc.SendRequest(ctx, "Max", "max@example.com", "+49 30 1234", "Brauche Apostille"))

	err := svc.SendRequest(ctx, "", "max@example.com", "", "Brauche Apostille")
	res, ok := apierror.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Equal(t, "This field is required.", res.Message)
	assert.Contains(t, res.Errors, "name")
	assert.NotContains(t, res.Errors, "message")

	// A field named "message" is read as the nested message, and a list
	// there is not a usable string.
	err = svc.SendRequest(ctx, "", "max@example.com", "", "")
	res, ok = apierror.As(err)
	require.True(t, ok)
	assert.Equal(t, "Error 400: Ambiguous server response.", res.Message)
	assert.Contains(t, res.Errors, "message")
	assert.Contains(t, res.Errors, "name")
}

func TestReviewLanguage(t *testing.T) {
	cases := map[string]string{
		"de":    "de",
		"de-AT": "de",
		"ua":    "uk",
		"UA-ua": "uk",
		"EN-us": "en",
		"":      "",
	}
	for in, want := range cases {
		assert.Equal(t, want, ReviewLanguage(in), in)
	}
}

func TestReviewService(t *testing.T) {
	f := setup(t)
	f.backend.SetReviews("uk", []models.Review{{ID: 1, AuthorName: "Olena", Rating: 5}})
	svc := NewReviewService(f.api)

	reviews, err := svc.List(context.Background(), "ua")
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "Olena", reviews[0].AuthorName)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.List(ctx, "de")
	require.Error(t, err)
	assert.True(t, IsCanceled(err))
	assert.False(t, IsCanceled(errors.New("x")))
}

func TestVerificationService(t *testing.T) {
	f := setup(t, fakeapi.WithVerificationCode("424242"))
	ctx := context.Background()
	_, err := session.New(f.api, cookies.NewJar(cookierepo.NewMemoryRepository())).RegisterUser(ctx, models.Registration{
		Email: "new@example.com", FirstName: "N", LastName: "U", Password: "pw-123456",
	})
	require.NoError(t, err)

	svc := NewVerificationService(f.api)

	attempts, err := svc.Verify(ctx, "new@example.com", "000000")
	require.Error(t, err)
	assert.Equal(t, 2, attempts)
	assert.True(t, apierror.HasCode(err, "invalid_code"))

	attempts, err = svc.Resend(ctx, "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, DefaultVerificationAttempts, attempts)

	_, err = svc.Verify(ctx, "new@example.com", "424242")
	require.NoError(t, err)
}

func TestAttemptsLeft_Unknown(t *testing.T) {
	assert.Equal(t, -1, attemptsLeft(errors.New("boom")))
	assert.Equal(t, -1, attemptsLeft(&apierror.ResponseError{Status: 400, Body: []byte(`{"detail":"x"}`)}))
	assert.Equal(t, 0, attemptsLeft(&apierror.ResponseError{Status: 429, Body: []byte(`{"attempts":0}`)}))
}

func TestAdminService_Flow(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	svc := NewAdminService(f.api, f.store)

	err := svc.Login(ctx, "anna@example.com", "anna-pw")
	assert.True(t, apierror.HasCode(err, "permission_denied"))

	require.NoError(t, svc.Login(ctx, "office@example.com", "admin-pw"))

	order, err := f.api.CreateOrder(ctx, models.OrderForm{Name: "Max", Email: "max@example.com", City: "Köln"})
	require.NoError(t, err)
	require.NoError(t, NewContactService(f.api).SendRequest(ctx, "Max", "max@example.com", "", "Frage"))

	page, err := svc.Orders(ctx, models.ListParams{Search: "max"})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Count)
	assert.Equal(t, 1, page.NewCount)

	require.NoError(t, svc.ToggleOrder(ctx, order.ID))
	got, err := svc.Order(ctx, order.ID)
	require.NoError(t, err)
	assert.False(t, got.IsNew)

	updated, err := svc.UpdateOrder(ctx, order.ID, models.OrderUpdate{Status: models.StringPtr("completed")})
	require.NoError(t, err)
	assert.Equal(t, "completed", updated.Status)

	_, err = svc.UpdateOrder(ctx, order.ID, models.OrderUpdate{Status: models.StringPtr("lost")})
	assert.True(t, apierror.HasCode(err, apierror.CodeAPIError))

	requests, err := svc.Requests(ctx, models.ListParams{})
	require.NoError(t, err)
	require.Len(t, requests.Results, 1)
	reqID := requests.Results[0].ID

	_, err = svc.AnswerRequest(ctx, reqID, "Gerne, rufen Sie uns an.")
	require.NoError(t, err)
	answers, err := svc.RequestAnswers(ctx, reqID)
	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.Equal(t, "Gerne, rufen Sie uns an.", answers[0].AnswerText)

	customers, err := svc.Customers(ctx, models.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, 1, customers.Count)

	tr, err := svc.SaveTranslation(ctx, models.Translation{Name: "Urkunde", InitialText: "Hallo", TranslatedText: "Hello"})
	require.NoError(t, err)
	list, err := svc.Translations(ctx, models.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Count)
	require.NoError(t, svc.DeleteTranslation(ctx, tr.ID))
	err = svc.DeleteTranslation(ctx, tr.ID)
	assert.True(t, apierror.HasCode(err, "not_found"))

	_, err = svc.SendMessage(ctx, f.anna.ID, "Ihre Übersetzung ist fertig.")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteOrder(ctx, order.ID))
	_, err = svc.Order(ctx, order.ID)
	assert.True(t, apierror.HasCode(err, "not_found"))
}

func TestAdminService_Statistics(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	svc := NewAdminService(f.api, f.store)
	require.NoError(t, svc.Login(ctx, "office@example.com", "admin-pw"))

	for _, city := range []string{"Berlin", "Berlin", "Hamburg"} {
		_, err := f.api.CreateOrder(ctx, models.OrderForm{Name: "c", Email: "c@example.com", City: city})
		require.NoError(t, err)
	}
	f.backend.FailNext(http.MethodGet, "statistics/type-distribution", http.StatusInternalServerError, "")

	st, err := svc.Statistics(ctx)
	require.NoError(t, err)

	require.NotNil(t, st.Base)
	assert.Equal(t, 3, st.Base.TotalOrders)
	assert.Equal(t, []models.GeographyStat{{City: "Berlin", Count: 2}, {City: "Hamburg", Count: 1}}, st.Geography)
	require.Len(t, st.Status, 1)
	assert.Equal(t, 3, st.Status[0].Value)
	require.NotNil(t, st.Comparison)
	assert.Len(t, st.Comparison.Orders, 1)

	assert.Nil(t, st.Types)
	require.NotNil(t, st.TypesErr)
	assert.Equal(t, apierror.CodeServerError, st.TypesErr.Code)
	assert.Len(t, st.Errors(), 1)
	assert.Contains(t, st.Errors(), "types")
}

func TestAdminService_StatisticsStopsOnExpiredSession(t *testing.T) {
	f := setup(t)
	svc := NewAdminService(f.api, f.store)

	st, err := svc.Statistics(context.Background())
	require.Error(t, err)
	assert.True(t, apierror.IsUnauthorized(err))
	require.NotNil(t, st)
	assert.Nil(t, st.Base)
	assert.False(t, f.store.IsAuthenticated())
}

func TestAdminService_StatisticsCallerCancel(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	svc := NewAdminService(f.api, f.store)
	require.NoError(t, svc.Login(ctx, "office@example.com", "admin-pw"))

	canceled, cancel := context.WithCancel(ctx)
	cancel()

	st, err := svc.Statistics(canceled)
	assert.True(t, apierror.HasCode(err, apierror.CodeCanceled))
	require.NotNil(t, st)
	assert.Empty(t, st.Errors())
	assert.True(t, f.store.IsAuthenticated())
}
