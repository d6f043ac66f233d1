package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/client"
	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/config"
	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/cookies"
	cookierepo "github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/repositories/cookies"
	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/session"
	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/fakeapi"
	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	backend *fakeapi.Server
	api     *client.HTTPClient
	jar     *cookies.Jar
	store   *session.Store
	office  *fakeapi.User
	anna    *fakeapi.User
	out     *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	backend := fakeapi.New()
	office := backend.AddUser("office@example.com", "office-pw", "Office", "Rosenblum", true)
	anna := backend.AddUser("anna@example.com", "anna-pw", "Anna", "Schmidt", false)
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	jar := cookies.NewJar(cookierepo.NewMemoryRepository())
	api, err := client.New(srv.URL, jar)
	require.NoError(t, err)

	h := &harness{
		backend: backend,
		api:     api,
		jar:     jar,
		store:   session.New(api, jar),
		office:  office,
		anna:    anna,
		out:     &bytes.Buffer{},
	}

	old := printlnFn
	printlnFn = func(a ...any) (int, error) { return fmt.Fprintln(h.out, a...) }
	t.Cleanup(func() { printlnFn = old })
	return h
}

// passwords feeds the given answers to every password prompt in order.
func passwords(t *testing.T, pws ...string) {
	t.Helper()
	old := readPassword
	readPassword = func(int) ([]byte, error) {
		if len(pws) == 0 {
			return nil, fmt.Errorf("unexpected password prompt")
		}
		pw := pws[0]
		pws = pws[1:]
		return []byte(pw), nil
	}
	t.Cleanup(func() { readPassword = old })
}

// run drives a fresh App through Root with the given script.
func (h *harness) run(t *testing.T, script ...string) string {
	t.Helper()
	cfg := &config.Config{AgencyUserID: h.office.ID, RefreshInterval: time.Hour}
	a := newApp(cfg, logging.Nop(), h.api, h.store, strings.NewReader(strings.Join(script, "\n")+"\n"), h.out)
	a.Root(context.Background())
	return h.out.String()
}

func TestApp_CustomerSession(t *testing.T) {
	h := newHarness(t)
	passwords(t, "anna-pw")

	out := h.run(t,
		"login", "anna@example.com",
		"new-order", "+49 30 1234", "Berlin", "Main 1", "10115", "Please translate my diploma.", "",
		"orders",
		"logout",
		"orders",
		"exit",
	)

	assert.Contains(t, out, "Logged in as Anna Schmidt.")
	assert.Contains(t, out, "rosenblum (anna@example.com)> ")
	assert.Contains(t, out, "Order #3 created.")
	assert.Contains(t, out, "consultation")
	assert.Contains(t, out, "Logged out.")
	assert.Contains(t, out, "Please log in first.")
	assert.False(t, h.store.IsAuthenticated())
}

func TestApp_WrongPassword(t *testing.T) {
	h := newHarness(t)
	passwords(t, "nope")

	out := h.run(t, "login", "anna@example.com")

	assert.Contains(t, out, "Wrong e-mail or password.")
	assert.False(t, h.store.IsAuthenticated())
}

func TestApp_RegisterVerifyLogin(t *testing.T) {
	h := newHarness(t)
	passwords(t, "new-password", "new-password")

	out := h.run(t,
		"register", "max@example.com", "Max", "Muster",
		"verify max@example.com", "000000",
		"verify", "max@example.com", "123456",
		"login", "max@example.com",
	)

	assert.Contains(t, out, "A verification code was sent to max@example.com")
	assert.Contains(t, out, "Wrong code, 2 attempt(s) left.")
	assert.Contains(t, out, "E-mail verified.")
	assert.Contains(t, out, "Logged in as Max Muster.")
}

func TestApp_RegisterTakenEmail(t *testing.T) {
	h := newHarness(t)
	passwords(t, "whatever-pw")

	out := h.run(t, "register", "anna@example.com", "Anna", "Schmidt")

	assert.Contains(t, out, "An account with this e-mail already exists.")
}

func TestApp_EditProfile(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.store.LoginUser(context.Background(), "anna@example.com", "anna-pw"))

	out := h.run(t,
		"edit-profile", "zip=12345678901", "",
		"edit-profile", "city=Munich", "zip=80331", "",
		"profile",
	)

	assert.Contains(t, out, "Welcome back, Anna Schmidt!")
	assert.Contains(t, out, "Ensure this field has no more than 10 characters.")
	assert.Contains(t, out, "Profile updated.")
	assert.Contains(t, out, "80331 Munich")
}

func TestApp_Messages(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.store.LoginUser(context.Background(), "anna@example.com", "anna-pw"))

	doc := filepath.Join(t.TempDir(), "passport.pdf")
	require.NoError(t, os.WriteFile(doc, []byte("%PDF"), 0o600))

	out := h.run(t,
		"send", "",
		"send "+doc, "Here is my passport.", "",
		"messages",
		"read",
	)

	assert.Contains(t, out, "Error: message is empty")
	assert.Contains(t, out, "Message #3 sent.")
	assert.Contains(t, out, "[1 file(s)]")
	assert.Contains(t, out, "0 message(s) marked as read.")
}

func TestApp_StaffCommandsNeedStaff(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.store.LoginUser(context.Background(), "anna@example.com", "anna-pw"))

	out := h.run(t, "customers")

	assert.Contains(t, out, "This command needs a staff account.")
	assert.True(t, h.store.IsAuthenticated(), "403 must not end the session")
}

func TestApp_AdminSession(t *testing.T) {
	h := newHarness(t)
	passwords(t, "office-pw")

	out := h.run(t,
		"contact", "Max", "max@example.com", "", "Do you translate Polish?", "",
		"admin-login", "office@example.com",
		"requests",
		"answer 3", "Yes, we do.", "",
		"answers 3",
		"customers anna",
		"add-translation", "Diploma", "Zeugnis", "", "Diploma", "",
		"translations",
		"delete-translation 5",
		"delete-translation 5",
		"stats",
	)

	assert.Contains(t, out, "Thank you!")
	assert.Contains(t, out, "Logged in as Office Rosenblum.")
	assert.Contains(t, out, "Do you translate Polish?")
	assert.Contains(t, out, "Answer #4 sent.")
	assert.Contains(t, out, "Yes, we do.")
	assert.Contains(t, out, "anna@example.com")
	assert.Contains(t, out, "Translation #5 saved.")
	assert.Contains(t, out, "Translation #5 deleted.")
	assert.Contains(t, out, "Orders: 0 total, 0 new")
}

func TestApp_AdminOrders(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.store.LoginUser(ctx, "anna@example.com", "anna-pw"))
	h.run(t, "new-order", "", "", "", "", "Certificate", "", "logout")

	h.out.Reset()
	passwords(t, "office-pw")
	out := h.run(t,
		"admin-login", "office@example.com",
		"admin-orders",
		"admin-order 3",
		fmt.Sprintf("customer-orders %d", h.anna.ID),
		"set-status 3 completed",
		"set-status 3 lost",
		"delete-order 3",
		"admin-order 3",
	)

	assert.Contains(t, out, "1 total, 1 new")
	assert.Contains(t, out, "Certificate")
	assert.Contains(t, out, "Order #3 is now completed.")
	assert.Contains(t, out, "Order #3 deleted.")
	assert.Equal(t, 1, h.backend.Hits("POST", "/orders/3/toggle/"))
}

func TestApp_ArgumentErrors(t *testing.T) {
	h := newHarness(t)
	passwords(t, "office-pw")

	out := h.run(t, "admin-login", "office@example.com", "admin-order", "admin-order x")

	assert.Contains(t, out, "Error: missing order id")
	assert.Contains(t, out, `Error: invalid order id "x"`)
}

func TestListParams(t *testing.T) {
	assert.Equal(t, "anna schmidt", listParams([]string{"anna", "schmidt"}).Search)
	p := listParams([]string{"berlin", "3"})
	assert.Equal(t, "berlin", p.Search)
	assert.Equal(t, 3, p.Page)
}
