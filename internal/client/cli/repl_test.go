package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/apierror"
	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/session"
	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool
	cmds     map[string]command
	calls    []string
}

func newFakeExec() *fakeExec {
	f := &fakeExec{cmds: map[string]command{}}
	add := func(name string, acc access, err error) {
		f.cmds[name] = command{name: name, access: acc, run: func(_ context.Context, args []string) error {
			f.calls = append(f.calls, strings.TrimSpace(name+" "+strings.Join(args, " ")))
			return err
		}}
	}
	add("orders", signedIn, nil)
	add("login", signedOut, nil)
	add("reviews", anyone, nil)
	add("broken", anyone, errors.New("boom"))
	f.cmds["stats"] = command{name: "stats", access: signedIn, staff: true}
	return f
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }

func (f *fakeExec) lookup(name string) (command, bool) {
	c, ok := f.cmds[name]
	return c, ok
}

func (f *fakeExec) available(loggedIn bool) []command {
	var out []command
	for _, name := range []string{"login", "orders", "reviews", "stats"} {
		c := f.cmds[name]
		if (c.access == signedIn && !loggedIn) || (c.access == signedOut && loggedIn) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// capture redirects printlnFn for the duration of the test.
func capture(t *testing.T) *strings.Builder {
	t.Helper()
	var sb strings.Builder
	old := printlnFn
	printlnFn = func(a ...any) (int, error) { return fmt.Fprintln(&sb, a...) }
	t.Cleanup(func() { printlnFn = old })
	return &sb
}

func run(f *fakeExec, input string) {
	runREPL(context.Background(), f, func() string { return "" }, bufio.NewReader(strings.NewReader(input)))
}

func TestREPL_DispatchesWithArgs(t *testing.T) {
	out := capture(t)
	f := newFakeExec()

	run(f, "reviews en\n\n   \nreviews\nexit\nreviews never\n")

	assert.Equal(t, []string{"reviews en", "reviews"}, f.calls)
	assert.Contains(t, out.String(), "Bye!")
}

func TestREPL_AccessChecks(t *testing.T) {
	out := capture(t)
	f := newFakeExec()

	run(f, "orders\n")
	assert.Empty(t, f.calls)
	assert.Contains(t, out.String(), "Please log in first.")

	f.loggedIn = true
	run(f, "login\norders\n")
	assert.Equal(t, []string{"orders"}, f.calls)
	assert.Contains(t, out.String(), "already logged in")
}

func TestREPL_UnknownAndErrors(t *testing.T) {
	out := capture(t)
	f := newFakeExec()

	run(f, "dance\nbroken\nreviews\n")

	assert.Contains(t, out.String(), "Unknown command: dance")
	assert.Contains(t, out.String(), "Error: boom")
	assert.Equal(t, []string{"broken", "reviews"}, f.calls, "an error must not end the loop")
}

func TestREPL_LastLineWithoutNewline(t *testing.T) {
	capture(t)
	f := newFakeExec()

	run(f, "reviews de")

	assert.Equal(t, []string{"reviews de"}, f.calls)
}

func TestREPL_HelpDependsOnSession(t *testing.T) {
	out := capture(t)
	f := newFakeExec()

	run(f, "help\n")
	assert.Contains(t, out.String(), "login")
	assert.NotContains(t, out.String(), "orders")
	assert.NotContains(t, out.String(), "Staff commands")

	out.Reset()
	f.loggedIn = true
	run(f, "help\n")
	assert.Contains(t, out.String(), "orders")
	assert.Contains(t, out.String(), "Staff commands: stats")
	assert.NotContains(t, out.String(), "login")
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"plain", errors.New("boom"), "Error: boom"},
		{"refresh token missing", session.ErrRefreshTokenNotFound, "Your session has expired. Please log in again."},
		{"bad credentials", &apierror.Response{Status: 401, Code: apierror.CodeAuthenticationFailed, Message: "x"}, "Wrong e-mail or password."},
		{"expired", &apierror.Response{Status: 401, Code: "token_not_valid", Message: "Token is invalid"}, "Your session has expired. Please log in again."},
		{"network", &apierror.Response{Code: apierror.CodeNetworkError, Message: "x"}, "Cannot reach the server. Check your connection and try again."},
		{"staff only", &apierror.Response{Status: 403, Code: "permission_denied", Message: "x"}, "This command needs a staff account."},
		{"server message", &apierror.Response{Status: 500, Code: apierror.CodeServerError, Message: "Internal server error"}, "Error: Internal server error"},
		{
			"field errors",
			&apierror.Response{Status: 400, Code: apierror.CodeValidationError, Message: "Validation error",
				Errors: apierror.FieldErrors{"zip": []any{"Too long."}}},
			"Error: Validation error\n  zip: Too long.",
		},
		{"wrapped", fmt.Errorf("load: %w", &apierror.Response{Code: apierror.CodeEmailExists}), "An account with this e-mail already exists."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describe(tt.err))
		})
	}
}
