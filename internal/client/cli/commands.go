package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/models"
	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/common"
)

func (a *App) registerCommands() map[string]command {
	list := []command{
		// account
		{name: "register", access: signedOut, run: a.register},
		{name: "verify", usage: "[email]", run: a.verifyEmail},
		{name: "resend-code", usage: "[email]", run: a.resendCode},
		{name: "login", access: signedOut, run: a.login},
		{name: "google", usage: "<token>", access: signedOut, run: a.googleLogin},
		{name: "logout", access: signedIn, run: a.logout},
		{name: "profile", access: signedIn, run: a.profile},
		{name: "edit-profile", access: signedIn, run: a.editProfile},
		{name: "reset-link", usage: "[email]", run: a.resetLink},
		{name: "reset-password", usage: "<uid> <token>", run: a.resetPassword},
		{name: "refresh", access: signedIn, run: a.refresh},

		// customer
		{name: "orders", access: signedIn, run: a.listOrders},
		{name: "new-order", usage: "[file...]", run: a.newOrder},
		{name: "messages", access: signedIn, run: a.listMessages},
		{name: "send", usage: "[file...]", access: signedIn, run: a.sendMessage},
		{name: "read", access: signedIn, run: a.markRead},
		{name: "contact", run: a.contactUs},
		{name: "reviews", usage: "[locale]", run: a.listReviews},

		// staff
		{name: "admin-login", access: signedOut, staff: true, run: a.adminLogin},
		{name: "admin-orders", usage: "[search] [page]", access: signedIn, staff: true, run: a.adminOrders},
		{name: "admin-order", usage: "<id>", access: signedIn, staff: true, run: a.adminOrder},
		{name: "set-status", usage: "<id> <status>", access: signedIn, staff: true, run: a.setStatus},
		{name: "delete-order", usage: "<id>", access: signedIn, staff: true, run: a.deleteOrder},
		{name: "customer-orders", usage: "<user-id>", access: signedIn, staff: true, run: a.customerOrders},
		{name: "customers", usage: "[search] [page]", access: signedIn, staff: true, run: a.customers},
		{name: "requests", usage: "[search] [page]", access: signedIn, staff: true, run: a.requests},
		{name: "answers", usage: "<request-id>", access: signedIn, staff: true, run: a.answers},
		{name: "answer", usage: "<request-id>", access: signedIn, staff: true, run: a.answer},
		{name: "translations", usage: "[search] [page]", access: signedIn, staff: true, run: a.translations},
		{name: "add-translation", access: signedIn, staff: true, run: a.addTranslation},
		{name: "delete-translation", usage: "<id>", access: signedIn, staff: true, run: a.deleteTranslation},
		{name: "reply", usage: "<user-id> [file...]", access: signedIn, staff: true, run: a.reply},
		{name: "stats", access: signedIn, staff: true, run: a.stats},
	}

	m := make(map[string]command, len(list))
	for _, c := range list {
		m[c.name] = c
	}
	return m
}

func (a *App) lookup(name string) (command, bool) {
	c, ok := a.commands[name]
	return c, ok
}

// available lists the commands usable in the current session state,
// sorted by name.
func (a *App) available(loggedIn bool) []command {
	var out []command
	for _, c := range a.commands {
		if (c.access == signedIn && !loggedIn) || (c.access == signedOut && loggedIn) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

func (a *App) ask(prompt string) (string, error) {
	return GetSimpleText(a.reader, prompt, a.out)
}

// askPassword reads a password and hands it to fn. The buffer is wiped once
// fn returns.
func (a *App) askPassword(prompt string, fn func(pw string) error) error {
	pw, err := GetPassword(prompt, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)
	return fn(string(pw))
}

// argOrAsk returns args[i] when present and prompts otherwise.
func (a *App) argOrAsk(args []string, i int, prompt string) (string, error) {
	if i < len(args) {
		return args[i], nil
	}
	return a.ask(prompt)
}

// openUploads opens every path and returns a func that closes them all.
func openUploads(paths []string) ([]*models.Upload, func(), error) {
	var (
		uploads []*models.Upload
		closers []io.Closer
	)
	closeAll := func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}
	for _, p := range paths {
		u, c, err := models.OpenUpload(p)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		uploads = append(uploads, u)
		closers = append(closers, c)
	}
	return uploads, closeAll, nil
}

func parseID(args []string, i int, what string) (int64, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("missing %s", what)
	}
	id, err := strconv.ParseInt(args[i], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", what, args[i])
	}
	return id, nil
}

// listParams reads optional "[search] [page]" arguments. A lone number is
// taken as the page.
func listParams(args []string) models.ListParams {
	var p models.ListParams
	var words []string
	for _, arg := range args {
		if n, err := strconv.Atoi(arg); err == nil && n > 0 {
			p.Page = n
			continue
		}
		words = append(words, arg)
	}
	p.Search = strings.Join(words, " ")
	return p
}

func (a *App) table(header string, rows func(w io.Writer)) {
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, header)
	rows(w)
	_ = w.Flush()
}

func pageFooter[T any](a *App, p *models.Page[T]) {
	footer := fmt.Sprintf("%d total", p.Count)
	if p.NewCount > 0 {
		footer += fmt.Sprintf(", %d new", p.NewCount)
	}
	if p.HasNext() {
		footer += ", more on the next page"
	}
	a.println(footer)
}

func newMark(isNew bool) string {
	if isNew {
		return "*"
	}
	return ""
}
