package cli

import (
	"context"
)

// Root restores the persisted session, starts the background token refresh
// and runs the REPL until the user exits.
func (a *App) Root(ctx context.Context) {
	a.log.Info(ctx, "client started", "api", a.api.BaseURL())
	a.println("Rosenblum client (type 'help' for commands)")

	if err := a.store.InitAuth(ctx); err != nil {
		a.println(describe(err))
	}
	if u := a.store.User(); u != nil {
		a.printf("Welcome back, %s!\n", displayName(u.FullName(), u.Email))
	}

	keepCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.store.KeepAlive(keepCtx, a.config.RefreshInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func displayName(name, email string) string {
	if name != "" {
		return name
	}
	return email
}
