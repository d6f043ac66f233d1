package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/apierror"
	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/client"
	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/config"
	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/cookies"
	cookierepo "github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/repositories/cookies"
	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/services"
	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/session"
	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/cryptox"
	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/logging"
)

type App struct {
	config *config.Config
	log    logging.Logger
	db     *sql.DB

	api   *client.HTTPClient
	store *session.Store

	orders   services.OrderService
	messages services.MessageService
	contact  services.ContactService
	reviews  services.ReviewService
	verify   services.VerificationService
	admin    services.AdminService

	reader   *bufio.Reader
	out      io.Writer
	commands map[string]command
}

// NewApp wires the cookie store, backend client, session and services
// described by c.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	apierror.SetLogger(log)

	var (
		repo cookierepo.Repository
		db   *sql.DB
	)
	if c.CookieDB == "" || c.CookieDB == config.InMemoryCookieDB {
		repo = cookierepo.NewMemoryRepository()
	} else {
		var err error
		db, err = client.InitDatabase(ctx, c.CookieDB)
		if err != nil {
			log.Error(ctx, "error initializing cookie database", "path", c.CookieDB, "error", err)
			return nil, err
		}
		repo = cookierepo.NewSQLiteRepository(db)
	}

	jarOpts := []cookies.Option{cookies.WithLogger(log)}
	if c.Passphrase != "" {
		jarOpts = append(jarOpts, cookies.WithSealer(cryptox.NewSealer([]byte(c.Passphrase))))
	}
	jar := cookies.NewJar(repo, jarOpts...)
	if _, err := jar.Purge(ctx); err != nil {
		log.Warn(ctx, "could not purge expired cookies", "error", err)
	}

	api, err := client.New(c.APIURL, jar, client.WithLogger(log), client.WithTimeout(c.RequestTimeout))
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, err
	}

	a := newApp(c, log, api, session.New(api, jar, session.WithLogger(log)), os.Stdin, os.Stdout)
	a.db = db
	return a, nil
}

func newApp(c *config.Config, log logging.Logger, api *client.HTTPClient, store *session.Store, in io.Reader, out io.Writer) *App {
	a := &App{
		config:   c,
		log:      log,
		api:      api,
		store:    store,
		orders:   services.NewOrderService(api),
		messages: services.NewMessageService(api, c.AgencyUserID),
		contact:  services.NewContactService(api),
		reviews:  services.NewReviewService(api),
		verify:   services.NewVerificationService(api),
		admin:    services.NewAdminService(api, store),
		reader:   bufio.NewReader(in),
		out:      out,
	}
	a.commands = a.registerCommands()
	return a
}

// Run blocks in the REPL until the user exits, then releases resources.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) isLoggedIn() bool {
	return a.store.IsAuthenticated()
}

func (a *App) getStatus() string {
	u := a.store.User()
	if u == nil {
		return ""
	}
	return fmt.Sprintf("(%s)", u.Email)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
