// Package cli implements the interactive storefront shell: a read-eval-print
// loop over the cart engine, the authentication machine, the catalog and the
// checkout orchestrator.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	_ "modernc.org/sqlite"

	"github.com/scentora/storefront/internal/api"
	"github.com/scentora/storefront/internal/auth"
	"github.com/scentora/storefront/internal/cart"
	"github.com/scentora/storefront/internal/catalog"
	"github.com/scentora/storefront/internal/checkout"
	"github.com/scentora/storefront/internal/config"
	"github.com/scentora/storefront/internal/logging"
	"github.com/scentora/storefront/internal/store"
)

type App struct {
	config   *config.Config
	db       *sql.DB
	client   api.Client
	cart     *cart.Engine
	machine  *auth.Machine
	checkout *checkout.Orchestrator
	catalog  *catalog.Service
	log      logging.Logger

	reader *bufio.Reader
	out    io.Writer
}

func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	db, err := store.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("opening local store: %w", err)
	}
	st := store.NewSQLiteStore(db)

	tokens := api.NewTokenProvider(cfg.APIBaseURL, cfg.ServiceEmail, cfg.ServicePassword, cfg.TokenTTL, st, log)
	client := api.NewHTTPClient(cfg.APIBaseURL, tokens, log)

	session := auth.LoadSession(ctx, st, cfg.TokenTTL)
	engine := cart.NewEngine(st, client, session, log)
	machine := auth.NewMachine(client, st, session, engine, log)
	orch := checkout.NewOrchestrator(client, engine, session, log)
	cat := catalog.NewService(client, log)

	return &App{
		config:   cfg,
		db:       db,
		client:   client,
		cart:     engine,
		machine:  machine,
		checkout: orch,
		catalog:  cat,
		log:      log,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}, nil
}

func (a *App) Close() error {
	if err := a.client.Close(); err != nil {
		return err
	}
	return a.db.Close()
}

func (a *App) isLoggedIn() bool {
	return a.machine.User() != nil
}

// status renders the prompt decoration: the signed-in user's name and the
// current cart line count.
func (a *App) status() string {
	s := "guest"
	if u := a.machine.User(); u != nil {
		s = u.Name
		if s == "" {
			s = u.Email
		}
	}
	if n := len(a.cart.Items()); n > 0 {
		s = fmt.Sprintf("%s, cart:%d", s, n)
	}
	return s
}

// Run loads the cart snapshot and enters the shell loop.
func (a *App) Run(ctx context.Context) {
	a.cart.Refresh(ctx)
	fmt.Fprintln(a.out, "Scentora storefront (type 'help' for commands)")
	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))
}
