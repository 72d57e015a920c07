// Package server wires the development backend: configuration, the
// in-memory store, administrator authentication and the REST endpoint.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/bankadmin/internal/logging"
	"github.com/dmitrijs2005/bankadmin/internal/server/config"
	"github.com/dmitrijs2005/bankadmin/internal/server/httpapi"
	"github.com/dmitrijs2005/bankadmin/internal/server/store"
	"github.com/dmitrijs2005/bankadmin/internal/server/users"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	store       *store.Store
	userService *users.Service
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	st := store.New()
	if c.Seed {
		if err := st.Seed(); err != nil {
			return nil, fmt.Errorf("seed store: %w", err)
		}
	}

	us := users.NewService(st, c)
	if _, err := us.EnsureAdmin(ctx, c.AdminEmail, c.AdminPassword); err != nil {
		return nil, fmt.Errorf("create administrator: %w", err)
	}

	return &App{config: c, logger: logger, store: st, userService: us}, nil
}

func (app *App) initSignalHandler(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
}

// Run serves until a termination signal arrives or ctx is cancelled.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := app.initSignalHandler(ctx)
	defer stop()

	app.logger.Info(ctx, "Starting app...", "admin", app.config.AdminEmail, "seed", app.config.Seed)

	srv := httpapi.NewServer(app.config.ListenAddr, app.logger, app.store, app.userService)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(ctx)
	})

	err := g.Wait()
	app.logger.Info(context.WithoutCancel(ctx), "App stopped")
	return err
}
