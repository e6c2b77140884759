// Package server wires configuration, storage, services and the REST
// transport together and runs them until the process is signalled.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/auth"
	"github.com/dmitrijs2005/storefront/internal/server/config"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/storefront/internal/server/rest"
	"github.com/dmitrijs2005/storefront/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager *repomanager.SQLRepositoryManager
	services    rest.Services
}

// NewApp opens the store, applies pending migrations and builds the service
// graph. The caller owns the returned App and must call Close.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	tokens, err := auth.NewTokenIssuer(c.AccessTokenSecret, c.RefreshTokenSecret,
		c.AccessTokenValidityDuration, c.RefreshTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("token issuer: %w", err)
	}

	m, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := m.RunMigrations(ctx); err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	hasher := auth.NewPasswordHasher(c.BcryptCost)

	svc := rest.Services{
		Sessions: services.NewSessionService(m, hasher, tokens, logger),
		Users:    services.NewUserService(m, logger),
		Products: services.NewProductService(m, logger),
		Carts:    services.NewCartService(m, logger),
		Orders:   services.NewOrderService(m, logger),
	}

	return &App{config: c, logger: logger, repomanager: m, services: svc}, nil
}

func (app *App) Close() error {
	return app.repomanager.Close()
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startRESTServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := rest.NewRESTServer(rest.Options{
		Address: app.config.HTTPAddr,
		Cookies: rest.CookieConfig{
			MaxAge: app.config.CookieMaxAge,
			Secure: app.config.CookieSecure,
		},
		AllowedOrigins:  app.config.AllowedOrigins,
		ShutdownTimeout: app.config.ShutdownTimeout,
	}, app.logger, app.services)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until a termination signal arrives or the server fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startRESTServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.logger.Info(ctx, "App stopped")
}
