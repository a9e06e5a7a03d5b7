package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/ledgerline/backoffice/internal/backoffice/http"
	"github.com/ledgerline/backoffice/internal/backoffice/service"
	"github.com/ledgerline/backoffice/internal/backoffice/store"
	"github.com/ledgerline/backoffice/internal/backoffice/store/drivers/sqlite"
	"github.com/ledgerline/backoffice/pkg/cryptox"
	"github.com/ledgerline/backoffice/pkg/jwtx"
	"github.com/ledgerline/backoffice/pkg/slogx"
)

// BuildVersion should be set at build time via ldflags.
const BuildVersion = "v0.1.0"

// Application encapsulates the identity service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db store.Store

	authService         *service.AuthService
	tokenService        *service.TokenService
	mfaService          *service.MFAService
	tenantService       *service.TenantService
	registrationService *service.RegistrationService
	inviteService       *service.InviteService
	bootstrapService    *service.BootstrapService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "backoffice",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("backoffice identity service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Handler returns the composed HTTP handler. End-to-end tests serve it
// directly instead of binding the configured port.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down backoffice identity service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("backoffice identity service stopped")
	return nil
}

func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initServices() {
	app.tokenService = &service.TokenService{
		Store:         app.db,
		AccessSigner:  jwtx.NewHS256([]byte(app.cfg.AccessSecret), app.cfg.Issuer, jwtx.KindAccess),
		RefreshSigner: jwtx.NewHS256([]byte(app.cfg.RefreshSecret), app.cfg.Issuer, jwtx.KindRefresh),
		Issuer:        app.cfg.Issuer,
		AccessTTL:     app.cfg.AccessTTL,
		RefreshTTL:    app.cfg.RefreshTTL,
	}

	app.authService = &service.AuthService{
		Store:  app.db,
		Tokens: app.tokenService,
	}
	app.mfaService = &service.MFAService{
		Store:  app.db,
		Issuer: app.cfg.Issuer,
	}
	app.tenantService = &service.TenantService{Store: app.db}
	app.registrationService = &service.RegistrationService{Store: app.db}
	app.inviteService = &service.InviteService{Store: app.db}
	app.bootstrapService = &service.BootstrapService{
		Store: app.db,
		Token: app.cfg.BootstrapToken,
	}
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.tokenService.AccessSigner,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.AuthService = app.authService
	router.TokenService = app.tokenService
	router.MFAService = app.mfaService
	router.TenantService = app.tenantService
	router.RegistrationService = app.registrationService
	router.InviteService = app.inviteService
	router.BootstrapService = app.bootstrapService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
