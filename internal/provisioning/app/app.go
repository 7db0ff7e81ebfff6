package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	httpapi "github.com/crewdeskhq/crewdesk/internal/provisioning/http"
	"github.com/crewdeskhq/crewdesk/internal/provisioning/notify"
	"github.com/crewdeskhq/crewdesk/internal/provisioning/service"
	"github.com/crewdeskhq/crewdesk/internal/provisioning/store"
	"github.com/crewdeskhq/crewdesk/internal/provisioning/store/drivers/sqlite"
	"github.com/crewdeskhq/crewdesk/pkg/cryptox"
	"github.com/crewdeskhq/crewdesk/pkg/jwtx"
	"github.com/crewdeskhq/crewdesk/pkg/slogx"
)

// BuildVersion should be set at build time via ldflags.
const BuildVersion = "v0.1.0"

// Application wires the provisioning service together: store, services,
// router and the HTTP server lifecycle.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	signer   jwtx.Signer
	verifier jwtx.Verifier

	quotaService        *service.QuotaService
	invitationService   *service.InvitationService
	adminRequestService *service.AdminRequestService
	bootstrapService    *service.BootstrapService
	businessService     *service.BusinessService
	userService         *service.UserService
	authService         *service.AuthService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "provisioning",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	// Session keys are ephemeral: sessions do not survive a restart and
	// logout is a client-side discard.
	signer, verifier, err := jwtx.NewEphemeralKeyPair(cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session keys: %w", err)
	}
	app.signer = signer
	app.verifier = verifier

	app.initServices()
	app.initHTTP()

	return app, nil
}

func (app *Application) initDatabase() error {
	dsn := filepath.Clean(app.cfg.DatabaseFile) +
		"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"

	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	app.db = db
	return nil
}

func (app *Application) initServices() {
	dispatcher := notify.LogDispatcher{}

	app.quotaService = &service.QuotaService{
		Store:              app.db,
		GlobalAdminCeiling: app.cfg.GlobalAdminCeiling,
	}
	app.invitationService = &service.InvitationService{
		Store:  app.db,
		Quota:  app.quotaService,
		Notify: dispatcher,
		Window: app.cfg.InvitationWindow,
	}
	app.adminRequestService = &service.AdminRequestService{
		Store:  app.db,
		Quota:  app.quotaService,
		Notify: dispatcher,
	}
	app.bootstrapService = &service.BootstrapService{Store: app.db}
	app.businessService = &service.BusinessService{
		Store:             app.db,
		DefaultMaxAdmins:  app.cfg.DefaultMaxAdmins,
		DefaultMaxMembers: app.cfg.DefaultMaxMembers,
	}
	app.userService = &service.UserService{
		Store: app.db,
		Quota: app.quotaService,
	}
	app.authService = &service.AuthService{
		Store:       app.db,
		Invitations: app.invitationService,
		Bootstrap:   app.bootstrapService,
		Quota:       app.quotaService,
		Signer:      app.signer,
		Issuer:      app.cfg.Issuer,
		SessionTTL:  app.cfg.SessionTTL,
	}
	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.RetentionPeriod,
	)
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(app.verifier, BuildVersion, app.db, app.logger)
	router.AuthService = app.authService
	router.QuotaService = app.quotaService
	router.InvitationService = app.invitationService
	router.AdminRequestService = app.adminRequestService
	router.BusinessService = app.businessService
	router.UserService = app.userService
	router.ApplyRoutes()

	app.router = router
	app.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.cfg.Port),
		Handler: router,
	}
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("provisioning service starting", "port", app.cfg.Port, "version", BuildVersion)

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

// Shutdown drains in-flight requests, stops the housekeeping worker and
// closes the database.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down provisioning service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("provisioning service stopped")
	return nil
}
