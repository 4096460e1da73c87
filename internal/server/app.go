// Package server wires configuration, storage, the inference client and the
// HTTP API into a runnable application and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/carescan/internal/logging"
	"github.com/dmitrijs2005/carescan/internal/server/auth"
	"github.com/dmitrijs2005/carescan/internal/server/config"
	"github.com/dmitrijs2005/carescan/internal/server/httpapi"
	"github.com/dmitrijs2005/carescan/internal/server/inference"
	"github.com/dmitrijs2005/carescan/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/carescan/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	http   *httpapi.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, !c.IsProduction())

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	secret, fallback := c.ResolveSecret()
	if fallback {
		logger.Warn(ctx, "SESSION_SECRET is not set; signing sessions with the insecure development secret")
	}

	db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	completer, err := newCompleter(ctx, c, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	srv := httpapi.NewServer(c.EndpointAddrHTTP, logger, httpapi.Deps{
		Authenticator: services.NewAuthenticator(db, rm, logger),
		Sessions:      auth.NewIssuer(secret, c.SessionTTL),
		Assembler:     services.NewAssembler(db, rm, logger),
		Consultant:    services.NewConsultant(completer, c.InferenceTimeout, logger),
		Records:       services.NewRecordService(db, rm, logger),
	})

	return &App{config: c, logger: logger, db: db, http: srv}, nil
}

// newCompleter returns the Gemini client, or outside production without a
// key a completer that reports the service as unavailable.
func newCompleter(ctx context.Context, c *config.Config, l logging.Logger) (inference.Completer, error) {
	if c.GeminiAPIKey == "" {
		l.Warn(ctx, "GEMINI_API_KEY is not set; consultations will fail")
		return inference.Unconfigured{}, nil
	}
	g, err := inference.NewGeminiCompleter(ctx, c.GeminiAPIKey, c.GeminiModel)
	if err != nil {
		return nil, fmt.Errorf("inference init error: %w", err)
	}
	return g, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.http.Run(ctx); err != nil {
		app.logger.Error(ctx, "http server error", "error", err)
		cancelFunc()
	}
}

// Run serves until a termination signal arrives or ctx is cancelled.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "environment", app.config.Environment)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
