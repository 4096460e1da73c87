// Package httpapi exposes the consultation backend over HTTP with Echo.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/carescan/internal/logging"
	"github.com/dmitrijs2005/carescan/internal/server/models"
	"github.com/dmitrijs2005/carescan/internal/server/services"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const shutdownTimeout = 10 * time.Second

type Authenticator interface {
	Authenticate(ctx context.Context, identifier, secret string) (models.Principal, error)
	Register(ctx context.Context, in services.RegisterInput) (models.Principal, error)
	UpdateProfile(ctx context.Context, identityID string, in services.ProfileInput) error
}

type Sessions interface {
	Issue(p models.Principal) (string, time.Time, error)
	Verify(token string) (models.Principal, error)
}

type Assembler interface {
	Assemble(ctx context.Context, identityID string) models.PersonalizationBlock
}

type Consultant interface {
	Consult(ctx context.Context, message string, history []models.Turn, block models.PersonalizationBlock) (string, error)
}

type Records interface {
	History(ctx context.Context, userID string) ([]*models.MedicationRecord, error)
	Ingest(ctx context.Context, userID string, medicines []models.Medicine) (*models.MedicationRecord, error)
}

// Deps are the collaborators behind the HTTP handlers.
type Deps struct {
	Authenticator Authenticator
	Sessions      Sessions
	Assembler     Assembler
	Consultant    Consultant
	Records       Records
}

type Server struct {
	address string
	echo    *echo.Echo
	logger  logging.Logger

	authn      Authenticator
	sessions   Sessions
	assembler  Assembler
	consultant Consultant
	records    Records
}

func NewServer(address string, l logging.Logger, d Deps) *Server {
	s := &Server{
		address:    address,
		logger:     l.With("module", "http_server"),
		authn:      d.Authenticator,
		sessions:   d.Sessions,
		assembler:  d.Assembler,
		consultant: d.Consultant,
		records:    d.Records,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newRequestValidator()
	e.HTTPErrorHandler = s.httpErrorHandler

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/health"
		},
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			rctx := c.Request().Context()
			if v.Error == nil {
				s.logger.Info(rctx, "request completed",
					"method", v.Method, "uri", v.URI, "status", v.Status,
					"latency_ms", v.Latency.Milliseconds())
			} else {
				s.logger.Warn(rctx, "request failed",
					"method", v.Method, "uri", v.URI, "status", v.Status,
					"latency_ms", v.Latency.Milliseconds(), "error", v.Error.Error())
			}
			return nil
		},
	}))
	e.Use(middleware.Recover())

	e.GET("/health", s.health)
	e.POST("/register", s.register)
	e.POST("/login", s.login)
	e.POST("/consult", s.consult, s.optionalSession)

	e.PUT("/profile", s.updateProfile, s.requireSession)
	e.GET("/history", s.history, s.requireSession)
	e.POST("/records", s.ingestRecord, s.requireSession)

	s.echo = e
	return s
}

// Handler returns the routed Echo instance.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		if err := s.echo.Start(s.address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
