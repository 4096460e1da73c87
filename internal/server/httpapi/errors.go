package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/carescan/internal/common"
	"github.com/labstack/echo/v4"
)

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// mapError converts a service error into an echo.HTTPError. The Internal
// field, when set, is rendered as details.
func mapError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, common.ErrIdentityNotFound),
		errors.Is(err, common.ErrInvalidSecret):
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication failed")

	case errors.Is(err, common.ErrMissingCredentials):
		return echo.NewHTTPError(http.StatusBadRequest, "identifier and password are required")

	case errors.Is(err, common.ErrInvalidSignature),
		errors.Is(err, common.ErrSessionExpired),
		errors.Is(err, common.ErrMalformedSession):
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required").SetInternal(err)

	case errors.Is(err, common.ErrMissingMessage):
		return echo.NewHTTPError(http.StatusBadRequest, "message is required")

	case errors.Is(err, common.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request").SetInternal(err)

	case errors.Is(err, common.ErrAlreadyExists):
		return echo.NewHTTPError(http.StatusConflict, "identifier already registered")

	case errors.Is(err, common.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")

	case errors.Is(err, common.ErrInferenceUnavailable):
		return echo.NewHTTPError(http.StatusBadGateway, "failed to process consultation").SetInternal(err)

	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

// sessionError is used by the session middleware: a missing token is
// reported as such, everything else goes through mapError.
func sessionError(err error) *echo.HTTPError {
	if errors.Is(err, common.ErrMissingCredentials) {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return mapError(err)
}

func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if !errors.As(err, &he) {
		he = mapError(err)
		if he.Code >= http.StatusInternalServerError {
			s.logger.Error(c.Request().Context(), "request error", "error", err)
		}
	}

	resp := errorResponse{Error: fmt.Sprint(he.Message)}
	if he.Internal != nil && he.Code != http.StatusInternalServerError {
		resp.Details = he.Internal.Error()
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(he.Code)
	} else {
		err = c.JSON(he.Code, resp)
	}
	if err != nil {
		s.logger.Error(c.Request().Context(), "error response failed", "error", err)
	}
}
