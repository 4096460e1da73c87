package httpapi

import (
	"strings"

	"github.com/dmitrijs2005/carescan/internal/common"
	"github.com/dmitrijs2005/carescan/internal/server/models"
	"github.com/labstack/echo/v4"
)

const principalKey = "principal"

// sessionToken reads the token from "Authorization: Bearer" or, failing
// that, from the session header.
func sessionToken(c echo.Context) string {
	h := c.Request().Header
	if v := h.Get(echo.HeaderAuthorization); strings.HasPrefix(v, common.BearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(v, common.BearerPrefix))
	}
	return strings.TrimSpace(h.Get(common.SessionHeaderName))
}

// authenticate verifies the request's session and, on success, stores the
// principal and returns a refreshed token in the response header.
func (s *Server) authenticate(c echo.Context) error {
	token := sessionToken(c)
	if token == "" {
		return common.ErrMissingCredentials
	}

	p, err := s.sessions.Verify(token)
	if err != nil {
		return err
	}
	c.Set(principalKey, p)

	if fresh, _, err := s.sessions.Issue(p); err == nil {
		c.Response().Header().Set(common.SessionHeaderName, fresh)
	} else {
		s.logger.Warn(c.Request().Context(), "session refresh failed", "user_id", p.ID, "error", err)
	}
	return nil
}

func (s *Server) requireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := s.authenticate(c); err != nil {
			return sessionError(err)
		}
		return next(c)
	}
}

// optionalSession treats an absent or invalid session as anonymous.
func (s *Server) optionalSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := s.authenticate(c); err != nil && sessionToken(c) != "" {
			s.logger.Debug(c.Request().Context(), "ignoring invalid session", "error", err)
		}
		return next(c)
	}
}

func principalFrom(c echo.Context) (models.Principal, bool) {
	p, ok := c.Get(principalKey).(models.Principal)
	return p, ok
}
