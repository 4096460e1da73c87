package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/carescan/internal/server/models"
	"github.com/dmitrijs2005/carescan/internal/server/services"
	"github.com/labstack/echo/v4"
)

type registerRequest struct {
	UserName       string `json:"username" validate:"required,max=64"`
	Email          string `json:"email" validate:"omitempty,email,max=254"`
	PhoneNumber    string `json:"phone_number" validate:"omitempty,e164"`
	Password       string `json:"password" validate:"required,max=72"`
	Age            *int   `json:"age" validate:"omitempty,gte=0,lte=150"`
	MedicalHistory string `json:"medical_history" validate:"max=4000"`
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type sessionResponse struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	User      models.Principal `json:"user"`
}

type consultRequest struct {
	Message string        `json:"message"`
	History []models.Turn `json:"history"`
}

type consultResponse struct {
	Reply string `json:"reply"`
}

type profileRequest struct {
	Age            *int   `json:"age" validate:"omitempty,gte=0,lte=150"`
	MedicalHistory string `json:"medical_history" validate:"max=4000"`
}

type recordRequest struct {
	Medicines []models.Medicine `json:"medicines" validate:"required,min=1"`
}

type historyResponse struct {
	History []*models.MedicationRecord `json:"history"`
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	p, err := s.authn.Register(c.Request().Context(), services.RegisterInput{
		UserName:       req.UserName,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		Password:       req.Password,
		Age:            req.Age,
		MedicalHistory: req.MedicalHistory,
	})
	if err != nil {
		return err
	}

	return s.writeSession(c, http.StatusCreated, p)
}

func (s *Server) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	p, err := s.authn.Authenticate(c.Request().Context(), req.Identifier, req.Password)
	if err != nil {
		s.logger.Info(c.Request().Context(), "login rejected", "reason", err.Error())
		return err
	}

	return s.writeSession(c, http.StatusOK, p)
}

func (s *Server) writeSession(c echo.Context, status int, p models.Principal) error {
	token, expiresAt, err := s.sessions.Issue(p)
	if err != nil {
		return err
	}
	return c.JSON(status, sessionResponse{Token: token, ExpiresAt: expiresAt, User: p})
}

func (s *Server) consult(c echo.Context) error {
	var req consultRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()

	var block models.PersonalizationBlock
	if p, ok := principalFrom(c); ok {
		block = s.assembler.Assemble(ctx, p.ID)
	}

	reply, err := s.consultant.Consult(ctx, req.Message, req.History, block)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, consultResponse{Reply: reply})
}

func (s *Server) updateProfile(c echo.Context) error {
	p, _ := principalFrom(c)

	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := s.authn.UpdateProfile(c.Request().Context(), p.ID, services.ProfileInput{
		Age:            req.Age,
		MedicalHistory: req.MedicalHistory,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) history(c echo.Context) error {
	p, _ := principalFrom(c)

	recs, err := s.records.History(c.Request().Context(), p.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, historyResponse{History: recs})
}

func (s *Server) ingestRecord(c echo.Context) error {
	p, _ := principalFrom(c)

	var req recordRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	rec, err := s.records.Ingest(c.Request().Context(), p.ID, req.Medicines)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, rec)
}
