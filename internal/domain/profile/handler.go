package profile

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/thyrotrack/thyrotrack/pkg/params"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterPersonalDataRoutes mounts the profile read/update pair.
func (h *Handler) RegisterPersonalDataRoutes(g *echo.Group) {
	g.GET("/profile-data", h.GetProfile)
	g.POST("/profile-update", h.UpdateProfile)
}

// RegisterPatientRoutes mounts the onboarding routes.
func (h *Handler) RegisterPatientRoutes(g *echo.Group) {
	g.POST("/profile", h.SaveProfile)
	g.GET("/first-login", h.FirstLogin)
}

func (h *Handler) GetProfile(c echo.Context) error {
	patientID, err := params.PatientID(c, "patient_id")
	if err != nil {
		return err
	}
	p, err := h.svc.Get(c.Request().Context(), patientID)
	if errors.Is(err, ErrProfileNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Profile not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "profile": p})
}

func (h *Handler) bindUpdate(c echo.Context) (*Update, error) {
	var req UpdateRequest
	if err := params.Bind(c, &req); err != nil {
		return nil, err
	}
	u, err := req.Validate()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return u, nil
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	u, err := h.bindUpdate(c)
	if err != nil {
		return err
	}
	p, err := h.svc.UpdateAndGet(c.Request().Context(), u)
	if errors.Is(err, ErrProfileNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Profile not found after update")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Profile updated successfully",
		"profile": p,
	})
}

func (h *Handler) SaveProfile(c echo.Context) error {
	u, err := h.bindUpdate(c)
	if err != nil {
		return err
	}
	if err := h.svc.Update(c.Request().Context(), u); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Profile updated successfully",
	})
}

func (h *Handler) FirstLogin(c echo.Context) error {
	patientID, err := params.PatientID(c, "patient_id")
	if err != nil {
		return err
	}
	first, err := h.svc.FirstLogin(c.Request().Context(), patientID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]bool{"isFirstLogin": first})
}
