package food

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/thyrotrack/thyrotrack/internal/platform/inference"
	"github.com/thyrotrack/thyrotrack/internal/platform/llm"
	"github.com/thyrotrack/thyrotrack/pkg/params"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes expects a group that already disables response caching.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/food_recommendations", h.GetRecommendations)
}

func (h *Handler) GetRecommendations(c echo.Context) error {
	patientID, err := params.PatientID(c, "patient_id")
	if err != nil {
		return err
	}

	rec, err := h.svc.Recommend(c.Request().Context(), patientID)
	switch {
	case errors.Is(err, ErrPatientNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Patient not found")
	case errors.Is(err, ErrIncompleteProfile):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "Patient weight and height are required for a recommendation")
	case errors.Is(err, inference.ErrUnknownLabel):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "Patient gender is not supported by the recommendation model")
	case errors.Is(err, llm.ErrUnavailable):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Advice service is temporarily unavailable")
	case err != nil:
		return err
	}
	return c.JSON(http.StatusOK, rec)
}
