package pregnancy

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

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/predict", h.Predict)
	g.GET("/patient/:patient_id", h.GetPatient)
}

func (h *Handler) Predict(c echo.Context) error {
	var req PredictRequest
	if err := params.Bind(c, &req); err != nil {
		return err
	}
	a, err := req.Validate()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	risk, err := h.svc.Predict(c.Request().Context(), a)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int{"predicted_risk": risk})
}

func (h *Handler) GetPatient(c echo.Context) error {
	patientID, err := params.PatientID(c, "patient_id")
	if err != nil {
		return err
	}
	d, err := h.svc.PatientDetails(c.Request().Context(), patientID)
	if errors.Is(err, ErrPatientNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Patient not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}
