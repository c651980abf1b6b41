package clinicaladvice

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/thyrotrack/thyrotrack/pkg/flexnum"
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
	g.GET("/get_clinical_advice", h.GetClinicalAdvice)
	g.GET("/get_patient_history", h.GetPatientHistory)
}

func (h *Handler) GetClinicalAdvice(c echo.Context) error {
	patientID, err := params.PatientID(c, "patient_id")
	if err != nil {
		return err
	}
	advice, err := h.svc.Latest(c.Request().Context(), patientID)
	if errors.Is(err, ErrAdviceNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "No clinical advice found for the given patient ID")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"clinical_advice": advice})
}

// GetPatientHistory accepts the patient id in the query string or, failing
// that, in a JSON body.
func (h *Handler) GetPatientHistory(c echo.Context) error {
	raw := params.Lookup(c, "patient_id")
	var patientID int64
	var err error
	if raw != "" {
		patientID, err = params.ParsePatientID(raw)
	} else {
		var body struct {
			PatientID flexnum.Int `json:"patient_id"`
		}
		if berr := (&echo.DefaultBinder{}).BindBody(c, &body); berr != nil {
			return params.BindError(berr, params.MsgInvalidBody)
		}
		patientID, err = params.FromBody(body.PatientID)
	}
	if err != nil {
		return err
	}

	entries, err := h.svc.History(c.Request().Context(), patientID)
	if errors.Is(err, ErrHistoryNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "No history found for the given patient ID")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"clinical_advices": entries})
}
