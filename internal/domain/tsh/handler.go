package tsh

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"github.com/thyrotrack/thyrotrack/pkg/flexnum"
	"github.com/thyrotrack/thyrotrack/pkg/params"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterPredictionRoutes mounts the /tsh group.
func (h *Handler) RegisterPredictionRoutes(g *echo.Group) {
	g.POST("/track_health", h.TrackHealth)
	g.POST("/get_patient_data", h.GetPatientData)
	g.GET("/api/get-latest-tsh", h.GetLatestTSH)
}

// RegisterRecordRoutes mounts the self-reported measurement routes.
func (h *Handler) RegisterRecordRoutes(g *echo.Group) {
	g.POST("/api/tsh-records", h.AddRecord)
	g.GET("/api/tsh-records/:patient_id", h.GetRecords)
}

func (h *Handler) RegisterHistoryRoutes(g *echo.Group) {
	g.GET("/tsh-history", h.GetHistory)
}

func (h *Handler) RegisterChartRoutes(g *echo.Group) {
	g.GET("/api/patient_trends/:patient_id", h.GetTrends)
}

type trackRequest struct {
	PatientID      flexnum.Int   `json:"patient_id"`
	InputParameter flexnum.Float `json:"input_parameter"`
}

func (h *Handler) TrackHealth(c echo.Context) error {
	var req trackRequest
	if err := params.Bind(c, &req); err != nil {
		return err
	}
	if !req.InputParameter.Ok() {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid input_parameter value")
	}
	patientID, err := params.FromBody(req.PatientID)
	if err != nil {
		return err
	}

	res, err := h.svc.Track(c.Request().Context(), patientID, req.InputParameter.Value)
	if errors.Is(err, ErrPatientNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Patient not found")
	}
	if err != nil {
		return err
	}
	if res.Normal {
		return c.JSON(http.StatusOK, map[string]any{
			"message":         "TSH levels are normal",
			"input_parameter": res.Input,
		})
	}
	return c.JSON(http.StatusOK, res.Prediction)
}

func (h *Handler) GetPatientData(c echo.Context) error {
	var req struct {
		PatientID flexnum.Int `json:"patient_id"`
	}
	if err := params.Bind(c, &req); err != nil {
		return err
	}
	patientID, err := params.FromBody(req.PatientID)
	if err != nil {
		return err
	}

	data, err := h.svc.PatientData(c.Request().Context(), patientID)
	if errors.Is(err, ErrPatientNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Patient not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"patient_data": data})
}

func (h *Handler) GetLatestTSH(c echo.Context) error {
	patientID, err := params.PatientID(c, "patient_id")
	if err != nil {
		return err
	}
	l, err := h.svc.Latest(c.Request().Context(), patientID)
	if errors.Is(err, ErrNoPrediction) {
		return echo.NewHTTPError(http.StatusNotFound, "No records found for the given patient.")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, l)
}

func (h *Handler) GetHistory(c echo.Context) error {
	patientID, err := params.PatientID(c, "patientID")
	if err != nil {
		return err
	}
	history, err := h.svc.History(c.Request().Context(), patientID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"tshHistory": history})
}

func (h *Handler) GetTrends(c echo.Context) error {
	patientID, err := params.PatientID(c, "patient_id")
	if err != nil {
		return err
	}
	trends, err := h.svc.Trends(c.Request().Context(), patientID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, trends)
}

type recordRequest struct {
	PatientID      flexnum.Int   `json:"patientId"`
	EntryDate      string        `json:"entryDate"`
	CurrentWeight  flexnum.Float `json:"currentWeight"`
	TSHValue       flexnum.Float `json:"tshValue"`
	TargetTSHValue flexnum.Float `json:"targetTSHValue"`
	Notes          string        `json:"notes"`
}

var entryDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

func parseEntryDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range entryDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

type requiredField struct {
	name    string
	present bool
	valid   bool
}

func names(fields []requiredField, keep func(requiredField) bool) []string {
	return lo.FilterMap(fields, func(f requiredField, _ int) (string, bool) {
		return f.name, keep(f)
	})
}

func (r *recordRequest) validate() (*NewRecord, error) {
	entryDate, dateOK := parseEntryDate(r.EntryDate)
	fields := []requiredField{
		{"patientId", r.PatientID.Present, r.PatientID.Valid && r.PatientID.Value > 0},
		{"entryDate", strings.TrimSpace(r.EntryDate) != "", dateOK},
		{"currentWeight", r.CurrentWeight.Present, r.CurrentWeight.Valid},
		{"tshValue", r.TSHValue.Present, r.TSHValue.Valid},
		{"targetTSHValue", r.TargetTSHValue.Present, r.TargetTSHValue.Valid},
	}
	if missing := names(fields, func(f requiredField) bool { return !f.present }); len(missing) > 0 {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Missing required fields: "+strings.Join(missing, ", "))
	}
	if invalid := names(fields, func(f requiredField) bool { return !f.valid }); len(invalid) > 0 {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid fields: "+strings.Join(invalid, ", "))
	}

	return &NewRecord{
		PatientID:      r.PatientID.Value,
		EntryDate:      entryDate,
		CurrentWeight:  r.CurrentWeight.Value,
		TSHValue:       r.TSHValue.Value,
		TargetTSHValue: r.TargetTSHValue.Value,
		Notes:          r.Notes,
	}, nil
}

func (h *Handler) AddRecord(c echo.Context) error {
	var req recordRequest
	if err := params.Bind(c, &req); err != nil {
		return err
	}
	rec, err := req.validate()
	if err != nil {
		return err
	}
	id, err := h.svc.AddRecord(c.Request().Context(), rec)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]any{"success": true, "recordId": id})
}

func (h *Handler) GetRecords(c echo.Context) error {
	patientID, err := params.PatientID(c, "patient_id")
	if err != nil {
		return err
	}
	recs, err := h.svc.Records(c.Request().Context(), patientID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "records": recs})
}
