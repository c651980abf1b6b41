package clinicaladvice

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, *mockAdviceRepo, *echo.Echo) {
	repo := newMockAdviceRepo()
	return NewHandler(NewService(repo)), repo, echo.New()
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	return he.Code
}

func TestHandler_GetClinicalAdvice(t *testing.T) {
	h, repo, e := newTestHandler()
	repo.advice[4] = "Walk daily"

	req := httptest.NewRequest(http.MethodGet, "/advice/get_clinical_advice?patient_id=4", nil)
	rec := httptest.NewRecorder()
	if err := h.GetClinicalAdvice(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["clinical_advice"] != "Walk daily" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestHandler_GetClinicalAdvice_MissingPatient(t *testing.T) {
	h, _, e := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/advice/get_clinical_advice", nil)
	err := h.GetClinicalAdvice(e.NewContext(req, httptest.NewRecorder()))
	if code := httpStatus(t, err); code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", code)
	}
}

func TestHandler_GetClinicalAdvice_NotFound(t *testing.T) {
	h, _, e := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/advice/get_clinical_advice?patient_id=99", nil)
	err := h.GetClinicalAdvice(e.NewContext(req, httptest.NewRecorder()))
	if code := httpStatus(t, err); code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", code)
	}
}

func TestHandler_GetPatientHistory_Query(t *testing.T) {
	h, repo, e := newTestHandler()
	repo.history[2] = []HistoryEntry{{"advice": "a"}, {"advice": "b"}}

	req := httptest.NewRequest(http.MethodGet, "/advice/get_patient_history?patient_id=2", nil)
	rec := httptest.NewRecorder()
	if err := h.GetPatientHistory(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var body struct {
		ClinicalAdvices []map[string]any `json:"clinical_advices"`
	}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if len(body.ClinicalAdvices) != 2 {
		t.Errorf("expected 2 entries, got %d", len(body.ClinicalAdvices))
	}
}

func TestHandler_GetPatientHistory_JSONBody(t *testing.T) {
	h, repo, e := newTestHandler()
	repo.history[3] = []HistoryEntry{{"advice": "a"}}

	req := httptest.NewRequest(http.MethodGet, "/advice/get_patient_history", strings.NewReader(`{"patient_id":"3"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := h.GetPatientHistory(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHandler_GetPatientHistory_Errors(t *testing.T) {
	h, _, e := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/advice/get_patient_history", nil)
	if code := httpStatus(t, h.GetPatientHistory(e.NewContext(req, httptest.NewRecorder()))); code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", code)
	}

	req = httptest.NewRequest(http.MethodGet, "/advice/get_patient_history?patient_id=8", nil)
	if code := httpStatus(t, h.GetPatientHistory(e.NewContext(req, httptest.NewRecorder()))); code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", code)
	}
}
