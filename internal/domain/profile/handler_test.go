package profile

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

const validBody = `{"patient_id":7,"age":33,"gender":"female","weight":58,"height":160,"tshLevel":3.2,"hasDiabetes":"yes"}`

func newTestHandler() (*Handler, *mockProfileRepo, *echo.Echo) {
	svc, repo := newTestService()
	return NewHandler(svc), repo, echo.New()
}

func httpError(t *testing.T, err error) *echo.HTTPError {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	return he
}

func post(e *echo.Echo, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHandler_GetProfile(t *testing.T) {
	h, repo, e := newTestHandler()
	age := int64(50)
	repo.profiles[3] = &Profile{Age: &age, HasPressure: true}

	req := httptest.NewRequest(http.MethodGet, "/personaldata/profile-data?patient_id=3", nil)
	rec := httptest.NewRecorder()
	if err := h.GetProfile(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var body struct {
		Success bool           `json:"success"`
		Profile map[string]any `json:"profile"`
	}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if !body.Success || body.Profile["gender"] != "male" || body.Profile["hasPressure"] != true {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestHandler_GetProfile_Errors(t *testing.T) {
	h, _, e := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/personaldata/profile-data", nil)
	if he := httpError(t, h.GetProfile(e.NewContext(req, httptest.NewRecorder()))); he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", he.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/personaldata/profile-data?patient_id=404", nil)
	if he := httpError(t, h.GetProfile(e.NewContext(req, httptest.NewRecorder()))); he.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", he.Code)
	}
}

func TestHandler_UpdateProfile(t *testing.T) {
	h, repo, e := newTestHandler()

	c, rec := post(e, "/personaldata/profile-update", validBody)
	if err := h.UpdateProfile(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !repo.profiles[7].HasDiabetes {
		t.Error("expected hasDiabetes to be stored")
	}
	if !strings.Contains(rec.Body.String(), `"message":"Profile updated successfully"`) {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestHandler_UpdateProfile_MissingFields(t *testing.T) {
	h, repo, e := newTestHandler()

	c, _ := post(e, "/personaldata/profile-update", `{"patient_id":7}`)
	he := httpError(t, h.UpdateProfile(c))
	if he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", he.Code)
	}
	if msg, _ := he.Message.(string); !strings.Contains(msg, "age, gender, weight, height, tshLevel") {
		t.Errorf("expected missing list in message, got %v", he.Message)
	}
	if len(repo.updates) != 0 {
		t.Error("expected no write on invalid input")
	}
}

func TestHandler_UpdateProfile_ReadBackMiss(t *testing.T) {
	h, repo, e := newTestHandler()
	repo.dropOnRead = true

	c, _ := post(e, "/personaldata/profile-update", validBody)
	if he := httpError(t, h.UpdateProfile(c)); he.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", he.Code)
	}
}

func TestHandler_SaveProfile(t *testing.T) {
	h, repo, e := newTestHandler()

	c, rec := post(e, "/patient/profile", validBody)
	if err := h.SaveProfile(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), `"profile"`) {
		t.Errorf("expected no profile in body, got %s", rec.Body.String())
	}
	if len(repo.updates) != 1 {
		t.Errorf("expected 1 update, got %d", len(repo.updates))
	}
}

func TestHandler_FirstLogin(t *testing.T) {
	h, repo, e := newTestHandler()
	repo.first[2] = true

	req := httptest.NewRequest(http.MethodGet, "/patient/first-login?patient_id=2", nil)
	rec := httptest.NewRecorder()
	if err := h.FirstLogin(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"isFirstLogin":true}` {
		t.Errorf("unexpected body %s", rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/patient/first-login", nil)
	if he := httpError(t, h.FirstLogin(e.NewContext(req, httptest.NewRecorder()))); he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", he.Code)
	}
}
