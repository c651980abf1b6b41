package telemetry

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware_CountsByRoute(t *testing.T) {
	m := NewCollector()
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/tsh/api/get-latest-tsh", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	e.GET("/missing", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "No records found")
	})

	for i := 0; i < 3; i++ {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/tsh/api/get-latest-tsh?patient_id=1", nil))
	}
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	if got := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/tsh/api/get-latest-tsh", "200")); got != 3 {
		t.Errorf("expected 3 requests counted, got %v", got)
	}
	if got := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/missing", "404")); got != 1 {
		t.Errorf("expected 404 counted under its route, got %v", got)
	}
	if got := testutil.ToFloat64(m.InFlight); got != 0 {
		t.Errorf("expected no in-flight requests, got %v", got)
	}
}

func TestDomainCounters(t *testing.T) {
	m := NewCollector()
	m.Prediction("Hypothyroidism Model")
	m.Prediction("Hypothyroidism Model")
	m.OTPIssued("signup")
	m.EmailSent("signup-otp", nil)
	m.EmailSent("signup-otp", errors.New("smtp down"))

	if got := testutil.ToFloat64(m.PredictionsTotal.WithLabelValues("Hypothyroidism Model")); got != 2 {
		t.Errorf("expected 2 predictions, got %v", got)
	}
	if got := testutil.ToFloat64(m.OTPIssuedTotal.WithLabelValues("signup")); got != 1 {
		t.Errorf("expected 1 otp, got %v", got)
	}
	if got := testutil.ToFloat64(m.EmailsSentTotal.WithLabelValues("signup-otp", "error")); got != 1 {
		t.Errorf("expected 1 failed email, got %v", got)
	}
}

func TestNilCollectorIsSafe(t *testing.T) {
	var m *Collector
	m.Prediction("x")
	m.OTPIssued("signup")
	m.EmailSent("x", nil)
}

func TestHandler_ExposesMetrics(t *testing.T) {
	m := NewCollector()
	m.OTPIssued("password_reset")

	e := echo.New()
	e.GET("/metrics", m.Handler())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `thyrotrack_auth_otp_issued_total{purpose="password_reset"} 1`) {
		t.Errorf("expected otp counter in exposition, got:\n%s", rec.Body.String())
	}
}
