package db

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

type healthBody struct {
	Status string    `json:"status"`
	Pool   PoolStats `json:"pool"`
}

func runHealth(t *testing.T, ping func(context.Context) error) (int, healthBody) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/db", nil), rec)

	stats := func() PoolStats { return PoolStats{TotalConns: 3, MaxConns: 20, AcquireDuration: "1ms"} }
	if err := healthHandler(ping, stats)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var body healthBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return rec.Code, body
}

func TestHealthHandler_Healthy(t *testing.T) {
	code, body := runHealth(t, func(context.Context) error { return nil })
	if code != http.StatusOK {
		t.Errorf("expected 200, got %d", code)
	}
	if body.Status != "healthy" {
		t.Errorf("expected healthy, got %s", body.Status)
	}
	if body.Pool.TotalConns != 3 || body.Pool.MaxConns != 20 {
		t.Errorf("unexpected pool stats: %+v", body.Pool)
	}
}

func TestHealthHandler_PingFails(t *testing.T) {
	code, body := runHealth(t, func(context.Context) error { return errors.New("connection refused") })
	if code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", code)
	}
	if body.Status != "unhealthy" {
		t.Errorf("expected unhealthy, got %s", body.Status)
	}
}

func TestHealthHandler_PingHasDeadline(t *testing.T) {
	runHealth(t, func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			t.Error("expected ping context to carry a deadline")
		}
		return nil
	})
}
