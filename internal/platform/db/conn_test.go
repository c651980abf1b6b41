package db

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestConnFromContext_Nil(t *testing.T) {
	conn := ConnFromContext(context.Background())
	if conn != nil {
		t.Error("expected nil conn from empty context")
	}
}

func TestConnFromContext_WithWrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), DBConnKey, "not-a-conn")
	if ConnFromContext(ctx) != nil {
		t.Error("expected nil when context value is wrong type")
	}
}

func TestTxFromContext_Nil(t *testing.T) {
	if TxFromContext(context.Background()) != nil {
		t.Error("expected nil tx from empty context")
	}
}

func TestTxFromContext_WithWrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), DBTxKey, "not-a-tx")
	if TxFromContext(ctx) != nil {
		t.Error("expected nil when context value is wrong type")
	}
}

func TestWithTx_NoConnection(t *testing.T) {
	called := false
	err := WithTx(context.Background(), nil, func(ctx context.Context) error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrNoConnection) {
		t.Errorf("expected ErrNoConnection, got %v", err)
	}
	if called {
		t.Error("fn must not run without a connection")
	}
}

func TestConnMiddleware_SkipsHealthAndMetrics(t *testing.T) {
	// A nil pool would panic on Acquire, so reaching the handler proves the skip.
	mw := ConnMiddleware(nil)
	for _, path := range []string{"/health", "/health/db", "/metrics"} {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		reached := false
		err := mw(func(c echo.Context) error {
			reached = true
			return c.NoContent(http.StatusOK)
		})(c)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", path, err)
		}
		if !reached {
			t.Errorf("%s: expected handler to run without a connection", path)
		}
	}
}

func TestConnMiddleware_PoolOnlyRoutes(t *testing.T) {
	mw := ConnMiddleware(nil, "/recommend/food_recommendations")
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/recommend/food_recommendations?patient_id=1", nil), httptest.NewRecorder())
	c.SetPath("/recommend/food_recommendations")

	reached := false
	err := mw(func(c echo.Context) error {
		reached = true
		if ConnFromContext(c.Request().Context()) != nil {
			t.Error("expected no request connection")
		}
		return nil
	})(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reached {
		t.Error("expected handler to run without a request connection")
	}
}

func TestSkipConn(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/tsh/track_health", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	if skipConn(c) {
		t.Error("expected API routes to acquire a connection")
	}
}
