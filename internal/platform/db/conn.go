package db

import (
	"context"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	DBConnKey contextKey = "db_conn"
	DBTxKey   contextKey = "db_tx"
)

// Paths served without a request-scoped connection.
var connSkipPaths = map[string]bool{
	"/health":    true,
	"/health/db": true,
	"/metrics":   true,
}

// ConnMiddleware acquires one pooled connection per request and releases it
// when the handler returns, whatever the outcome. Routes named in poolOnly get
// no request connection; their repositories take one from the pool per query.
func ConnMiddleware(pool *pgxpool.Pool, poolOnly ...string) echo.MiddlewareFunc {
	skip := make(map[string]bool, len(poolOnly))
	for _, p := range poolOnly {
		skip[p] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skipConn(c) || skip[c.Path()] {
				return next(c)
			}

			ctx := c.Request().Context()
			conn, err := pool.Acquire(ctx)
			if err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
			}
			defer conn.Release()

			ctx = context.WithValue(ctx, DBConnKey, conn)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Set("db", conn)

			return next(c)
		}
	}
}

func skipConn(c echo.Context) bool {
	if connSkipPaths[c.Path()] {
		return true
	}
	return connSkipPaths[c.Request().URL.Path]
}

// ConnFromContext retrieves the request-scoped database connection from context.
func ConnFromContext(ctx context.Context) *pgxpool.Conn {
	conn, _ := ctx.Value(DBConnKey).(*pgxpool.Conn)
	return conn
}

// TxFromContext retrieves the open transaction from context, if any.
func TxFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(DBTxKey).(pgx.Tx)
	return tx
}

// Conn picks the most specific handle available: the open transaction, then
// the request connection, then fallback.
func Conn(ctx context.Context, fallback Querier) Querier {
	if tx := TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := ConnFromContext(ctx); c != nil {
		return c
	}
	return fallback
}

var ErrNoConnection = errors.New("no database connection in context")

// WithTx runs fn inside a transaction on the handle Conn resolves to. The
// transaction is reachable from fn's context, commits when fn returns nil
// and rolls back otherwise.
func WithTx(ctx context.Context, fallback Querier, fn func(ctx context.Context) error) error {
	q := Conn(ctx, fallback)
	if q == nil {
		return ErrNoConnection
	}
	return pgx.BeginFunc(ctx, q, func(tx pgx.Tx) error {
		return fn(context.WithValue(ctx, DBTxKey, tx))
	})
}
