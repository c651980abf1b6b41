package db

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset shared by *pgxpool.Pool, *pgxpool.Conn and pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

var (
	identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
	procPattern  = regexp.MustCompile(`^([a-z_][a-z0-9_]*\.)?[a-z_][a-z0-9_]*$`)
)

var ErrInvalidProcedure = errors.New("invalid procedure name")

// ValidProcedureName reports whether name is safe to splice into SQL.
func ValidProcedureName(name string) bool {
	return procPattern.MatchString(name)
}

func placeholders(n int) string {
	if n == 0 {
		return ""
	}
	ph := make([]string, n)
	for i := range ph {
		ph[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(ph, ", ")
}

func callSQL(name string, n int) (string, error) {
	if !ValidProcedureName(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidProcedure, name)
	}
	return fmt.Sprintf("CALL %s(%s)", name, placeholders(n)), nil
}

func selectSQL(name string, n int) (string, error) {
	if !ValidProcedureName(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidProcedure, name)
	}
	return fmt.Sprintf("SELECT * FROM %s(%s)", name, placeholders(n)), nil
}

// Call runs a procedure that returns no rows.
func Call(ctx context.Context, q Querier, name string, args ...any) error {
	sql, err := callSQL(name, len(args))
	if err != nil {
		return err
	}
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("call %s: %w", name, err)
	}
	return nil
}

// Select runs a set-returning function. The caller closes the rows.
func Select(ctx context.Context, q Querier, name string, args ...any) (pgx.Rows, error) {
	sql, err := selectSQL(name, len(args))
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", name, err)
	}
	return rows, nil
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

// SelectRow runs a set-returning function and yields its first row.
// Scan returns pgx.ErrNoRows when the function produced nothing.
func SelectRow(ctx context.Context, q Querier, name string, args ...any) pgx.Row {
	sql, err := selectSQL(name, len(args))
	if err != nil {
		return errRow{err}
	}
	return q.QueryRow(ctx, sql, args...)
}

// RowsToMaps collects rows keyed by column name and closes them.
func RowsToMaps(rows pgx.Rows) ([]map[string]any, error) {
	out, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []map[string]any{}
	}
	return out, nil
}

// IsNoRows reports whether err means the procedure returned nothing.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
