package report

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thyrotrack/thyrotrack/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

func (r *repoPG) PatientEmail(ctx context.Context, patientID int64) (string, error) {
	var email *string
	err := db.SelectRow(ctx, r.conn(ctx), "preg.get_patient_email", patientID).Scan(&email)
	if db.IsNoRows(err) {
		return "", ErrEmailNotFound
	}
	if err != nil {
		return "", err
	}
	if email == nil || strings.TrimSpace(*email) == "" {
		return "", ErrEmailNotFound
	}
	return strings.TrimSpace(*email), nil
}
