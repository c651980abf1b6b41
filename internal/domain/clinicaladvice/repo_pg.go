package clinicaladvice

import (
	"context"

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

// Latest reads the first column of the first row the procedure returns.
func (r *repoPG) Latest(ctx context.Context, patientID int64) (string, error) {
	rows, err := db.Select(ctx, r.conn(ctx), "get_clinical_advice", patientID)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return "", err
		}
		return "", ErrAdviceNotFound
	}
	values, err := rows.Values()
	if err != nil {
		return "", err
	}
	if len(values) == 0 || values[0] == nil {
		return "", ErrAdviceNotFound
	}
	advice, ok := values[0].(string)
	if !ok {
		return "", ErrAdviceNotFound
	}
	return advice, nil
}

func (r *repoPG) History(ctx context.Context, patientID int64) ([]HistoryEntry, error) {
	rows, err := db.Select(ctx, r.conn(ctx), "get_clinical_advice_history", patientID)
	if err != nil {
		return nil, err
	}
	return db.RowsToMaps(rows)
}
