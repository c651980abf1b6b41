package pregnancy

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

func (r *repoPG) SaveRisk(ctx context.Context, a *Assessment, risk int) error {
	return db.Call(ctx, r.conn(ctx), "preg.insert_pregnancy_risk",
		a.PatientID, a.TPOAb, a.TgAb, a.TSHRAB, a.Age, a.Smoker, a.FamilyHistory, risk)
}

func (r *repoPG) PatientDetails(ctx context.Context, patientID int64) (map[string]any, error) {
	rows, err := db.Select(ctx, r.conn(ctx), "preg.get_basic_patient_details", patientID)
	if err != nil {
		return nil, err
	}
	maps, err := db.RowsToMaps(rows)
	if err != nil {
		return nil, err
	}
	if len(maps) == 0 {
		return nil, ErrPatientNotFound
	}
	return maps[0], nil
}
