package tsh

import (
	"context"

	"github.com/jackc/pgx/v5"
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

func (r *repoPG) HealthParameters(ctx context.Context, patientID int64) (*HealthParameters, error) {
	var (
		age                                  *int64
		gender, name                         *string
		weight, height                       *float64
		diabetes, cholesterol, bp, pregnancy *bool
	)
	err := db.SelectRow(ctx, r.conn(ctx), "tsh_get_health_parameters", patientID).
		Scan(&age, &gender, &weight, &height, &diabetes, &cholesterol, &bp, &pregnancy, &name)
	if db.IsNoRows(err) {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, err
	}
	return &HealthParameters{
		Age:           deref(age),
		Gender:        deref(gender),
		Weight:        deref(weight),
		Height:        deref(height),
		Diabetes:      deref(diabetes),
		Cholesterol:   deref(cholesterol),
		BloodPressure: deref(bp),
		Pregnancy:     deref(pregnancy),
		Name:          deref(name),
	}, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func (r *repoPG) SavePrediction(ctx context.Context, p *Prediction) error {
	return db.WithTx(ctx, r.pool, func(ctx context.Context) error {
		return db.Call(ctx, r.conn(ctx), "tsh_insert_prediction",
			p.PatientID, p.Age, p.Gender, p.Weight, p.Height,
			p.Diabetes, p.Cholesterol, p.BloodPressure, p.Pregnancy,
			p.InputParameter, p.PredictedTSH, p.ModelUsed)
	})
}

func (r *repoPG) Latest(ctx context.Context, patientID int64) (*LatestPrediction, error) {
	var l LatestPrediction
	err := db.SelectRow(ctx, r.conn(ctx), "get_latest_tsh_prediction", patientID).
		Scan(&l.InputTSH, &l.PredictedTSH, &l.Date)
	if db.IsNoRows(err) {
		return nil, ErrNoPrediction
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repoPG) History(ctx context.Context, patientID int64) ([]HistoryEntry, error) {
	rows, err := db.Select(ctx, r.conn(ctx), "get_tsh_history", patientID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[HistoryEntry])
}

func (r *repoPG) InsertRecord(ctx context.Context, rec *NewRecord) (int64, error) {
	var id int64
	err := db.SelectRow(ctx, r.conn(ctx), "insert_tsh_record",
		rec.PatientID, rec.EntryDate, rec.CurrentWeight, rec.TSHValue, rec.TargetTSHValue, rec.Notes).
		Scan(&id)
	return id, err
}

func (r *repoPG) Records(ctx context.Context, patientID int64) ([]Record, error) {
	rows, err := db.Select(ctx, r.conn(ctx), "get_patient_tsh_records", patientID)
	if err != nil {
		return nil, err
	}
	return db.RowsToMaps(rows)
}

func (r *repoPG) Trends(ctx context.Context, patientID int64) ([]Trend, error) {
	rows, err := db.Select(ctx, r.conn(ctx), "get_patient_trends", patientID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[Trend])
}
