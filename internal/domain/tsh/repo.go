package tsh

import "context"

type Repository interface {
	// HealthParameters returns ErrPatientNotFound when the patient is unknown.
	HealthParameters(ctx context.Context, patientID int64) (*HealthParameters, error)
	// SavePrediction stores p in its own transaction.
	SavePrediction(ctx context.Context, p *Prediction) error
	// Latest returns ErrNoPrediction when nothing has been recorded.
	Latest(ctx context.Context, patientID int64) (*LatestPrediction, error)
	History(ctx context.Context, patientID int64) ([]HistoryEntry, error)
	InsertRecord(ctx context.Context, r *NewRecord) (int64, error)
	Records(ctx context.Context, patientID int64) ([]Record, error)
	Trends(ctx context.Context, patientID int64) ([]Trend, error)
}
