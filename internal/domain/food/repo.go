package food

import "context"

type Repository interface {
	// InputData returns ErrPatientNotFound when the patient is unknown.
	InputData(ctx context.Context, patientID int64) (*InputData, error)
	Save(ctx context.Context, patientID int64, r *Recommendation) error
}
