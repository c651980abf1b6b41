package clinicaladvice

import "context"

type Repository interface {
	// Latest returns ErrAdviceNotFound when the patient has no advice.
	Latest(ctx context.Context, patientID int64) (string, error)
	History(ctx context.Context, patientID int64) ([]HistoryEntry, error)
}
