package report

import "context"

type Repository interface {
	// PatientEmail returns ErrEmailNotFound when no address is on file.
	PatientEmail(ctx context.Context, patientID int64) (string, error)
}
