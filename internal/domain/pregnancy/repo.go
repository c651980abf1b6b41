package pregnancy

import "context"

type Repository interface {
	SaveRisk(ctx context.Context, a *Assessment, risk int) error
	// PatientDetails returns ErrPatientNotFound when no row comes back.
	PatientDetails(ctx context.Context, patientID int64) (map[string]any, error)
}
