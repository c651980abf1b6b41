package profile

import (
	"context"
	"time"
)

type Repository interface {
	Update(ctx context.Context, u *Update, at time.Time) error
	// Get returns ErrProfileNotFound when the patient has no profile row.
	Get(ctx context.Context, patientID int64) (*Profile, error)
	FirstLogin(ctx context.Context, patientID int64) (bool, error)
}
