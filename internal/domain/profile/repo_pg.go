package profile

import (
	"context"
	"time"

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

func (r *repoPG) Update(ctx context.Context, u *Update, at time.Time) error {
	return db.Call(ctx, r.conn(ctx), "update_patient_profile",
		u.PatientID, u.Age, u.Gender, u.Weight, u.Height,
		u.HasPressure, u.HasDiabetes, u.HasCholesterol, u.IsPregnant,
		u.TSHLevel, at)
}

func (r *repoPG) Get(ctx context.Context, patientID int64) (*Profile, error) {
	var p Profile
	var gender *string
	var pressure, diabetes, cholesterol, pregnant *bool
	err := db.SelectRow(ctx, r.conn(ctx), "get_patient_profile", patientID).Scan(
		&p.Age, &gender, &p.Weight, &p.Height,
		&pressure, &diabetes, &cholesterol, &pregnant,
		&p.TSHLevel, &p.LastUpdated)
	if db.IsNoRows(err) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	if gender != nil {
		p.Gender = *gender
	}
	p.HasPressure = pressure != nil && *pressure
	p.HasDiabetes = diabetes != nil && *diabetes
	p.HasCholesterol = cholesterol != nil && *cholesterol
	p.IsPregnant = pregnant != nil && *pregnant
	return &p, nil
}

// FirstLogin reads the flag in the first column; only the value 1 (or true)
// counts as a first login.
func (r *repoPG) FirstLogin(ctx context.Context, patientID int64) (bool, error) {
	var flag any
	err := db.SelectRow(ctx, r.conn(ctx), "check_first_login", patientID).Scan(&flag)
	if db.IsNoRows(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	switch v := flag.(type) {
	case bool:
		return v, nil
	case int16:
		return v == 1, nil
	case int32:
		return v == 1, nil
	case int64:
		return v == 1, nil
	}
	return false, nil
}
