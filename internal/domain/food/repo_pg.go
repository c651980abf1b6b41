package food

import (
	"context"
	"strings"

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

func (r *repoPG) InputData(ctx context.Context, patientID int64) (*InputData, error) {
	var (
		age                                  *int64
		weight, height, tsh                  *float64
		gender                               *string
		diabetes, cholesterol, bp, pregnancy *bool
	)
	err := db.SelectRow(ctx, r.conn(ctx), "food_get_patient_input_data", patientID).
		Scan(&age, &gender, &weight, &height, &diabetes, &cholesterol, &bp, &pregnancy, &tsh)
	if db.IsNoRows(err) {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, err
	}
	d := &InputData{}
	if age != nil {
		d.Age = *age
	}
	if gender != nil {
		d.Gender = *gender
	}
	if weight != nil {
		d.Weight = *weight
	}
	if height != nil {
		d.Height = *height
	}
	if tsh != nil {
		d.TSH = *tsh
	}
	d.Diabetes = diabetes != nil && *diabetes
	d.Cholesterol = cholesterol != nil && *cholesterol
	d.BloodPressure = bp != nil && *bp
	d.Pregnancy = pregnancy != nil && *pregnancy
	return d, nil
}

func (r *repoPG) Save(ctx context.Context, patientID int64, rec *Recommendation) error {
	return db.Call(ctx, r.conn(ctx), "insert_prediction_and_advice",
		patientID, rec.PredictedCategory, rec.CategoryDescription,
		strings.Join(rec.RecommendedFoods, ", "), rec.ClinicalAdvice)
}
