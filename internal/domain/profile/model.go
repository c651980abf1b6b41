package profile

import (
	"errors"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/thyrotrack/thyrotrack/pkg/flexnum"
)

var ErrProfileNotFound = errors.New("profile not found")

const defaultGender = "male"

// Profile is the stored health profile of a patient.
type Profile struct {
	Age            *int64     `json:"age"`
	Gender         string     `json:"gender"`
	Weight         *float64   `json:"weight"`
	Height         *float64   `json:"height"`
	HasPressure    bool       `json:"hasPressure"`
	HasDiabetes    bool       `json:"hasDiabetes"`
	HasCholesterol bool       `json:"hasCholesterol"`
	IsPregnant     bool       `json:"isPregnant"`
	TSHLevel       *float64   `json:"tshLevel"`
	LastUpdated    *time.Time `json:"lastUpdated"`
}

// Update is a validated profile write.
type Update struct {
	PatientID      int64
	Age            int64
	Gender         string
	Weight         float64
	Height         float64
	HasPressure    bool
	HasDiabetes    bool
	HasCholesterol bool
	IsPregnant     bool
	TSHLevel       float64
}

// UpdateRequest is the JSON body shared by both profile write routes.
type UpdateRequest struct {
	PatientID      flexnum.Int   `json:"patient_id"`
	Age            flexnum.Int   `json:"age"`
	Gender         *string       `json:"gender"`
	Weight         flexnum.Float `json:"weight"`
	Height         flexnum.Float `json:"height"`
	HasPressure    flexnum.Bool  `json:"hasPressure"`
	HasDiabetes    flexnum.Bool  `json:"hasDiabetes"`
	HasCholesterol flexnum.Bool  `json:"hasCholesterol"`
	IsPregnant     flexnum.Bool  `json:"isPregnant"`
	TSHLevel       flexnum.Float `json:"tshLevel"`
}

// ValidationError lists the required fields that were missing or unusable.
type ValidationError struct {
	Missing []string
	Invalid []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "Missing required fields: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "Invalid fields: "+strings.Join(e.Invalid, ", "))
	}
	return strings.Join(parts, "; ")
}

type field struct {
	name    string
	present bool
	valid   bool
}

// Validate checks required fields in request order and applies defaults to
// the optional flags.
func (r *UpdateRequest) Validate() (*Update, error) {
	gender := ""
	if r.Gender != nil {
		gender = strings.TrimSpace(*r.Gender)
	}
	fields := []field{
		{"patient_id", r.PatientID.Present, r.PatientID.Valid && r.PatientID.Value > 0},
		{"age", r.Age.Present, r.Age.Valid && r.Age.Value >= 0},
		{"gender", r.Gender != nil, gender != ""},
		{"weight", r.Weight.Present, r.Weight.Valid && r.Weight.Value >= 0},
		{"height", r.Height.Present, r.Height.Valid && r.Height.Value >= 0},
		{"tshLevel", r.TSHLevel.Present, r.TSHLevel.Valid && r.TSHLevel.Value >= 0},
	}
	name := func(f field, _ int) string { return f.name }
	verr := &ValidationError{
		Missing: lo.Map(lo.Filter(fields, func(f field, _ int) bool { return !f.present }), name),
		Invalid: lo.Map(lo.Filter(fields, func(f field, _ int) bool { return f.present && !f.valid }), name),
	}
	if len(verr.Missing) > 0 || len(verr.Invalid) > 0 {
		return nil, verr
	}

	return &Update{
		PatientID:      r.PatientID.Value,
		Age:            r.Age.Value,
		Gender:         gender,
		Weight:         r.Weight.Value,
		Height:         r.Height.Value,
		HasPressure:    r.HasPressure.Or(false),
		HasDiabetes:    r.HasDiabetes.Or(false),
		HasCholesterol: r.HasCholesterol.Or(false),
		IsPregnant:     r.IsPregnant.Or(false),
		TSHLevel:       r.TSHLevel.Value,
	}, nil
}
