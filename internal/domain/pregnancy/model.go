package pregnancy

import (
	"errors"
	"math"
	"strings"

	"github.com/thyrotrack/thyrotrack/pkg/flexnum"
)

var ErrPatientNotFound = errors.New("patient not found")

// PredictRequest carries the antibody panel. Field names follow the form the
// clinic's frontend posts.
type PredictRequest struct {
	TPOAb         flexnum.Float `json:"TPOAb"`
	TgAb          flexnum.Float `json:"TgAb"`
	TSHRAB        flexnum.Float `json:"TSHRAB"`
	Age           flexnum.Float `json:"Age"`
	Smoker        *string       `json:"Smoker"`
	FamilyHistory *string       `json:"Family_History"`
	PatientID     flexnum.Int   `json:"Patient_ID"`
}

// Assessment is a validated input row.
type Assessment struct {
	PatientID     int64
	TPOAb         float64
	TgAb          float64
	TSHRAB        float64
	Age           float64
	Smoker        int
	FamilyHistory int
}

// Features returns the classifier input in training order.
func (a *Assessment) Features() []float64 {
	return []float64{a.TPOAb, a.TgAb, a.TSHRAB, a.Age, float64(a.Smoker), float64(a.FamilyHistory)}
}

// ValidationError names the fields that were absent or unusable.
type ValidationError struct {
	Missing []string
	Invalid []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "Missing columns: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "Invalid values: "+strings.Join(e.Invalid, ", "))
	}
	return strings.Join(parts, "; ")
}

func yesNo(s *string) (int, bool) {
	switch strings.ToLower(strings.TrimSpace(*s)) {
	case "yes":
		return 1, true
	case "no":
		return 0, true
	}
	return 0, false
}

// Validate checks every column and maps Yes/No answers to 1/0.
func (r *PredictRequest) Validate() (*Assessment, error) {
	verr := &ValidationError{}
	a := &Assessment{}

	numeric := []struct {
		name string
		v    flexnum.Float
		dst  *float64
	}{
		{"TPOAb", r.TPOAb, &a.TPOAb},
		{"TgAb", r.TgAb, &a.TgAb},
		{"TSHRAB", r.TSHRAB, &a.TSHRAB},
		{"Age", r.Age, &a.Age},
	}
	for _, n := range numeric {
		switch {
		case !n.v.Present:
			verr.Missing = append(verr.Missing, n.name)
		case !n.v.Valid || n.v.Value < 0:
			verr.Invalid = append(verr.Invalid, n.name)
		default:
			*n.dst = n.v.Value
		}
	}

	answers := []struct {
		name string
		v    *string
		dst  *int
	}{
		{"Smoker", r.Smoker, &a.Smoker},
		{"Family_History", r.FamilyHistory, &a.FamilyHistory},
	}
	for _, ans := range answers {
		if ans.v == nil || strings.TrimSpace(*ans.v) == "" {
			verr.Missing = append(verr.Missing, ans.name)
			continue
		}
		v, ok := yesNo(ans.v)
		if !ok {
			verr.Invalid = append(verr.Invalid, ans.name)
			continue
		}
		*ans.dst = v
	}

	switch {
	case !r.PatientID.Present:
		verr.Missing = append(verr.Missing, "Patient_ID")
	case !r.PatientID.Valid || r.PatientID.Value <= 0:
		verr.Invalid = append(verr.Invalid, "Patient_ID")
	default:
		a.PatientID = r.PatientID.Value
	}

	if len(verr.Missing) > 0 || len(verr.Invalid) > 0 {
		return nil, verr
	}
	return a, nil
}

func riskClass(v float64) int {
	return int(math.Round(v))
}
