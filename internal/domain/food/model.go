package food

import (
	"errors"
	"math"
)

var (
	ErrPatientNotFound   = errors.New("patient not found")
	ErrIncompleteProfile = errors.New("weight and height are required")
)

// InputData is the patient row the classifier consumes.
type InputData struct {
	Age           int64
	Gender        string
	Weight        float64
	Height        float64 // centimetres
	Diabetes      bool
	Cholesterol   bool
	BloodPressure bool
	Pregnancy     bool
	TSH           float64
}

// BMI is weight in kilograms over height in metres squared.
func (d *InputData) BMI() (float64, error) {
	if d.Weight <= 0 || d.Height <= 0 {
		return 0, ErrIncompleteProfile
	}
	m := d.Height / 100
	return d.Weight / (m * m), nil
}

// BMIClass buckets a BMI the way the category names do.
func BMIClass(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Low"
	case bmi < 25:
		return "Normal"
	default:
		return "High"
	}
}

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Recommendation is the response and the stored record.
type Recommendation struct {
	PredictedCategory   int      `json:"predicted_category"`
	CategoryDescription string   `json:"category_description"`
	RecommendedFoods    []string `json:"recommended_foods"`
	ClinicalAdvice      string   `json:"clinical_advice"`
}

func categoryID(v float64) int {
	return int(math.Round(v))
}
