package tsh

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrPatientNotFound = errors.New("patient not found")
	ErrNoPrediction    = errors.New("no tsh prediction recorded")
)

// HealthParameters is the patient row that feeds TSH prediction.
type HealthParameters struct {
	Age           int64
	Gender        string
	Weight        float64
	Height        float64
	Diabetes      bool
	Cholesterol   bool
	BloodPressure bool
	Pregnancy     bool
	Name          string
}

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Features builds the regressor input in training order.
func (p *HealthParameters) Features(input float64) []float64 {
	return []float64{
		float64(p.Age),
		flag(strings.EqualFold(strings.TrimSpace(p.Gender), "male")),
		p.Weight,
		p.Height,
		flag(p.Diabetes),
		flag(p.Cholesterol),
		flag(p.BloodPressure),
		flag(p.Pregnancy),
		input,
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// PatientData is the display form returned by get_patient_data.
type PatientData struct {
	Age           int64   `json:"Age"`
	Gender        string  `json:"Gender"`
	Weight        float64 `json:"Weight"`
	Height        float64 `json:"Height"`
	Diabetes      string  `json:"Diabetes"`
	Cholesterol   string  `json:"Cholesterol"`
	BloodPressure string  `json:"BloodPressure"`
	Pregnancy     string  `json:"Pregnancy"`
	Name          string  `json:"Name"`
}

func (p *HealthParameters) Display() *PatientData {
	return &PatientData{
		Age:           p.Age,
		Gender:        p.Gender,
		Weight:        p.Weight,
		Height:        p.Height,
		Diabetes:      yesNo(p.Diabetes),
		Cholesterol:   yesNo(p.Cholesterol),
		BloodPressure: yesNo(p.BloodPressure),
		Pregnancy:     yesNo(p.Pregnancy),
		Name:          p.Name,
	}
}

// Prediction is a stored TSH forecast together with the inputs it used.
type Prediction struct {
	PatientID      int64   `json:"-"`
	Age            int64   `json:"age"`
	Gender         string  `json:"gender"`
	Weight         float64 `json:"weight"`
	Height         float64 `json:"height"`
	Diabetes       bool    `json:"diabetes"`
	Cholesterol    bool    `json:"cholesterol"`
	BloodPressure  bool    `json:"blood_pressure"`
	Pregnancy      bool    `json:"pregnancy"`
	InputParameter float64 `json:"input_parameter"`
	PredictedTSH   float64 `json:"predicted_tsh"`
	ModelUsed      string  `json:"model_used"`
}

// TrackResult is either a normal-range notice or a prediction.
type TrackResult struct {
	Normal     bool
	Input      float64
	Prediction *Prediction
}

type LatestPrediction struct {
	InputTSH     *float64   `json:"input_tsh"`
	PredictedTSH *float64   `json:"predicted_tsh"`
	Date         *time.Time `json:"date"`
}

// HistoryEntry is one row of the prediction history, in column order.
type HistoryEntry struct {
	ID                int64      `json:"id"`
	PatientID         int64      `json:"patientID"`
	PredictedTime     *time.Time `json:"predictedTime"`
	DiseaseID         *int64     `json:"diseaseID"`
	PredictedTSHValue *float64   `json:"predictedTSHValue"`
	LoggedDate        *time.Time `json:"loggedDate"`
	UpWeight          *float64   `json:"upWeight"`
	UpHeight          *float64   `json:"upHeight"`
	Sequence          *int64     `json:"sequence"`
	EnteredTSHValue   *float64   `json:"enteredTSHValue"`
}

// Trend is one charting point, in column order.
type Trend struct {
	Date     *time.Time `json:"date"`
	TSHValue *float64   `json:"tsh_value"`
	Weight   *float64   `json:"weight"`
}

// NewRecord is a self-reported TSH measurement.
type NewRecord struct {
	PatientID      int64
	EntryDate      time.Time
	CurrentWeight  float64
	TSHValue       float64
	TargetTSHValue float64
	Notes          string
}

// Record is a stored measurement row keyed by column name.
type Record = map[string]any
