package tsh

import "math"

const (
	ModelHyper = "Hyperthyroidism Model"
	ModelHypo  = "Hypothyroidism Model"

	hyperBelow = 0.4
	hypoAbove  = 4.0
)

// Route picks the model for a measured TSH value. The empty string means the
// value is in the normal range and no prediction is made.
func Route(input float64) string {
	switch {
	case input < hyperBelow:
		return ModelHyper
	case input > hypoAbove:
		return ModelHypo
	default:
		return ""
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
