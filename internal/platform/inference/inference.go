// Package inference evaluates pre-trained estimators exported to JSON.
//
// Four artifact kinds are understood: linear regressors, tree ensembles
// (random forests and single decision trees, regression or classification,
// in scikit-learn's flat node-array layout), standard scalers and label
// encoders. Artifacts are immutable once loaded and safe for concurrent use.
package inference

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindLinear         Kind = "linear"
	KindTreeEnsemble   Kind = "tree_ensemble"
	KindStandardScaler Kind = "standard_scaler"
	KindLabelEncoder   Kind = "label_encoder"
)

var (
	ErrFeatureWidth = errors.New("inference: wrong number of features")
	ErrUnknownLabel = errors.New("inference: unknown label")
	ErrMalformed    = errors.New("inference: malformed artifact")
)

// Regressor predicts a continuous value.
type Regressor interface {
	Predict(x []float64) (float64, error)
	Width() int
}

// Classifier predicts a class label. Labels are numeric, as exported.
type Classifier interface {
	Classify(x []float64) (float64, error)
	Width() int
}

func checkWidth(x []float64, want int) error {
	if len(x) != want {
		return fmt.Errorf("%w: got %d, want %d", ErrFeatureWidth, len(x), want)
	}
	return nil
}

// Linear is y = coefficients·x + intercept.
type Linear struct {
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

func (m *Linear) Width() int { return len(m.Coefficients) }

func (m *Linear) Predict(x []float64) (float64, error) {
	if err := checkWidth(x, len(m.Coefficients)); err != nil {
		return 0, err
	}
	y := m.Intercept
	for i, c := range m.Coefficients {
		y += c * x[i]
	}
	return y, nil
}

func (m *Linear) validate() error {
	if len(m.Coefficients) == 0 {
		return fmt.Errorf("%w: linear model without coefficients", ErrMalformed)
	}
	return nil
}

// StandardScaler applies (x - mean) / scale per feature.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

func (s *StandardScaler) Width() int { return len(s.Mean) }

func (s *StandardScaler) Transform(x []float64) ([]float64, error) {
	if err := checkWidth(x, len(s.Mean)); err != nil {
		return nil, err
	}
	out := make([]float64, len(x))
	for i, v := range x {
		scale := s.Scale[i]
		if scale == 0 {
			scale = 1
		}
		out[i] = (v - s.Mean[i]) / scale
	}
	return out, nil
}

func (s *StandardScaler) validate() error {
	if len(s.Mean) == 0 || len(s.Mean) != len(s.Scale) {
		return fmt.Errorf("%w: scaler has %d means and %d scales", ErrMalformed, len(s.Mean), len(s.Scale))
	}
	return nil
}

// LabelEncoder maps a category to its index in the sorted class list.
type LabelEncoder struct {
	Classes []string `json:"classes"`
}

// Transform returns the index of v. An exact match wins; otherwise the
// comparison ignores case.
func (e *LabelEncoder) Transform(v string) (int, error) {
	for i, c := range e.Classes {
		if c == v {
			return i, nil
		}
	}
	for i, c := range e.Classes {
		if equalFold(c, v) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLabel, v)
}

func (e *LabelEncoder) validate() error {
	if len(e.Classes) == 0 {
		return fmt.Errorf("%w: label encoder without classes", ErrMalformed)
	}
	return nil
}
