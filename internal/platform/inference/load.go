package inference

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Artifact is one decoded model file.
type Artifact struct {
	Kind    Kind
	Name    string
	Linear  *Linear
	Trees   *TreeEnsemble
	Scaler  *StandardScaler
	Encoder *LabelEncoder
}

// Width returns the number of input features the artifact expects, or 0 for
// label encoders, which take a single category.
func (a *Artifact) Width() int {
	switch a.Kind {
	case KindLinear:
		return a.Linear.Width()
	case KindTreeEnsemble:
		return a.Trees.Width()
	case KindStandardScaler:
		return a.Scaler.Width()
	}
	return 0
}

// Regressor returns the artifact as a regressor, if it is one.
func (a *Artifact) Regressor() (Regressor, bool) {
	switch {
	case a.Kind == KindLinear:
		return a.Linear, true
	case a.Kind == KindTreeEnsemble && a.Trees.Task == TaskRegression:
		return a.Trees, true
	}
	return nil, false
}

// Classifier returns the artifact as a classifier, if it is one.
func (a *Artifact) Classifier() (Classifier, bool) {
	if a.Kind == KindTreeEnsemble && a.Trees.Task == TaskClassification {
		return a.Trees, true
	}
	return nil, false
}

// Decode parses an artifact document and validates its shape.
func Decode(data []byte) (*Artifact, error) {
	var head struct {
		Kind Kind   `json:"kind"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	a := &Artifact{Kind: head.Kind, Name: head.Name}
	var (
		target    any
		validator func() error
	)
	switch head.Kind {
	case KindLinear:
		a.Linear = &Linear{}
		target, validator = a.Linear, a.Linear.validate
	case KindTreeEnsemble:
		a.Trees = &TreeEnsemble{}
		target, validator = a.Trees, a.Trees.validate
	case KindStandardScaler:
		a.Scaler = &StandardScaler{}
		target, validator = a.Scaler, a.Scaler.validate
	case KindLabelEncoder:
		a.Encoder = &LabelEncoder{}
		target, validator = a.Encoder, a.Encoder.validate
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrMalformed, head.Kind)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := validator(); err != nil {
		return nil, err
	}
	return a, nil
}

// LoadFile reads and decodes one artifact file.
func LoadFile(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model %s: %w", path, err)
	}
	a, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", filepath.Base(path), err)
	}
	if a.Name == "" {
		a.Name = filepath.Base(path)
	}
	return a, nil
}
