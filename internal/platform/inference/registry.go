package inference

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Artifact files expected in the model directory.
const (
	FileTSHHyper       = "tsh_hyper.json"
	FileTSHHypo        = "tsh_hypo.json"
	FileFoodClassifier = "food_classifier.json"
	FileFoodScaler     = "food_scaler.json"
	FileGenderEncoder  = "gender_encoder.json"
	FilePregnancyRisk  = "pregnancy_risk.json"
)

// Feature widths of each model's input vector.
const (
	TSHFeatures       = 9
	FoodFeatures      = 8
	PregnancyFeatures = 6
)

// Registry holds every model the server uses. Built once at start.
type Registry struct {
	TSHHyper       Regressor
	TSHHypo        Regressor
	FoodClassifier Classifier
	FoodScaler     *StandardScaler
	GenderEncoder  *LabelEncoder
	PregnancyRisk  Classifier

	artifacts []Summary
}

// Summary describes one loaded artifact.
type Summary struct {
	File  string
	Kind  Kind
	Width int
}

type loader struct {
	dir       string
	summaries []Summary
	errs      []error
}

func (l *loader) load(file string, width int) *Artifact {
	a, err := LoadFile(filepath.Join(l.dir, file))
	if err != nil {
		l.errs = append(l.errs, err)
		return nil
	}
	if width > 0 && a.Width() != width {
		l.errs = append(l.errs, fmt.Errorf("%s: %w: model takes %d, caller sends %d", file, ErrFeatureWidth, a.Width(), width))
		return nil
	}
	l.summaries = append(l.summaries, Summary{File: file, Kind: a.Kind, Width: a.Width()})
	return a
}

func (l *loader) regressor(file string, width int) Regressor {
	a := l.load(file, width)
	if a == nil {
		return nil
	}
	r, ok := a.Regressor()
	if !ok {
		l.errs = append(l.errs, fmt.Errorf("%s: %s artifact is not a regressor", file, a.Kind))
	}
	return r
}

func (l *loader) classifier(file string, width int) Classifier {
	a := l.load(file, width)
	if a == nil {
		return nil
	}
	c, ok := a.Classifier()
	if !ok {
		l.errs = append(l.errs, fmt.Errorf("%s: %s artifact is not a classifier", file, a.Kind))
	}
	return c
}

// LoadRegistry loads the fixed artifact set from dir. Every problem found is
// reported, not just the first.
func LoadRegistry(dir string) (*Registry, error) {
	l := &loader{dir: dir}
	r := &Registry{
		TSHHyper:       l.regressor(FileTSHHyper, TSHFeatures),
		TSHHypo:        l.regressor(FileTSHHypo, TSHFeatures),
		FoodClassifier: l.classifier(FileFoodClassifier, FoodFeatures),
		PregnancyRisk:  l.classifier(FilePregnancyRisk, PregnancyFeatures),
	}
	if a := l.load(FileFoodScaler, FoodFeatures); a != nil {
		if a.Kind != KindStandardScaler {
			l.errs = append(l.errs, fmt.Errorf("%s: %s artifact is not a scaler", FileFoodScaler, a.Kind))
		}
		r.FoodScaler = a.Scaler
	}
	if a := l.load(FileGenderEncoder, 0); a != nil {
		if a.Kind != KindLabelEncoder {
			l.errs = append(l.errs, fmt.Errorf("%s: %s artifact is not a label encoder", FileGenderEncoder, a.Kind))
		}
		r.GenderEncoder = a.Encoder
	}

	if err := errors.Join(l.errs...); err != nil {
		return nil, err
	}
	r.artifacts = l.summaries
	return r, nil
}

// Artifacts lists what was loaded, in load order.
func (r *Registry) Artifacts() []Summary {
	out := make([]Summary, len(r.artifacts))
	copy(out, r.artifacts)
	return out
}
