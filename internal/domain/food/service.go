package food

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/thyrotrack/thyrotrack/internal/platform/inference"
	"github.com/thyrotrack/thyrotrack/internal/platform/llm"
	"github.com/thyrotrack/thyrotrack/internal/platform/telemetry"
)

const modelName = "food_classifier"

// Models groups the fitted preprocessing steps with the classifier.
type Models struct {
	Classifier inference.Classifier
	Scaler     *inference.StandardScaler
	Encoder    *inference.LabelEncoder
}

type Service struct {
	repo      Repository
	models    Models
	generator llm.Generator
	metrics   *telemetry.Collector
	logger    zerolog.Logger
}

func NewService(repo Repository, models Models, generator llm.Generator, metrics *telemetry.Collector, logger zerolog.Logger) *Service {
	return &Service{repo: repo, models: models, generator: generator, metrics: metrics, logger: logger}
}

// Classify encodes, scales and classifies a patient row.
func (s *Service) Classify(d *InputData) (int, error) {
	bmi, err := d.BMI()
	if err != nil {
		return 0, err
	}
	gender, err := s.models.Encoder.Transform(d.Gender)
	if err != nil {
		return 0, fmt.Errorf("encode gender: %w", err)
	}
	x := []float64{
		float64(d.Age),
		float64(gender),
		d.TSH,
		bmi,
		flag(d.Diabetes),
		flag(d.Cholesterol),
		flag(d.BloodPressure),
		flag(d.Pregnancy),
	}
	scaled, err := s.models.Scaler.Transform(x)
	if err != nil {
		return 0, fmt.Errorf("scale features: %w", err)
	}
	class, err := s.models.Classifier.Classify(scaled)
	if err != nil {
		return 0, fmt.Errorf("classify: %w", err)
	}
	s.metrics.Prediction(modelName)
	return categoryID(class), nil
}

// Recommend predicts the food category, asks the generator for advice and
// stores the result.
func (s *Service) Recommend(ctx context.Context, patientID int64) (*Recommendation, error) {
	d, err := s.repo.InputData(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("get input data: %w", err)
	}

	id, err := s.Classify(d)
	if err != nil {
		return nil, err
	}
	cat := Lookup(id)

	bmi, _ := d.BMI()
	prompt := BuildPrompt(cat.Foods, Conditions{
		BMIClass:      BMIClass(bmi),
		Diabetes:      d.Diabetes,
		Cholesterol:   d.Cholesterol,
		BloodPressure: d.BloodPressure,
		Pregnancy:     d.Pregnancy,
		TSH:           d.TSH,
	})
	advice, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate advice: %w", err)
	}

	rec := &Recommendation{
		PredictedCategory:   id,
		CategoryDescription: cat.Description,
		RecommendedFoods:    cat.Foods,
		ClinicalAdvice:      advice,
	}
	if err := s.repo.Save(ctx, patientID, rec); err != nil {
		return nil, fmt.Errorf("save recommendation: %w", err)
	}

	s.logger.Info().
		Int64("patient_id", patientID).
		Int("category", id).
		Int("advice_bytes", len(advice)).
		Msg("food recommendation stored")
	return rec, nil
}
