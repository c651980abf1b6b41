package pregnancy

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/thyrotrack/thyrotrack/internal/platform/inference"
	"github.com/thyrotrack/thyrotrack/internal/platform/telemetry"
)

const modelName = "pregnancy_risk"

type Service struct {
	repo    Repository
	model   inference.Classifier
	metrics *telemetry.Collector
	logger  zerolog.Logger
}

func NewService(repo Repository, model inference.Classifier, metrics *telemetry.Collector, logger zerolog.Logger) *Service {
	return &Service{repo: repo, model: model, metrics: metrics, logger: logger}
}

// Predict classifies the antibody panel and records the risk class.
func (s *Service) Predict(ctx context.Context, a *Assessment) (int, error) {
	class, err := s.model.Classify(a.Features())
	if err != nil {
		return 0, fmt.Errorf("classify pregnancy risk: %w", err)
	}
	s.metrics.Prediction(modelName)
	risk := riskClass(class)

	if err := s.repo.SaveRisk(ctx, a, risk); err != nil {
		return 0, fmt.Errorf("save pregnancy risk: %w", err)
	}
	s.logger.Info().Int64("patient_id", a.PatientID).Int("risk", risk).Msg("pregnancy risk stored")
	return risk, nil
}

func (s *Service) PatientDetails(ctx context.Context, patientID int64) (map[string]any, error) {
	d, err := s.repo.PatientDetails(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("get patient details: %w", err)
	}
	return d, nil
}
