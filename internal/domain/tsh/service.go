package tsh

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/thyrotrack/thyrotrack/internal/platform/inference"
	"github.com/thyrotrack/thyrotrack/internal/platform/telemetry"
)

type Service struct {
	repo    Repository
	models  map[string]inference.Regressor
	metrics *telemetry.Collector
	logger  zerolog.Logger
}

func NewService(repo Repository, hyper, hypo inference.Regressor, metrics *telemetry.Collector, logger zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		models:  map[string]inference.Regressor{ModelHyper: hyper, ModelHypo: hypo},
		metrics: metrics,
		logger:  logger,
	}
}

// Track routes a measured TSH value to a model, predicts the next value and
// stores it. Values in the normal range return without touching the
// database or any model.
func (s *Service) Track(ctx context.Context, patientID int64, input float64) (*TrackResult, error) {
	name := Route(input)
	if name == "" {
		return &TrackResult{Normal: true, Input: input}, nil
	}
	model := s.models[name]
	if model == nil {
		return nil, fmt.Errorf("%s is not loaded", name)
	}

	params, err := s.repo.HealthParameters(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("get health parameters: %w", err)
	}

	raw, err := model.Predict(params.Features(input))
	if err != nil {
		return nil, fmt.Errorf("predict with %s: %w", name, err)
	}
	s.metrics.Prediction(name)

	p := &Prediction{
		PatientID:      patientID,
		Age:            params.Age,
		Gender:         params.Gender,
		Weight:         params.Weight,
		Height:         params.Height,
		Diabetes:       params.Diabetes,
		Cholesterol:    params.Cholesterol,
		BloodPressure:  params.BloodPressure,
		Pregnancy:      params.Pregnancy,
		InputParameter: input,
		PredictedTSH:   round2(raw),
		ModelUsed:      name,
	}
	if err := s.repo.SavePrediction(ctx, p); err != nil {
		return nil, fmt.Errorf("save prediction: %w", err)
	}

	s.logger.Info().
		Int64("patient_id", patientID).
		Str("model", name).
		Float64("predicted_tsh", p.PredictedTSH).
		Msg("tsh predicted")
	return &TrackResult{Input: input, Prediction: p}, nil
}

func (s *Service) PatientData(ctx context.Context, patientID int64) (*PatientData, error) {
	params, err := s.repo.HealthParameters(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("get health parameters: %w", err)
	}
	return params.Display(), nil
}

func (s *Service) Latest(ctx context.Context, patientID int64) (*LatestPrediction, error) {
	l, err := s.repo.Latest(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("get latest prediction: %w", err)
	}
	return l, nil
}

func (s *Service) History(ctx context.Context, patientID int64) ([]HistoryEntry, error) {
	h, err := s.repo.History(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("get tsh history: %w", err)
	}
	if h == nil {
		h = []HistoryEntry{}
	}
	return h, nil
}

func (s *Service) AddRecord(ctx context.Context, r *NewRecord) (int64, error) {
	id, err := s.repo.InsertRecord(ctx, r)
	if err != nil {
		return 0, fmt.Errorf("insert tsh record: %w", err)
	}
	return id, nil
}

func (s *Service) Records(ctx context.Context, patientID int64) ([]Record, error) {
	recs, err := s.repo.Records(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("get tsh records: %w", err)
	}
	if recs == nil {
		recs = []Record{}
	}
	return recs, nil
}

func (s *Service) Trends(ctx context.Context, patientID int64) ([]Trend, error) {
	t, err := s.repo.Trends(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("get patient trends: %w", err)
	}
	if t == nil {
		t = []Trend{}
	}
	return t, nil
}
