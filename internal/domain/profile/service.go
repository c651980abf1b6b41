package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

type Service struct {
	repo   Repository
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Get returns the profile with the gender defaulted for display.
func (s *Service) Get(ctx context.Context, patientID int64) (*Profile, error) {
	p, err := s.repo.Get(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if p.Gender == "" {
		p.Gender = defaultGender
	}
	return p, nil
}

// Update writes the profile. Identical updates send identical arguments
// apart from the timestamp.
func (s *Service) Update(ctx context.Context, u *Update) error {
	if err := s.repo.Update(ctx, u, s.now().UTC().Truncate(time.Second)); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	s.logger.Info().Int64("patient_id", u.PatientID).Msg("profile updated")
	return nil
}

// UpdateAndGet writes the profile and reads it back.
func (s *Service) UpdateAndGet(ctx context.Context, u *Update) (*Profile, error) {
	if err := s.Update(ctx, u); err != nil {
		return nil, err
	}
	p, err := s.repo.Get(ctx, u.PatientID)
	if err != nil {
		return nil, fmt.Errorf("reread profile: %w", err)
	}
	return p, nil
}

func (s *Service) FirstLogin(ctx context.Context, patientID int64) (bool, error) {
	first, err := s.repo.FirstLogin(ctx, patientID)
	if err != nil {
		return false, fmt.Errorf("check first login: %w", err)
	}
	return first, nil
}
