package clinicaladvice

import (
	"context"
	"fmt"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Latest(ctx context.Context, patientID int64) (string, error) {
	advice, err := s.repo.Latest(ctx, patientID)
	if err != nil {
		return "", fmt.Errorf("get clinical advice: %w", err)
	}
	return advice, nil
}

// History returns ErrHistoryNotFound when the procedure yields no rows.
func (s *Service) History(ctx context.Context, patientID int64) ([]HistoryEntry, error) {
	entries, err := s.repo.History(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("get advice history: %w", err)
	}
	if len(entries) == 0 {
		return nil, ErrHistoryNotFound
	}
	return entries, nil
}
