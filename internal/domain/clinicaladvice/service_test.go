package clinicaladvice

import (
	"context"
	"errors"
	"testing"
)

type mockAdviceRepo struct {
	advice  map[int64]string
	history map[int64][]HistoryEntry
	err     error
}

func newMockAdviceRepo() *mockAdviceRepo {
	return &mockAdviceRepo{
		advice:  make(map[int64]string),
		history: make(map[int64][]HistoryEntry),
	}
}

func (m *mockAdviceRepo) Latest(_ context.Context, patientID int64) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	a, ok := m.advice[patientID]
	if !ok {
		return "", ErrAdviceNotFound
	}
	return a, nil
}

func (m *mockAdviceRepo) History(_ context.Context, patientID int64) ([]HistoryEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.history[patientID], nil
}

func TestService_Latest(t *testing.T) {
	repo := newMockAdviceRepo()
	repo.advice[1] = "Eat more greens"
	svc := NewService(repo)

	got, err := svc.Latest(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Eat more greens" {
		t.Errorf("unexpected advice %q", got)
	}

	if _, err := svc.Latest(context.Background(), 2); !errors.Is(err, ErrAdviceNotFound) {
		t.Errorf("expected ErrAdviceNotFound, got %v", err)
	}
}

func TestService_History_Empty(t *testing.T) {
	svc := NewService(newMockAdviceRepo())

	_, err := svc.History(context.Background(), 1)
	if !errors.Is(err, ErrHistoryNotFound) {
		t.Errorf("expected ErrHistoryNotFound, got %v", err)
	}
}

func TestService_History_RepoError(t *testing.T) {
	repo := newMockAdviceRepo()
	repo.err = errors.New("connection reset")
	svc := NewService(repo)

	_, err := svc.History(context.Background(), 1)
	if err == nil || errors.Is(err, ErrHistoryNotFound) {
		t.Errorf("expected wrapped repo error, got %v", err)
	}
}
