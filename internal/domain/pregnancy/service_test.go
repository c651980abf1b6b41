package pregnancy

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

type savedRisk struct {
	assessment Assessment
	risk       int
}

type mockPregnancyRepo struct {
	saved   []savedRisk
	details map[int64]map[string]any
}

func newMockPregnancyRepo() *mockPregnancyRepo {
	return &mockPregnancyRepo{details: make(map[int64]map[string]any)}
}

func (m *mockPregnancyRepo) SaveRisk(_ context.Context, a *Assessment, risk int) error {
	m.saved = append(m.saved, savedRisk{*a, risk})
	return nil
}

func (m *mockPregnancyRepo) PatientDetails(_ context.Context, patientID int64) (map[string]any, error) {
	d, ok := m.details[patientID]
	if !ok {
		return nil, ErrPatientNotFound
	}
	return d, nil
}

// thresholdModel flags high risk when TSHRAB exceeds 1.75.
type thresholdModel struct {
	last []float64
}

func (m *thresholdModel) Width() int { return 6 }

func (m *thresholdModel) Classify(x []float64) (float64, error) {
	m.last = append([]float64(nil), x...)
	if x[2] > 1.75 {
		return 1, nil
	}
	return 0, nil
}

func newTestService() (*Service, *mockPregnancyRepo, *thresholdModel) {
	repo := newMockPregnancyRepo()
	model := &thresholdModel{}
	return NewService(repo, model, nil, zerolog.Nop()), repo, model
}

func decode(t *testing.T, body string) *PredictRequest {
	t.Helper()
	var req PredictRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return &req
}

func TestPredictRequest_Validate(t *testing.T) {
	req := decode(t, `{"TPOAb":"35.2","TgAb":12,"TSHRAB":2.1,"Age":29,"Smoker":"No","Family_History":"yes","Patient_ID":"8"}`)
	a, err := req.Validate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.PatientID != 8 || a.TPOAb != 35.2 || a.Smoker != 0 || a.FamilyHistory != 1 {
		t.Errorf("unexpected assessment %+v", a)
	}
}

func TestPredictRequest_Validate_Errors(t *testing.T) {
	req := decode(t, `{"TPOAb":"lots","TgAb":12,"Age":29,"Smoker":"Sometimes"}`)
	_, err := req.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if got := strings.Join(verr.Missing, ","); got != "TSHRAB,Family_History,Patient_ID" {
		t.Errorf("unexpected missing %s", got)
	}
	if got := strings.Join(verr.Invalid, ","); got != "TPOAb,Smoker" {
		t.Errorf("unexpected invalid %s", got)
	}
}

func TestService_Predict(t *testing.T) {
	svc, repo, model := newTestService()
	a := &Assessment{PatientID: 3, TPOAb: 40, TgAb: 10, TSHRAB: 2.5, Age: 31, Smoker: 1}

	risk, err := svc.Predict(context.Background(), a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if risk != 1 {
		t.Errorf("expected risk 1, got %d", risk)
	}
	if len(model.last) != 6 || model.last[4] != 1 || model.last[5] != 0 {
		t.Errorf("unexpected features %v", model.last)
	}
	if len(repo.saved) != 1 || repo.saved[0].risk != 1 || repo.saved[0].assessment.PatientID != 3 {
		t.Errorf("unexpected stored risk %+v", repo.saved)
	}
}
