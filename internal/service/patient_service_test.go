package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/recovery-api/internal/dto"
	"github.com/noah-isme/recovery-api/internal/models"
	"github.com/noah-isme/recovery-api/internal/repository"
	appErrors "github.com/noah-isme/recovery-api/pkg/errors"
)

type patientRepoStub struct {
	profile   *models.PatientProfile
	findErr   error
	upsertErr error
}

func (r *patientRepoStub) FindProfile(context.Context, string) (*models.PatientProfile, error) {
	return r.profile, r.findErr
}

func (r *patientRepoStub) UpsertProfile(_ context.Context, profile *models.PatientProfile) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.profile = profile
	return nil
}

func TestPatientServiceGetProfile(t *testing.T) {
	repo := &patientRepoStub{}
	svc := NewPatientService(repo, nil, zap.NewNop())

	_, err := svc.GetProfile(context.Background(), "patient-1")
	require.ErrorIs(t, err, appErrors.ErrNotOnboarded)

	repo.profile = &models.PatientProfile{PatientID: "patient-1", TreatmentType: models.TreatmentInjection}
	got, err := svc.GetProfile(context.Background(), "patient-1")
	require.NoError(t, err)
	assert.Equal(t, models.TreatmentInjection, got.TreatmentType)

	repo.findErr = errors.New("db down")
	_, err = svc.GetProfile(context.Background(), "patient-1")
	require.ErrorIs(t, err, appErrors.ErrDataAccess)
}

func TestPatientServiceUpsertProfile(t *testing.T) {
	repo := &patientRepoStub{}
	svc := NewPatientService(repo, nil, zap.NewNop())

	got, err := svc.UpsertProfile(context.Background(), "patient-1", dto.UpsertProfileRequest{
		TreatmentType: models.TreatmentPhysicalTherapy,
		TreatmentDate: "2026-04-20",
		Condition:     "lumbar disc herniation",
	})
	require.NoError(t, err)
	assert.Equal(t, "patient-1", got.PatientID)
	assert.Equal(t, 20, got.TreatmentDate.Day())
	assert.Same(t, got, repo.profile)
}

func TestPatientServiceUpsertProfileErrors(t *testing.T) {
	svc := NewPatientService(&patientRepoStub{}, nil, zap.NewNop())
	_, err := svc.UpsertProfile(context.Background(), "patient-1", dto.UpsertProfileRequest{TreatmentType: "surgery", TreatmentDate: "2026-04-20"})
	require.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.UpsertProfile(context.Background(), "patient-1", dto.UpsertProfileRequest{TreatmentType: models.TreatmentInjection})
	require.ErrorIs(t, err, appErrors.ErrValidation)

	svc = NewPatientService(&patientRepoStub{upsertErr: repository.ErrUnknownPatient}, nil, zap.NewNop())
	_, err = svc.UpsertProfile(context.Background(), "ghost", dto.UpsertProfileRequest{TreatmentType: models.TreatmentInjection, TreatmentDate: "2026-04-20"})
	require.ErrorIs(t, err, appErrors.ErrNotFound)
}
