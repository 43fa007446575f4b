package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/recovery-api/internal/dto"
	"github.com/noah-isme/recovery-api/internal/models"
	"github.com/noah-isme/recovery-api/internal/repository"
	appErrors "github.com/noah-isme/recovery-api/pkg/errors"
)

type patientRepository interface {
	FindProfile(ctx context.Context, patientID string) (*models.PatientProfile, error)
	UpsertProfile(ctx context.Context, profile *models.PatientProfile) error
}

// PatientService manages onboarding profiles.
type PatientService struct {
	repo      patientRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPatientService constructs the service.
func NewPatientService(repo patientRepository, validate *validator.Validate, logger *zap.Logger) *PatientService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PatientService{repo: repo, validator: validate, logger: logger}
}

// GetProfile returns the patient's profile or ErrNotOnboarded.
func (s *PatientService) GetProfile(ctx context.Context, patientID string) (*models.PatientProfile, error) {
	profile, err := s.repo.FindProfile(ctx, patientID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataAccess.Code, appErrors.ErrDataAccess.Status, "failed to load patient profile")
	}
	if profile == nil {
		return nil, appErrors.ErrNotOnboarded
	}
	return profile, nil
}

// UpsertProfile creates or replaces the onboarding profile.
func (s *PatientService) UpsertProfile(ctx context.Context, patientID string, req dto.UpsertProfileRequest) (*models.PatientProfile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}
	if !req.TreatmentType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown treatment type")
	}
	treatmentDate, err := parseDate(req.TreatmentDate)
	if err != nil {
		return nil, err
	}

	profile := &models.PatientProfile{
		PatientID:     patientID,
		TreatmentType: req.TreatmentType,
		TreatmentDate: treatmentDate,
		Condition:     req.Condition,
	}
	if err := s.repo.UpsertProfile(ctx, profile); err != nil {
		if errors.Is(err, repository.ErrUnknownPatient) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "patient not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store patient profile")
	}
	s.logger.Info("patient profile updated", zap.String("patient_id", patientID), zap.String("treatment_type", string(req.TreatmentType)))
	return profile, nil
}
