package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/recovery-api/internal/dto"
	"github.com/noah-isme/recovery-api/internal/models"
	appErrors "github.com/noah-isme/recovery-api/pkg/errors"
)

type checkInRepository interface {
	Upsert(ctx context.Context, checkIn *models.CheckIn) error
	List(ctx context.Context, patientID string, filter models.CheckInFilter) ([]models.CheckIn, error)
}

// CheckInService records daily pain and mood self-reports.
type CheckInService struct {
	repo      checkInRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewCheckInService constructs the service.
func NewCheckInService(repo checkInRepository, validate *validator.Validate, logger *zap.Logger) *CheckInService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckInService{repo: repo, validator: validate, logger: logger, now: time.Now}
}

// Upsert stores the check-in for the given day, today when omitted.
func (s *CheckInService) Upsert(ctx context.Context, patientID string, req dto.UpsertCheckInRequest) (*models.CheckIn, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid check-in payload")
	}
	date, err := parseDateOrToday(req.RecordedDate, s.now())
	if err != nil {
		return nil, err
	}
	today, _ := parseDateOrToday("", s.now())
	if date.After(today) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "check-ins cannot be recorded for future dates")
	}

	checkIn := &models.CheckIn{
		PatientID:    patientID,
		RecordedDate: date,
		PainScore:    *req.PainScore,
		Mood:         req.Mood,
		Notes:        req.Notes,
	}
	if err := s.repo.Upsert(ctx, checkIn); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store check-in")
	}
	return checkIn, nil
}

// List returns check-ins within the optional inclusive date range.
func (s *CheckInService) List(ctx context.Context, patientID string, query dto.CheckInQuery) ([]models.CheckIn, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid check-in filter")
	}
	var filter models.CheckInFilter
	if query.From != "" {
		from, err := parseDate(query.From)
		if err != nil {
			return nil, err
		}
		filter.From = &from
	}
	if query.To != "" {
		to, err := parseDate(query.To)
		if err != nil {
			return nil, err
		}
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "to must not be before from")
	}

	items, err := s.repo.List(ctx, patientID, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataAccess.Code, appErrors.ErrDataAccess.Status, "failed to list check-ins")
	}
	if items == nil {
		items = []models.CheckIn{}
	}
	return items, nil
}
