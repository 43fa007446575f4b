package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/recovery-api/internal/dto"
	"github.com/noah-isme/recovery-api/internal/models"
	appErrors "github.com/noah-isme/recovery-api/pkg/errors"
	"github.com/noah-isme/recovery-api/pkg/outcomes"
)

type assessmentRepository interface {
	Create(ctx context.Context, assessment *models.Assessment) error
	ListByPatient(ctx context.Context, patientID string) ([]models.Assessment, error)
	CountByPatient(ctx context.Context, patientID string) (int, error)
}

// AssessmentService scores and stores ODI questionnaires.
type AssessmentService struct {
	repo      assessmentRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAssessmentService constructs the service.
func NewAssessmentService(repo assessmentRepository, validate *validator.Validate, logger *zap.Logger) *AssessmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssessmentService{repo: repo, validator: validate, logger: logger, now: time.Now}
}

// Submit scores the questionnaire and stores it. A patient's first assessment becomes the
// baseline unless the request says otherwise.
func (s *AssessmentService) Submit(ctx context.Context, patientID string, req dto.SubmitAssessmentRequest) (*models.Assessment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assessment payload")
	}
	score, err := outcomes.ScoreODI(req.Responses)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	date, err := parseDateOrToday(req.AssessmentDate, s.now())
	if err != nil {
		return nil, err
	}

	baseline := false
	if req.IsBaseline != nil {
		baseline = *req.IsBaseline
	} else {
		count, err := s.repo.CountByPatient(ctx, patientID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrDataAccess.Code, appErrors.ErrDataAccess.Status, "failed to count assessments")
		}
		baseline = count == 0
	}

	assessment := &models.Assessment{
		PatientID:       patientID,
		AssessmentDate:  date,
		Responses:       models.ODIResponses(req.Responses),
		TotalScore:      score.Total,
		PercentageScore: score.Percentage,
		IsBaseline:      baseline,
	}
	if err := s.repo.Create(ctx, assessment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store assessment")
	}
	s.logger.Debug("assessment stored",
		zap.String("patient_id", patientID),
		zap.Float64("percentage", score.Percentage),
		zap.Bool("baseline", baseline))
	return assessment, nil
}

// List returns the patient's assessment history, oldest first.
func (s *AssessmentService) List(ctx context.Context, patientID string) ([]models.Assessment, error) {
	items, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataAccess.Code, appErrors.ErrDataAccess.Status, "failed to list assessments")
	}
	if items == nil {
		items = []models.Assessment{}
	}
	return items, nil
}

// parseDateOrToday reads a YYYY-MM-DD date, falling back to now's UTC calendar day.
func parseDateOrToday(value string, now time.Time) (time.Time, error) {
	if value == "" {
		y, m, d := now.UTC().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return parseDate(value)
}

func parseDate(value string) (time.Time, error) {
	t, err := time.Parse(dto.DateLayout, value)
	if err != nil {
		return time.Time{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "dates must use YYYY-MM-DD")
	}
	return t, nil
}
