package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/recovery-api/internal/models"
)

const assessmentColumns = `id, patient_id, assessment_date, responses, total_score, percentage_score, is_baseline, created_at`

// AssessmentRepository persists scored ODI questionnaires.
type AssessmentRepository struct {
	db *sqlx.DB
}

// NewAssessmentRepository constructs the repository.
func NewAssessmentRepository(db *sqlx.DB) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

// Create inserts an assessment row.
func (r *AssessmentRepository) Create(ctx context.Context, assessment *models.Assessment) error {
	if assessment.ID == "" {
		assessment.ID = uuid.NewString()
	}
	if assessment.CreatedAt.IsZero() {
		assessment.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO odi_assessments (` + assessmentColumns + `)
VALUES (:id, :patient_id, :assessment_date, :responses, :total_score, :percentage_score, :is_baseline, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assessment); err != nil {
		return fmt.Errorf("create assessment: %w", err)
	}
	return nil
}

// ListByPatient returns a patient's assessments oldest first.
func (r *AssessmentRepository) ListByPatient(ctx context.Context, patientID string) ([]models.Assessment, error) {
	const query = `SELECT ` + assessmentColumns + ` FROM odi_assessments WHERE patient_id = $1 ORDER BY assessment_date ASC, created_at ASC`
	var items []models.Assessment
	if err := r.db.SelectContext(ctx, &items, query, patientID); err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	return items, nil
}

// CountByPatient returns how many assessments a patient has submitted.
func (r *AssessmentRepository) CountByPatient(ctx context.Context, patientID string) (int, error) {
	const query = `SELECT COUNT(*) FROM odi_assessments WHERE patient_id = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, query, patientID); err != nil {
		return 0, fmt.Errorf("count assessments: %w", err)
	}
	return total, nil
}
