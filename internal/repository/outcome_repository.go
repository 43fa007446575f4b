package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/recovery-api/internal/models"
)

// OutcomeRepository loads the series the outcomes engine consumes and stores its snapshots.
type OutcomeRepository struct {
	db *sqlx.DB
}

// NewOutcomeRepository constructs the repository.
func NewOutcomeRepository(db *sqlx.DB) *OutcomeRepository {
	return &OutcomeRepository{db: db}
}

// ListAssessmentPoints returns a patient's ODI scores ordered by assessment date.
func (r *OutcomeRepository) ListAssessmentPoints(ctx context.Context, patientID string) ([]models.AssessmentPoint, error) {
	const query = `SELECT assessment_date, percentage_score, is_baseline FROM odi_assessments WHERE patient_id = $1 ORDER BY assessment_date ASC, created_at ASC`
	var points []models.AssessmentPoint
	if err := r.db.SelectContext(ctx, &points, query, patientID); err != nil {
		return nil, fmt.Errorf("list assessment points: %w", err)
	}
	return points, nil
}

// ListPainPoints returns a patient's check-in pain scores ordered by date.
func (r *OutcomeRepository) ListPainPoints(ctx context.Context, patientID string) ([]models.PainPoint, error) {
	const query = `SELECT recorded_date, pain_score FROM daily_checkins WHERE patient_id = $1 ORDER BY recorded_date ASC`
	var points []models.PainPoint
	if err := r.db.SelectContext(ctx, &points, query, patientID); err != nil {
		return nil, fmt.Errorf("list pain points: %w", err)
	}
	return points, nil
}

// UpsertSnapshot writes the snapshot for (patient, snapshot date), replacing any earlier
// computation on the same day.
func (r *OutcomeRepository) UpsertSnapshot(ctx context.Context, record *models.SnapshotRecord) error {
	if record.ComputedAt.IsZero() {
		record.ComputedAt = time.Now().UTC()
	}
	const query = `INSERT INTO outcome_snapshots (patient_id, snapshot_date, time_to_mcid_days, trajectory_slope_per_week, pain_function_correlation, weeks_since_baseline, plateau_detected, computed_at)
VALUES (:patient_id, :snapshot_date, :time_to_mcid_days, :trajectory_slope_per_week, :pain_function_correlation, :weeks_since_baseline, :plateau_detected, :computed_at)
ON CONFLICT (patient_id, snapshot_date) DO UPDATE SET
	time_to_mcid_days = EXCLUDED.time_to_mcid_days,
	trajectory_slope_per_week = EXCLUDED.trajectory_slope_per_week,
	pain_function_correlation = EXCLUDED.pain_function_correlation,
	weeks_since_baseline = EXCLUDED.weeks_since_baseline,
	plateau_detected = EXCLUDED.plateau_detected,
	computed_at = EXCLUDED.computed_at`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("upsert outcome snapshot: %w", err)
	}
	return nil
}

// FindBenchmark returns the row for treatmentType with the greatest checkpoint not after
// maxWeeks, or nil when none exists.
func (r *OutcomeRepository) FindBenchmark(ctx context.Context, treatmentType models.TreatmentType, maxWeeks int) (*models.BenchmarkRow, error) {
	const query = `SELECT treatment_type, weeks_post_treatment, mean_score, p25, p50, p75, sample_size
FROM outcome_benchmarks WHERE treatment_type = $1 AND weeks_post_treatment <= $2 ORDER BY weeks_post_treatment DESC LIMIT 1`
	var row models.BenchmarkRow
	if err := r.db.GetContext(ctx, &row, query, treatmentType, maxWeeks); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find benchmark: %w", err)
	}
	return &row, nil
}
