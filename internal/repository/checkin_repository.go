package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/recovery-api/internal/models"
)

const checkInColumns = `id, patient_id, recorded_date, pain_score, mood, notes, created_at, updated_at`

// CheckInRepository persists daily pain check-ins.
type CheckInRepository struct {
	db *sqlx.DB
}

// NewCheckInRepository constructs the repository.
func NewCheckInRepository(db *sqlx.DB) *CheckInRepository {
	return &CheckInRepository{db: db}
}

// Upsert stores the check-in for (patient, recorded date). A second submission on the same
// day overwrites the first and keeps its id.
func (r *CheckInRepository) Upsert(ctx context.Context, checkIn *models.CheckIn) error {
	if checkIn.ID == "" {
		checkIn.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if checkIn.CreatedAt.IsZero() {
		checkIn.CreatedAt = now
	}
	checkIn.UpdatedAt = now

	const upsertQuery = `INSERT INTO daily_checkins (` + checkInColumns + `)
VALUES (:id, :patient_id, :recorded_date, :pain_score, :mood, :notes, :created_at, :updated_at)
ON CONFLICT (patient_id, recorded_date) DO UPDATE SET
	pain_score = EXCLUDED.pain_score,
	mood = EXCLUDED.mood,
	notes = EXCLUDED.notes,
	updated_at = EXCLUDED.updated_at
RETURNING id, created_at`

	query, args, err := sqlx.Named(upsertQuery, checkIn)
	if err != nil {
		return fmt.Errorf("bind check-in: %w", err)
	}
	query = r.db.Rebind(query)
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&checkIn.ID, &checkIn.CreatedAt); err != nil {
		return fmt.Errorf("upsert check-in: %w", err)
	}
	return nil
}

// List returns check-ins for a patient, oldest first, optionally bounded by date.
func (r *CheckInRepository) List(ctx context.Context, patientID string, filter models.CheckInFilter) ([]models.CheckIn, error) {
	conditions := []string{"patient_id = $1"}
	args := []interface{}{patientID}
	if filter.From != nil {
		args = append(args, *filter.From)
		conditions = append(conditions, fmt.Sprintf("recorded_date >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conditions = append(conditions, fmt.Sprintf("recorded_date <= $%d", len(args)))
	}

	query := fmt.Sprintf("SELECT %s FROM daily_checkins WHERE %s ORDER BY recorded_date ASC", checkInColumns, strings.Join(conditions, " AND "))
	var items []models.CheckIn
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list check-ins: %w", err)
	}
	return items, nil
}
