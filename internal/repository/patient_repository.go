package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/recovery-api/internal/models"
)

// ErrUnknownPatient is returned when a profile references a user that does not exist.
var ErrUnknownPatient = errors.New("unknown patient")

const foreignKeyViolation = "23503"

// PatientRepository persists onboarding profiles.
type PatientRepository struct {
	db *sqlx.DB
}

// NewPatientRepository constructs the repository.
func NewPatientRepository(db *sqlx.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

// FindProfile returns the patient's profile, or nil when the patient has not onboarded.
func (r *PatientRepository) FindProfile(ctx context.Context, patientID string) (*models.PatientProfile, error) {
	const query = `SELECT patient_id, treatment_type, treatment_date, condition, onboarded_at, updated_at FROM patient_profiles WHERE patient_id = $1`
	var profile models.PatientProfile
	if err := r.db.GetContext(ctx, &profile, query, patientID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find patient profile: %w", err)
	}
	return &profile, nil
}

// UpsertProfile creates or replaces the profile. onboarded_at keeps its first value.
func (r *PatientRepository) UpsertProfile(ctx context.Context, profile *models.PatientProfile) error {
	now := time.Now().UTC()
	if profile.OnboardedAt.IsZero() {
		profile.OnboardedAt = now
	}
	profile.UpdatedAt = now

	const upsertQuery = `INSERT INTO patient_profiles (patient_id, treatment_type, treatment_date, condition, onboarded_at, updated_at)
VALUES (:patient_id, :treatment_type, :treatment_date, :condition, :onboarded_at, :updated_at)
ON CONFLICT (patient_id) DO UPDATE SET
	treatment_type = EXCLUDED.treatment_type,
	treatment_date = EXCLUDED.treatment_date,
	condition = EXCLUDED.condition,
	updated_at = EXCLUDED.updated_at
RETURNING onboarded_at`

	query, args, err := sqlx.Named(upsertQuery, profile)
	if err != nil {
		return fmt.Errorf("bind patient profile: %w", err)
	}
	query = r.db.Rebind(query)
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&profile.OnboardedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == foreignKeyViolation {
			return ErrUnknownPatient
		}
		return fmt.Errorf("upsert patient profile: %w", err)
	}
	return nil
}
