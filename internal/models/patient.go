package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// PatientProfile captures onboarding data used to benchmark outcomes.
type PatientProfile struct {
	PatientID     string        `db:"patient_id" json:"patient_id"`
	TreatmentType TreatmentType `db:"treatment_type" json:"treatment_type"`
	TreatmentDate time.Time     `db:"treatment_date" json:"treatment_date"`
	Condition     string        `db:"condition" json:"condition"`
	OnboardedAt   time.Time     `db:"onboarded_at" json:"onboarded_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}

// ODIResponses stores the ten section answers; nil entries are skipped sections.
type ODIResponses []*int

// Value marshals responses to JSON for persistence.
func (r ODIResponses) Value() (driver.Value, error) {
	if r == nil {
		r = ODIResponses{}
	}
	data, err := json.Marshal([]*int(r))
	if err != nil {
		return nil, fmt.Errorf("marshal odi responses: %w", err)
	}
	return data, nil
}

// Scan unmarshals JSON payloads into the responses slice.
func (r *ODIResponses) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*r = nil
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for ODIResponses", value)
	}
	if len(data) == 0 {
		*r = nil
		return nil
	}
	var out []*int
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("unmarshal odi responses: %w", err)
	}
	*r = out
	return nil
}

// Assessment is a scored ODI questionnaire.
type Assessment struct {
	ID              string       `db:"id" json:"id"`
	PatientID       string       `db:"patient_id" json:"patient_id"`
	AssessmentDate  time.Time    `db:"assessment_date" json:"assessment_date"`
	Responses       ODIResponses `db:"responses" json:"responses"`
	TotalScore      int          `db:"total_score" json:"total_score"`
	PercentageScore float64      `db:"percentage_score" json:"percentage_score"`
	IsBaseline      bool         `db:"is_baseline" json:"is_baseline"`
	CreatedAt       time.Time    `db:"created_at" json:"created_at"`
}

// CheckIn is a daily self-report; its pain score feeds the pain series.
type CheckIn struct {
	ID           string    `db:"id" json:"id"`
	PatientID    string    `db:"patient_id" json:"patient_id"`
	RecordedDate time.Time `db:"recorded_date" json:"recorded_date"`
	PainScore    int       `db:"pain_score" json:"pain_score"`
	Mood         *int      `db:"mood" json:"mood,omitempty"`
	Notes        *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// CheckInFilter scopes check-in listings.
type CheckInFilter struct {
	From *time.Time
	To   *time.Time
}
