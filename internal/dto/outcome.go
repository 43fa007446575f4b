package dto

import "github.com/noah-isme/recovery-api/internal/models"

// DateLayout is the calendar date format accepted by patient endpoints.
const DateLayout = "2006-01-02"

// SubmitAssessmentRequest captures POST /patients/:id/assessments payload.
type SubmitAssessmentRequest struct {
	Responses      []*int `json:"responses" validate:"required,len=10"`
	AssessmentDate string `json:"assessmentDate" validate:"omitempty,datetime=2006-01-02"`
	IsBaseline     *bool  `json:"isBaseline,omitempty"`
}

// UpsertCheckInRequest captures PUT /patients/:id/checkins payload.
type UpsertCheckInRequest struct {
	RecordedDate string  `json:"recordedDate" validate:"omitempty,datetime=2006-01-02"`
	PainScore    *int    `json:"painScore" validate:"required,min=0,max=10"`
	Mood         *int    `json:"mood,omitempty" validate:"omitempty,min=1,max=5"`
	Notes        *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// CheckInQuery binds GET /patients/:id/checkins filters.
type CheckInQuery struct {
	From string `form:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `form:"to" validate:"omitempty,datetime=2006-01-02"`
}

// UpsertProfileRequest captures PUT /patients/:id/profile payload.
type UpsertProfileRequest struct {
	TreatmentType models.TreatmentType `json:"treatmentType" validate:"required,oneof=conservative physical_therapy injection post_surgery"`
	TreatmentDate string               `json:"treatmentDate" validate:"required,datetime=2006-01-02"`
	Condition     string               `json:"condition" validate:"max=255"`
}

// BenchmarkQuery binds GET /benchmarks parameters.
type BenchmarkQuery struct {
	Score         *float64             `form:"score"`
	TreatmentType models.TreatmentType `form:"treatmentType"`
	Weeks         *int                 `form:"weeks"`
}

// BenchmarkResponse wraps a comparison for the benchmark endpoint.
type BenchmarkResponse struct {
	Score         float64                     `json:"score"`
	TreatmentType models.TreatmentType        `json:"treatmentType"`
	Weeks         int                         `json:"weeks"`
	Comparison    *models.BenchmarkComparison `json:"comparison"`
}
