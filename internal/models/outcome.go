package models

import "time"

// TreatmentType enumerates the treatment categories benchmark rows are published for.
type TreatmentType string

const (
	TreatmentConservative    TreatmentType = "conservative"
	TreatmentPhysicalTherapy TreatmentType = "physical_therapy"
	TreatmentInjection       TreatmentType = "injection"
	TreatmentPostSurgery     TreatmentType = "post_surgery"
)

// Valid reports whether t is a known treatment type.
func (t TreatmentType) Valid() bool {
	switch t {
	case TreatmentConservative, TreatmentPhysicalTherapy, TreatmentInjection, TreatmentPostSurgery:
		return true
	default:
		return false
	}
}

// AssessmentPoint is the slice of an ODI assessment the outcomes engine consumes.
type AssessmentPoint struct {
	AssessmentDate  time.Time `db:"assessment_date" json:"assessment_date"`
	PercentageScore float64   `db:"percentage_score" json:"percentage_score"`
	IsBaseline      bool      `db:"is_baseline" json:"is_baseline"`
}

// PainPoint is one pain-scale reading (0-10).
type PainPoint struct {
	RecordedDate time.Time `db:"recorded_date" json:"recorded_date"`
	PainScore    int       `db:"pain_score" json:"pain_score"`
}

// AnalyticsSnapshot holds the derived outcome signals for a patient. Nil pointers mean
// there is not enough data yet.
type AnalyticsSnapshot struct {
	TimeToMCIDDays          *int     `db:"time_to_mcid_days" json:"time_to_mcid_days"`
	TrajectorySlopePerWeek  *float64 `db:"trajectory_slope_per_week" json:"trajectory_slope_per_week"`
	PainFunctionCorrelation *float64 `db:"pain_function_correlation" json:"pain_function_correlation"`
	WeeksSinceBaseline      int      `db:"weeks_since_baseline" json:"weeks_since_baseline"`
	PlateauDetected         bool     `db:"plateau_detected" json:"plateau_detected"`
}

// SnapshotRecord is the persisted copy of a snapshot keyed by patient and date.
type SnapshotRecord struct {
	PatientID    string    `db:"patient_id" json:"patient_id"`
	SnapshotDate time.Time `db:"snapshot_date" json:"snapshot_date"`
	AnalyticsSnapshot
	ComputedAt time.Time `db:"computed_at" json:"computed_at"`
}

// BenchmarkRow is population reference data for one treatment type at one checkpoint.
type BenchmarkRow struct {
	TreatmentType      TreatmentType `db:"treatment_type" json:"treatment_type"`
	WeeksPostTreatment int           `db:"weeks_post_treatment" json:"weeks_post_treatment"`
	MeanScore          float64       `db:"mean_score" json:"mean_score"`
	P25                float64       `db:"p25" json:"p25"`
	P50                float64       `db:"p50" json:"p50"`
	P75                float64       `db:"p75" json:"p75"`
	SampleSize         int           `db:"sample_size" json:"sample_size"`
}

// BenchmarkInterpretation labels the percentile band a score falls in.
type BenchmarkInterpretation string

const (
	InterpretationExcellent    BenchmarkInterpretation = "excellent"
	InterpretationAboveAverage BenchmarkInterpretation = "above_average"
	InterpretationAverage      BenchmarkInterpretation = "average"
	InterpretationBelowAverage BenchmarkInterpretation = "below_average"
)

// BenchmarkComparison places a score against the matching benchmark row.
type BenchmarkComparison struct {
	Mean               float64                 `json:"mean"`
	Percentile         int                     `json:"percentile"`
	Interpretation     BenchmarkInterpretation `json:"interpretation"`
	WeeksPostTreatment int                     `json:"weeks_post_treatment"`
	SampleSize         int                     `json:"sample_size"`
}

// Insight codes surfaced on the outcomes dashboard.
const (
	InsightInsufficientData   = "insufficient_data"
	InsightMCIDAchieved       = "mcid_achieved"
	InsightImproving          = "improving"
	InsightWorsening          = "worsening"
	InsightPlateau            = "plateau"
	InsightPainFunctionLinked = "pain_function_linked"
)

// Insight is a user-facing observation derived from a snapshot.
type Insight struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// OutcomeDashboard aggregates everything the outcomes screen renders.
type OutcomeDashboard struct {
	PatientID     string               `json:"patient_id"`
	Snapshot      AnalyticsSnapshot    `json:"snapshot"`
	LatestScore   *float64             `json:"latest_score,omitempty"`
	Benchmark     *BenchmarkComparison `json:"benchmark,omitempty"`
	Insights      []Insight            `json:"insights"`
	GeneratedAt   time.Time            `json:"generated_at"`
	TreatmentType *TreatmentType       `json:"treatment_type,omitempty"`
}
