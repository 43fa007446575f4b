// Package outcomes derives clinical-progress signals from ODI assessments and pain readings.
// Functions are pure; insufficient or degenerate input yields nil, false or 0, never NaN.
package outcomes

import (
	"math"
	"sort"
	"time"

	"github.com/noah-isme/recovery-api/internal/models"
)

const (
	// MCIDThreshold is the minimal clinically important ODI improvement in percentage points.
	MCIDThreshold = 10.0
	// TrajectoryWindow is how many of the most recent assessments feed the slope fit.
	TrajectoryWindow = 4
	// PlateauWindow is how many of the most recent assessments are checked for a plateau.
	PlateauWindow = 4
	// PlateauStep is the step change below which consecutive scores count as flat.
	PlateauStep = 5.0
	// MaxPairingGap is the largest distance between an assessment and its pain reading.
	MaxPairingGap = 3 * 24 * time.Hour
	// MinCorrelationPoints applies to assessments, pain readings and surviving pairs alike.
	MinCorrelationPoints = 3
	// MinSlopeElapsed is the shortest window span a weekly rate is derived from.
	MinSlopeElapsed = 24 * time.Hour

	painScale = 10.0
	day       = 24 * time.Hour
)

// Compute derives every snapshot field from the two series. Input order does not matter.
func Compute(assessments []models.AssessmentPoint, pains []models.PainPoint, now time.Time) models.AnalyticsSnapshot {
	sortedA := SortAssessments(assessments)
	sortedP := SortPainPoints(pains)

	return models.AnalyticsSnapshot{
		TimeToMCIDDays:          timeToMCID(sortedA),
		TrajectorySlopePerWeek:  trajectorySlope(sortedA),
		PainFunctionCorrelation: painFunctionCorrelation(sortedA, sortedP),
		WeeksSinceBaseline:      weeksSinceBaseline(sortedA, now),
		PlateauDetected:         detectPlateau(sortedA),
	}
}

// SortAssessments returns a copy ordered by assessment date. Records sharing a date keep
// their input order.
func SortAssessments(in []models.AssessmentPoint) []models.AssessmentPoint {
	out := make([]models.AssessmentPoint, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AssessmentDate.Before(out[j].AssessmentDate)
	})
	return out
}

// SortPainPoints returns a copy ordered by recorded date.
func SortPainPoints(in []models.PainPoint) []models.PainPoint {
	out := make([]models.PainPoint, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RecordedDate.Before(out[j].RecordedDate)
	})
	return out
}

// Baseline returns the earliest record flagged as baseline, or the earliest record when none
// is flagged. The index refers to the sorted order.
func Baseline(assessments []models.AssessmentPoint) (models.AssessmentPoint, int, bool) {
	return baseline(SortAssessments(assessments))
}

func baseline(sorted []models.AssessmentPoint) (models.AssessmentPoint, int, bool) {
	if len(sorted) == 0 {
		return models.AssessmentPoint{}, -1, false
	}
	for i, a := range sorted {
		if a.IsBaseline {
			return a, i, true
		}
	}
	return sorted[0], 0, true
}

// TimeToMCID returns the days from baseline to the first assessment improving on it by at
// least MCIDThreshold, or nil when fewer than two assessments exist or none qualifies.
func TimeToMCID(assessments []models.AssessmentPoint) *int {
	return timeToMCID(SortAssessments(assessments))
}

func timeToMCID(sorted []models.AssessmentPoint) *int {
	if len(sorted) < 2 {
		return nil
	}
	base, idx, _ := baseline(sorted)
	for _, a := range sorted[idx:] {
		if base.PercentageScore-a.PercentageScore >= MCIDThreshold {
			days := int(math.Ceil(daysBetween(base.AssessmentDate, a.AssessmentDate)))
			if days < 0 {
				days = 0
			}
			return &days
		}
	}
	return nil
}

// TrajectorySlope fits a least-squares line through the most recent TrajectoryWindow scores
// and reports it in points per week. Negative means improving.
func TrajectorySlope(assessments []models.AssessmentPoint) *float64 {
	return trajectorySlope(SortAssessments(assessments))
}

func trajectorySlope(sorted []models.AssessmentPoint) *float64 {
	if len(sorted) < 2 {
		return nil
	}
	window := sorted
	if len(window) > TrajectoryWindow {
		window = window[len(window)-TrajectoryWindow:]
	}
	n := float64(len(window))

	var sumX, sumY, sumXY, sumXX float64
	for i, a := range window {
		x := float64(i)
		sumX += x
		sumY += a.PercentageScore
		sumXY += x * a.PercentageScore
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return nil
	}
	slope := (n*sumXY - sumX*sumY) / denom

	elapsed := window[len(window)-1].AssessmentDate.Sub(window[0].AssessmentDate)
	if elapsed < MinSlopeElapsed {
		return nil
	}
	weeks := elapsed.Hours() / 24 / 7

	perWeek := slope * (n - 1) / weeks
	return finite(perWeek)
}

// PainFunctionCorrelation pairs each assessment with its nearest pain reading (within
// MaxPairingGap) and returns the Pearson coefficient between ODI scores and pain rescaled to
// 0-100. Equidistant readings resolve to the earlier one.
func PainFunctionCorrelation(assessments []models.AssessmentPoint, pains []models.PainPoint) *float64 {
	return painFunctionCorrelation(SortAssessments(assessments), SortPainPoints(pains))
}

func painFunctionCorrelation(sortedA []models.AssessmentPoint, sortedP []models.PainPoint) *float64 {
	if len(sortedA) < MinCorrelationPoints || len(sortedP) < MinCorrelationPoints {
		return nil
	}

	xs := make([]float64, 0, len(sortedA))
	ys := make([]float64, 0, len(sortedA))
	for _, a := range sortedA {
		best := -1
		var bestGap time.Duration
		for i, p := range sortedP {
			gap := absDuration(p.RecordedDate.Sub(a.AssessmentDate))
			if best == -1 || gap < bestGap {
				best, bestGap = i, gap
			}
		}
		if best == -1 || bestGap > MaxPairingGap {
			continue
		}
		xs = append(xs, a.PercentageScore)
		ys = append(ys, float64(sortedP[best].PainScore)*painScale)
	}
	if len(xs) < MinCorrelationPoints {
		return nil
	}

	r, ok := pearson(xs, ys)
	if !ok {
		return nil
	}
	return &r
}

func pearson(xs, ys []float64) (float64, bool) {
	n := float64(len(xs))
	var sumX, sumY, sumXY, sumXX, sumYY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumXX += xs[i] * xs[i]
		sumYY += ys[i] * ys[i]
	}
	varX := n*sumXX - sumX*sumX
	varY := n*sumYY - sumY*sumY
	// Cancellation can leave a tiny positive residue where the true variance is zero.
	if varX <= varianceEpsilon(n*sumXX) || varY <= varianceEpsilon(n*sumYY) {
		return 0, false
	}
	r := (n*sumXY - sumX*sumY) / math.Sqrt(varX*varY)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false
	}
	return math.Max(-1, math.Min(1, r)), true
}

func varianceEpsilon(scale float64) float64 {
	return 1e-12 * math.Max(1, scale)
}

// WeeksSinceBaseline counts whole weeks from the baseline assessment to now, never below 0.
func WeeksSinceBaseline(assessments []models.AssessmentPoint, now time.Time) int {
	return weeksSinceBaseline(SortAssessments(assessments), now)
}

func weeksSinceBaseline(sorted []models.AssessmentPoint, now time.Time) int {
	base, _, ok := baseline(sorted)
	if !ok {
		return 0
	}
	days := daysBetween(base.AssessmentDate, now)
	if days <= 0 {
		return 0
	}
	return int(math.Floor(days / 7))
}

// DetectPlateau reports whether every step between the last PlateauWindow scores is smaller
// than PlateauStep.
func DetectPlateau(assessments []models.AssessmentPoint) bool {
	return detectPlateau(SortAssessments(assessments))
}

func detectPlateau(sorted []models.AssessmentPoint) bool {
	if len(sorted) < PlateauWindow {
		return false
	}
	window := sorted[len(sorted)-PlateauWindow:]
	for i := 1; i < len(window); i++ {
		if math.Abs(window[i].PercentageScore-window[i-1].PercentageScore) >= PlateauStep {
			return false
		}
	}
	return true
}

func daysBetween(from, to time.Time) float64 {
	return float64(to.Sub(from)) / float64(day)
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
