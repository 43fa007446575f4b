package outcomes

import "github.com/noah-isme/recovery-api/internal/models"

// Percentile bands reported for a benchmark comparison. The values are part of the API contract.
const (
	BandExcellent    = 25
	BandAboveAverage = 50
	BandAverage      = 75
	BandBelowAverage = 90
)

// CompareToBenchmark places a disability score within row's percentile bands. Lower scores
// are better, so scores at or under p25 are excellent.
func CompareToBenchmark(score float64, row models.BenchmarkRow) models.BenchmarkComparison {
	cmp := models.BenchmarkComparison{
		Mean:               row.MeanScore,
		WeeksPostTreatment: row.WeeksPostTreatment,
		SampleSize:         row.SampleSize,
	}
	switch {
	case score <= row.P25:
		cmp.Percentile, cmp.Interpretation = BandExcellent, models.InterpretationExcellent
	case score <= row.P50:
		cmp.Percentile, cmp.Interpretation = BandAboveAverage, models.InterpretationAboveAverage
	case score <= row.P75:
		cmp.Percentile, cmp.Interpretation = BandAverage, models.InterpretationAverage
	default:
		cmp.Percentile, cmp.Interpretation = BandBelowAverage, models.InterpretationBelowAverage
	}
	return cmp
}
