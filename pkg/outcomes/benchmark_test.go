package outcomes

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/recovery-api/internal/models"
)

var week24 = models.BenchmarkRow{
	TreatmentType:      models.TreatmentPostSurgery,
	WeeksPostTreatment: 24,
	MeanScore:          19.5,
	P25:                13,
	P50:                18,
	P75:                24,
	SampleSize:         412,
}

func TestCompareToBenchmarkBands(t *testing.T) {
	cases := []struct {
		score          float64
		percentile     int
		interpretation models.BenchmarkInterpretation
	}{
		{score: 4, percentile: 25, interpretation: models.InterpretationExcellent},
		{score: 13, percentile: 25, interpretation: models.InterpretationExcellent},
		{score: 13.1, percentile: 50, interpretation: models.InterpretationAboveAverage},
		{score: 18, percentile: 50, interpretation: models.InterpretationAboveAverage},
		{score: 24, percentile: 75, interpretation: models.InterpretationAverage},
		{score: 24.1, percentile: 90, interpretation: models.InterpretationBelowAverage},
	}
	for _, tc := range cases {
		cmp := CompareToBenchmark(tc.score, week24)
		assert.Equal(t, tc.percentile, cmp.Percentile, "score %v", tc.score)
		assert.Equal(t, tc.interpretation, cmp.Interpretation, "score %v", tc.score)
		assert.Equal(t, 19.5, cmp.Mean)
		assert.Equal(t, 24, cmp.WeeksPostTreatment)
		assert.Equal(t, 412, cmp.SampleSize)
	}
}
