package outcomes

import (
	"fmt"

	"github.com/noah-isme/recovery-api/internal/models"
)

const (
	trendThresholdPerWeek = 1.0
	linkedPainThreshold   = 0.5
)

// Insights turns a snapshot, and an optional benchmark comparison, into dashboard messages.
func Insights(snapshot models.AnalyticsSnapshot, assessmentCount int, benchmark *models.BenchmarkComparison) []models.Insight {
	insights := make([]models.Insight, 0, 4)
	if assessmentCount < 2 {
		insights = append(insights, models.Insight{
			Code:    models.InsightInsufficientData,
			Message: "Complete another questionnaire to start tracking your progress.",
		})
	}

	if snapshot.TimeToMCIDDays != nil {
		insights = append(insights, models.Insight{
			Code:    models.InsightMCIDAchieved,
			Message: fmt.Sprintf("You reached a clinically meaningful improvement %d days after your baseline.", *snapshot.TimeToMCIDDays),
		})
	}

	if slope := snapshot.TrajectorySlopePerWeek; slope != nil {
		switch {
		case *slope <= -trendThresholdPerWeek:
			insights = append(insights, models.Insight{
				Code:    models.InsightImproving,
				Message: fmt.Sprintf("Your disability score is dropping by about %.1f points per week.", -*slope),
			})
		case *slope >= trendThresholdPerWeek:
			insights = append(insights, models.Insight{
				Code:    models.InsightWorsening,
				Message: fmt.Sprintf("Your disability score is rising by about %.1f points per week. Consider contacting your provider.", *slope),
			})
		}
	}

	if snapshot.PlateauDetected {
		insights = append(insights, models.Insight{
			Code:    models.InsightPlateau,
			Message: "Your recent scores have levelled off.",
		})
	}

	if r := snapshot.PainFunctionCorrelation; r != nil && *r >= linkedPainThreshold {
		insights = append(insights, models.Insight{
			Code:    models.InsightPainFunctionLinked,
			Message: "Your pain levels and daily function tend to move together.",
		})
	}

	if benchmark != nil {
		insights = append(insights, models.Insight{
			Code:    "benchmark_" + string(benchmark.Interpretation),
			Message: fmt.Sprintf("Compared with similar patients %d weeks after treatment, your score is %s.", benchmark.WeeksPostTreatment, describeInterpretation(benchmark.Interpretation)),
		})
	}

	return insights
}

func describeInterpretation(i models.BenchmarkInterpretation) string {
	switch i {
	case models.InterpretationExcellent:
		return "excellent"
	case models.InterpretationAboveAverage:
		return "above average"
	case models.InterpretationAverage:
		return "about average"
	default:
		return "below average"
	}
}
