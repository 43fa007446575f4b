package outcomes

import (
	"errors"
	"fmt"
	"math"
)

const (
	// ODISections is the number of sections on the Oswestry Disability Index.
	ODISections = 10
	// ODIMaxPerSection is the highest answer a section accepts.
	ODIMaxPerSection = 5
	// ODIMinAnswered is the fewest answered sections that still yield a valid score.
	ODIMinAnswered = 8
)

var (
	ErrODISectionCount   = errors.New("odi requires exactly 10 sections")
	ErrODIAnswerRange    = errors.New("odi answers must be between 0 and 5")
	ErrODITooManySkipped = errors.New("odi requires at least 8 answered sections")
)

// ODIScore is a scored questionnaire.
type ODIScore struct {
	Total      int
	Answered   int
	Percentage float64
}

// ScoreODI sums the answered sections and scales by the maximum possible for the answered
// count. Nil entries are skipped sections.
func ScoreODI(responses []*int) (ODIScore, error) {
	if len(responses) != ODISections {
		return ODIScore{}, ErrODISectionCount
	}
	var score ODIScore
	for i, r := range responses {
		if r == nil {
			continue
		}
		if *r < 0 || *r > ODIMaxPerSection {
			return ODIScore{}, fmt.Errorf("section %d: %w", i+1, ErrODIAnswerRange)
		}
		score.Total += *r
		score.Answered++
	}
	if score.Answered < ODIMinAnswered {
		return ODIScore{}, ErrODITooManySkipped
	}
	pct := float64(score.Total) / float64(ODIMaxPerSection*score.Answered) * 100
	score.Percentage = math.Round(pct*10) / 10
	return score, nil
}
