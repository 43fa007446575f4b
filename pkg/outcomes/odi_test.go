package outcomes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func answers(values ...int) []*int {
	out := make([]*int, len(values))
	for i := range values {
		if values[i] < 0 {
			continue
		}
		v := values[i]
		out[i] = &v
	}
	return out
}

func TestScoreODIBounds(t *testing.T) {
	zero, err := ScoreODI(answers(0, 0, 0, 0, 0, 0, 0, 0, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, 0.0, zero.Percentage)

	full, err := ScoreODI(answers(5, 5, 5, 5, 5, 5, 5, 5, 5, 5))
	require.NoError(t, err)
	assert.Equal(t, 100.0, full.Percentage)
	assert.Equal(t, 50, full.Total)
}

func TestScoreODISkippedSections(t *testing.T) {
	// -1 marks a skipped section.
	score, err := ScoreODI(answers(3, 2, -1, 4, 1, 2, -1, 3, 2, 1))
	require.NoError(t, err)
	assert.Equal(t, 8, score.Answered)
	assert.Equal(t, 18, score.Total)
	assert.Equal(t, 45.0, score.Percentage)

	_, err = ScoreODI(answers(3, -1, -1, 4, 1, 2, -1, 3, 2, 1))
	assert.ErrorIs(t, err, ErrODITooManySkipped)
}

func TestScoreODIRounding(t *testing.T) {
	score, err := ScoreODI(answers(1, 1, 1, 1, 1, 1, 1, 1, 1, -1))
	require.NoError(t, err)
	assert.Equal(t, 20.0, score.Percentage)

	odd, err := ScoreODI(answers(2, 1, 1, 1, 1, 1, 1, 1, 1, -1))
	require.NoError(t, err)
	assert.Equal(t, 22.2, odd.Percentage)
}

func TestScoreODIValidation(t *testing.T) {
	_, err := ScoreODI(answers(1, 2, 3))
	assert.ErrorIs(t, err, ErrODISectionCount)

	_, err = ScoreODI(answers(1, 2, 3, 4, 6, 0, 0, 0, 0, 0))
	assert.ErrorIs(t, err, ErrODIAnswerRange)
}
