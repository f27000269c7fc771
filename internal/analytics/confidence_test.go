package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfidenceScoreBounds(t *testing.T) {
	for n := 0; n <= 500; n += 7 {
		c := CalculateConfidenceScore(n, 1)
		assert.GreaterOrEqual(t, c.Score, 0.0, "responseCount=%d", n)
		assert.LessOrEqual(t, c.Score, 1.0, "responseCount=%d", n)
	}
}

func TestConfidenceScoreMonotonic(t *testing.T) {
	prev := -1.0
	for n := 0; n <= 200; n++ {
		c := CalculateConfidenceScore(n, 3)
		require.GreaterOrEqual(t, c.Score, prev, "score dropped at responseCount=%d", n)
		prev = c.Score
	}
}

func TestConfidenceScoreShape(t *testing.T) {
	// Near zero for tiny samples, crosses 0.5 around 30 responses.
	assert.Less(t, CalculateConfidenceScore(5, 1).Score, 0.1)
	assert.InDelta(t, 0.5, CalculateConfidenceScore(30, 1).Score, 0.01)
	assert.Greater(t, CalculateConfidenceScore(100, 1).Score, 0.95)
}

func TestQuestionCountPenaltyFloor(t *testing.T) {
	// The dilution penalty bottoms out at 0.7 regardless of question count.
	base := CalculateConfidenceScore(100, 1).Score
	seven := CalculateConfidenceScore(100, 7).Score
	fifty := CalculateConfidenceScore(100, 50).Score

	assert.InDelta(t, base*0.7, seven, 1e-9)
	assert.InDelta(t, seven, fifty, 1e-9)
}

func TestConfidenceLevels(t *testing.T) {
	assert.Equal(t, ConfidenceLow, CalculateConfidenceScore(5, 1).Level)
	assert.Equal(t, ConfidenceMedium, CalculateConfidenceScore(30, 1).Level)
	assert.Equal(t, ConfidenceHigh, CalculateConfidenceScore(60, 1).Level)
}

func TestConfidenceFactorsNeverEmpty(t *testing.T) {
	cases := []struct {
		responses, questions int
		sampleFactor         string
	}{
		{0, 1, "limited sample size"},
		{9, 1, "limited sample size"},
		{10, 2, "moderate sample size"},
		{29, 2, "moderate sample size"},
		{30, 3, "strong sample size"},
	}
	for _, tc := range cases {
		c := CalculateConfidenceScore(tc.responses, tc.questions)
		assert.Contains(t, c.Factors, tc.sampleFactor)
		for _, f := range c.Factors {
			assert.NotEmpty(t, f)
		}
	}

	single := CalculateConfidenceScore(10, 1)
	assert.Contains(t, single.Factors, "single question")
	multi := CalculateConfidenceScore(10, 2)
	assert.Contains(t, multi.Factors, "multiple related questions")
}

func TestMinConfidence(t *testing.T) {
	weak := Confidence{Score: 0.2, Level: ConfidenceLow}
	strong := Confidence{Score: 0.9, Level: ConfidenceHigh}
	assert.Equal(t, weak, minConfidence(strong, weak))
	assert.Equal(t, weak, minConfidence(weak, strong))
}
