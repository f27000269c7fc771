package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insightWith(id, severity string, confidence float64) Insight {
	return Insight{
		ID:         id,
		Severity:   severity,
		Confidence: Confidence{Score: confidence, Level: confidenceLevel(confidence)},
	}
}

func TestTemplateMatchedByInsightPresence(t *testing.T) {
	insights := CategorizedInsights{
		Time: []Insight{insightWith("high-admin-time", SeverityWarning, 0.6)},
	}
	recs := PrioritizeRecommendations(insights)

	require.Len(t, recs, 1)
	assert.Equal(t, "reduce-admin-time", recs[0].ID)
	assert.Equal(t, []string{"high-admin-time"}, recs[0].SourceInsightIDs)
}

func TestNoInsightsNoRecommendations(t *testing.T) {
	assert.Empty(t, PrioritizeRecommendations(CategorizedInsights{}))
}

func TestPriorityFormula(t *testing.T) {
	// One warning insight at confidence 0.6 matching reduce-admin-time:
	// score = (5 + 0.75) * (0.75 + 0.6*0.5) + 1.5 (high impact) + 0 (medium effort)
	//       = 5.75 * 1.05 + 1.5 = 7.5375, rounded to 7.5
	insights := CategorizedInsights{
		Time: []Insight{insightWith("high-admin-time", SeverityWarning, 0.6)},
	}
	recs := PrioritizeRecommendations(insights)
	require.Len(t, recs, 1)
	assert.InDelta(t, 7.5, recs[0].Priority, 1e-9)
}

func TestPriorityClampedToTen(t *testing.T) {
	// Two critical triggers at full confidence overflow the formula:
	// (5 + 1.5 + 1.5) * 1.25 + 0.75 = 10.75, clamped to 10.
	insights := CategorizedInsights{
		System: []Insight{
			insightWith("high-workaround-prevalence", SeverityCritical, 1),
			insightWith("critical-workarounds", SeverityCritical, 1),
		},
	}
	recs := PrioritizeRecommendations(insights)
	require.Len(t, recs, 1)
	assert.Equal(t, "formalize-workarounds", recs[0].ID)
	assert.Equal(t, 10.0, recs[0].Priority)
}

func TestPriorityAlwaysInRange(t *testing.T) {
	severities := []string{SeverityInfo, SeverityWarning, SeverityCritical, SeverityPositive}
	confidences := []float64{0, 0.25, 0.5, 0.75, 1}
	ids := []string{
		"high-admin-time", "low-strategic-time", "poor-time-allocation",
		"high-tool-count", "high-login-fragmentation", "critical-workarounds",
		"low-information-sharing", "communication-gap", "low-pipeline-review",
		"high-lead-loss", "primary-loss-stage", "slow-data-access",
	}
	for _, severity := range severities {
		for _, confidence := range confidences {
			var insights CategorizedInsights
			for _, id := range ids {
				ins := insightWith(id, severity, confidence)
				insights.Time = append(insights.Time, ins)
				insights.System = append(insights.System, ins)
				insights.Collaboration = append(insights.Collaboration, ins)
				insights.Process = append(insights.Process, ins)
			}
			for _, rec := range PrioritizeRecommendations(insights) {
				assert.GreaterOrEqual(t, rec.Priority, 1.0)
				assert.LessOrEqual(t, rec.Priority, 10.0)
			}
		}
	}
}

func TestSortedDescendingAndStable(t *testing.T) {
	insights := CategorizedInsights{
		Time: []Insight{
			insightWith("high-admin-time", SeverityWarning, 0.6),
			insightWith("low-strategic-time", SeverityCritical, 0.9),
		},
		Process: []Insight{
			insightWith("high-lead-loss", SeverityCritical, 0.9),
		},
	}
	recs := PrioritizeRecommendations(insights)
	require.GreaterOrEqual(t, len(recs), 3)
	for i := 1; i < len(recs); i++ {
		assert.GreaterOrEqual(t, recs[i-1].Priority, recs[i].Priority)
	}

	// Same input, same order: the pipeline is deterministic end to end.
	again := PrioritizeRecommendations(insights)
	require.Equal(t, len(recs), len(again))
	for i := range recs {
		assert.Equal(t, recs[i].ID, again[i].ID)
		assert.Equal(t, recs[i].Priority, again[i].Priority)
	}
}

func TestImpactEstimateDeterministic(t *testing.T) {
	cases := map[string]float64{
		MagnitudeHigh:   40,
		MagnitudeMedium: 22.5,
		MagnitudeLow:    10,
	}
	for magnitude, want := range cases {
		got := estimateImpact(Impact{Area: "process bottlenecks", Magnitude: magnitude})
		assert.Equal(t, want, got.NumericValue)
		// Repeat calls never vary.
		assert.Equal(t, got.NumericValue, estimateImpact(Impact{Magnitude: magnitude}).NumericValue)
	}
}

func TestActionStepDecoration(t *testing.T) {
	steps := generateActionSteps([]string{
		"Audit a typical week",
		"Schedule two strategy blocks",
		"Delegate reporting chores",
	})
	assert.Contains(t, steps[0], "Audit a typical week")
	assert.NotEqual(t, "Audit a typical week", steps[0])
	assert.Contains(t, steps[1], "recurring invites")
	assert.Equal(t, "Delegate reporting chores", steps[2])
}
