package analytics

import (
	"testing"
	"time"

	"salespulse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeEfficiencyScoreReference(t *testing.T) {
	// raw = 35/(45+35) = 0.4375, adjusted = 0.4375*1.2 = 0.525,
	// score = min(10, round(52.5)/10) = 5.3
	assert.InDelta(t, 5.3, TimeEfficiencyScore(45, 35, 20), 1e-9)
}

func TestTimeEfficiencyScoreClampAndEdges(t *testing.T) {
	// Large strategic adjustment pushes past 10 and must clamp.
	assert.Equal(t, 10.0, TimeEfficiencyScore(0.5, 99.5, 50))
	// No strategic time means no adjustment.
	assert.InDelta(t, 5.0, TimeEfficiencyScore(50, 50, 0), 1e-9)
	// Degenerate input never divides by zero.
	assert.Equal(t, 0.0, TimeEfficiencyScore(0, 0, 20))
}

func analyticsQuestions() []models.Question {
	return []models.Question{
		{ID: "q-admin", AnalysisTags: []string{TagAdminTime}},
		{ID: "q-sales", AnalysisTags: []string{TagSalesTime}},
		{ID: "q-strategic", AnalysisTags: []string{TagStrategicTime}},
		{ID: "q-stage", AnalysisTags: []string{TagPrimaryLossStage}},
		{ID: "q-workaround", AnalysisTags: []string{TagCriticalWorkarounds}},
	}
}

func answeredResponse(id uint, answers map[string]interface{}) models.Response {
	now := time.Now().UTC()
	r := models.Response{ID: id, SurveyID: "sales-environment", CompletedAt: &now}
	for qid, v := range answers {
		a := models.Answer{QuestionID: qid}
		switch val := v.(type) {
		case float64:
			n := val
			a.NumericValue = &n
		case string:
			a.Value = val
		}
		r.Answers = append(r.Answers, a)
	}
	return r
}

func TestCalculateNumericAndModal(t *testing.T) {
	calc := NewCalculator(analyticsQuestions())

	responses := []models.Response{
		answeredResponse(1, map[string]interface{}{
			"q-admin": 45.0, "q-sales": 35.0, "q-strategic": 20.0,
			"q-stage": "Qualification", "q-workaround": "export to spreadsheet",
		}),
		answeredResponse(2, map[string]interface{}{
			"q-admin": 45.0, "q-sales": 35.0, "q-strategic": 20.0,
			"q-stage": "Qualification",
		}),
		answeredResponse(3, map[string]interface{}{
			"q-admin": 45.0, "q-sales": 35.0, "q-strategic": 20.0,
			"q-stage": "Closing",
		}),
	}

	m := calc.Calculate(ValidatedResponses{Responses: responses})

	require.True(t, m.TimeAllocation.AdminTime.Computed)
	assert.InDelta(t, 45.0, m.TimeAllocation.AdminTime.Value, 1e-9)
	assert.Equal(t, 3, m.TimeAllocation.AdminTime.ResponseCount)
	assert.Equal(t, []string{"q-admin"}, m.TimeAllocation.AdminTime.SourceQuestions)

	require.True(t, m.TimeAllocation.TimeEfficiencyScore.Computed)
	assert.InDelta(t, 5.3, m.TimeAllocation.TimeEfficiencyScore.Value, 1e-9)

	require.True(t, m.ProcessBottleneck.PrimaryLossStage.Computed)
	assert.Equal(t, "Qualification", m.ProcessBottleneck.PrimaryLossStage.Value)

	require.True(t, m.SystemComplexity.CriticalWorkarounds.Computed)
	assert.Equal(t, []string{"export to spreadsheet"}, m.SystemComplexity.CriticalWorkarounds.Value)
}

func TestCalculateEmptyInputIsSafe(t *testing.T) {
	calc := NewCalculator(analyticsQuestions())

	m := calc.Calculate(ValidatedResponses{})

	assert.False(t, m.TimeAllocation.AdminTime.Computed)
	assert.Equal(t, 0, m.TimeAllocation.AdminTime.ResponseCount)
	assert.Equal(t, ConfidenceLow, m.TimeAllocation.AdminTime.Confidence.Level)
	assert.False(t, m.TimeAllocation.TimeEfficiencyScore.Computed)
	assert.False(t, m.ProcessBottleneck.PrimaryLossStage.Computed)
}

func TestCalculateNilResponses(t *testing.T) {
	calc := NewCalculator(nil)
	m := calc.Calculate(ValidatedResponses{Responses: nil})

	// Untagged calculator: no source questions anywhere, nothing computed.
	assert.Empty(t, m.SystemComplexity.ToolCount.SourceQuestions)
	assert.False(t, m.SystemComplexity.ToolCount.Computed)
}
