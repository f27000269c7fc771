package form

import (
	"testing"

	"salespulse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func f(v float64) *float64 { return &v }
func i(v int) *int         { return &v }

func testQuestions() []models.Question {
	return []models.Question{
		{
			ID: "q-likert", SurveyID: "s", Section: "Time Allocation",
			Type: models.TypeLikert, Required: true,
			ValidationRules: &models.ValidationRules{Min: f(1), Max: f(10)},
		},
		{
			ID: "q-text", SurveyID: "s", Section: "Systems & Tools",
			Type: models.TypeText, Required: false,
			ValidationRules: &models.ValidationRules{WordLimit: i(5)},
		},
		{
			ID: "q-percentage", SurveyID: "s", Section: "Time Allocation",
			Type: models.TypePercentage, Required: true,
			Options: []string{"admin", "selling"},
		},
		{
			ID: "q-ranking", SurveyID: "s", Section: "Sales Process",
			Type: models.TypeRanking, Required: false,
			Options: []string{"A", "B", "C"},
		},
		{
			ID: "q-checkbox", SurveyID: "s", Section: "Systems & Tools",
			Type: models.TypeCheckbox, Required: false,
			Options: []string{"CRM", "Email"},
		},
	}
}

func newTestState(t *testing.T) (*Engine, *State) {
	t.Helper()
	engine := NewEngine(testQuestions())
	state := engine.NewState("s", "session-1", nil)
	return engine, state
}

func TestNewStateStartsAtFirstQuestion(t *testing.T) {
	engine, state := newTestState(t)
	assert.Equal(t, 0, state.CurrentQuestionIndex)
	assert.Equal(t, "Time Allocation", state.CurrentSection)
	assert.Equal(t, 5, state.TotalQuestions)
	require.NotNil(t, engine.Current(state))
	assert.Equal(t, "q-likert", engine.Current(state).ID)
}

func TestNextBlockedOnRequiredUnanswered(t *testing.T) {
	engine, state := newTestState(t)

	assert.False(t, engine.Next(state))
	assert.Equal(t, 0, state.CurrentQuestionIndex)
	assert.Equal(t, "this field is required", state.Errors["q-likert"])

	require.True(t, engine.SetAnswer(state, "q-likert", "7", f(7)))
	assert.True(t, engine.Next(state))
	assert.Equal(t, 1, state.CurrentQuestionIndex)
	assert.Equal(t, "Systems & Tools", state.CurrentSection)
}

func TestIndexStaysInRange(t *testing.T) {
	engine, state := newTestState(t)
	assert.False(t, engine.Previous(state))
	assert.Equal(t, 0, state.CurrentQuestionIndex)

	engine.SetAnswer(state, "q-likert", "7", f(7))
	engine.SetAllocation(state, "q-percentage", "admin", 60)
	engine.SetAllocation(state, "q-percentage", "selling", 40)
	for range testQuestions() {
		engine.Next(state)
	}
	assert.Equal(t, len(testQuestions())-1, state.CurrentQuestionIndex)
	assert.False(t, engine.Next(state))
}

func TestNumericRangeValidation(t *testing.T) {
	engine, state := newTestState(t)

	assert.False(t, engine.SetAnswer(state, "q-likert", "12", f(12)))
	assert.Contains(t, state.Errors["q-likert"], "above the maximum")
	_, stored := state.Answers["q-likert"]
	assert.False(t, stored, "failed validation must not commit the answer")

	assert.False(t, engine.SetAnswer(state, "q-likert", "abc", nil))
	assert.Equal(t, "a numeric answer is required", state.Errors["q-likert"])

	assert.True(t, engine.SetAnswer(state, "q-likert", "7", f(7)))
	assert.Empty(t, state.Errors["q-likert"])
	assert.Equal(t, "7", state.Answers["q-likert"].Value)
}

func TestWordLimitValidation(t *testing.T) {
	engine, state := newTestState(t)

	assert.False(t, engine.SetAnswer(state, "q-text", "one two three four five six", nil))
	assert.Equal(t, "answer is 6 words, limit is 5", state.Errors["q-text"])

	assert.True(t, engine.SetAnswer(state, "q-text", "short enough answer", nil))
	assert.Empty(t, state.Errors["q-text"])
}

func TestPercentageSumTolerance(t *testing.T) {
	engine, state := newTestState(t)

	// 60 alone is invalid, 60+40 flips the question valid.
	assert.False(t, engine.SetAllocation(state, "q-percentage", "admin", 60))
	assert.Contains(t, state.Errors["q-percentage"], "60")

	assert.True(t, engine.SetAllocation(state, "q-percentage", "selling", 40))
	assert.Empty(t, state.Errors["q-percentage"])
	assert.NotEmpty(t, state.Answers["q-percentage"].Value)

	// 60+30 is invalid again.
	assert.False(t, engine.SetAllocation(state, "q-percentage", "selling", 30))
	assert.Contains(t, state.Errors["q-percentage"], "90")
}

func TestRankingEviction(t *testing.T) {
	engine, state := newTestState(t)

	engine.SetRank(state, "q-ranking", "A", 2)
	require.Equal(t, 2, state.Answers["q-ranking"].Ranks["A"])

	// Assigning rank 2 to B evicts A, which becomes unranked.
	engine.SetRank(state, "q-ranking", "B", 2)
	ranks := state.Answers["q-ranking"].Ranks
	assert.Equal(t, 2, ranks["B"])
	_, aRanked := ranks["A"]
	assert.False(t, aRanked)
	assert.LessOrEqual(t, len(ranks), 3)
}

func TestRankingCompleteBijection(t *testing.T) {
	engine, state := newTestState(t)

	assert.False(t, engine.SetRank(state, "q-ranking", "A", 1))
	assert.False(t, engine.SetRank(state, "q-ranking", "B", 2))
	assert.True(t, engine.SetRank(state, "q-ranking", "C", 3))
	assert.Empty(t, state.Errors["q-ranking"])
	assert.NotEmpty(t, state.Answers["q-ranking"].Value)

	// Out-of-range rank and unknown option are rejected.
	assert.False(t, engine.SetRank(state, "q-ranking", "A", 4))
	assert.False(t, engine.SetRank(state, "q-ranking", "Z", 1))
}

func TestValidateAnswersGatesSubmission(t *testing.T) {
	engine, state := newTestState(t)

	problems := engine.ValidateAnswers(state)
	require.Len(t, problems, 1)
	assert.Equal(t, "no questions answered", problems[0])

	engine.SetAnswer(state, "q-likert", "7", f(7))
	assert.Empty(t, engine.ValidateAnswers(state))

	engine.SetAllocation(state, "q-percentage", "admin", 60)
	assert.NotEmpty(t, engine.ValidateAnswers(state))

	engine.SetAllocation(state, "q-percentage", "selling", 40)
	assert.Empty(t, engine.ValidateAnswers(state))
}

func TestEmptyCheckboxDoesNotCountAsAnswered(t *testing.T) {
	engine, state := newTestState(t)

	// Clearing an optional checkbox succeeds but leaves nothing answered:
	// submission stays gated and nothing is emitted.
	assert.True(t, engine.SetSelections(state, "q-checkbox", []string{}))
	_, drafted := state.Answers["q-checkbox"]
	assert.False(t, drafted)

	problems := engine.ValidateAnswers(state)
	require.Len(t, problems, 1)
	assert.Equal(t, "no questions answered", problems[0])
	assert.Empty(t, engine.BuildSubmission(state))

	// A required checkbox still rejects the empty selection outright.
	questions := testQuestions()
	questions[4].Required = true
	strict := NewEngine(questions)
	strictState := strict.NewState("s", "session-2", nil)
	assert.False(t, strict.SetSelections(strictState, "q-checkbox", []string{}))
	assert.Equal(t, "this field is required", strictState.Errors["q-checkbox"])
}

func TestUncommittedDraftsDoNotUnlockSubmission(t *testing.T) {
	engine, state := newTestState(t)

	// A lone incomplete percentage draft must not pass the gate even
	// though a draft entry exists for it.
	engine.SetAllocation(state, "q-percentage", "admin", 60)
	problems := engine.ValidateAnswers(state)
	assert.Contains(t, problems, "no questions answered")
	assert.Empty(t, engine.BuildSubmission(state))
}

func TestBuildSubmissionSkipsUncommittedDrafts(t *testing.T) {
	engine, state := newTestState(t)

	engine.SetAnswer(state, "q-likert", "7", f(7))
	engine.SetAllocation(state, "q-percentage", "admin", 60) // incomplete, stays draft
	engine.SetSelections(state, "q-checkbox", []string{"CRM", "Email"})

	answers := engine.BuildSubmission(state)
	require.Len(t, answers, 2)
	assert.Equal(t, "q-likert", answers[0].QuestionID)
	assert.Equal(t, "q-checkbox", answers[1].QuestionID)
	assert.Equal(t, "CRM; Email", answers[1].Value)
}

func TestStateRoundTripsThroughRecord(t *testing.T) {
	engine, state := newTestState(t)
	engine.SetAnswer(state, "q-likert", "7", f(7))
	engine.SetRank(state, "q-ranking", "A", 1)
	engine.Next(state)

	rec := ToRecord(state)
	restored := FromRecord(zap.NewNop(), rec)

	assert.Equal(t, state.CurrentQuestionIndex, restored.CurrentQuestionIndex)
	assert.Equal(t, state.CurrentSection, restored.CurrentSection)
	assert.Equal(t, state.Answers["q-likert"].Value, restored.Answers["q-likert"].Value)
	assert.Equal(t, state.Answers["q-ranking"].Ranks, restored.Answers["q-ranking"].Ranks)
	assert.Equal(t, state.Errors, restored.Errors)
}
