package form

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"salespulse/internal/models"
)

// Draft is the locally held answer for one question. Plain types use Value
// and NumericValue; percentage questions accumulate Allocations per category
// and ranking questions maintain Ranks per option.
type Draft struct {
	Value        string             `json:"value,omitempty"`
	NumericValue *float64           `json:"numeric_value,omitempty"`
	Selections   []string           `json:"selections,omitempty"`
	Allocations  map[string]float64 `json:"allocations,omitempty"`
	Ranks        map[string]int     `json:"ranks,omitempty"`
}

// State is the explicit form state object. All transitions go through Engine
// methods; persistence is a boundary concern handled by the caller
// (load-on-init, save-on-mutation).
type State struct {
	SurveyID             string            `json:"survey_id"`
	SessionID            string            `json:"session_id"`
	UserID               *uint             `json:"user_id,omitempty"`
	Anonymous            bool              `json:"anonymous"`
	CurrentQuestionIndex int               `json:"current_question_index"`
	CurrentSection       string            `json:"current_section"`
	Answers              map[string]Draft  `json:"answers"`
	Errors               map[string]string `json:"errors"`
	StartTime            time.Time         `json:"start_time"`
	TotalQuestions       int               `json:"total_questions"`
}

// Engine drives question-by-question presentation and per-type validation
// over a State. It holds the ordered question list and nothing mutable.
type Engine struct {
	questions []models.Question
	byID      map[string]*models.Question
}

func NewEngine(questions []models.Question) *Engine {
	byID := make(map[string]*models.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}
	return &Engine{questions: questions, byID: byID}
}

// NewState starts a fresh draft at the first question.
func (e *Engine) NewState(surveyID, sessionID string, userID *uint) *State {
	s := &State{
		SurveyID:       surveyID,
		SessionID:      sessionID,
		UserID:         userID,
		Anonymous:      userID == nil,
		Answers:        map[string]Draft{},
		Errors:         map[string]string{},
		StartTime:      time.Now().UTC(),
		TotalQuestions: len(e.questions),
	}
	if len(e.questions) > 0 {
		s.CurrentSection = e.questions[0].Section
	}
	return s
}

// Current returns the question at the state's index.
func (e *Engine) Current(s *State) *models.Question {
	if s.CurrentQuestionIndex < 0 || s.CurrentQuestionIndex >= len(e.questions) {
		return nil
	}
	return &e.questions[s.CurrentQuestionIndex]
}

// Next advances to the following question. It refuses to move past a
// required question that has no stored answer, and never leaves the
// [0, questionCount-1] range. Reports whether the index moved.
func (e *Engine) Next(s *State) bool {
	q := e.Current(s)
	if q == nil {
		return false
	}
	if q.Required && !e.answered(s, q) {
		s.Errors[q.ID] = "this field is required"
		return false
	}
	if s.CurrentQuestionIndex >= len(e.questions)-1 {
		return false
	}
	s.CurrentQuestionIndex++
	s.CurrentSection = e.questions[s.CurrentQuestionIndex].Section
	return true
}

// Previous moves back one question, clamped at the first.
func (e *Engine) Previous(s *State) bool {
	if s.CurrentQuestionIndex <= 0 {
		return false
	}
	s.CurrentQuestionIndex--
	s.CurrentSection = e.questions[s.CurrentQuestionIndex].Section
	return true
}

// SetAnswer validates the value against the question's type and rules. On
// success the stored error is cleared and the draft written; on failure the
// error is stored and the draft write is skipped.
func (e *Engine) SetAnswer(s *State, questionID, value string, numericValue *float64) bool {
	q, ok := e.byID[questionID]
	if !ok {
		s.Errors[questionID] = "unknown question"
		return false
	}

	if msg := e.validateAnswer(q, value, numericValue); msg != "" {
		s.Errors[questionID] = msg
		return false
	}

	delete(s.Errors, questionID)
	draft := s.Answers[questionID]
	draft.Value = value
	draft.NumericValue = numericValue
	s.Answers[questionID] = draft
	return true
}

// SetSelections stores a checkbox answer. Required checkbox questions need
// at least one selection.
func (e *Engine) SetSelections(s *State, questionID string, selections []string) bool {
	q, ok := e.byID[questionID]
	if !ok {
		s.Errors[questionID] = "unknown question"
		return false
	}
	if q.Required && len(selections) == 0 {
		s.Errors[questionID] = "this field is required"
		return false
	}

	delete(s.Errors, questionID)
	if len(selections) == 0 {
		// Clearing an optional checkbox removes the draft entirely so the
		// question no longer counts as answered.
		delete(s.Answers, questionID)
		return true
	}
	draft := s.Answers[questionID]
	draft.Selections = selections
	draft.Value = strings.Join(selections, "; ")
	s.Answers[questionID] = draft
	return true
}

// SetAllocation records one category's percentage for a percentage-type
// question and revalidates the running sum. The question is valid only when
// the sum is within 0.01 of 100.
func (e *Engine) SetAllocation(s *State, questionID, category string, value float64) bool {
	q, ok := e.byID[questionID]
	if !ok {
		s.Errors[questionID] = "unknown question"
		return false
	}
	if q.Type != models.TypePercentage {
		s.Errors[questionID] = "not a percentage question"
		return false
	}
	if value < 0 || value > 100 {
		s.Errors[questionID] = fmt.Sprintf("percentage %g is outside 0-100", value)
		return false
	}

	draft := s.Answers[questionID]
	if draft.Allocations == nil {
		draft.Allocations = map[string]float64{}
	}
	draft.Allocations[category] = value

	sum := allocationSum(draft.Allocations)
	if math.Abs(sum-100) < 0.01 {
		delete(s.Errors, questionID)
		draft.Value = encodeAllocations(draft.Allocations)
		total := sum
		draft.NumericValue = &total
	} else {
		s.Errors[questionID] = fmt.Sprintf("percentages sum to %g, need 100", sum)
		draft.Value = ""
		draft.NumericValue = nil
	}
	s.Answers[questionID] = draft
	return s.Errors[questionID] == ""
}

// SetRank assigns a rank to an option of a ranking question. Ranks form a
// bijection: assigning a rank already held by another option evicts that
// option, which becomes temporarily unranked.
func (e *Engine) SetRank(s *State, questionID, option string, rank int) bool {
	q, ok := e.byID[questionID]
	if !ok {
		s.Errors[questionID] = "unknown question"
		return false
	}
	if q.Type != models.TypeRanking {
		s.Errors[questionID] = "not a ranking question"
		return false
	}
	if rank < 1 || rank > len(q.Options) {
		s.Errors[questionID] = fmt.Sprintf("rank %d is outside 1-%d", rank, len(q.Options))
		return false
	}
	if !hasOption(q, option) {
		s.Errors[questionID] = fmt.Sprintf("unknown option %q", option)
		return false
	}

	draft := s.Answers[questionID]
	if draft.Ranks == nil {
		draft.Ranks = map[string]int{}
	}
	for other, r := range draft.Ranks {
		if r == rank && other != option {
			delete(draft.Ranks, other)
		}
	}
	draft.Ranks[option] = rank

	if len(draft.Ranks) == len(q.Options) {
		delete(s.Errors, questionID)
		draft.Value = encodeRanks(draft.Ranks)
	} else {
		s.Errors[questionID] = fmt.Sprintf("ranked %d of %d options", len(draft.Ranks), len(q.Options))
		draft.Value = ""
	}
	s.Answers[questionID] = draft
	return s.Errors[questionID] == ""
}

// ValidateAnswers gates submission: at least one committed answer and no
// outstanding errors. Only drafts that actually carry a value count —
// uncommitted drafts are skipped by BuildSubmission, so counting them here
// would wave through a submission with nothing in it. Returns the blocking
// problems, empty when clear.
func (e *Engine) ValidateAnswers(s *State) []string {
	var problems []string
	committed := 0
	for _, draft := range s.Answers {
		if draft.Value != "" || draft.NumericValue != nil {
			committed++
		}
	}
	if committed == 0 {
		problems = append(problems, "no questions answered")
	}
	for id, msg := range s.Errors {
		problems = append(problems, fmt.Sprintf("%s: %s", id, msg))
	}
	return problems
}

// BuildSubmission converts committed drafts into answer rows for the
// submission endpoint. Drafts that never validated (empty Value with no
// numeric) are skipped. Drafts for question ids the engine no longer knows
// are still emitted: the submission endpoint's referential check is what
// detects a stale draft, and hiding those ids here would mask it.
func (e *Engine) BuildSubmission(s *State) []models.Answer {
	var answers []models.Answer
	emit := func(questionID string, draft Draft) {
		if draft.Value == "" && draft.NumericValue == nil {
			return
		}
		answers = append(answers, models.Answer{
			QuestionID:   questionID,
			Value:        draft.Value,
			NumericValue: draft.NumericValue,
		})
	}

	for _, q := range e.questions {
		if draft, ok := s.Answers[q.ID]; ok {
			emit(q.ID, draft)
		}
	}

	var orphans []string
	for id := range s.Answers {
		if _, known := e.byID[id]; !known {
			orphans = append(orphans, id)
		}
	}
	sort.Strings(orphans)
	for _, id := range orphans {
		emit(id, s.Answers[id])
	}
	return answers
}

func (e *Engine) answered(s *State, q *models.Question) bool {
	draft, ok := s.Answers[q.ID]
	if !ok {
		return false
	}
	return draft.Value != "" || draft.NumericValue != nil
}

// validateAnswer applies the per-type rules: required-empty, word limit with
// actual/limit counts, numeric min/max. Empty return means valid.
func (e *Engine) validateAnswer(q *models.Question, value string, numericValue *float64) string {
	trimmed := strings.TrimSpace(value)
	if q.Required && trimmed == "" && numericValue == nil {
		return "this field is required"
	}
	if trimmed == "" && numericValue == nil {
		return ""
	}

	rules := q.ValidationRules
	if rules == nil {
		return ""
	}

	if rules.WordLimit != nil && trimmed != "" {
		words := len(strings.Fields(trimmed))
		if words > *rules.WordLimit {
			return fmt.Sprintf("answer is %d words, limit is %d", words, *rules.WordLimit)
		}
	}

	if rules.Min != nil || rules.Max != nil {
		n, ok := numericFor(trimmed, numericValue)
		if !ok {
			return "a numeric answer is required"
		}
		if rules.Min != nil && n < *rules.Min {
			return fmt.Sprintf("%g is below the minimum of %g", n, *rules.Min)
		}
		if rules.Max != nil && n > *rules.Max {
			return fmt.Sprintf("%g is above the maximum of %g", n, *rules.Max)
		}
	}
	return ""
}

func numericFor(value string, numericValue *float64) (float64, bool) {
	if numericValue != nil {
		return *numericValue, true
	}
	n, err := strconv.ParseFloat(value, 64)
	return n, err == nil
}

func allocationSum(allocations map[string]float64) float64 {
	var sum float64
	for _, v := range allocations {
		sum += v
	}
	return sum
}

func hasOption(q *models.Question, option string) bool {
	for _, o := range q.Options {
		if o == option {
			return true
		}
	}
	return false
}

func encodeAllocations(allocations map[string]float64) string {
	b, _ := json.Marshal(allocations)
	return string(b)
}

func encodeRanks(ranks map[string]int) string {
	b, _ := json.Marshal(ranks)
	return string(b)
}
