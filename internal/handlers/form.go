package handlers

import (
	"net/http"
	"time"

	"salespulse/internal/form"
	"salespulse/internal/models"
	"salespulse/internal/repository"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const formSessionKey = "form_session_id"

// FormHandler exposes the survey form engine over HTTP. The draft state
// lives server-side, keyed by a session id carried in the cookie session, so
// an in-progress submission survives page reloads.
type FormHandler struct {
	log *zap.Logger
}

func NewFormHandler(log *zap.Logger) *FormHandler {
	return &FormHandler{log: log}
}

type startRequest struct {
	SurveyID string `json:"surveyId" binding:"required"`
}

// Start creates a fresh draft for the survey, replacing any existing one for
// this session.
func (h *FormHandler) Start(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "surveyId is required"})
		return
	}

	engine, questions, ok := h.engineFor(c, req.SurveyID)
	if !ok {
		return
	}

	session := sessions.Default(c)
	sessionID := uuid.NewString()
	session.Set(formSessionKey, sessionID)
	if err := session.Save(); err != nil {
		h.log.Error("Failed to save cookie session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start form"})
		return
	}

	state := engine.NewState(req.SurveyID, sessionID, nil)
	if !h.persist(c, state) {
		return
	}
	c.JSON(http.StatusOK, h.view(engine, state, questions))
}

// Get returns the current draft with the question at its index.
func (h *FormHandler) Get(c *gin.Context) {
	engine, state, questions, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.view(engine, state, questions))
}

type answerRequest struct {
	QuestionID   string   `json:"questionId" binding:"required"`
	Value        string   `json:"value"`
	NumericValue *float64 `json:"numericValue"`
	Selections   []string `json:"selections"`
	Category     string   `json:"category"`
	Allocation   *float64 `json:"allocation"`
	Option       string   `json:"option"`
	Rank         *int     `json:"rank"`
}

// Answer routes the input to the per-type transition: allocations for
// percentage questions, ranks for ranking questions, selections for
// checkboxes, plain value otherwise. Validation failures come back with the
// stored error but a 200 status; the draft survives.
func (h *FormHandler) Answer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "questionId is required"})
		return
	}

	engine, state, questions, ok := h.load(c)
	if !ok {
		return
	}

	switch {
	case req.Allocation != nil:
		engine.SetAllocation(state, req.QuestionID, req.Category, *req.Allocation)
	case req.Rank != nil:
		engine.SetRank(state, req.QuestionID, req.Option, *req.Rank)
	case req.Selections != nil:
		engine.SetSelections(state, req.QuestionID, req.Selections)
	default:
		engine.SetAnswer(state, req.QuestionID, req.Value, req.NumericValue)
	}

	if !h.persist(c, state) {
		return
	}
	c.JSON(http.StatusOK, h.view(engine, state, questions))
}

// Next advances to the following question when the current one allows it.
func (h *FormHandler) Next(c *gin.Context) {
	engine, state, questions, ok := h.load(c)
	if !ok {
		return
	}
	engine.Next(state)
	if !h.persist(c, state) {
		return
	}
	c.JSON(http.StatusOK, h.view(engine, state, questions))
}

// Previous moves back one question.
func (h *FormHandler) Previous(c *gin.Context) {
	engine, state, questions, ok := h.load(c)
	if !ok {
		return
	}
	engine.Previous(state)
	if !h.persist(c, state) {
		return
	}
	c.JSON(http.StatusOK, h.view(engine, state, questions))
}

// Submit validates the draft, persists it as a completed response and clears
// the draft. A draft holding question ids the survey no longer has means the
// schema changed underneath it: the draft is wiped so the client starts over.
func (h *FormHandler) Submit(c *gin.Context) {
	engine, state, _, ok := h.load(c)
	if !ok {
		return
	}

	if problems := engine.ValidateAnswers(state); len(problems) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "form is not ready to submit",
			"problems": problems,
		})
		return
	}

	answers := engine.BuildSubmission(state)
	questions, err := repository.GetQuestionsForSurvey(c.Request.Context(), h.log, state.SurveyID)
	if err != nil {
		h.fail(c, "failed to load survey questions", err)
		return
	}
	known := make(map[string]bool, len(questions))
	for i := range questions {
		known[questions[i].ID] = true
	}
	var stale []string
	for _, a := range answers {
		if !known[a.QuestionID] {
			stale = append(stale, a.QuestionID)
		}
	}
	if len(stale) > 0 {
		// Stale schema recovery: the draft is unusable, wipe it.
		if err := repository.DeleteFormState(c.Request.Context(), state.SessionID); err != nil {
			h.log.Error("Failed to clear stale form state",
				zap.String("session_id", state.SessionID), zap.Error(err))
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error":                "draft references question ids no longer in the survey",
			"invalid_question_ids": stale,
			"stale":                true,
		})
		return
	}

	now := time.Now().UTC()
	duration := int(now.Sub(state.StartTime).Seconds())
	response := models.Response{
		SurveyID:     state.SurveyID,
		UserID:       state.UserID,
		SessionID:    state.SessionID,
		Anonymous:    state.Anonymous,
		StartedAt:    state.StartTime,
		CompletedAt:  &now,
		ResponseTime: &duration,
	}
	id, err := repository.SubmitResponse(c.Request.Context(), &response, answers)
	if err != nil {
		h.fail(c, "failed to save submission", err)
		return
	}

	if err := repository.DeleteFormState(c.Request.Context(), state.SessionID); err != nil {
		h.log.Warn("Submitted but failed to clear draft",
			zap.String("session_id", state.SessionID), zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

// Restart discards the draft entirely.
func (h *FormHandler) Restart(c *gin.Context) {
	session := sessions.Default(c)
	sessionID, _ := session.Get(formSessionKey).(string)
	if sessionID != "" {
		if err := repository.DeleteFormState(c.Request.Context(), sessionID); err != nil {
			h.fail(c, "failed to clear draft", err)
			return
		}
	}
	session.Delete(formSessionKey)
	if err := session.Save(); err != nil {
		h.log.Warn("Failed to clear cookie session", zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}

func (h *FormHandler) engineFor(c *gin.Context, surveyID string) (*form.Engine, []models.Question, bool) {
	questions, err := repository.GetQuestionsForSurvey(c.Request.Context(), h.log, surveyID)
	if err != nil {
		h.fail(c, "failed to load survey questions", err)
		return nil, nil, false
	}
	if len(questions) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "survey not found or has no questions"})
		return nil, nil, false
	}
	return form.NewEngine(questions), questions, true
}

// load resolves the cookie session to a stored draft and rebuilds the engine
// for its survey.
func (h *FormHandler) load(c *gin.Context) (*form.Engine, *form.State, []models.Question, bool) {
	session := sessions.Default(c)
	sessionID, _ := session.Get(formSessionKey).(string)
	if sessionID == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "no form in progress"})
		return nil, nil, nil, false
	}

	record, err := repository.GetFormState(c.Request.Context(), sessionID)
	if err != nil {
		h.fail(c, "failed to load form state", err)
		return nil, nil, nil, false
	}
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no form in progress"})
		return nil, nil, nil, false
	}

	state := form.FromRecord(h.log, record)
	engine, questions, ok := h.engineFor(c, state.SurveyID)
	if !ok {
		return nil, nil, nil, false
	}
	return engine, state, questions, true
}

func (h *FormHandler) persist(c *gin.Context, state *form.State) bool {
	if err := repository.SaveFormState(c.Request.Context(), form.ToRecord(state)); err != nil {
		h.fail(c, "failed to save form state", err)
		return false
	}
	return true
}

func (h *FormHandler) view(engine *form.Engine, state *form.State, questions []models.Question) gin.H {
	var current *models.Question
	if q := engine.Current(state); q != nil {
		current = q
	}
	return gin.H{
		"state":            state,
		"current_question": current,
		"total_questions":  len(questions),
	}
}

func (h *FormHandler) fail(c *gin.Context, msg string, err error) {
	h.log.Error(msg, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg, "details": err.Error()})
}
