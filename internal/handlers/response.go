package handlers

import (
	"net/http"
	"time"

	"salespulse/internal/models"
	"salespulse/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ResponseHandler struct {
	log *zap.Logger
}

func NewResponseHandler(log *zap.Logger) *ResponseHandler {
	return &ResponseHandler{log: log}
}

type answerInput struct {
	QuestionID      string   `json:"questionId" binding:"required"`
	Value           string   `json:"value"`
	NumericValue    *float64 `json:"numericValue"`
	ConfidenceScore *float64 `json:"confidenceScore"`
}

type submitRequest struct {
	SurveyID     string        `json:"surveyId" binding:"required"`
	Answers      []answerInput `json:"answers"`
	CompletedAt  *time.Time    `json:"completedAt"`
	ResponseTime *int          `json:"responseTime"`
	SessionID    string        `json:"sessionId"`
	StartedAt    *time.Time    `json:"startedAt"`
}

// Submit persists a full survey submission: the response row, its answers
// and the completion mark, atomically on both backends. Submissions naming
// question ids outside the target survey are rejected with the offending ids
// enumerated.
func (h *ResponseHandler) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Answers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No answers provided"})
		return
	}

	questions, err := repository.GetQuestionsForSurvey(c.Request.Context(), h.log, req.SurveyID)
	if err != nil {
		h.log.Error("Failed to load questions for submission",
			zap.String("survey_id", req.SurveyID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to load survey questions",
			"details": err.Error(),
		})
		return
	}

	known := make(map[string]bool, len(questions))
	for i := range questions {
		known[questions[i].ID] = true
	}
	var invalid []string
	for _, a := range req.Answers {
		if !known[a.QuestionID] {
			invalid = append(invalid, a.QuestionID)
		}
	}
	if len(invalid) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":               "submission names question ids outside this survey",
			"invalid_question_ids": invalid,
		})
		return
	}

	now := time.Now().UTC()
	startedAt := now
	if req.StartedAt != nil {
		startedAt = *req.StartedAt
	}
	completedAt := now
	if req.CompletedAt != nil {
		completedAt = *req.CompletedAt
	}

	response := models.Response{
		SurveyID:     req.SurveyID,
		SessionID:    req.SessionID,
		Anonymous:    true,
		StartedAt:    startedAt,
		CompletedAt:  &completedAt,
		ResponseTime: req.ResponseTime,
	}
	answers := make([]models.Answer, len(req.Answers))
	for i, a := range req.Answers {
		answers[i] = models.Answer{
			QuestionID:      a.QuestionID,
			Value:           a.Value,
			NumericValue:    a.NumericValue,
			ConfidenceScore: a.ConfidenceScore,
		}
	}

	id, err := repository.SubmitResponse(c.Request.Context(), &response, answers)
	if err != nil {
		h.log.Error("Failed to persist submission",
			zap.String("survey_id", req.SurveyID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to save submission",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}
