package handlers

import (
	"errors"
	"net/http"

	"salespulse/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SurveyHandler struct {
	log *zap.Logger
}

func NewSurveyHandler(log *zap.Logger) *SurveyHandler {
	return &SurveyHandler{log: log}
}

// Get returns the survey record and its ordered question list. The stored
// options and validation-rule columns arrive already parsed; a malformed
// column degrades to an empty value without failing the request.
func (h *SurveyHandler) Get(c *gin.Context) {
	surveyID := c.Param("id")

	survey, err := repository.GetSurveyWithQuestions(c.Request.Context(), h.log, surveyID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "survey not found"})
		return
	}
	if err != nil {
		h.log.Error("Failed to load survey", zap.String("survey_id", surveyID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to load survey",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, survey)
}
