package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"salespulse/internal/config"
	"salespulse/internal/database"
	"salespulse/internal/models"
	"salespulse/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()

	config.Conf = &config.Config{
		Server:   config.ServerConfig{DevMode: true},
		Database: config.DatabaseConfig{
			Driver: "sqlite",
			Path:   filepath.Join(t.TempDir(), "test.db"),
		},
		Survey:   config.SurveyConfig{AnalyticsSurvey: "sales-environment"},
	}
	database.Init(log)

	pack := &models.QuestionPack{
		Surveys: []models.Survey{
			{
				ID: "sales-environment", Name: "Sales Environment Survey",
				TargetRole: "sales", Version: 1, IsActive: true,
				Questions: []models.Question{
					{ID: "s-time-admin", Section: "Time Allocation", Type: models.TypePercentage,
						OrderIndex: 0, Required: true, AnalysisTags: []string{"admin_time"}},
					{ID: "s-time-selling", Section: "Time Allocation", Type: models.TypePercentage,
						OrderIndex: 1, Required: true, AnalysisTags: []string{"sales_time"}},
					{ID: "s-process-stage", Section: "Sales Process", Type: models.TypeMultipleChoice,
						OrderIndex: 2, Required: true, Options: []string{"Qualification", "Closing"},
						AnalysisTags: []string{"primary_loss_stage"}},
				},
			},
		},
	}
	require.NoError(t, repository.SeedQuestionPack(log, pack))

	r := gin.New()
	r.POST("/api/responses", NewResponseHandler(log).Submit)
	r.GET("/api/surveys/:id", NewSurveyHandler(log).Get)
	r.GET("/api/analytics/summary", NewAnalyticsHandler(log).Summary)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSubmitNoAnswers(t *testing.T) {
	r := setupTestRouter(t)

	w := postJSON(t, r, "/api/responses", gin.H{
		"surveyId": "sales-environment",
		"answers":  []gin.H{},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "No answers provided", body["error"])
}

func TestSubmitUnknownQuestionID(t *testing.T) {
	r := setupTestRouter(t)

	w := postJSON(t, r, "/api/responses", gin.H{
		"surveyId": "sales-environment",
		"answers": []gin.H{
			{"questionId": "s-time-admin", "value": "45", "numericValue": 45},
			{"questionId": "q-does-not-exist", "value": "x"},
		},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body struct {
		Error              string   `json:"error"`
		InvalidQuestionIDs []string `json:"invalid_question_ids"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"q-does-not-exist"}, body.InvalidQuestionIDs)
}

func TestSubmitValid(t *testing.T) {
	r := setupTestRouter(t)

	w := postJSON(t, r, "/api/responses", gin.H{
		"surveyId":     "sales-environment",
		"sessionId":    "session-42",
		"responseTime": 180,
		"answers": []gin.H{
			{"questionId": "s-time-admin", "value": "45", "numericValue": 45},
			{"questionId": "s-time-selling", "value": "35", "numericValue": 35},
			{"questionId": "s-process-stage", "value": "Qualification"},
		},
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotZero(t, body.ID)

	// The submission is visible, complete, and carries all three answers.
	responses, err := repository.FetchSurveyData(context.Background(), "sales-environment")
	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.True(t, responses[0].IsComplete)
	assert.NotNil(t, responses[0].CompletedAt)
	assert.Len(t, responses[0].Answers, 3)
}

func TestGetSurveyWithParsedQuestions(t *testing.T) {
	r := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/surveys/sales-environment", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var survey models.Survey
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &survey))
	require.Len(t, survey.Questions, 3)
	// Options arrive parsed into a native list, not raw JSON text.
	assert.Equal(t, []string{"Qualification", "Closing"}, survey.Questions[2].Options)
}

func TestAnalyticsSummaryDevMode(t *testing.T) {
	r := setupTestRouter(t)

	// Dev mode admits the request without a bearer token.
	req := httptest.NewRequest(http.MethodGet, "/api/analytics/summary", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body, "metrics")
	assert.Contains(t, body, "recommendations")
	assert.Contains(t, body, "validation")
}

func TestAnalyticsSummaryUnauthorized(t *testing.T) {
	r := setupTestRouter(t)
	config.Conf.Server.DevMode = false

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/summary", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetUnknownSurvey(t *testing.T) {
	r := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/surveys/nope", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
