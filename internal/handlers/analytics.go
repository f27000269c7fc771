package handlers

import (
	"context"
	"net/http"
	"sort"

	"salespulse/internal/analytics"
	"salespulse/internal/auth"
	"salespulse/internal/config"
	"salespulse/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AnalyticsHandler struct {
	log *zap.Logger
}

func NewAnalyticsHandler(log *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{log: log}
}

// pipelineResult is everything one run of the analytics pipeline produces.
type pipelineResult struct {
	Validated       analytics.ValidatedResponses
	Metrics         *analytics.Metrics
	Insights        analytics.CategorizedInsights
	Recommendations []analytics.Recommendation
}

// runPipeline executes fetch → validate → metrics → insights →
// recommendations for the configured analytics survey.
func (h *AnalyticsHandler) runPipeline(ctx context.Context) (*pipelineResult, error) {
	surveyID := config.Conf.Survey.AnalyticsSurvey

	responses, err := repository.FetchSurveyData(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	questions, err := repository.GetQuestionsForSurvey(ctx, h.log, surveyID)
	if err != nil {
		return nil, err
	}

	validated := analytics.ValidateResponses(responses)
	metrics := analytics.NewCalculator(questions).Calculate(validated)
	insights := analytics.GenerateInsights(metrics)
	recommendations := analytics.PrioritizeRecommendations(insights)

	return &pipelineResult{
		Validated:       validated,
		Metrics:         metrics,
		Insights:        insights,
		Recommendations: recommendations,
	}, nil
}

// Summary returns all four metric groups plus the top insights and
// recommendations.
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	if !h.authorize(c, auth.PermViewSummary) {
		return
	}
	result, err := h.runPipeline(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"metrics":         result.Metrics,
		"insights":        topBySeverity(result.Insights.All(), 3),
		"recommendations": topRecommendations(result.Recommendations, 3),
		"validation": gin.H{
			"valid_count":   result.Validated.ValidCount,
			"invalid_count": result.Validated.InvalidCount,
			"issues":        result.Validated.Issues,
		},
	})
}

// Process returns the process/funnel view: bottleneck metrics and the
// insights and recommendations drawn from them.
func (h *AnalyticsHandler) Process(c *gin.Context) {
	if !h.authorize(c, auth.PermViewProcess) {
		return
	}
	result, err := h.runPipeline(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"metrics":         result.Metrics.ProcessBottleneck,
		"insights":        topBySeverity(result.Insights.Process, 3),
		"recommendations": topRecommendations(result.Recommendations, 3),
	})
}

// Collaboration returns the team-collaboration view.
func (h *AnalyticsHandler) Collaboration(c *gin.Context) {
	if !h.authorize(c, auth.PermViewCollaboration) {
		return
	}
	result, err := h.runPipeline(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"metrics":         result.Metrics.TeamCollaboration,
		"insights":        topBySeverity(result.Insights.Collaboration, 3),
		"recommendations": topRecommendations(result.Recommendations, 3),
	})
}

// authorize resolves the effective role and checks the permission. The role
// comes from the bearer session; the optional role query parameter narrows
// the view further but never escalates past the session's own role.
func (h *AnalyticsHandler) authorize(c *gin.Context, permission string) bool {
	role := ""
	if v, ok := c.Get("session"); ok {
		role = v.(*auth.Session).Role
	} else if config.Conf.Server.DevMode {
		// Documented insecure fallback for local development.
		role = "admin"
	}
	if role == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return false
	}

	if requested := c.Query("role"); requested != "" {
		if !auth.HasPermission(role, permission) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return false
		}
		role = requested
	}

	if !auth.HasPermission(role, permission) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return false
	}
	return true
}

func (h *AnalyticsHandler) fail(c *gin.Context, err error) {
	h.log.Error("Analytics pipeline failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "failed to compute analytics",
		"details": err.Error(),
	})
}

// topBySeverity keeps the n most confident insights per severity band,
// preserving band grouping in the output.
func topBySeverity(insights []analytics.Insight, n int) map[string][]analytics.Insight {
	bands := map[string][]analytics.Insight{}
	for _, ins := range insights {
		bands[ins.Severity] = append(bands[ins.Severity], ins)
	}
	for severity, band := range bands {
		sort.SliceStable(band, func(i, j int) bool {
			return band[i].Confidence.Score > band[j].Confidence.Score
		})
		if len(band) > n {
			band = band[:n]
		}
		bands[severity] = band
	}
	return bands
}

func topRecommendations(recs []analytics.Recommendation, n int) []analytics.Recommendation {
	if len(recs) > n {
		recs = recs[:n]
	}
	return recs
}
