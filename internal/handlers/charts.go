package handlers

import (
	"net/http"

	"salespulse/internal/analytics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

type ChartsHandler struct {
	log       *zap.Logger
	analytics *AnalyticsHandler
}

func NewChartsHandler(log *zap.Logger, analytics *AnalyticsHandler) *ChartsHandler {
	return &ChartsHandler{log: log, analytics: analytics}
}

// TimeAllocation renders the time-allocation metrics as a bar chart page.
func (h *ChartsHandler) TimeAllocation(c *gin.Context) {
	result, err := h.analytics.runPipeline(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to build chart data", zap.Error(err))
		c.String(http.StatusInternalServerError, "Failed to load chart data")
		return
	}

	chart := generateTimeAllocationChart(&result.Metrics.TimeAllocation)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := chart.Render(c.Writer); err != nil {
		h.log.Error("Failed to render chart", zap.Error(err))
	}
}

func generateTimeAllocationChart(t *analytics.TimeAllocationMetrics) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Time Allocation",
			Subtitle: "Average share of the working week, percent",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:  "value",
			Scale: opts.Bool(true),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)

	labels := []string{"Administrative", "Selling", "Strategic", "System problems"}
	values := []analytics.MetricWithSource[float64]{
		t.AdminTime, t.SalesTime, t.StrategicTime, t.SystemProblemTime,
	}

	var data []opts.BarData
	for _, m := range values {
		if m.Computed {
			data = append(data, opts.BarData{Value: m.Value})
		} else {
			data = append(data, opts.BarData{Value: 0})
		}
	}

	bar.SetXAxis(labels).AddSeries("share of week", data)
	return bar
}
