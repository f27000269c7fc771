package analytics

import (
	"math"
	"sort"
	"strings"

	"salespulse/internal/models"
)

// Analysis tags routing questions into metric computations.
const (
	TagAdminTime         = "admin_time"
	TagSalesTime         = "sales_time"
	TagStrategicTime     = "strategic_time"
	TagSystemProblemTime = "system_problem_time"

	TagToolCount            = "tool_count"
	TagLoginFragmentation   = "login_fragmentation"
	TagWorkaroundPrevalence = "workaround_prevalence"
	TagCriticalWorkarounds  = "critical_workarounds"
	TagOverallComplexity    = "overall_complexity"

	TagInfoSharing        = "info_sharing"
	TagHandoff            = "handoff_effectiveness"
	TagCommunicationGap   = "communication_gap"
	TagPipelineReview     = "pipeline_review"
	TagOverallCollaborate = "overall_collaboration"

	TagLeadLossFrequency  = "lead_loss_frequency"
	TagPrimaryLossStage   = "primary_loss_stage"
	TagTrackingConfidence = "lead_tracking_confidence"
	TagDataAccessTime     = "data_access_time"
	TagOverallBottleneck  = "overall_bottleneck"
)

// MetricWithSource carries a derived value together with the questions it
// came from, the sample behind it and a confidence. Computed=false marks a
// metric whose source questions drew no answers; rules skip it rather than
// trusting a default value.
type MetricWithSource[T any] struct {
	Value           T          `json:"value"`
	Computed        bool       `json:"computed"`
	SourceQuestions []string   `json:"source_questions"`
	ResponseCount   int        `json:"response_count"`
	Confidence      Confidence `json:"confidence"`
	Trend           *string    `json:"trend,omitempty"`
}

// TimeAllocationMetrics describes how the week splits across activity kinds.
// Values are percentages except the efficiency score (0..10).
type TimeAllocationMetrics struct {
	AdminTime           MetricWithSource[float64] `json:"admin_time"`
	SalesTime           MetricWithSource[float64] `json:"sales_time"`
	StrategicTime       MetricWithSource[float64] `json:"strategic_time"`
	SystemProblemTime   MetricWithSource[float64] `json:"system_problem_time"`
	TimeEfficiencyScore MetricWithSource[float64] `json:"time_efficiency_score"`
}

type SystemComplexityMetrics struct {
	ToolCount              MetricWithSource[float64]  `json:"tool_count"`
	LoginFragmentation     MetricWithSource[float64]  `json:"login_fragmentation"`
	WorkaroundPrevalence   MetricWithSource[float64]  `json:"workaround_prevalence"`
	CriticalWorkarounds    MetricWithSource[[]string] `json:"critical_workarounds"`
	OverallComplexityScore MetricWithSource[float64]  `json:"overall_complexity_score"`
}

type TeamCollaborationMetrics struct {
	InformationSharingQuality MetricWithSource[float64] `json:"information_sharing_quality"`
	HandoffEffectiveness      MetricWithSource[float64] `json:"handoff_effectiveness"`
	CommunicationGap          MetricWithSource[float64] `json:"communication_gap"`
	PipelineReviewFrequency   MetricWithSource[float64] `json:"pipeline_review_frequency"`
	OverallCollaborationScore MetricWithSource[float64] `json:"overall_collaboration_score"`
}

type ProcessBottleneckMetrics struct {
	LeadLossFrequency      MetricWithSource[float64] `json:"lead_loss_frequency"`
	PrimaryLossStage       MetricWithSource[string]  `json:"primary_loss_stage"`
	LeadTrackingConfidence MetricWithSource[float64] `json:"lead_tracking_confidence"`
	DataAccessTime         MetricWithSource[float64] `json:"data_access_time"`
	OverallBottleneckScore MetricWithSource[float64] `json:"overall_bottleneck_score"`
}

// Metrics bundles the four metric groups consumed by insight generation.
type Metrics struct {
	TimeAllocation    TimeAllocationMetrics    `json:"time_allocation"`
	SystemComplexity  SystemComplexityMetrics  `json:"system_complexity"`
	TeamCollaboration TeamCollaborationMetrics `json:"team_collaboration"`
	ProcessBottleneck ProcessBottleneckMetrics `json:"process_bottlenecks"`
}

// Calculator routes validated answers into metric groups using the fixed
// question metadata.
type Calculator struct {
	byTag map[string][]string // tag → ordered question ids
}

func NewCalculator(questions []models.Question) *Calculator {
	byTag := make(map[string][]string)
	for i := range questions {
		q := &questions[i]
		for _, tag := range q.AnalysisTags {
			byTag[tag] = append(byTag[tag], q.ID)
		}
	}
	return &Calculator{byTag: byTag}
}

// Calculate derives all four metric groups. A nil or empty response set
// yields zero response counts and low confidence, never a panic.
func (c *Calculator) Calculate(vr ValidatedResponses) *Metrics {
	m := &Metrics{}

	m.TimeAllocation = TimeAllocationMetrics{
		AdminTime:         c.numericMetric(TagAdminTime, vr),
		SalesTime:         c.numericMetric(TagSalesTime, vr),
		StrategicTime:     c.numericMetric(TagStrategicTime, vr),
		SystemProblemTime: c.numericMetric(TagSystemProblemTime, vr),
	}
	m.TimeAllocation.TimeEfficiencyScore = c.efficiencyMetric(
		m.TimeAllocation.AdminTime,
		m.TimeAllocation.SalesTime,
		m.TimeAllocation.StrategicTime,
	)

	m.SystemComplexity = SystemComplexityMetrics{
		ToolCount:              c.numericMetric(TagToolCount, vr),
		LoginFragmentation:     c.numericMetric(TagLoginFragmentation, vr),
		WorkaroundPrevalence:   c.numericMetric(TagWorkaroundPrevalence, vr),
		CriticalWorkarounds:    c.listMetric(TagCriticalWorkarounds, vr),
		OverallComplexityScore: c.numericMetric(TagOverallComplexity, vr),
	}

	m.TeamCollaboration = TeamCollaborationMetrics{
		InformationSharingQuality: c.numericMetric(TagInfoSharing, vr),
		HandoffEffectiveness:      c.numericMetric(TagHandoff, vr),
		CommunicationGap:          c.numericMetric(TagCommunicationGap, vr),
		PipelineReviewFrequency:   c.numericMetric(TagPipelineReview, vr),
		OverallCollaborationScore: c.numericMetric(TagOverallCollaborate, vr),
	}

	m.ProcessBottleneck = ProcessBottleneckMetrics{
		LeadLossFrequency:      c.numericMetric(TagLeadLossFrequency, vr),
		PrimaryLossStage:       c.modalMetric(TagPrimaryLossStage, vr),
		LeadTrackingConfidence: c.numericMetric(TagTrackingConfidence, vr),
		DataAccessTime:         c.numericMetric(TagDataAccessTime, vr),
		OverallBottleneckScore: c.numericMetric(TagOverallBottleneck, vr),
	}

	return m
}

// numericMetric averages the numeric values of every answer to a question
// carrying the tag, across all validated responses.
func (c *Calculator) numericMetric(tag string, vr ValidatedResponses) MetricWithSource[float64] {
	ids := c.byTag[tag]
	idSet := toSet(ids)

	var sum float64
	var n int
	seen := map[uint]bool{}
	for i := range vr.Responses {
		r := &vr.Responses[i]
		for j := range r.Answers {
			a := &r.Answers[j]
			if !idSet[a.QuestionID] || a.NumericValue == nil {
				continue
			}
			sum += *a.NumericValue
			n++
			seen[r.ID] = true
		}
	}

	metric := MetricWithSource[float64]{
		SourceQuestions: ids,
		ResponseCount:   len(seen),
		Confidence:      CalculateConfidenceScore(len(seen), len(ids)),
	}
	if n > 0 {
		metric.Value = sum / float64(n)
		metric.Computed = true
	}
	return metric
}

// listMetric collects the non-empty text values of answers to the tagged
// questions, deduplicated, in first-seen order.
func (c *Calculator) listMetric(tag string, vr ValidatedResponses) MetricWithSource[[]string] {
	ids := c.byTag[tag]
	idSet := toSet(ids)

	values := []string{}
	dedup := map[string]bool{}
	seen := map[uint]bool{}
	for i := range vr.Responses {
		r := &vr.Responses[i]
		for j := range r.Answers {
			a := &r.Answers[j]
			if !idSet[a.QuestionID] {
				continue
			}
			v := strings.TrimSpace(a.Value)
			if v == "" {
				continue
			}
			seen[r.ID] = true
			if !dedup[v] {
				dedup[v] = true
				values = append(values, v)
			}
		}
	}

	return MetricWithSource[[]string]{
		Value:           values,
		Computed:        len(seen) > 0,
		SourceQuestions: ids,
		ResponseCount:   len(seen),
		Confidence:      CalculateConfidenceScore(len(seen), len(ids)),
	}
}

// modalMetric picks the most frequent answer value for the tagged questions.
// Ties break alphabetically so the result is deterministic.
func (c *Calculator) modalMetric(tag string, vr ValidatedResponses) MetricWithSource[string] {
	ids := c.byTag[tag]
	idSet := toSet(ids)

	counts := map[string]int{}
	seen := map[uint]bool{}
	for i := range vr.Responses {
		r := &vr.Responses[i]
		for j := range r.Answers {
			a := &r.Answers[j]
			if !idSet[a.QuestionID] || strings.TrimSpace(a.Value) == "" {
				continue
			}
			counts[a.Value]++
			seen[r.ID] = true
		}
	}

	metric := MetricWithSource[string]{
		SourceQuestions: ids,
		ResponseCount:   len(seen),
		Confidence:      CalculateConfidenceScore(len(seen), len(ids)),
	}
	if len(counts) > 0 {
		keys := make([]string, 0, len(counts))
		for k := range counts {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		best := keys[0]
		for _, k := range keys[1:] {
			if counts[k] > counts[best] {
				best = k
			}
		}
		metric.Value = best
		metric.Computed = true
	}
	return metric
}

// efficiencyMetric derives the one fully computed score:
// min(10, round(raw*100)/10) with raw = sales/(admin+sales), adjusted upward
// by (1 + strategic/100) when strategic time is positive. The rounding and
// clamp feed downstream insight thresholds and must not drift.
func (c *Calculator) efficiencyMetric(admin, sales, strategic MetricWithSource[float64]) MetricWithSource[float64] {
	sourceIDs := append(append([]string{}, admin.SourceQuestions...), sales.SourceQuestions...)
	sourceIDs = append(sourceIDs, strategic.SourceQuestions...)

	responseCount := admin.ResponseCount
	if sales.ResponseCount < responseCount {
		responseCount = sales.ResponseCount
	}

	metric := MetricWithSource[float64]{
		SourceQuestions: sourceIDs,
		ResponseCount:   responseCount,
		Confidence:      CalculateConfidenceScore(responseCount, len(sourceIDs)),
	}

	if !admin.Computed || !sales.Computed || admin.Value+sales.Value == 0 {
		return metric
	}

	metric.Value = TimeEfficiencyScore(admin.Value, sales.Value, strategic.Value)
	metric.Computed = true
	return metric
}

// TimeEfficiencyScore computes the 0..10 efficiency score from time
// percentages.
func TimeEfficiencyScore(adminTime, salesTime, strategicTime float64) float64 {
	if adminTime+salesTime == 0 {
		return 0
	}
	raw := salesTime / (adminTime + salesTime)
	if strategicTime > 0 {
		raw *= 1 + strategicTime/100
	}
	score := math.Round(raw*100) / 10
	if score > 10 {
		score = 10
	}
	return score
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
