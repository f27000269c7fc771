package analytics

import (
	"fmt"
	"strings"
)

// Insight severities.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
	SeverityPositive = "positive"
)

// Insight is a severity-tagged statement produced by a threshold rule over
// one or more metrics. Confidence is inherited from the weakest input.
type Insight struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Severity      string     `json:"severity"`
	SourceMetrics []string   `json:"source_metrics"`
	Confidence    Confidence `json:"confidence"`
}

// CategorizedInsights groups insights by metric group. The recommendation
// engine keys templates on insight ids within a category.
type CategorizedInsights struct {
	Time          []Insight `json:"time"`
	System        []Insight `json:"system"`
	Collaboration []Insight `json:"collaboration"`
	Process       []Insight `json:"process"`
}

// All returns every insight across categories in emission order.
func (c *CategorizedInsights) All() []Insight {
	out := make([]Insight, 0, len(c.Time)+len(c.System)+len(c.Collaboration)+len(c.Process))
	out = append(out, c.Time...)
	out = append(out, c.System...)
	out = append(out, c.Collaboration...)
	out = append(out, c.Process...)
	return out
}

// GenerateInsights applies the fixed threshold rules to each metric group.
// Rules are independent and non-exclusive: several can fire per group, none
// suppresses another, and values inside a rule pair's neutral band emit
// nothing. Rules whose inputs were never computed do not fire.
func GenerateInsights(m *Metrics) CategorizedInsights {
	return CategorizedInsights{
		Time:          timeInsights(&m.TimeAllocation),
		System:        systemInsights(&m.SystemComplexity),
		Collaboration: collaborationInsights(&m.TeamCollaboration),
		Process:       processInsights(&m.ProcessBottleneck),
	}
}

func timeInsights(t *TimeAllocationMetrics) []Insight {
	var out []Insight

	if t.AdminTime.Computed {
		if t.AdminTime.Value > 40 {
			out = append(out, Insight{
				ID:    "high-admin-time",
				Title: "Administrative work dominates the week",
				Description: fmt.Sprintf(
					"Teams report spending %.1f%% of their time on administrative tasks, well above the sustainable range.",
					t.AdminTime.Value),
				Severity:      SeverityWarning,
				SourceMetrics: []string{"adminTime"},
				Confidence:    t.AdminTime.Confidence,
			})
		}
		if t.AdminTime.Value < 20 {
			out = append(out, Insight{
				ID:    "low-admin-time",
				Title: "Administrative overhead is under control",
				Description: fmt.Sprintf(
					"Only %.1f%% of time goes to administrative tasks, leaving room for selling and planning.",
					t.AdminTime.Value),
				Severity:      SeverityPositive,
				SourceMetrics: []string{"adminTime"},
				Confidence:    t.AdminTime.Confidence,
			})
		}
	}

	if t.StrategicTime.Computed && t.SystemProblemTime.Computed &&
		t.StrategicTime.Value < 20 && t.SystemProblemTime.Value > 30 {
		out = append(out, Insight{
			ID:    "low-strategic-time",
			Title: "System problems are crowding out strategic work",
			Description: fmt.Sprintf(
				"Strategic work gets %.1f%% of the week while %.1f%% is lost to fighting system problems.",
				t.StrategicTime.Value, t.SystemProblemTime.Value),
			Severity:      SeverityCritical,
			SourceMetrics: []string{"strategicTime", "systemProblemTime"},
			Confidence:    minConfidence(t.StrategicTime.Confidence, t.SystemProblemTime.Confidence),
		})
	}

	if t.SalesTime.Computed && t.AdminTime.Computed && t.AdminTime.Value > 0 {
		ratio := t.SalesTime.Value / t.AdminTime.Value
		ratioConfidence := minConfidence(t.SalesTime.Confidence, t.AdminTime.Confidence)
		if ratio < 0.8 {
			out = append(out, Insight{
				ID:    "poor-time-allocation",
				Title: "Selling time trails administrative time",
				Description: fmt.Sprintf(
					"The selling-to-admin time ratio is %.2f; selling should not lose to paperwork.", ratio),
				Severity:      SeverityWarning,
				SourceMetrics: []string{"salesTime", "adminTime"},
				Confidence:    ratioConfidence,
			})
		}
		if ratio > 2 {
			out = append(out, Insight{
				ID:    "excellent-time-allocation",
				Title: "Selling time dominates administrative time",
				Description: fmt.Sprintf(
					"The selling-to-admin time ratio is %.2f, a healthy balance.", ratio),
				Severity:      SeverityPositive,
				SourceMetrics: []string{"salesTime", "adminTime"},
				Confidence:    ratioConfidence,
			})
		}
	}

	if t.TimeEfficiencyScore.Computed {
		if t.TimeEfficiencyScore.Value < 5 {
			out = append(out, Insight{
				ID:    "low-time-efficiency",
				Title: "Time efficiency is critically low",
				Description: fmt.Sprintf(
					"The overall time efficiency score is %.1f out of 10.", t.TimeEfficiencyScore.Value),
				Severity:      SeverityCritical,
				SourceMetrics: []string{"timeEfficiencyScore"},
				Confidence:    t.TimeEfficiencyScore.Confidence,
			})
		}
		if t.TimeEfficiencyScore.Value >= 8 {
			out = append(out, Insight{
				ID:    "high-time-efficiency",
				Title: "Time efficiency is excellent",
				Description: fmt.Sprintf(
					"The overall time efficiency score is %.1f out of 10.", t.TimeEfficiencyScore.Value),
				Severity:      SeverityPositive,
				SourceMetrics: []string{"timeEfficiencyScore"},
				Confidence:    t.TimeEfficiencyScore.Confidence,
			})
		}
	}

	return out
}

func systemInsights(s *SystemComplexityMetrics) []Insight {
	var out []Insight

	if s.ToolCount.Computed && s.ToolCount.Value > 5 {
		out = append(out, Insight{
			ID:    "high-tool-count",
			Title: "Too many tools in daily use",
			Description: fmt.Sprintf(
				"Teams juggle an average of %.1f tools to get through a normal day.", s.ToolCount.Value),
			Severity:      SeverityWarning,
			SourceMetrics: []string{"toolCount"},
			Confidence:    s.ToolCount.Confidence,
		})
	}

	if s.LoginFragmentation.Computed && s.LoginFragmentation.Value > 3 {
		out = append(out, Insight{
			ID:    "high-login-fragmentation",
			Title: "Fragmented logins slow everyone down",
			Description: fmt.Sprintf(
				"An average of %.1f separate logins stand between a rep and their data.", s.LoginFragmentation.Value),
			Severity:      SeverityWarning,
			SourceMetrics: []string{"loginFragmentation"},
			Confidence:    s.LoginFragmentation.Confidence,
		})
	}

	if s.WorkaroundPrevalence.Computed && s.WorkaroundPrevalence.Value > 3 {
		out = append(out, Insight{
			ID:    "high-workaround-prevalence",
			Title: "Workarounds have become the norm",
			Description: fmt.Sprintf(
				"Workaround prevalence rates %.1f on a 1-5 scale; official processes are being routed around.",
				s.WorkaroundPrevalence.Value),
			Severity:      SeverityCritical,
			SourceMetrics: []string{"workaroundPrevalence"},
			Confidence:    s.WorkaroundPrevalence.Confidence,
		})
	}

	if s.CriticalWorkarounds.Computed && len(s.CriticalWorkarounds.Value) > 0 {
		out = append(out, Insight{
			ID:    "critical-workarounds",
			Title: "Critical workarounds carry daily operations",
			Description: fmt.Sprintf(
				"Reported critical workarounds: %s.", strings.Join(s.CriticalWorkarounds.Value, "; ")),
			Severity:      SeverityCritical,
			SourceMetrics: []string{"criticalWorkarounds"},
			Confidence:    s.CriticalWorkarounds.Confidence,
		})
	}

	if s.OverallComplexityScore.Computed {
		if s.OverallComplexityScore.Value > 6 {
			out = append(out, Insight{
				ID:    "high-system-complexity",
				Title: "System landscape is overly complex",
				Description: fmt.Sprintf(
					"Overall system complexity rates %.1f out of 10.", s.OverallComplexityScore.Value),
				Severity:      SeverityWarning,
				SourceMetrics: []string{"overallComplexityScore"},
				Confidence:    s.OverallComplexityScore.Confidence,
			})
		}
		if s.OverallComplexityScore.Value <= 3 {
			out = append(out, Insight{
				ID:    "low-system-complexity",
				Title: "System landscape is lean",
				Description: fmt.Sprintf(
					"Overall system complexity rates %.1f out of 10.", s.OverallComplexityScore.Value),
				Severity:      SeverityPositive,
				SourceMetrics: []string{"overallComplexityScore"},
				Confidence:    s.OverallComplexityScore.Confidence,
			})
		}
	}

	return out
}

func collaborationInsights(t *TeamCollaborationMetrics) []Insight {
	var out []Insight

	if t.InformationSharingQuality.Computed {
		if t.InformationSharingQuality.Value < 6 {
			out = append(out, Insight{
				ID:    "low-information-sharing",
				Title: "Information sharing is breaking down",
				Description: fmt.Sprintf(
					"Information sharing quality rates %.1f out of 10 between managers and reps.",
					t.InformationSharingQuality.Value),
				Severity:      SeverityCritical,
				SourceMetrics: []string{"informationSharingQuality"},
				Confidence:    t.InformationSharingQuality.Confidence,
			})
		}
		if t.InformationSharingQuality.Value >= 8 {
			out = append(out, Insight{
				ID:    "high-information-sharing",
				Title: "Information flows well across the team",
				Description: fmt.Sprintf(
					"Information sharing quality rates %.1f out of 10.", t.InformationSharingQuality.Value),
				Severity:      SeverityPositive,
				SourceMetrics: []string{"informationSharingQuality"},
				Confidence:    t.InformationSharingQuality.Confidence,
			})
		}
	}

	if t.HandoffEffectiveness.Computed && t.HandoffEffectiveness.Value < 6 {
		out = append(out, Insight{
			ID:    "low-handoff-effectiveness",
			Title: "Handoffs drop context between stages",
			Description: fmt.Sprintf(
				"Handoff effectiveness rates %.1f out of 10.", t.HandoffEffectiveness.Value),
			Severity:      SeverityWarning,
			SourceMetrics: []string{"handoffEffectiveness"},
			Confidence:    t.HandoffEffectiveness.Confidence,
		})
	}

	if t.CommunicationGap.Computed && t.CommunicationGap.Value > 5 {
		out = append(out, Insight{
			ID:    "communication-gap",
			Title: "A communication gap separates managers and reps",
			Description: fmt.Sprintf(
				"The perceived communication gap rates %.1f out of 10.", t.CommunicationGap.Value),
			Severity:      SeverityCritical,
			SourceMetrics: []string{"communicationGap"},
			Confidence:    t.CommunicationGap.Confidence,
		})
	}

	if t.PipelineReviewFrequency.Computed {
		if t.PipelineReviewFrequency.Value < 2 {
			out = append(out, Insight{
				ID:    "low-pipeline-review",
				Title: "Pipeline reviews are too rare",
				Description: fmt.Sprintf(
					"Pipelines are reviewed %.1f times per month on average.", t.PipelineReviewFrequency.Value),
				Severity:      SeverityWarning,
				SourceMetrics: []string{"pipelineReviewFrequency"},
				Confidence:    t.PipelineReviewFrequency.Confidence,
			})
		}
		if t.PipelineReviewFrequency.Value >= 4 {
			out = append(out, Insight{
				ID:    "high-pipeline-review",
				Title: "Pipeline reviews happen regularly",
				Description: fmt.Sprintf(
					"Pipelines are reviewed %.1f times per month on average.", t.PipelineReviewFrequency.Value),
				Severity:      SeverityPositive,
				SourceMetrics: []string{"pipelineReviewFrequency"},
				Confidence:    t.PipelineReviewFrequency.Confidence,
			})
		}
	}

	if t.OverallCollaborationScore.Computed {
		if t.OverallCollaborationScore.Value < 6 {
			out = append(out, Insight{
				ID:    "low-collaboration",
				Title: "Team collaboration needs attention",
				Description: fmt.Sprintf(
					"Overall collaboration rates %.1f out of 10.", t.OverallCollaborationScore.Value),
				Severity:      SeverityCritical,
				SourceMetrics: []string{"overallCollaborationScore"},
				Confidence:    t.OverallCollaborationScore.Confidence,
			})
		}
		if t.OverallCollaborationScore.Value >= 8 {
			out = append(out, Insight{
				ID:    "high-collaboration",
				Title: "Team collaboration is strong",
				Description: fmt.Sprintf(
					"Overall collaboration rates %.1f out of 10.", t.OverallCollaborationScore.Value),
				Severity:      SeverityPositive,
				SourceMetrics: []string{"overallCollaborationScore"},
				Confidence:    t.OverallCollaborationScore.Confidence,
			})
		}
	}

	return out
}

func processInsights(p *ProcessBottleneckMetrics) []Insight {
	var out []Insight

	if p.LeadLossFrequency.Computed {
		if p.LeadLossFrequency.Value > 20 {
			out = append(out, Insight{
				ID:    "high-lead-loss",
				Title: "Leads are leaking out of the funnel",
				Description: fmt.Sprintf(
					"An estimated %.1f%% of leads are lost before any qualified conversation.",
					p.LeadLossFrequency.Value),
				Severity:      SeverityCritical,
				SourceMetrics: []string{"leadLossFrequency"},
				Confidence:    p.LeadLossFrequency.Confidence,
			})
		}
		if p.LeadLossFrequency.Value <= 10 {
			out = append(out, Insight{
				ID:    "low-lead-loss",
				Title: "Lead loss is under control",
				Description: fmt.Sprintf(
					"Only %.1f%% of leads are lost early in the funnel.", p.LeadLossFrequency.Value),
				Severity:      SeverityPositive,
				SourceMetrics: []string{"leadLossFrequency"},
				Confidence:    p.LeadLossFrequency.Confidence,
			})
		}
	}

	// Unconditional: always name the stage where most leads go missing.
	if p.PrimaryLossStage.Computed {
		out = append(out, Insight{
			ID:    "primary-loss-stage",
			Title: "Most leads are lost at a single stage",
			Description: fmt.Sprintf(
				"The %q stage is where most leads go missing.", p.PrimaryLossStage.Value),
			Severity:      SeverityWarning,
			SourceMetrics: []string{"primaryLossStage"},
			Confidence:    p.PrimaryLossStage.Confidence,
		})
	}

	if p.LeadTrackingConfidence.Computed && p.LeadTrackingConfidence.Value < 6 {
		out = append(out, Insight{
			ID:    "low-lead-tracking-confidence",
			Title: "Teams do not trust their lead tracking",
			Description: fmt.Sprintf(
				"Confidence in lead tracking rates %.1f out of 10.", p.LeadTrackingConfidence.Value),
			Severity:      SeverityWarning,
			SourceMetrics: []string{"leadTrackingConfidence"},
			Confidence:    p.LeadTrackingConfidence.Confidence,
		})
	}

	if p.DataAccessTime.Computed {
		if p.DataAccessTime.Value > 5 {
			out = append(out, Insight{
				ID:    "slow-data-access",
				Title: "Getting at customer data takes too long",
				Description: fmt.Sprintf(
					"Answering a routine data question takes %.1f minutes on average.", p.DataAccessTime.Value),
				Severity:      SeverityWarning,
				SourceMetrics: []string{"dataAccessTime"},
				Confidence:    p.DataAccessTime.Confidence,
			})
		}
		if p.DataAccessTime.Value <= 2 {
			out = append(out, Insight{
				ID:    "fast-data-access",
				Title: "Customer data is at everyone's fingertips",
				Description: fmt.Sprintf(
					"Routine data questions are answered in %.1f minutes on average.", p.DataAccessTime.Value),
				Severity:      SeverityPositive,
				SourceMetrics: []string{"dataAccessTime"},
				Confidence:    p.DataAccessTime.Confidence,
			})
		}
	}

	if p.OverallBottleneckScore.Computed {
		if p.OverallBottleneckScore.Value > 6 {
			out = append(out, Insight{
				ID:    "high-bottleneck",
				Title: "Process bottlenecks are severe",
				Description: fmt.Sprintf(
					"Overall bottleneck severity rates %.1f out of 10.", p.OverallBottleneckScore.Value),
				Severity:      SeverityCritical,
				SourceMetrics: []string{"overallBottleneckScore"},
				Confidence:    p.OverallBottleneckScore.Confidence,
			})
		}
		if p.OverallBottleneckScore.Value <= 3 {
			out = append(out, Insight{
				ID:    "low-bottleneck",
				Title: "Processes flow without major friction",
				Description: fmt.Sprintf(
					"Overall bottleneck severity rates %.1f out of 10.", p.OverallBottleneckScore.Value),
				Severity:      SeverityPositive,
				SourceMetrics: []string{"overallBottleneckScore"},
				Confidence:    p.OverallBottleneckScore.Confidence,
			})
		}
	}

	return out
}
