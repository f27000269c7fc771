package analytics

import (
	"math"
	"sort"
	"strings"
)

// Impact magnitudes and effort levels.
const (
	MagnitudeLow    = "low"
	MagnitudeMedium = "medium"
	MagnitudeHigh   = "high"

	EffortQuickWin    = "quick-win"
	EffortMedium      = "medium"
	EffortSignificant = "significant"
)

// Impact describes what a recommendation improves and by how much.
type Impact struct {
	Area        string `json:"area"`
	Magnitude   string `json:"magnitude"`
	Description string `json:"description"`
	// NumericValue is the deterministic midpoint of the magnitude's
	// expected-improvement range, in percent.
	NumericValue float64 `json:"numeric_value"`
}

// Effort describes what a recommendation costs to execute.
type Effort struct {
	Level        string `json:"level"`
	Description  string `json:"description"`
	TimeEstimate string `json:"time_estimate"`
}

// Recommendation is an actionable template surfaced when specific insights
// are present, ranked by a recomputed priority score.
type Recommendation struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Steps            []string `json:"steps"`
	Impact           Impact   `json:"impact"`
	Effort           Effort   `json:"effort"`
	Priority         float64  `json:"priority"` // 1..10
	SourceInsightIDs []string `json:"source_insight_ids"`
}

// template binds a canned recommendation to the insight ids that trigger it.
// Any one trigger present in the category surfaces the template; every
// trigger that is present contributes to the priority score.
type template struct {
	triggers       []string
	recommendation Recommendation
}

var timeTemplates = []template{
	{
		triggers: []string{"high-admin-time"},
		recommendation: Recommendation{
			ID:          "reduce-admin-time",
			Title:       "Cut administrative load on the sales team",
			Description: "Move recurring administrative work off sales calendars through templates, delegation and automation.",
			Steps: []string{
				"Audit a typical week and list every recurring administrative task",
				"Automate or template the three most frequent tasks",
				"Delegate reporting chores to operations support",
			},
			Impact: Impact{Area: "time allocation", Magnitude: MagnitudeHigh,
				Description: "Frees selling hours every single week."},
			Effort: Effort{Level: EffortMedium,
				Description:  "Requires a task audit and some tooling changes.",
				TimeEstimate: "2-4 weeks"},
		},
	},
	{
		triggers: []string{"low-strategic-time", "low-time-efficiency"},
		recommendation: Recommendation{
			ID:          "protect-strategic-time",
			Title:       "Block protected time for strategic work",
			Description: "Reserve recurring calendar blocks for planning and account strategy before the week fills up with firefighting.",
			Steps: []string{
				"Schedule two protected strategy blocks per week for every manager",
				"Route system problems to a named owner instead of whoever notices",
				"Review time allocation monthly against the target split",
			},
			Impact: Impact{Area: "time allocation", Magnitude: MagnitudeMedium,
				Description: "Shifts hours from reactive firefighting to planned work."},
			Effort: Effort{Level: EffortQuickWin,
				Description:  "Calendar discipline plus a simple escalation rule.",
				TimeEstimate: "1 week"},
		},
	},
	{
		triggers: []string{"poor-time-allocation"},
		recommendation: Recommendation{
			ID:          "rebalance-selling-time",
			Title:       "Rebalance the selling-to-admin ratio",
			Description: "Set an explicit target ratio of selling to administrative time and remove the tasks that violate it.",
			Steps: []string{
				"Agree a target selling-to-admin ratio with the team",
				"Identify the admin tasks that consume the most selling hours",
				"Eliminate, automate or reassign each of them",
			},
			Impact: Impact{Area: "time allocation", Magnitude: MagnitudeHigh,
				Description: "Puts reps back in front of customers."},
			Effort: Effort{Level: EffortMedium,
				Description:  "Needs manager buy-in and follow-through.",
				TimeEstimate: "3-6 weeks"},
		},
	},
}

var systemTemplates = []template{
	{
		triggers: []string{"high-tool-count", "high-system-complexity"},
		recommendation: Recommendation{
			ID:          "consolidate-tools",
			Title:       "Consolidate the tool landscape",
			Description: "Reduce the number of systems a rep touches in a normal day by retiring overlapping tools.",
			Steps: []string{
				"Inventory every tool in daily use and what it is used for",
				"Mark overlaps where two tools serve the same job",
				"Retire or merge the overlapping tools, starting with the least used",
			},
			Impact: Impact{Area: "system complexity", Magnitude: MagnitudeHigh,
				Description: "Fewer systems means fewer context switches and fewer places data can hide."},
			Effort: Effort{Level: EffortSignificant,
				Description:  "Tool migrations touch data, licenses and habits.",
				TimeEstimate: "2-3 months"},
		},
	},
	{
		triggers: []string{"high-login-fragmentation"},
		recommendation: Recommendation{
			ID:          "single-sign-on",
			Title:       "Introduce single sign-on",
			Description: "Put every daily tool behind one login so access stops being a chore.",
			Steps: []string{
				"List every separate login a rep needs in a normal day",
				"Connect the most used tools to the identity provider first",
				"Retire standalone credentials as tools are connected",
			},
			Impact: Impact{Area: "system complexity", Magnitude: MagnitudeMedium,
				Description: "Removes daily login friction for the whole team."},
			Effort: Effort{Level: EffortMedium,
				Description:  "IT-led integration work per tool.",
				TimeEstimate: "4-8 weeks"},
		},
	},
	{
		triggers: []string{"high-workaround-prevalence", "critical-workarounds"},
		recommendation: Recommendation{
			ID:          "formalize-workarounds",
			Title:       "Formalize or fix critical workarounds",
			Description: "Workarounds that carry daily operations are unowned processes. Make each one official or fix the gap it papers over.",
			Steps: []string{
				"Document every workaround currently in daily use",
				"Decide per workaround: adopt it as the official process or fix the underlying gap",
				"Assign an owner and a deadline to each decision",
			},
			Impact: Impact{Area: "system complexity", Magnitude: MagnitudeHigh,
				Description: "Turns invisible, fragile processes into owned ones."},
			Effort: Effort{Level: EffortMedium,
				Description:  "Mostly discovery and decision work.",
				TimeEstimate: "3-5 weeks"},
		},
	},
}

var collaborationTemplates = []template{
	{
		triggers: []string{"low-information-sharing", "low-collaboration"},
		recommendation: Recommendation{
			ID:          "shared-account-playbook",
			Title:       "Create a shared account playbook",
			Description: "Put account context in one place both managers and reps maintain, so information stops living in heads and inboxes.",
			Steps: []string{
				"Define the minimum account record every deal must keep current",
				"Move existing context from email threads into the shared record",
				"Review record hygiene in the weekly pipeline meeting",
			},
			Impact: Impact{Area: "team collaboration", Magnitude: MagnitudeHigh,
				Description: "Everyone works from the same account picture."},
			Effort: Effort{Level: EffortMedium,
				Description:  "Template design plus a migration push.",
				TimeEstimate: "2-4 weeks"},
		},
	},
	{
		triggers: []string{"low-handoff-effectiveness"},
		recommendation: Recommendation{
			ID:          "handoff-checklist",
			Title:       "Standardize stage handoffs",
			Description: "A short handoff checklist keeps context from dropping when a deal changes hands.",
			Steps: []string{
				"Write a one-page checklist for each handoff point",
				"Require the checklist before a deal moves stage",
				"Audit a sample of handoffs monthly for completeness",
			},
			Impact: Impact{Area: "team collaboration", Magnitude: MagnitudeMedium,
				Description: "Less context lost between stages."},
			Effort: Effort{Level: EffortQuickWin,
				Description:  "A checklist and a process rule.",
				TimeEstimate: "1 week"},
		},
	},
	{
		triggers: []string{"communication-gap"},
		recommendation: Recommendation{
			ID:          "structured-syncs",
			Title:       "Add structured manager-rep syncs",
			Description: "A short, recurring one-to-one with a fixed agenda closes the gap between what managers assume and what reps experience.",
			Steps: []string{
				"Schedule a weekly 20-minute sync per rep with a fixed three-item agenda",
				"Capture blockers raised in syncs in a shared list",
				"Review the blocker list in the management meeting",
			},
			Impact: Impact{Area: "team collaboration", Magnitude: MagnitudeMedium,
				Description: "Surfaces problems while they are still small."},
			Effort: Effort{Level: EffortQuickWin,
				Description:  "Calendar time and a template.",
				TimeEstimate: "1 week"},
		},
	},
	{
		triggers: []string{"low-pipeline-review"},
		recommendation: Recommendation{
			ID:          "regular-pipeline-reviews",
			Title:       "Run pipeline reviews on a fixed cadence",
			Description: "Move pipeline reviews from ad hoc to a weekly fixture so stalled deals get noticed in days, not months.",
			Steps: []string{
				"Book a recurring weekly pipeline review",
				"Review every deal untouched for more than 14 days",
				"Record one next action per reviewed deal",
			},
			Impact: Impact{Area: "team collaboration", Magnitude: MagnitudeMedium,
				Description: "Stalled deals surface quickly."},
			Effort: Effort{Level: EffortQuickWin,
				Description:  "A standing meeting with a fixed agenda.",
				TimeEstimate: "1 week"},
		},
	},
}

var processTemplates = []template{
	{
		triggers: []string{"high-lead-loss", "primary-loss-stage"},
		recommendation: Recommendation{
			ID:          "plug-lead-leaks",
			Title:       "Plug the funnel at its leakiest stage",
			Description: "Concentrate process fixes on the single stage where most leads go missing instead of spreading effort across the whole funnel.",
			Steps: []string{
				"Audit the last quarter's lost leads by funnel stage",
				"Design an explicit owner and SLA for the leakiest stage",
				"Track stage conversion weekly until the leak closes",
			},
			Impact: Impact{Area: "process bottlenecks", Magnitude: MagnitudeHigh,
				Description: "Directly recovers revenue currently leaking away."},
			Effort: Effort{Level: EffortMedium,
				Description:  "Analysis plus one focused process change.",
				TimeEstimate: "3-6 weeks"},
		},
	},
	{
		triggers: []string{"low-lead-tracking-confidence"},
		recommendation: Recommendation{
			ID:          "tracking-hygiene",
			Title:       "Rebuild trust in lead tracking",
			Description: "When the team stops trusting the tracker, they stop updating it. Fix the data, then make upkeep cheap.",
			Steps: []string{
				"Deduplicate and close out stale leads in the tracker",
				"Cut required fields down to the ones actually used",
				"Spot-check tracker accuracy against reality monthly",
			},
			Impact: Impact{Area: "process bottlenecks", Magnitude: MagnitudeMedium,
				Description: "A tracker the team trusts is a tracker the team uses."},
			Effort: Effort{Level: EffortMedium,
				Description:  "A cleanup push plus ongoing discipline.",
				TimeEstimate: "2-4 weeks"},
		},
	},
	{
		triggers: []string{"slow-data-access", "high-bottleneck"},
		recommendation: Recommendation{
			ID:          "data-access-shortcuts",
			Title:       "Shorten the path to customer data",
			Description: "Build the handful of views and reports that answer the questions reps actually ask every day.",
			Steps: []string{
				"Collect the ten most common data questions from the team",
				"Build a saved view or report answering each one",
				"Pin the views where the team already works",
			},
			Impact: Impact{Area: "process bottlenecks", Magnitude: MagnitudeMedium,
				Description: "Routine questions get answered in seconds."},
			Effort: Effort{Level: EffortQuickWin,
				Description:  "Report building in existing tools.",
				TimeEstimate: "1-2 weeks"},
		},
	},
}

// PrioritizeRecommendations matches the canned templates against the
// insights present in each category, recomputes every match's priority and
// returns them sorted by priority, descending. The sort is stable: templates
// that tie keep their emission order, so the output is deterministic.
func PrioritizeRecommendations(insights CategorizedInsights) []Recommendation {
	var out []Recommendation
	out = append(out, matchTemplates(timeTemplates, insights.Time)...)
	out = append(out, matchTemplates(systemTemplates, insights.System)...)
	out = append(out, matchTemplates(collaborationTemplates, insights.Collaboration)...)
	out = append(out, matchTemplates(processTemplates, insights.Process)...)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority > out[j].Priority
	})
	return out
}

func matchTemplates(templates []template, insights []Insight) []Recommendation {
	byID := make(map[string]*Insight, len(insights))
	for i := range insights {
		byID[insights[i].ID] = &insights[i]
	}

	var out []Recommendation
	for _, t := range templates {
		var contributing []*Insight
		for _, trigger := range t.triggers {
			if ins, ok := byID[trigger]; ok {
				contributing = append(contributing, ins)
			}
		}
		if len(contributing) == 0 {
			continue
		}

		rec := t.recommendation
		rec.Steps = generateActionSteps(rec.Steps)
		rec.Impact = estimateImpact(rec.Impact)
		for _, ins := range contributing {
			rec.SourceInsightIDs = append(rec.SourceInsightIDs, ins.ID)
		}
		rec.Priority = priorityScore(&rec, contributing)
		out = append(out, rec)
	}
	return out
}

// priorityScore computes the 1..10 priority from contributing insight
// severities and confidences plus the template's own impact and effort.
func priorityScore(rec *Recommendation, contributing []*Insight) float64 {
	score := 5.0

	var confidenceSum float64
	for _, ins := range contributing {
		switch ins.Severity {
		case SeverityCritical:
			score += 1.5
		case SeverityWarning:
			score += 0.75
		case SeverityInfo:
			score += 0.25
		}
		confidenceSum += ins.Confidence.Score
	}
	avgConfidence := confidenceSum / float64(len(contributing))

	score *= 0.75 + avgConfidence*0.5

	switch rec.Impact.Magnitude {
	case MagnitudeHigh:
		score += 1.5
	case MagnitudeMedium:
		score += 0.75
	case MagnitudeLow:
		score += 0.25
	}

	switch rec.Effort.Level {
	case EffortQuickWin:
		score += 1
	case EffortSignificant:
		score -= 0.5
	}

	priority := math.Round(score*10) / 10
	if priority < 1 {
		priority = 1
	}
	if priority > 10 {
		priority = 10
	}
	return priority
}

// generateActionSteps decorates steps with canned explanatory clauses keyed
// by substring match on the step text.
func generateActionSteps(steps []string) []string {
	out := make([]string, len(steps))
	for i, step := range steps {
		lower := strings.ToLower(step)
		switch {
		case strings.Contains(lower, "audit") || strings.Contains(lower, "inventory"):
			out[i] = step + ", capturing the findings where the whole team can see them"
		case strings.Contains(lower, "review"):
			out[i] = step + " and keep it under 30 minutes"
		case strings.Contains(lower, "schedule") || strings.Contains(lower, "book"):
			out[i] = step + " as recurring invites, not one-offs"
		default:
			out[i] = step
		}
	}
	return out
}

// estimateImpact fills in the numeric improvement estimate as the midpoint
// of the magnitude's expected range. The midpoint keeps the output
// deterministic, which the test suite depends on.
func estimateImpact(impact Impact) Impact {
	switch impact.Magnitude {
	case MagnitudeHigh:
		impact.NumericValue = 40 // midpoint of 30-50%
	case MagnitudeMedium:
		impact.NumericValue = 22.5 // midpoint of 15-30%
	case MagnitudeLow:
		impact.NumericValue = 10 // midpoint of 5-15%
	}
	if impact.Description != "" && strings.Contains(strings.ToLower(impact.Area), "time") {
		impact.Description += " Expected improvement applies to weekly selling hours."
	}
	return impact
}
