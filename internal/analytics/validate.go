package analytics

import (
	"fmt"

	"salespulse/internal/models"
)

// MinAnswers is the minimum answer coverage a response needs to enter the
// metric pipeline.
const MinAnswers = 10

// ValidatedResponses wraps the responses that passed completeness checks
// plus counts and diagnostics for the ones that did not.
type ValidatedResponses struct {
	Responses    []models.Response `json:"-"`
	ValidCount   int               `json:"valid_count"`
	InvalidCount int               `json:"invalid_count"`
	Issues       []string          `json:"issues,omitempty"`
}

// ValidateResponses filters out responses lacking an id, survey id or
// completion timestamp, or holding fewer than MinAnswers answers. It is a
// deterministic filter: per-item problems are recorded, never thrown.
func ValidateResponses(responses []models.Response) ValidatedResponses {
	result := ValidatedResponses{Responses: []models.Response{}}

	for i := range responses {
		r := &responses[i]
		switch {
		case r.ID == 0:
			result.InvalidCount++
			result.Issues = append(result.Issues, "response missing id")
		case r.SurveyID == "":
			result.InvalidCount++
			result.Issues = append(result.Issues,
				fmt.Sprintf("response %d missing survey id", r.ID))
		case r.CompletedAt == nil:
			result.InvalidCount++
			result.Issues = append(result.Issues,
				fmt.Sprintf("response %d was never completed", r.ID))
		case len(r.Answers) < MinAnswers:
			result.InvalidCount++
			result.Issues = append(result.Issues,
				fmt.Sprintf("response %d has %d answers, need %d", r.ID, len(r.Answers), MinAnswers))
		default:
			result.ValidCount++
			result.Responses = append(result.Responses, *r)
		}
	}
	return result
}
