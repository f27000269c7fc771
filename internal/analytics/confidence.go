package analytics

import "math"

// Confidence levels.
const (
	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
	ConfidenceHigh   = "high"
)

// DefaultDistributionQuality stands in for a real measure of response-value
// spread. Callers only threshold it, so the placeholder is contractual.
const DefaultDistributionQuality = 0.8

// Confidence expresses how much a metric should be trusted.
type Confidence struct {
	Score               float64  `json:"score"` // 0..1
	Level               string   `json:"level"`
	ResponseCount       int      `json:"response_count"`
	QuestionCount       int      `json:"question_count"`
	DistributionQuality float64  `json:"distribution_quality"`
	Factors             []string `json:"factors"`
}

// CalculateConfidenceScore maps sample size and source question count to a
// 0..1 confidence. The sigmoid crosses 0.5 near 30 responses and is near 0
// for 5 or fewer; extra source questions apply a mild dilution penalty
// floored at 0.7.
func CalculateConfidenceScore(responseCount, questionCount int) Confidence {
	score := 1 - 1/(1+math.Exp(float64(responseCount)/10-3))

	penalty := 1 - float64(questionCount-1)*0.05
	if penalty < 0.7 {
		penalty = 0.7
	}
	score *= penalty

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	c := Confidence{
		Score:               score,
		Level:               confidenceLevel(score),
		ResponseCount:       responseCount,
		QuestionCount:       questionCount,
		DistributionQuality: DefaultDistributionQuality,
	}
	c.Factors = confidenceFactors(responseCount, questionCount, c.DistributionQuality)
	return c
}

func confidenceLevel(score float64) string {
	switch {
	case score >= 0.7:
		return ConfidenceHigh
	case score >= 0.4:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// confidenceFactors builds the human-readable contributing factors. Empty
// strings never make it into the list.
func confidenceFactors(responseCount, questionCount int, distribution float64) []string {
	var factors []string

	switch {
	case responseCount < 10:
		factors = append(factors, "limited sample size")
	case responseCount < 30:
		factors = append(factors, "moderate sample size")
	default:
		factors = append(factors, "strong sample size")
	}

	switch {
	case distribution < 0.5:
		factors = append(factors, "uneven response distribution")
	case distribution >= 0.8:
		factors = append(factors, "well-distributed responses")
	}

	if questionCount > 1 {
		factors = append(factors, "multiple related questions")
	} else {
		factors = append(factors, "single question")
	}

	factors = append(factors, "data from last 30 days")
	return factors
}

// minConfidence picks the weakest of the given confidences; an insight is
// only as trustworthy as its least-supported input.
func minConfidence(first Confidence, rest ...Confidence) Confidence {
	weakest := first
	for _, c := range rest {
		if c.Score < weakest.Score {
			weakest = c
		}
	}
	return weakest
}
