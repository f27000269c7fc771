package models

import "time"

// Response is created when a participant starts a survey and mutated exactly
// once at submission, which marks it complete and records the duration. The
// system never deletes responses.
type Response struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	SurveyID     string     `gorm:"index" json:"survey_id"`
	UserID       *uint      `json:"user_id,omitempty"`
	SessionID    string     `gorm:"index" json:"session_id"`
	Anonymous    bool       `json:"anonymous"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	IsComplete   bool       `json:"is_complete"`
	ResponseTime *int       `json:"response_time,omitempty"` // seconds

	Answers []Answer `gorm:"foreignKey:ResponseID" json:"answers,omitempty"`
}

// Answer rows are written in bulk at submission, one per answered question,
// and are immutable afterwards.
type Answer struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ResponseID      uint      `gorm:"index" json:"response_id"`
	QuestionID      string    `gorm:"index" json:"question_id"`
	Value           string    `json:"value"`
	NumericValue    *float64  `json:"numeric_value,omitempty"`
	ConfidenceScore *float64  `json:"confidence_score,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
