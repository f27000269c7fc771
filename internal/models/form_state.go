package models

import "time"

// FormState is the persisted draft of an in-progress survey submission,
// keyed by the form session id. It survives page reloads and is cleared
// explicitly on restart or stale-schema recovery.
type FormState struct {
	SessionID            string `gorm:"primaryKey"`
	SurveyID             string
	UserID               *uint
	Anonymous            bool
	CurrentQuestionIndex int
	CurrentSection       string
	AnswersJSON          string `gorm:"column:answers"`
	ErrorsJSON           string `gorm:"column:errors"`
	StartTime            time.Time
	TotalQuestions       int
	UpdatedAt            time.Time
}
