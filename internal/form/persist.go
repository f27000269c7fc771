package form

import (
	"encoding/json"
	"time"

	"salespulse/internal/models"

	"go.uber.org/zap"
)

// ToRecord flattens a state into its persisted row. The answer and error
// maps travel as JSON columns.
func ToRecord(s *State) *models.FormState {
	answers, _ := json.Marshal(s.Answers)
	errs, _ := json.Marshal(s.Errors)
	return &models.FormState{
		SessionID:            s.SessionID,
		SurveyID:             s.SurveyID,
		UserID:               s.UserID,
		Anonymous:            s.Anonymous,
		CurrentQuestionIndex: s.CurrentQuestionIndex,
		CurrentSection:       s.CurrentSection,
		AnswersJSON:          string(answers),
		ErrorsJSON:           string(errs),
		StartTime:            s.StartTime,
		TotalQuestions:       s.TotalQuestions,
		UpdatedAt:            time.Now().UTC(),
	}
}

// FromRecord rebuilds a state from its persisted row. Malformed JSON columns
// degrade to empty maps and are logged, matching the question-column policy.
func FromRecord(log *zap.Logger, rec *models.FormState) *State {
	s := &State{
		SurveyID:             rec.SurveyID,
		SessionID:            rec.SessionID,
		UserID:               rec.UserID,
		Anonymous:            rec.Anonymous,
		CurrentQuestionIndex: rec.CurrentQuestionIndex,
		CurrentSection:       rec.CurrentSection,
		Answers:              map[string]Draft{},
		Errors:               map[string]string{},
		StartTime:            rec.StartTime,
		TotalQuestions:       rec.TotalQuestions,
	}
	if rec.AnswersJSON != "" {
		if err := json.Unmarshal([]byte(rec.AnswersJSON), &s.Answers); err != nil {
			log.Warn("Malformed form answers column, starting empty",
				zap.String("session_id", rec.SessionID), zap.Error(err))
			s.Answers = map[string]Draft{}
		}
	}
	if rec.ErrorsJSON != "" {
		if err := json.Unmarshal([]byte(rec.ErrorsJSON), &s.Errors); err != nil {
			log.Warn("Malformed form errors column, starting empty",
				zap.String("session_id", rec.SessionID), zap.Error(err))
			s.Errors = map[string]string{}
		}
	}
	return s
}
