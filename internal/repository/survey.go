package repository

import (
	"context"
	"encoding/json"

	"salespulse/internal/database"
	"salespulse/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetSurveyWithQuestions returns the survey record and its question list
// ordered by order index, with the JSON columns decoded into typed fields.
func GetSurveyWithQuestions(ctx context.Context, log *zap.Logger, surveyID string) (*models.Survey, error) {
	var survey models.Survey
	err := database.DB.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		First(&survey, "id = ?", surveyID).Error
	if err != nil {
		return nil, err
	}

	for i := range survey.Questions {
		decodeQuestionFields(log, &survey.Questions[i])
	}
	return &survey, nil
}

// GetQuestionsForSurvey returns the decoded question list only.
func GetQuestionsForSurvey(ctx context.Context, log *zap.Logger, surveyID string) ([]models.Question, error) {
	var questions []models.Question
	err := database.DB.WithContext(ctx).
		Where("survey_id = ?", surveyID).
		Order("order_index ASC").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	for i := range questions {
		decodeQuestionFields(log, &questions[i])
	}
	return questions, nil
}

// SeedQuestionPack upserts the fixed survey and question reference data.
// Runs at startup; the pack is the source of truth for question metadata.
func SeedQuestionPack(log *zap.Logger, pack *models.QuestionPack) error {
	for i := range pack.Surveys {
		survey := pack.Surveys[i]
		questions := survey.Questions
		survey.Questions = nil

		err := database.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "description", "version", "is_active"}),
		}).Create(&survey).Error
		if err != nil {
			return err
		}

		for j := range questions {
			q := questions[j]
			encodeQuestionFields(log, &q)
			err := database.DB.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"section", "text", "type", "order_index", "required",
					"options", "validation_rules", "analysis_tags",
				}),
			}).Create(&q).Error
			if err != nil {
				return err
			}
		}
	}
	log.Info("Question pack seeded", zap.Int("surveys", len(pack.Surveys)))
	return nil
}

// decodeQuestionFields parses the stored JSON columns into the typed fields.
// A malformed column degrades to an empty value and is logged; the request
// carrying the question still succeeds.
func decodeQuestionFields(log *zap.Logger, q *models.Question) {
	q.Options = []string{}
	if q.OptionsJSON != "" {
		if err := json.Unmarshal([]byte(q.OptionsJSON), &q.Options); err != nil {
			log.Warn("Malformed options column, using empty list",
				zap.String("question_id", q.ID), zap.Error(err))
			q.Options = []string{}
		}
	}

	q.ValidationRules = nil
	if q.ValidationRulesJSON != "" {
		var rules models.ValidationRules
		if err := json.Unmarshal([]byte(q.ValidationRulesJSON), &rules); err != nil {
			log.Warn("Malformed validation_rules column, using none",
				zap.String("question_id", q.ID), zap.Error(err))
		} else {
			q.ValidationRules = &rules
		}
	}

	q.AnalysisTags = []string{}
	if q.AnalysisTagsJSON != "" {
		if err := json.Unmarshal([]byte(q.AnalysisTagsJSON), &q.AnalysisTags); err != nil {
			log.Warn("Malformed analysis_tags column, using empty list",
				zap.String("question_id", q.ID), zap.Error(err))
			q.AnalysisTags = []string{}
		}
	}
}

func encodeQuestionFields(log *zap.Logger, q *models.Question) {
	if len(q.Options) > 0 {
		if b, err := json.Marshal(q.Options); err == nil {
			q.OptionsJSON = string(b)
		} else {
			log.Warn("Failed to encode options", zap.String("question_id", q.ID), zap.Error(err))
		}
	}
	if q.ValidationRules != nil {
		if b, err := json.Marshal(q.ValidationRules); err == nil {
			q.ValidationRulesJSON = string(b)
		}
	}
	if len(q.AnalysisTags) > 0 {
		if b, err := json.Marshal(q.AnalysisTags); err == nil {
			q.AnalysisTagsJSON = string(b)
		}
	}
}
