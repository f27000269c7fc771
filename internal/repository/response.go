package repository

import (
	"context"
	"time"

	"salespulse/internal/database"
	"salespulse/internal/models"

	"gorm.io/gorm"
)

// FetchSurveyData reads all responses for a survey, each with its child
// answers preloaded. Feeds the analytics pipeline.
func FetchSurveyData(ctx context.Context, surveyID string) ([]models.Response, error) {
	var responses []models.Response
	err := database.DB.WithContext(ctx).
		Preload("Answers").
		Where("survey_id = ?", surveyID).
		Find(&responses).Error
	return responses, err
}

// SubmitResponse writes the response row, bulk-inserts its answers and marks
// it complete inside a single transaction. The submission is atomic on both
// backends: a failure in any step leaves no partial submission visible.
func SubmitResponse(ctx context.Context, response *models.Response, answers []models.Answer) (uint, error) {
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(response).Error; err != nil {
			return err
		}

		now := time.Now().UTC()
		for i := range answers {
			answers[i].ResponseID = response.ID
			if answers[i].CreatedAt.IsZero() {
				answers[i].CreatedAt = now
			}
		}
		if err := tx.Create(&answers).Error; err != nil {
			return err
		}

		return tx.Model(&models.Response{}).
			Where("id = ?", response.ID).
			Updates(map[string]interface{}{
				"is_complete":  true,
				"completed_at": response.CompletedAt,
			}).Error
	})
	if err != nil {
		return 0, err
	}
	return response.ID, nil
}
