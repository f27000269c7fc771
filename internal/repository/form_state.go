package repository

import (
	"context"
	"errors"

	"salespulse/internal/database"
	"salespulse/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetFormState loads the persisted draft for a form session. Returns
// (nil, nil) when no draft exists.
func GetFormState(ctx context.Context, sessionID string) (*models.FormState, error) {
	var state models.FormState
	err := database.DB.WithContext(ctx).First(&state, "session_id = ?", sessionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// SaveFormState upserts the draft row for its session id.
func SaveFormState(ctx context.Context, state *models.FormState) error {
	return database.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}},
			UpdateAll: true,
		}).
		Create(state).Error
}

// DeleteFormState clears a draft, used on restart and on stale-schema
// recovery after a rejected submission.
func DeleteFormState(ctx context.Context, sessionID string) error {
	return database.DB.WithContext(ctx).
		Delete(&models.FormState{}, "session_id = ?", sessionID).Error
}
