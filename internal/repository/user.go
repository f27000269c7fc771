package repository

import (
	"context"
	"errors"

	"salespulse/internal/database"
	"salespulse/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	result := database.DB.WithContext(ctx).First(&user, "username = ?", username)
	return &user, result.Error
}

// SeedUsers creates the fixed stakeholder accounts if they do not exist yet.
// The shared seed password comes from config and must be rotated outside of
// development.
func SeedUsers(log *zap.Logger, seedPassword string) error {
	roles := []string{models.RoleAdmin, models.RoleCoordinator, models.RoleAssessor}
	for _, role := range roles {
		var existing models.User
		err := database.DB.First(&existing, "username = ?", role).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := models.HashPassword(seedPassword)
		if err != nil {
			return err
		}
		user := models.User{Username: role, Password: hashed, Role: role}
		if err := database.DB.Create(&user).Error; err != nil {
			return err
		}
		log.Info("Seeded stakeholder account", zap.String("username", role))
	}
	return nil
}
