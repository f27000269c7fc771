package database

import (
	"fmt"

	"salespulse/internal/config"
	logging "salespulse/internal/logging"
	"salespulse/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init opens the configured backend and runs migrations. The driver setting
// selects between the single-file sqlite store and a hosted postgres
// instance; everything above this package sees the same gorm.DB surface.
func Init(log *zap.Logger) {
	var err error
	dbConf := config.Conf.Database

	// Create our custom GORM logger
	gormLogger := logging.NewGormZapLogger(log)
	gormLogger.LogLevel = logger.Warn

	var dialector gorm.Dialector
	switch dbConf.Driver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			dbConf.Host, dbConf.User, dbConf.Password, dbConf.DBName, dbConf.Port)
		dialector = postgres.Open(dsn)
	case "sqlite", "":
		dialector = sqlite.Open(dbConf.Path)
	default:
		log.Fatal("Unknown database driver", zap.String("driver", dbConf.Driver))
	}

	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
	})

	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	log.Info("Database connection established successfully.",
		zap.String("driver", dbConf.Driver))
	runMigrations(log)
}

func runMigrations(log *zap.Logger) {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Survey{},
		&models.Question{},
		&models.Response{},
		&models.Answer{},
		&models.FormState{},
	)
	if err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}
	log.Info("Database migrations completed successfully.")
}
