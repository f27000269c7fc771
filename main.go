package main

import (
	"salespulse/internal/config"
	"salespulse/internal/database"
	logger "salespulse/internal/logging"
	"salespulse/internal/models"
	"salespulse/internal/repository"
	"salespulse/internal/router"

	"go.uber.org/zap"
)

func main() {
	// Configuration decides where logs go, so it loads under a plain
	// console logger and the full logger comes up after it.
	bootLog := logger.Console()
	if err := config.Init(".", bootLog); err != nil {
		bootLog.Fatal("Failed to load configuration", zap.Error(err))
	}

	log, err := logger.Init(config.Conf.Logging)
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer log.Sync()

	database.Init(log)

	// Seed the fixed reference data: question pack and stakeholder accounts.
	pack, err := models.LoadQuestionPack(config.Conf.Survey.QuestionPack)
	if err != nil {
		log.Fatal("Failed to load question pack", zap.Error(err))
	}
	if err := repository.SeedQuestionPack(log, pack); err != nil {
		log.Fatal("Failed to seed question pack", zap.Error(err))
	}
	if err := repository.SeedUsers(log, config.Conf.Auth.SeedPassword); err != nil {
		log.Fatal("Failed to seed stakeholder accounts", zap.Error(err))
	}

	r := router.Setup(log)

	port := ":" + config.Conf.Server.Port
	log.Info("Server listening on http://localhost" + port)
	if err := r.Run(port); err != nil {
		log.Fatal("Failed to run Gin server", zap.Error(err))
	}
}
