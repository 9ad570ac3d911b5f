package main

import (
	"fmt"

	"debtwise/internal/config"
	"debtwise/internal/database"
	"debtwise/internal/handlers"
	"debtwise/internal/logger"
	"debtwise/internal/validator"

	_ "debtwise/internal/docs" // Import swagger docs
)

// @title           Debtwise API
// @version         1.0
// @description     Debtwise tracks income and expenses, keeps debt balances in step with their payments, and projects when each debt will be paid off.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Init(appConfig.Env, appConfig.LogLevel)
	defer logger.Sync()
	log := logger.Get()

	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnw("failed to close database", "error", err)
		}
	}()

	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	router := handlers.NewRouter(dbManager.DB(), handlers.RouterConfig{
		RecentLimit: appConfig.SummaryRecentLimit,
		Swagger:     appConfig.Env != "production",
	})

	log.Infow("Starting Debtwise API server", "port", appConfig.Port, "env", appConfig.Env, "db_driver", appConfig.DBDriver)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
