package main

import (
	"github.com/horseradish/comparebot/internal/config"
	"github.com/horseradish/comparebot/internal/handlers"
	"github.com/horseradish/comparebot/internal/models"
	"github.com/horseradish/comparebot/internal/services"
	"github.com/horseradish/comparebot/internal/utils"
	"github.com/horseradish/comparebot/pkg/logger"
	"github.com/robfig/cron/v3"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	cfg              *config.Config
	authHandler      *handlers.AuthHandler
	reportHandler    *handlers.ReportHandler
	cleanupScheduler *cron.Cron
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	db := models.GetDB()

	if err := models.AutoMigrate(db); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	services.InitSystemLogger(db)
	cleanupScheduler := services.StartCleanupScheduler(db, cfg.Log.RetentionDays)

	authHandler := handlers.NewAuthHandler(db, &cfg.JWT)
	if err := authHandler.SeedDemoClientIfNotExists(); err != nil {
		logger.Warn().Err(err).Msg("Failed to seed demo client")
	}

	store := services.NewReportStore(db)
	generator := services.NewAIService(&cfg.LLM)
	comparator := services.NewComparator(generator)
	reportService := services.NewReportService(store, services.NewPDFExtractor(), comparator)

	return &appServices{
		cfg:              cfg,
		authHandler:      authHandler,
		reportHandler:    handlers.NewReportHandler(reportService, &cfg.Upload),
		cleanupScheduler: cleanupScheduler,
	}
}

// shutdown gracefully stops background schedulers.
func (s *appServices) shutdown() {
	if s.cleanupScheduler != nil {
		s.cleanupScheduler.Stop()
	}
	logger.Info().Msg("All schedulers stopped")
}
