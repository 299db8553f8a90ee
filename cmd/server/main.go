package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"investalytics/server/config"
	"investalytics/server/internal/api"
	"investalytics/server/internal/database"
	"investalytics/server/internal/notify"
	"investalytics/server/internal/processor"
	"investalytics/server/internal/queue"
	"investalytics/server/internal/reports"
	"investalytics/server/internal/scheduler"
	"investalytics/server/internal/scoring"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	logger.Infof("Using database at: %s", cfg.Database.Path)

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	// Run database migrations
	logger.Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	// Second handle for batch writes
	orm, err := database.NewORM(cfg.Database.Path)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize batch database handle")
	}

	assumptions := cfg.Assumptions()
	if err := assumptions.Validate(); err != nil {
		logger.WithError(err).Fatal("Invalid scoring assumptions")
	}
	engine := scoring.NewEngine(assumptions)

	// Ingestion pipeline
	propertyQueue := queue.NewPropertyQueue(cfg.BatchProcessing.QueueSize, logger)
	batchProcessor := processor.NewBatchProcessor(orm, propertyQueue, cfg, logger)
	batchProcessor.Start()
	defer batchProcessor.Stop()
	propertyQueue.Start()
	defer propertyQueue.Close()

	if cfg.Scheduler.Enabled {
		notifier := notify.NewService(notify.Config{
			Enabled:  cfg.Telegram.Enabled,
			BotToken: cfg.Telegram.BotToken,
			ChatID:   cfg.Telegram.ChatID,
		}, logger)
		runner := reports.NewRunner(db, engine, logger, os.Stdout, cfg.Reports.MinGroupSize, cfg.Reports.CashFlowLimit)
		sched := scheduler.NewScheduler(db, runner, notifier, cfg.Scheduler.ReportHour, logger)
		sched.Start()
		defer sched.Stop()
	}

	// Initialize handler and router
	handler := api.NewHandler(db, engine, propertyQueue, cfg, logger)
	router := gin.Default()
	api.SetupRoutes(router, handler)

	logger.Infof("Starting server on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}
