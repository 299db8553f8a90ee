package main

import (
	"flag"
	"os"

	"github.com/sirupsen/logrus"

	"investalytics/server/config"
	"investalytics/server/internal/database"
	"investalytics/server/internal/reports"
	"investalytics/server/internal/scoring"
)

func main() {
	seed := flag.Int64("seed", 0, "seed the database with generated sample listings using this seed")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stderr)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	if *seed != 0 {
		count, err := db.Seed(*seed)
		if err != nil {
			logger.WithError(err).Fatal("Failed to seed database")
		}
		logger.WithField("properties", count).Info("Seeded sample listings")
	}

	assumptions := cfg.Assumptions()
	if err := assumptions.Validate(); err != nil {
		logger.WithError(err).Fatal("Invalid scoring assumptions")
	}

	runner := reports.NewRunner(db, scoring.NewEngine(assumptions), logger, os.Stdout,
		cfg.Reports.MinGroupSize, cfg.Reports.CashFlowLimit)
	if err := runner.RunAll(); err != nil {
		logger.WithError(err).Fatal("Report run failed")
	}
}
