package config

import (
	"github.com/caarlos0/env/v6"

	"investalytics/server/internal/scoring"
)

type Config struct {
	// Server configuration
	Server struct {
		Port string `env:"SERVER_PORT" envDefault:"5280"`
	}

	// Database configuration
	Database struct {
		// Path to the SQLite analytics database
		Path string `env:"DATABASE_PATH" envDefault:"database/real_estate.db"`
	}

	// Report configuration
	Reports struct {
		// Maximum rows in the ranked investment report
		TopLimit int `env:"REPORT_TOP_LIMIT" envDefault:"25"`

		// Maximum rows in the cash-flow listing report
		CashFlowLimit int `env:"REPORT_CASHFLOW_LIMIT" envDefault:"50"`

		// Minimum properties per location before it appears in the
		// location report
		MinGroupSize int `env:"REPORT_MIN_GROUP_SIZE" envDefault:"3"`
	}

	// Scoring policy overrides; defaults match scoring.DefaultAssumptions
	Scoring struct {
		LoanToValue     float64 `env:"SCORING_LOAN_TO_VALUE" envDefault:"0.80"`
		InterestRate    float64 `env:"SCORING_INTEREST_RATE" envDefault:"0.045"`
		MaintenanceRate float64 `env:"SCORING_MAINTENANCE_RATE" envDefault:"0.08"`
	}

	// BatchProcessing configuration for the ingestion pipeline
	BatchProcessing struct {
		// Maximum number of property batches buffered in the queue
		QueueSize int `env:"BATCH_QUEUE_SIZE" envDefault:"100"`

		// Number of concurrent batch processors
		ProcessorCount int `env:"BATCH_PROCESSOR_COUNT" envDefault:"2"`

		// Maximum number of retries for failed batches
		MaxRetries int `env:"BATCH_MAX_RETRIES" envDefault:"3"`

		// Delay between retries in seconds
		RetryDelay int `env:"BATCH_RETRY_DELAY" envDefault:"5"`
	}

	// Scheduler configuration for the daily report run
	Scheduler struct {
		Enabled bool `env:"SCHEDULER_ENABLED" envDefault:"false"`

		// Hour of day (0-23) for the daily report refresh
		ReportHour int `env:"SCHEDULER_REPORT_HOUR" envDefault:"6"`
	}

	// Telegram notification configuration
	Telegram struct {
		Enabled  bool   `env:"TELEGRAM_ENABLED" envDefault:"false"`
		BotToken string `env:"TELEGRAM_BOT_TOKEN"`
		ChatID   string `env:"TELEGRAM_CHAT_ID"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Assumptions builds the scoring policy from the configured overrides on
// top of the standard weights.
func (c *Config) Assumptions() scoring.Assumptions {
	a := scoring.DefaultAssumptions()
	a.LoanToValue = c.Scoring.LoanToValue
	a.AnnualInterestRate = c.Scoring.InterestRate
	a.MaintenanceRate = c.Scoring.MaintenanceRate
	a.ResultLimit = c.Reports.TopLimit
	return a
}
