package scheduler

import (
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"investalytics/server/internal/database"
	"investalytics/server/internal/notify"
	"investalytics/server/internal/reports"
	"investalytics/server/internal/scoring"
)

// Scheduler manages the periodic report runs. It refreshes the aggregated
// market data, executes the report suite and surfaces the day's top pick.
type Scheduler struct {
	db         *database.Database
	runner     *reports.Runner
	notifier   *notify.Service
	logger     *logrus.Logger
	reportHour int
	stopChan   chan struct{}
	wg         sync.WaitGroup
	jobMutex   sync.Mutex // Ensures sequential job execution
}

// NewScheduler creates a scheduler that runs the report suite once at
// startup and then daily at reportHour.
func NewScheduler(db *database.Database, runner *reports.Runner, notifier *notify.Service, reportHour int, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
		logger.SetLevel(logrus.InfoLevel)
	}

	return &Scheduler{
		db:         db,
		runner:     runner,
		notifier:   notifier,
		logger:     logger,
		reportHour: reportHour,
		stopChan:   make(chan struct{}),
	}
}

// Start begins the scheduled tasks
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.runScheduler()
}

func (s *Scheduler) runScheduler() {
	defer s.wg.Done()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.logger.Info("Running startup report job")
		s.runReportJob()
		s.logger.Info("Startup report job completed")
	}()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case t := <-ticker.C:
			if t.Hour() == s.reportHour && t.Minute() == 0 {
				s.logger.Info("Starting scheduled report job")
				s.runReportJob()
				s.logger.Info("Completed scheduled report job")
			}
		}
	}
}

// runReportJob refreshes the monthly aggregates, runs the full report
// suite and notifies on an Excellent top pick.
func (s *Scheduler) runReportJob() {
	s.jobMutex.Lock()
	defer s.jobMutex.Unlock()

	if err := s.db.RefreshMarketData(); err != nil {
		s.logger.WithError(err).Error("Failed to refresh market data")
		return
	}

	if err := s.runner.RunAll(); err != nil {
		s.logger.WithError(err).Error("Report run failed")
		return
	}

	top, ok, err := s.runner.TopRecommendation()
	if err != nil {
		s.logger.WithError(err).Error("Failed to rank top recommendation")
		return
	}
	if !ok {
		s.logger.Info("No scorable properties; skipping notification")
		return
	}

	s.logger.WithFields(logrus.Fields{
		"property_id":     top.PropertyID,
		"composite_score": top.CompositeScore,
		"recommendation":  top.Recommendation,
	}).Info("Top investment for this run")

	if top.Recommendation != scoring.RecommendExcellent {
		return
	}
	if err := s.notifier.NotifyTopInvestment(top); err != nil {
		s.logger.WithError(err).Error("Failed to send top investment notification")
	}
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	close(s.stopChan)
	s.wg.Wait()
}
