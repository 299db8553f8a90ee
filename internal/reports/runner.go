package reports

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/sirupsen/logrus"

	"investalytics/server/internal/database"
	"investalytics/server/internal/scoring"
)

// Runner executes the fixed report suite in order and prints each report
// to the output writer. It is a thin sequencer: the first failing report
// aborts the run.
type Runner struct {
	db           *database.Database
	engine       *scoring.Engine
	logger       *logrus.Logger
	out          io.Writer
	minGroupSize int
	cashFlowRows int
}

// NewRunner creates a report runner writing to out.
func NewRunner(db *database.Database, engine *scoring.Engine, logger *logrus.Logger, out io.Writer, minGroupSize, cashFlowRows int) *Runner {
	return &Runner{
		db:           db,
		engine:       engine,
		logger:       logger,
		out:          out,
		minGroupSize: minGroupSize,
		cashFlowRows: cashFlowRows,
	}
}

// RunAll executes the five reports followed by the executive summary.
func (r *Runner) RunAll() error {
	steps := []struct {
		title string
		run   func() error
	}{
		{"Market Overview", r.runOverview},
		{"Location Analysis", r.runLocations},
		{"Cash Flow Analysis", r.runCashFlow},
		{"Seasonal Market Trends", r.runTrends},
		{"Top Investment Opportunities", r.runTopInvestments},
		{"Executive Summary", r.runSummary},
	}

	for _, step := range steps {
		r.banner(step.title)
		if err := step.run(); err != nil {
			return fmt.Errorf("report %q failed: %w", step.title, err)
		}
	}
	return nil
}

func (r *Runner) banner(title string) {
	fmt.Fprintf(r.out, "\n=== %s ===\n", title)
}

func (r *Runner) runOverview() error {
	overview, err := r.db.GetMarketOverview()
	if err != nil {
		return err
	}

	w := r.table()
	fmt.Fprintln(w, "Properties\tAvg Price\tMin Price\tMax Price\tAvg $/sqft\tAvg DOM\tCities\tStates")
	fmt.Fprintf(w, "%d\t$%.0f\t$%.0f\t$%.0f\t$%.2f\t%.1f\t%d\t%d\n",
		overview.TotalProperties,
		overview.AveragePrice,
		overview.MinPrice,
		overview.MaxPrice,
		overview.AvgPricePerSqft,
		overview.AvgDaysOnMarket,
		overview.CityCount,
		overview.StateCount,
	)
	return w.Flush()
}

func (r *Runner) runLocations() error {
	stats, err := r.db.GetLocationStats(r.minGroupSize)
	if err != nil {
		return err
	}

	w := r.table()
	fmt.Fprintln(w, "State\tCity\tCount\tAvg Price\tAvg Rent\tAvg $/sqft\tAvg Cap Rate")
	for _, s := range stats {
		fmt.Fprintf(w, "%s\t%s\t%d\t$%.0f\t$%.0f\t$%.2f\t%.2f%%\n",
			s.State, s.City, s.PropertyCount, s.AveragePrice, s.AverageRent, s.AvgPricePerSqft, s.AvgCapRate)
	}
	return w.Flush()
}

func (r *Runner) runCashFlow() error {
	listings, err := r.db.GetCashFlowListings(r.engine.Assumptions(), r.cashFlowRows)
	if err != nil {
		return err
	}

	w := r.table()
	fmt.Fprintln(w, "ID\tAddress\tCity\tState\tPrice\tRent\tCap Rate\tCash Flow")
	for _, l := range listings {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t$%.0f\t$%.0f\t%.2f%%\t$%.0f\n",
			l.PropertyID, l.Address, l.City, l.State, l.Price, l.MonthlyRent, l.CapRate, l.MonthlyCashFlow)
	}
	return w.Flush()
}

func (r *Runner) runTrends() error {
	trends, err := r.db.GetMarketTrends()
	if err != nil {
		return err
	}

	w := r.table()
	fmt.Fprintln(w, "Month\tListings\tAvg Price\tAvg DOM\tVelocity")
	for _, t := range trends {
		fmt.Fprintf(w, "%s\t%d\t$%.0f\t%.1f\t%s\n",
			t.Month, t.Listings, t.AveragePrice, t.AvgDaysOnMarket, t.Velocity)
	}
	return w.Flush()
}

func (r *Runner) runTopInvestments() error {
	candidates, err := r.db.GetScoringCandidates()
	if err != nil {
		return err
	}

	ranked := r.engine.Rank(candidates)
	r.logger.WithFields(logrus.Fields{
		"candidates": len(candidates),
		"ranked":     len(ranked),
	}).Info("Scored investment candidates")

	w := r.table()
	fmt.Fprintln(w, "Rank\tID\tCity\tState\tPrice\tCash Flow\tCap Rate\tComposite\tRecommendation")
	for i, sp := range ranked {
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t$%.0f\t$%.0f\t%.2f%%\t%.1f\t%s\n",
			i+1, sp.PropertyID, sp.City, sp.State, sp.Price,
			sp.MonthlyCashFlow, sp.CapRate, sp.CompositeScore, sp.Recommendation)
	}
	return w.Flush()
}

func (r *Runner) runSummary() error {
	summary, err := r.db.GetExecutiveSummary()
	if err != nil {
		return err
	}

	w := r.table()
	fmt.Fprintln(w, "Properties\tAvg Price\tRentals\tRental %\tAvg Cap Rate\tStates\tCities")
	fmt.Fprintf(w, "%d\t$%.0f\t%d\t%.1f%%\t%.2f%%\t%d\t%d\n",
		summary.TotalProperties,
		summary.AveragePrice,
		summary.RentalCount,
		summary.RentalPct,
		summary.AvgCapRate,
		summary.StateCount,
		summary.CityCount,
	)
	return w.Flush()
}

func (r *Runner) table() *tabwriter.Writer {
	return tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
}

// TopRecommendation returns the highest-ranked property, if any. Used by
// the scheduler to surface the day's best pick.
func (r *Runner) TopRecommendation() (scoring.ScoredProperty, bool, error) {
	candidates, err := r.db.GetScoringCandidates()
	if err != nil {
		return scoring.ScoredProperty{}, false, err
	}
	ranked := r.engine.Rank(candidates)
	if len(ranked) == 0 {
		return scoring.ScoredProperty{}, false, nil
	}
	return ranked[0], true, nil
}
