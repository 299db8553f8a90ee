package scheduler

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"investalytics/server/internal/database"
	"investalytics/server/internal/notify"
	"investalytics/server/internal/reports"
	"investalytics/server/internal/scoring"
)

// syncBuffer guards the report output buffer: the startup job writes from
// the scheduler goroutine while tests poll it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestScheduler(t *testing.T) (*Scheduler, *database.Database, *syncBuffer) {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := database.NewDatabase(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations())

	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)

	out := &syncBuffer{}
	engine := scoring.NewEngine(scoring.DefaultAssumptions())
	runner := reports.NewRunner(db, engine, logger, out, 1, 50)
	notifier := notify.NewService(notify.Config{Enabled: false}, logger)
	return NewScheduler(db, runner, notifier, 6, logger), db, out
}

func TestRunReportJobProducesReports(t *testing.T) {
	sched, db, out := newTestScheduler(t)

	_, err := db.GetDB().Exec(`
		INSERT INTO properties
		(property_id, address, city, state, zip_code, price, square_feet,
		 property_type, estimated_rental_income, property_taxes, listing_date, days_on_market)
		VALUES (1, '5 Cedar Ln', 'Austin', 'TX', '78701', 200000, 1200, 'Single Family', 1500, 2400, '2025-06-01', 20)
	`)
	require.NoError(t, err)

	sched.runReportJob()

	output := out.String()
	assert.Contains(t, output, "=== Market Overview ===")
	assert.Contains(t, output, "=== Executive Summary ===")

	// The refresh step materializes the monthly aggregates.
	var rows int
	require.NoError(t, db.GetDB().QueryRow("SELECT COUNT(*) FROM market_data").Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestStartupRunAndStop(t *testing.T) {
	sched, _, out := newTestScheduler(t)

	sched.Start()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(out.String(), "=== Executive Summary ===") {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	sched.Stop()

	assert.Contains(t, out.String(), "=== Executive Summary ===")
}
