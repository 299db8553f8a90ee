package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"investalytics/server/config"
	"investalytics/server/internal/database"
	"investalytics/server/internal/queue"
	"investalytics/server/internal/scoring"
)

func newTestRouter(t *testing.T) (*gin.Engine, *database.Database, *queue.PropertyQueue) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := database.NewDatabase(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations())

	cfg := &config.Config{}
	cfg.Reports.TopLimit = 25
	cfg.Reports.CashFlowLimit = 50
	cfg.Reports.MinGroupSize = 1

	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)

	q := queue.NewPropertyQueue(4, logger)
	engine := scoring.NewEngine(scoring.DefaultAssumptions())
	handler := NewHandler(db, engine, q, cfg, logger)

	router := gin.New()
	SetupRoutes(router, handler)
	return router, db, q
}

func insertListing(t *testing.T, db *database.Database, id int64, price, rent, taxes float64, sqft int) {
	t.Helper()
	_, err := db.GetDB().Exec(`
		INSERT INTO properties
		(property_id, address, city, state, zip_code, price, bedrooms, bathrooms,
		 square_feet, property_type, estimated_rental_income, property_taxes,
		 listing_date, days_on_market)
		VALUES (?, ?, 'Austin', 'TX', '78701', ?, 3, 2, ?, 'Single Family', ?, ?, '2025-06-01', 20)
	`, id, fmt.Sprintf("%d Pine St", id), price, sqft, rent, taxes)
	require.NoError(t, err)
}

func doRequest(router *gin.Engine, method, path string, body []byte) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetMarketOverview(t *testing.T) {
	router, db, _ := newTestRouter(t)
	insertListing(t, db, 1, 200000, 1500, 2400, 1200)

	w := doRequest(router, http.MethodGet, "/api/overview", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var overview map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &overview))
	assert.EqualValues(t, 1, overview["total_properties"])
	assert.EqualValues(t, 200000, overview["average_price"])
}

func TestGetTopInvestments(t *testing.T) {
	router, db, _ := newTestRouter(t)
	insertListing(t, db, 1, 200000, 1500, 2400, 1200)
	insertListing(t, db, 2, 90000, 1400, 1100, 2100)

	w := doRequest(router, http.MethodGet, "/api/top-investments", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var ranked []scoring.ScoredProperty
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ranked))
	require.Len(t, ranked, 2)
	assert.Equal(t, int64(2), ranked[0].PropertyID)
	assert.Equal(t, scoring.RecommendExcellent, ranked[0].Recommendation)
	assert.Equal(t, 72.2, ranked[1].CompositeScore)
}

func TestGetTopInvestmentsLimit(t *testing.T) {
	router, db, _ := newTestRouter(t)
	insertListing(t, db, 1, 200000, 1500, 2400, 1200)
	insertListing(t, db, 2, 90000, 1400, 1100, 2100)

	w := doRequest(router, http.MethodGet, "/api/top-investments?limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var ranked []scoring.ScoredProperty
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ranked))
	require.Len(t, ranked, 1)
	assert.Equal(t, int64(2), ranked[0].PropertyID)
}

func TestGetTopInvestmentsInterestRateOverride(t *testing.T) {
	router, db, _ := newTestRouter(t)
	insertListing(t, db, 1, 200000, 1500, 2400, 1200)

	// A lower interest rate is allowed and raises cash flow.
	w := doRequest(router, http.MethodGet, "/api/top-investments?interest_rate=0.03", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var ranked []scoring.ScoredProperty
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ranked))
	require.Len(t, ranked, 1)
	assert.Greater(t, ranked[0].MonthlyCashFlow, 580.0)
}

func TestGetAllPropertiesCityFilter(t *testing.T) {
	router, db, _ := newTestRouter(t)
	insertListing(t, db, 1, 200000, 1500, 2400, 1200)
	_, err := db.GetDB().Exec(`
		INSERT INTO properties
		(property_id, address, city, state, zip_code, price, square_feet,
		 property_type, estimated_rental_income, property_taxes, listing_date, days_on_market)
		VALUES (2, '9 Birch Rd', 'Denver', 'CO', '80202', 400000, 1800, 'Condo', 2500, 4000, '2025-05-01', 30)
	`)
	require.NoError(t, err)

	w := doRequest(router, http.MethodGet, "/api/properties?city=Denver", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var properties []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &properties))
	require.Len(t, properties, 1)
	assert.Equal(t, "Denver", properties[0]["city"])
}

func TestImportPropertiesQueuesBatch(t *testing.T) {
	router, _, q := newTestRouter(t)

	body, err := json.Marshal([]map[string]interface{}{
		{"property_id": 10, "address": "1 Import Way", "city": "Austin", "state": "TX", "price": 150000},
	})
	require.NoError(t, err)

	w := doRequest(router, http.MethodPost, "/api/properties/import", body)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, 1, q.Len())
}

func TestImportPropertiesRejectsEmptyBatch(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/properties/import", []byte("[]"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodPost, "/api/properties/import", []byte("{not json"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportPropertiesQueueFull(t *testing.T) {
	router, _, q := newTestRouter(t)

	body, err := json.Marshal([]map[string]interface{}{
		{"property_id": 1, "address": "1 Full St", "city": "Austin", "state": "TX", "price": 100000},
	})
	require.NoError(t, err)

	// Fill the queue without starting a consumer.
	for q.Len() < 4 {
		w := doRequest(router, http.MethodPost, "/api/properties/import", body)
		require.Equal(t, http.StatusAccepted, w.Code)
	}

	w := doRequest(router, http.MethodPost, "/api/properties/import", body)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
