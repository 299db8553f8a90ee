package api

import (
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"investalytics/server/config"
	"investalytics/server/internal/database"
	"investalytics/server/internal/models"
	"investalytics/server/internal/queue"
	"investalytics/server/internal/scoring"
)

type Handler struct {
	db     *database.Database
	logger *logrus.Logger
	engine *scoring.Engine
	queue  *queue.PropertyQueue
	cfg    *config.Config
}

func NewHandler(db *database.Database, engine *scoring.Engine, propertyQueue *queue.PropertyQueue, cfg *config.Config, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Handler{
		db:     db,
		logger: logger,
		engine: engine,
		queue:  propertyQueue,
		cfg:    cfg,
	}
}

func (h *Handler) GetMarketOverview(c *gin.Context) {
	overview, err := h.db.GetMarketOverview()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get market overview")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get market overview"})
		return
	}

	c.JSON(http.StatusOK, overview)
}

func (h *Handler) GetLocationStats(c *gin.Context) {
	minCount := h.cfg.Reports.MinGroupSize
	if v, err := strconv.Atoi(c.DefaultQuery("min_count", "")); err == nil && v > 0 {
		minCount = v
	}

	stats, err := h.db.GetLocationStats(minCount)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get location stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get location stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) GetCashFlowListings(c *gin.Context) {
	limit := h.cfg.Reports.CashFlowLimit
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "")); err == nil && v > 0 {
		limit = v
	}

	listings, err := h.db.GetCashFlowListings(h.engine.Assumptions(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get cash flow listings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get cash flow listings"})
		return
	}

	c.JSON(http.StatusOK, listings)
}

func (h *Handler) GetMarketTrends(c *gin.Context) {
	trends, err := h.db.GetMarketTrends()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get market trends")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get market trends"})
		return
	}

	c.JSON(http.StatusOK, trends)
}

// GetTopInvestments scores every complete listing and returns the ranked
// top of the board. Callers may narrow the limit or test alternative
// financing via interest_rate without touching the server defaults.
func (h *Handler) GetTopInvestments(c *gin.Context) {
	assumptions := h.engine.Assumptions()

	if v, err := strconv.Atoi(c.DefaultQuery("limit", "")); err == nil && v > 0 && v <= assumptions.ResultLimit {
		assumptions.ResultLimit = v
	}
	if v, err := strconv.ParseFloat(c.DefaultQuery("interest_rate", ""), 64); err == nil && v >= 0 && v < 1 {
		assumptions.AnnualInterestRate = v
	}
	if err := assumptions.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	candidates, err := h.db.GetScoringCandidates()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get scoring candidates")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get scoring candidates"})
		return
	}

	ranked := scoring.NewEngine(assumptions).Rank(candidates)
	c.JSON(http.StatusOK, ranked)
}

func (h *Handler) GetExecutiveSummary(c *gin.Context) {
	summary, err := h.db.GetExecutiveSummary()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get executive summary")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get executive summary"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *Handler) GetAllProperties(c *gin.Context) {
	city := c.Query("city")
	properties, err := h.db.GetAllProperties(city)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get properties")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get properties"})
		return
	}

	c.JSON(http.StatusOK, properties)
}

// ImportProperties accepts a batch of listings and hands it to the
// ingestion pipeline. The write is asynchronous: a 202 means queued, not
// stored.
func (h *Handler) ImportProperties(c *gin.Context) {
	var batch []*models.Property
	if err := c.ShouldBindJSON(&batch); err != nil {
		h.logger.WithError(err).Error("Failed to parse property batch")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property batch"})
		return
	}
	if len(batch) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Empty property batch"})
		return
	}

	if err := h.queue.Push(batch); err != nil {
		h.logger.WithError(err).Error("Failed to enqueue property batch")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":   "queued",
		"accepted": len(batch),
	})
}
