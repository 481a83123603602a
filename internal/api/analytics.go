package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/jabol183/ezbots-V2/internal/service"
	"github.com/jabol183/ezbots-V2/pkg/logger"
	"github.com/jabol183/ezbots-V2/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// AnalyticsHandler serves the aggregated dashboard metrics
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
	rollup    *service.RollupService
	chatbots  *service.ChatbotService
	logger    *logger.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(
	analytics *service.AnalyticsService,
	rollup *service.RollupService,
	chatbots *service.ChatbotService,
	logger *logger.Logger,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		analytics: analytics,
		rollup:    rollup,
		chatbots:  chatbots,
		logger:    logger,
	}
}

// Summary handles GET /api/analytics?timeRange=7d|30d|90d
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	days := parseTimeRange(c.DefaultQuery("timeRange", "7d"))

	summary, err := h.analytics.Summary(c.Request.Context(), userID, days)
	if err != nil {
		h.logger.Error("error aggregating analytics", "error", err.Error(), "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load analytics"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Recompute handles POST /api/chatbots/:id/analytics/recompute. It rebuilds
// the snapshot for one owned chatbot from raw rows.
func (h *AnalyticsHandler) Recompute(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid chatbot ID"})
		return
	}

	if _, err := h.chatbots.Get(uint(id), userID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Chatbot not found or access denied"})
		return
	}

	snapshot, err := h.rollup.RecomputeSnapshot(uint(id))
	if err != nil {
		h.logger.Error("error recomputing snapshot", "error", err.Error(), "chatbot_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to recompute analytics"})
		return
	}

	h.analytics.InvalidateFor(c.Request.Context(), userID)

	c.JSON(http.StatusOK, snapshot)
}

// parseTimeRange resolves "7d"/"30d"/"90d" (or any "<n>d") to a day
// count, defaulting to 7 on anything unparseable
func parseTimeRange(timeRange string) int {
	trimmed := strings.TrimSuffix(timeRange, "d")
	days, err := strconv.Atoi(trimmed)
	if err != nil || days <= 0 {
		return 7
	}
	return days
}
