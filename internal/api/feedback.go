package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/jabol183/ezbots-V2/internal/service"
	"github.com/jabol183/ezbots-V2/pkg/logger"

	"github.com/gin-gonic/gin"
)

// FeedbackHandler records end-user ratings on assistant messages
type FeedbackHandler struct {
	feedback *service.FeedbackService
	logger   *logger.Logger
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(feedback *service.FeedbackService, logger *logger.Logger) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback, logger: logger}
}

// FeedbackRequest is the widget payload for rating a message
type FeedbackRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
	Source  string `json:"source"`
}

// Record handles POST /api/messages/:id/feedback
func (h *FeedbackHandler) Record(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid message ID"})
		return
	}

	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	fb, err := h.feedback.Record(uint(id), req.Rating, req.Comment, req.Source)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMessageNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
		case errors.Is(err, service.ErrInvalidRating):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be between 1 and 5"})
		default:
			h.logger.Error("error recording feedback", "error", err.Error(), "message_id", id)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record feedback"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": fb.ID, "success": true})
}
