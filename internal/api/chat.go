package api

import (
	"net/http"
	"time"

	"github.com/jabol183/ezbots-V2/internal/models"
	"github.com/jabol183/ezbots-V2/internal/service"
	"github.com/jabol183/ezbots-V2/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ChatRequest is the public widget chat payload
type ChatRequest struct {
	Message   string `json:"message" binding:"required"`
	ChatbotID uint   `json:"chatbotId" binding:"required"`
	SessionID string `json:"sessionId"`
}

// ChatHandler handles the public chat endpoint the embedded widget posts to
type ChatHandler struct {
	chat   *service.ChatService
	logger *logger.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chat *service.ChatService, logger *logger.Logger) *ChatHandler {
	return &ChatHandler{chat: chat, logger: logger}
}

// Send handles POST /api/chat
func (h *ChatHandler) Send(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message and chatbotId are required"})
		return
	}

	meta := models.MessageMetadata{
		IP:        c.ClientIP(),
		Timestamp: time.Now().Format(time.RFC3339),
	}

	reply, err := h.chat.Send(c.Request.Context(), req.ChatbotID, req.SessionID, req.Message, meta)
	if err != nil {
		switch err {
		case service.ErrChatbotNotFound, service.ErrChatbotInactive:
			c.JSON(http.StatusNotFound, gin.H{"error": "Chatbot not found"})
		case service.ErrEmptyMessage:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Message and chatbotId are required"})
		default:
			h.logger.Error("chat request failed", "error", err.Error(), "chatbot_id", req.ChatbotID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An unexpected error occurred"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"botResponse":    reply.Reply,
		"sessionId":      reply.SessionID,
		"conversationId": reply.ConversationID,
		"messageId":      reply.MessageID,
	})
}
