package api

import (
	"net/http"
	"strconv"

	"github.com/jabol183/ezbots-V2/internal/models"
	"github.com/jabol183/ezbots-V2/internal/service"
	"github.com/jabol183/ezbots-V2/pkg/logger"
	"github.com/jabol183/ezbots-V2/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// ChatbotHandler handles chatbot CRUD endpoints, scoped to the caller
type ChatbotHandler struct {
	chatbots *service.ChatbotService
	chat     *service.ChatService
	embed    *service.EmbedService
	logger   *logger.Logger
}

// NewChatbotHandler creates a new chatbot handler
func NewChatbotHandler(
	chatbots *service.ChatbotService,
	chat *service.ChatService,
	embed *service.EmbedService,
	logger *logger.Logger,
) *ChatbotHandler {
	return &ChatbotHandler{
		chatbots: chatbots,
		chat:     chat,
		embed:    embed,
		logger:   logger,
	}
}

// Create handles POST /api/chatbots
func (h *ChatbotHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req models.CreateChatbotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and description are required"})
		return
	}

	chatbot, err := h.chatbots.Create(userID, &req)
	if err != nil {
		switch err {
		case service.ErrChatbotNameTaken:
			c.JSON(http.StatusConflict, gin.H{"error": "A chatbot with this name already exists"})
		default:
			h.logger.Error("error creating chatbot", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create chatbot"})
		}
		return
	}

	c.JSON(http.StatusCreated, chatbot)
}

// List handles GET /api/chatbots
func (h *ChatbotHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	chatbots, err := h.chatbots.List(userID)
	if err != nil {
		h.logger.Error("error listing chatbots", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list chatbots"})
		return
	}

	c.JSON(http.StatusOK, chatbots)
}

// Get handles GET /api/chatbots/:id
func (h *ChatbotHandler) Get(c *gin.Context) {
	userID, chatbotID, ok := h.ownedChatbotID(c)
	if !ok {
		return
	}

	chatbot, err := h.chatbots.Get(chatbotID, userID)
	if err != nil {
		h.respondChatbotError(c, err)
		return
	}

	c.JSON(http.StatusOK, chatbot)
}

// Update handles PUT /api/chatbots/:id
func (h *ChatbotHandler) Update(c *gin.Context) {
	userID, chatbotID, ok := h.ownedChatbotID(c)
	if !ok {
		return
	}

	var req models.UpdateChatbotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	chatbot, err := h.chatbots.Update(chatbotID, userID, &req)
	if err != nil {
		h.respondChatbotError(c, err)
		return
	}

	c.JSON(http.StatusOK, chatbot)
}

// Delete handles DELETE /api/chatbots/:id
func (h *ChatbotHandler) Delete(c *gin.Context) {
	userID, chatbotID, ok := h.ownedChatbotID(c)
	if !ok {
		return
	}

	if err := h.chatbots.Delete(chatbotID, userID); err != nil {
		h.respondChatbotError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Messages handles GET /api/chatbots/:id/messages, returning the message
// history of the chatbot's most recent conversation.
func (h *ChatbotHandler) Messages(c *gin.Context) {
	userID, chatbotID, ok := h.ownedChatbotID(c)
	if !ok {
		return
	}

	if _, err := h.chatbots.Get(chatbotID, userID); err != nil {
		h.respondChatbotError(c, err)
		return
	}

	messages, err := h.chat.LatestMessages(chatbotID)
	if err != nil {
		h.logger.Error("error loading messages", "error", err.Error(), "chatbot_id", chatbotID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load messages"})
		return
	}

	c.JSON(http.StatusOK, messages)
}

// Embed handles GET /api/chatbots/:id/embed
func (h *ChatbotHandler) Embed(c *gin.Context) {
	userID, chatbotID, ok := h.ownedChatbotID(c)
	if !ok {
		return
	}

	chatbot, err := h.chatbots.Get(chatbotID, userID)
	if err != nil {
		h.respondChatbotError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.embed.Snippets(chatbot))
}

// ownedChatbotID extracts the caller and the :id path parameter
func (h *ChatbotHandler) ownedChatbotID(c *gin.Context) (userID, chatbotID uint, ok bool) {
	userID, authed := middleware.UserID(c)
	if !authed {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return 0, 0, false
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid chatbot ID"})
		return 0, 0, false
	}

	return userID, uint(id), true
}

// respondChatbotError maps service errors to HTTP responses. A chatbot
// owned by someone else looks identical to one that does not exist.
func (h *ChatbotHandler) respondChatbotError(c *gin.Context, err error) {
	switch err {
	case service.ErrChatbotNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "Chatbot not found or access denied"})
	case service.ErrChatbotNameTaken:
		c.JSON(http.StatusConflict, gin.H{"error": "A chatbot with this name already exists"})
	default:
		h.logger.Error("chatbot request failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
