package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/jabol183/ezbots-V2/internal/models"
	"github.com/jabol183/ezbots-V2/internal/service"
	"github.com/jabol183/ezbots-V2/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	wsWriteWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	wsPongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than wsPongWait
	wsPingPeriod = (wsPongWait * 9) / 10

	// Maximum message size allowed from peer
	wsMaxMessageSize = 32 * 1024
)

var upgrader = websocket.Upgrader{
	// Widgets connect from arbitrary customer sites; origin policy is
	// enforced per chatbot at the service layer
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	HandshakeTimeout: 10 * time.Second,
	ReadBufferSize:   1024,
	WriteBufferSize:  1024,
}

// wsEnvelope is the framed wire format in both directions
type wsEnvelope struct {
	Type    string          `json:"type"`
	Content json.RawMessage `json:"content,omitempty"`
}

type wsChatRequest struct {
	Message string `json:"message"`
}

type wsChatResponse struct {
	BotResponse    string `json:"botResponse"`
	SessionID      string `json:"sessionId"`
	ConversationID uint   `json:"conversationId"`
	MessageID      uint   `json:"messageId,omitempty"`
}

// WSHandler serves the persistent widget chat connection
type WSHandler struct {
	chat   *service.ChatService
	logger *logger.Logger
}

// NewWSHandler creates a new websocket chat handler
func NewWSHandler(chat *service.ChatService, logger *logger.Logger) *WSHandler {
	return &WSHandler{chat: chat, logger: logger}
}

type wsClient struct {
	conn      *websocket.Conn
	send      chan []byte
	chatbotID uint
	sessionID string
	clientIP  string
	handler   *WSHandler
}

// Serve handles GET /ws?chatbotId=N&sessionId=S
func (h *WSHandler) Serve(c *gin.Context) {
	chatbotID, err := strconv.ParseUint(c.Query("chatbotId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chatbotId is required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err.Error())
		return
	}
	conn.EnableWriteCompression(true)

	client := &wsClient{
		conn:      conn,
		send:      make(chan []byte, 64),
		chatbotID: uint(chatbotID),
		sessionID: c.Query("sessionId"),
		clientIP:  c.ClientIP(),
		handler:   h,
	}

	go client.writePump()
	go client.readPump()
}

func (cl *wsClient) readPump() {
	defer func() {
		close(cl.send)
		cl.conn.Close()
	}()

	cl.conn.SetReadLimit(wsMaxMessageSize)
	cl.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	cl.conn.SetPongHandler(func(string) error {
		cl.conn.SetReadDeadline(time.Now().Add(wsPongWait))
		return nil
	})

	for {
		_, data, err := cl.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				cl.handler.logger.Warn("websocket read error", "error", err.Error())
			}
			return
		}

		var envelope wsEnvelope
		if err := json.Unmarshal(data, &envelope); err != nil {
			cl.sendEnvelope("error", gin.H{"message": "Invalid message format"})
			continue
		}

		switch envelope.Type {
		case "chat":
			cl.handleChat(envelope.Content)
		case "ping":
			cl.sendEnvelope("pong", nil)
		default:
			cl.sendEnvelope("error", gin.H{"message": "Unknown message type"})
		}
	}
}

func (cl *wsClient) handleChat(content json.RawMessage) {
	var req wsChatRequest
	if err := json.Unmarshal(content, &req); err != nil {
		cl.sendEnvelope("error", gin.H{"message": "Invalid chat payload"})
		return
	}

	cl.sendEnvelope("typing", gin.H{"isTyping": true})

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	meta := models.MessageMetadata{
		IP:        cl.clientIP,
		Timestamp: time.Now().Format(time.RFC3339),
	}

	reply, err := cl.handler.chat.Send(ctx, cl.chatbotID, cl.sessionID, req.Message, meta)
	if err != nil {
		cl.handler.logger.Error("websocket chat failed",
			"error", err.Error(), "chatbot_id", cl.chatbotID)
		cl.sendEnvelope("error", gin.H{"message": "Failed to process message"})
		return
	}

	// Keep the resolved session so follow-up messages share the conversation
	cl.sessionID = reply.SessionID

	cl.sendEnvelope("chat", wsChatResponse{
		BotResponse:    reply.Reply,
		SessionID:      reply.SessionID,
		ConversationID: reply.ConversationID,
		MessageID:      reply.MessageID,
	})
}

func (cl *wsClient) sendEnvelope(messageType string, content interface{}) {
	var raw json.RawMessage
	if content != nil {
		encoded, err := json.Marshal(content)
		if err != nil {
			cl.handler.logger.Error("websocket encode failed", "error", err.Error())
			return
		}
		raw = encoded
	}

	data, err := json.Marshal(wsEnvelope{Type: messageType, Content: raw})
	if err != nil {
		return
	}

	select {
	case cl.send <- data:
	default:
		cl.handler.logger.Warn("websocket send buffer full", "chatbot_id", cl.chatbotID)
	}
}

func (cl *wsClient) writePump() {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		cl.conn.Close()
	}()

	for {
		select {
		case message, ok := <-cl.send:
			cl.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := cl.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			cl.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
