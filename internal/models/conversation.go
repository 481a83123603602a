package models

import (
	"time"
)

// Conversation statuses
const (
	ConversationActive    = "active"
	ConversationCompleted = "completed"
	ConversationArchived  = "archived"
)

// Conversation is an ordered thread of messages for one chatbot and one
// browsing session. The (chatbot_id, session_id) pair is unique so that
// concurrent first messages in a session resolve to a single row.
type Conversation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ChatbotID uint      `gorm:"index;uniqueIndex:idx_conversations_chatbot_session;not null" json:"chatbot_id"`
	SessionID string    `gorm:"uniqueIndex:idx_conversations_chatbot_session;not null" json:"session_id"`
	Status    string    `gorm:"default:active" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
