package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// MessageMetadata carries request context captured at write time.
// Stored as a JSONB column.
type MessageMetadata struct {
	IP        string `json:"ip,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Value implements driver.Valuer for JSONB storage
func (m MessageMetadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements sql.Scanner for JSONB storage
func (m *MessageMetadata) Scan(value interface{}) error {
	if value == nil {
		*m = MessageMetadata{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("unexpected type %T for message metadata", value)
	}
	return json.Unmarshal(bytes, m)
}

// Message is a single chat turn. Immutable once written.
type Message struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	ConversationID uint            `gorm:"index;not null" json:"conversation_id"`
	Role           string          `gorm:"not null" json:"role"`
	Content        string          `gorm:"not null" json:"content"`
	Metadata       MessageMetadata `gorm:"type:jsonb" json:"metadata"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Feedback is a user rating attached to one assistant message
type Feedback struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	MessageID uint      `gorm:"index;not null" json:"message_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides gorm's pluralization
func (Feedback) TableName() string {
	return "feedback"
}
