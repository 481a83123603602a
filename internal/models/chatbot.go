package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ModelConfiguration holds the language-model settings for a chatbot.
// Stored as a JSONB column.
type ModelConfiguration struct {
	Model        string  `json:"model,omitempty"`
	Temperature  float64 `json:"temperature,omitempty"`
	MaxTokens    int     `json:"max_tokens,omitempty"`
	SystemPrompt string  `json:"system_prompt,omitempty"`
}

// Value implements driver.Valuer for JSONB storage
func (m ModelConfiguration) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements sql.Scanner for JSONB storage
func (m *ModelConfiguration) Scan(value interface{}) error {
	if value == nil {
		*m = ModelConfiguration{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("unexpected type %T for model_configuration", value)
	}
	return json.Unmarshal(bytes, m)
}

// Chatbot represents a configured assistant persona owned by one user
type Chatbot struct {
	ID                 uint               `gorm:"primaryKey" json:"id"`
	UserID             uint               `gorm:"index;not null" json:"user_id"`
	Name               string             `gorm:"not null" json:"name"`
	Description        string             `json:"description"`
	WelcomeMessage     string             `json:"welcome_message"`
	PrimaryColor       string             `json:"primary_color"`
	IsActive           bool               `gorm:"default:true" json:"is_active"`
	ModelConfiguration ModelConfiguration `gorm:"type:jsonb" json:"model_configuration"`
	APIKey             string             `gorm:"index" json:"api_key"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// CreateChatbotRequest is the request structure for creating a chatbot
type CreateChatbotRequest struct {
	Name           string              `json:"name" binding:"required"`
	Description    string              `json:"description" binding:"required"`
	Type           string              `json:"type"`
	WelcomeMessage string              `json:"welcome_message"`
	PrimaryColor   string              `json:"primary_color"`
	Config         *ModelConfiguration `json:"config"`
}

// UpdateChatbotRequest is the request structure for a partial chatbot update
type UpdateChatbotRequest struct {
	Name           *string             `json:"name"`
	Description    *string             `json:"description"`
	WelcomeMessage *string             `json:"welcome_message"`
	PrimaryColor   *string             `json:"primary_color"`
	IsActive       *bool               `json:"is_active"`
	Config         *ModelConfiguration `json:"config"`
}

// Defaults per chatbot type, applied when the creation form leaves them blank
var (
	welcomeMessageByType = map[string]string{
		"ecommerce":   "Hello! Looking for product recommendations?",
		"support":     "Hi there! How can I assist you with your questions?",
		"appointment": "Hi! Would you like to schedule an appointment?",
	}
	primaryColorByType = map[string]string{
		"ecommerce": "#10B981",
		"financial": "#6366F1",
		"education": "#F59E0B",
	}
)

const (
	defaultWelcomeMessage = "How can I help you today?"
	defaultPrimaryColor   = "#4F46E5"
)

// ApplyTypeDefaults fills welcome message and color from the chatbot type
func (r *CreateChatbotRequest) ApplyTypeDefaults() {
	if r.WelcomeMessage == "" {
		if msg, ok := welcomeMessageByType[r.Type]; ok {
			r.WelcomeMessage = msg
		} else {
			r.WelcomeMessage = defaultWelcomeMessage
		}
	}
	if r.PrimaryColor == "" {
		if color, ok := primaryColorByType[r.Type]; ok {
			r.PrimaryColor = color
		} else {
			r.PrimaryColor = defaultPrimaryColor
		}
	}
}
