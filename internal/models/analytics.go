package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// TopicCount is one entry in a chatbot's ranked topic list
type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// TopicCounts is the ranked topic list, stored as a JSONB column
type TopicCounts []TopicCount

// Value implements driver.Valuer for JSONB storage
func (t TopicCounts) Value() (driver.Value, error) {
	if t == nil {
		t = TopicCounts{}
	}
	return json.Marshal(t)
}

// Scan implements sql.Scanner for JSONB storage
func (t *TopicCounts) Scan(value interface{}) error {
	if value == nil {
		*t = TopicCounts{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("unexpected type %T for popular_topics", value)
	}
	return json.Unmarshal(bytes, t)
}

// DayCounts maps a date (YYYY-MM-DD) to a conversation count,
// stored as a JSONB column
type DayCounts map[string]int

// Value implements driver.Valuer for JSONB storage
func (d DayCounts) Value() (driver.Value, error) {
	if d == nil {
		d = DayCounts{}
	}
	return json.Marshal(d)
}

// Scan implements sql.Scanner for JSONB storage
func (d *DayCounts) Scan(value interface{}) error {
	if value == nil {
		*d = DayCounts{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("unexpected type %T for conversations_by_day", value)
	}
	return json.Unmarshal(bytes, d)
}

// AnalyticsSnapshot is a precomputed rollup of metrics for one chatbot.
// It is written by the rollup batch and read by the dashboard; the live
// chat path never mutates it.
type AnalyticsSnapshot struct {
	ID                  uint        `gorm:"primaryKey" json:"id"`
	ChatbotID           uint        `gorm:"uniqueIndex;not null" json:"chatbot_id"`
	ConversationCount   int         `json:"conversation_count"`
	MessageCount        int         `json:"message_count"`
	AverageResponseTime float64     `json:"average_response_time"`
	UserSatisfaction    float64     `json:"user_satisfaction"`
	PopularTopics       TopicCounts `gorm:"type:jsonb" json:"popular_topics"`
	ConversationsByDay  DayCounts   `gorm:"type:jsonb" json:"conversations_by_day"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

// DayCount is one entry of the dense dashboard histogram
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// AnalyticsSummary is the aggregated dashboard payload across all of a
// user's chatbots for a requested time window
type AnalyticsSummary struct {
	TotalConversations  int          `json:"totalConversations"`
	TotalMessages       int          `json:"totalMessages"`
	AverageResponseTime float64      `json:"averageResponseTime"`
	UserSatisfaction    float64      `json:"userSatisfaction"`
	PopularTopics       []TopicCount `json:"popularTopics"`
	ConversationsByDay  []DayCount   `json:"conversationsByDay"`
}
