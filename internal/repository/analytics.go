package repository

import (
	"github.com/jabol183/ezbots-V2/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AnalyticsRepository shapes queries over the analytics snapshot table
type AnalyticsRepository interface {
	ListByChatbots(chatbotIDs []uint) ([]models.AnalyticsSnapshot, error)
	Upsert(snapshot *models.AnalyticsSnapshot) error
}

type GormAnalyticsRepository struct {
	db *gorm.DB
}

func NewGormAnalyticsRepository(db *gorm.DB) *GormAnalyticsRepository {
	return &GormAnalyticsRepository{db: db}
}

func (r *GormAnalyticsRepository) ListByChatbots(chatbotIDs []uint) ([]models.AnalyticsSnapshot, error) {
	if len(chatbotIDs) == 0 {
		return nil, nil
	}
	var snapshots []models.AnalyticsSnapshot
	err := r.db.Where("chatbot_id IN ?", chatbotIDs).Find(&snapshots).Error
	return snapshots, err
}

// Upsert replaces the snapshot for a chatbot; one row per chatbot
func (r *GormAnalyticsRepository) Upsert(snapshot *models.AnalyticsSnapshot) error {
	return r.db.
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "chatbot_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"conversation_count",
				"message_count",
				"average_response_time",
				"user_satisfaction",
				"popular_topics",
				"conversations_by_day",
				"updated_at",
			}),
		}).
		Create(snapshot).Error
}
