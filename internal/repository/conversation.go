package repository

import (
	"github.com/jabol183/ezbots-V2/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConversationRepository shapes queries over the conversations table
type ConversationRepository interface {
	// FirstOrCreate resolves the conversation for a (chatbot, session)
	// pair, creating an active one when none exists. The unique index on
	// the pair makes this idempotent under concurrent first messages.
	FirstOrCreate(chatbotID uint, sessionID string) (*models.Conversation, error)
	GetLatestByChatbot(chatbotID uint) (*models.Conversation, error)
	ListByChatbotSince(chatbotIDs []uint, since string) ([]models.Conversation, error)
	CountByChatbot(chatbotID uint) (int64, error)
	UpdateStatus(id uint, status string) error
}

type GormConversationRepository struct {
	db *gorm.DB
}

func NewGormConversationRepository(db *gorm.DB) *GormConversationRepository {
	return &GormConversationRepository{db: db}
}

func (r *GormConversationRepository) FirstOrCreate(chatbotID uint, sessionID string) (*models.Conversation, error) {
	conversation := models.Conversation{
		ChatbotID: chatbotID,
		SessionID: sessionID,
		Status:    models.ConversationActive,
	}

	err := r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "chatbot_id"}, {Name: "session_id"}},
			DoNothing: true,
		}).
		Create(&conversation).Error
	if err != nil {
		return nil, err
	}

	// DoNothing leaves the ID zero when the row already existed
	if conversation.ID == 0 {
		err = r.db.
			Where("chatbot_id = ? AND session_id = ?", chatbotID, sessionID).
			First(&conversation).Error
		if err != nil {
			return nil, err
		}
	}

	return &conversation, nil
}

func (r *GormConversationRepository) GetLatestByChatbot(chatbotID uint) (*models.Conversation, error) {
	var conversation models.Conversation
	err := r.db.Where("chatbot_id = ?", chatbotID).
		Order("created_at DESC").
		First(&conversation).Error
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (r *GormConversationRepository) ListByChatbotSince(chatbotIDs []uint, since string) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := r.db.Where("chatbot_id IN ? AND created_at >= ?", chatbotIDs, since).
		Find(&conversations).Error
	return conversations, err
}

func (r *GormConversationRepository) CountByChatbot(chatbotID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Conversation{}).
		Where("chatbot_id = ?", chatbotID).
		Count(&count).Error
	return count, err
}

func (r *GormConversationRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Conversation{}).
		Where("id = ?", id).
		Update("status", status).Error
}
