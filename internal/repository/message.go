package repository

import (
	"github.com/jabol183/ezbots-V2/internal/models"

	"gorm.io/gorm"
)

// MessageRepository shapes queries over the messages table
type MessageRepository interface {
	Create(message *models.Message) error
	GetByID(id uint) (*models.Message, error)
	ListByConversation(conversationID uint) ([]models.Message, error)
	ListRecentByConversation(conversationID uint, limit int) ([]models.Message, error)
	ListByChatbot(chatbotID uint) ([]models.Message, error)
	CountByChatbot(chatbotID uint) (int64, error)
}

type GormMessageRepository struct {
	db *gorm.DB
}

func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

func (r *GormMessageRepository) Create(message *models.Message) error {
	return r.db.Create(message).Error
}

func (r *GormMessageRepository) GetByID(id uint) (*models.Message, error) {
	var message models.Message
	err := r.db.First(&message, id).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *GormMessageRepository) ListByConversation(conversationID uint) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

func (r *GormMessageRepository) ListRecentByConversation(conversationID uint, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	// Reverse back into chronological order for the completion context
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *GormMessageRepository) ListByChatbot(chatbotID uint) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.
		Joins("JOIN conversations ON conversations.id = messages.conversation_id").
		Where("conversations.chatbot_id = ?", chatbotID).
		Order("messages.conversation_id ASC, messages.created_at ASC").
		Find(&messages).Error
	return messages, err
}

func (r *GormMessageRepository) CountByChatbot(chatbotID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Message{}).
		Joins("JOIN conversations ON conversations.id = messages.conversation_id").
		Where("conversations.chatbot_id = ?", chatbotID).
		Count(&count).Error
	return count, err
}
