package repository

import (
	"github.com/jabol183/ezbots-V2/internal/models"

	"gorm.io/gorm"
)

// FeedbackRepository shapes queries over the feedback table
type FeedbackRepository interface {
	Create(feedback *models.Feedback) error
	ListByChatbot(chatbotID uint) ([]models.Feedback, error)
}

type GormFeedbackRepository struct {
	db *gorm.DB
}

func NewGormFeedbackRepository(db *gorm.DB) *GormFeedbackRepository {
	return &GormFeedbackRepository{db: db}
}

func (r *GormFeedbackRepository) Create(feedback *models.Feedback) error {
	return r.db.Create(feedback).Error
}

func (r *GormFeedbackRepository) ListByChatbot(chatbotID uint) ([]models.Feedback, error) {
	var feedback []models.Feedback
	err := r.db.
		Joins("JOIN messages ON messages.id = feedback.message_id").
		Joins("JOIN conversations ON conversations.id = messages.conversation_id").
		Where("conversations.chatbot_id = ?", chatbotID).
		Find(&feedback).Error
	return feedback, err
}
