package repository

import (
	"github.com/jabol183/ezbots-V2/internal/models"

	"gorm.io/gorm"
)

// ChatbotRepository shapes queries over the chatbots table.
// Owner-scoped lookups take the caller's user ID so authorization is a
// property of the query, not an afterthought in the handler.
type ChatbotRepository interface {
	Create(chatbot *models.Chatbot) error
	GetByID(id uint) (*models.Chatbot, error)
	GetOwned(id, userID uint) (*models.Chatbot, error)
	ListByUser(userID uint) ([]models.Chatbot, error)
	ListIDsByUser(userID uint) ([]uint, error)
	ExistsByName(userID uint, name string) (bool, error)
	Update(chatbot *models.Chatbot) error
	Deactivate(id uint) error
}

type GormChatbotRepository struct {
	db *gorm.DB
}

func NewGormChatbotRepository(db *gorm.DB) *GormChatbotRepository {
	return &GormChatbotRepository{db: db}
}

func (r *GormChatbotRepository) Create(chatbot *models.Chatbot) error {
	return r.db.Create(chatbot).Error
}

func (r *GormChatbotRepository) GetByID(id uint) (*models.Chatbot, error) {
	var chatbot models.Chatbot
	err := r.db.First(&chatbot, id).Error
	if err != nil {
		return nil, err
	}
	return &chatbot, nil
}

func (r *GormChatbotRepository) GetOwned(id, userID uint) (*models.Chatbot, error) {
	var chatbot models.Chatbot
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&chatbot).Error
	if err != nil {
		return nil, err
	}
	return &chatbot, nil
}

func (r *GormChatbotRepository) ListByUser(userID uint) ([]models.Chatbot, error) {
	var chatbots []models.Chatbot
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&chatbots).Error
	return chatbots, err
}

func (r *GormChatbotRepository) ListIDsByUser(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Chatbot{}).
		Where("user_id = ?", userID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *GormChatbotRepository) ExistsByName(userID uint, name string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Chatbot{}).
		Where("user_id = ? AND name = ?", userID, name).
		Count(&count).Error
	return count > 0, err
}

func (r *GormChatbotRepository) Update(chatbot *models.Chatbot) error {
	return r.db.Save(chatbot).Error
}

func (r *GormChatbotRepository) Deactivate(id uint) error {
	return r.db.Model(&models.Chatbot{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}
