package service

import (
	"errors"
	"fmt"

	"github.com/jabol183/ezbots-V2/internal/models"
	"github.com/jabol183/ezbots-V2/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrChatbotNameTaken = errors.New("a chatbot with this name already exists")
)

// ChatbotService handles chatbot record management, scoped to the owner
type ChatbotService struct {
	chatbots repository.ChatbotRepository
}

// NewChatbotService creates a new chatbot service
func NewChatbotService(chatbots repository.ChatbotRepository) *ChatbotService {
	return &ChatbotService{chatbots: chatbots}
}

// Create inserts a new chatbot for the owner. Name uniqueness per owner
// is enforced with a pre-insert existence check.
func (s *ChatbotService) Create(userID uint, req *models.CreateChatbotRequest) (*models.Chatbot, error) {
	taken, err := s.chatbots.ExistsByName(userID, req.Name)
	if err != nil {
		return nil, fmt.Errorf("checking chatbot name: %w", err)
	}
	if taken {
		return nil, ErrChatbotNameTaken
	}

	req.ApplyTypeDefaults()

	chatbot := &models.Chatbot{
		UserID:         userID,
		Name:           req.Name,
		Description:    req.Description,
		WelcomeMessage: req.WelcomeMessage,
		PrimaryColor:   req.PrimaryColor,
		IsActive:       true,
		APIKey:         "ezb_" + uuid.New().String(),
	}
	if req.Config != nil {
		chatbot.ModelConfiguration = *req.Config
	}

	if err := s.chatbots.Create(chatbot); err != nil {
		return nil, err
	}

	return chatbot, nil
}

// Get returns the chatbot when the caller owns it
func (s *ChatbotService) Get(id, userID uint) (*models.Chatbot, error) {
	chatbot, err := s.chatbots.GetOwned(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatbotNotFound
		}
		return nil, err
	}
	return chatbot, nil
}

// List returns all chatbots owned by the caller
func (s *ChatbotService) List(userID uint) ([]models.Chatbot, error) {
	return s.chatbots.ListByUser(userID)
}

// Update applies a partial update to an owned chatbot
func (s *ChatbotService) Update(id, userID uint, req *models.UpdateChatbotRequest) (*models.Chatbot, error) {
	chatbot, err := s.Get(id, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != chatbot.Name {
		taken, err := s.chatbots.ExistsByName(userID, *req.Name)
		if err != nil {
			return nil, fmt.Errorf("checking chatbot name: %w", err)
		}
		if taken {
			return nil, ErrChatbotNameTaken
		}
		chatbot.Name = *req.Name
	}
	if req.Description != nil {
		chatbot.Description = *req.Description
	}
	if req.WelcomeMessage != nil {
		chatbot.WelcomeMessage = *req.WelcomeMessage
	}
	if req.PrimaryColor != nil {
		chatbot.PrimaryColor = *req.PrimaryColor
	}
	if req.IsActive != nil {
		chatbot.IsActive = *req.IsActive
	}
	if req.Config != nil {
		chatbot.ModelConfiguration = *req.Config
	}

	if err := s.chatbots.Update(chatbot); err != nil {
		return nil, err
	}

	return chatbot, nil
}

// Delete deactivates an owned chatbot. Records are kept so analytics and
// message history survive; the widget stops answering for it.
func (s *ChatbotService) Delete(id, userID uint) error {
	if _, err := s.Get(id, userID); err != nil {
		return err
	}
	return s.chatbots.Deactivate(id)
}
