package service

import (
	"errors"

	"github.com/jabol183/ezbots-V2/internal/models"
	"github.com/jabol183/ezbots-V2/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrMessageNotFound = errors.New("message not found")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
)

// FeedbackService records user ratings against assistant messages
type FeedbackService struct {
	messages repository.MessageRepository
	feedback repository.FeedbackRepository
}

// NewFeedbackService creates a new feedback service
func NewFeedbackService(messages repository.MessageRepository, feedback repository.FeedbackRepository) *FeedbackService {
	return &FeedbackService{messages: messages, feedback: feedback}
}

// Record stores a rating for one message
func (s *FeedbackService) Record(messageID uint, rating int, comment, source string) (*models.Feedback, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	if _, err := s.messages.GetByID(messageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}

	feedback := &models.Feedback{
		MessageID: messageID,
		Rating:    rating,
		Comment:   comment,
		Source:    source,
	}

	if err := s.feedback.Create(feedback); err != nil {
		return nil, err
	}

	return feedback, nil
}
