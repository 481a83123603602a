package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jabol183/ezbots-V2/internal/ai"
	"github.com/jabol183/ezbots-V2/internal/models"
	"github.com/jabol183/ezbots-V2/internal/repository"
	"github.com/jabol183/ezbots-V2/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrChatbotNotFound  = errors.New("chatbot not found")
	ErrChatbotInactive  = errors.New("chatbot is not active")
	ErrEmptyMessage     = errors.New("message text is required")
	ErrMessageNotSaved  = errors.New("failed to save message")
	ErrConversationOpen = errors.New("failed to resolve conversation")
)

// ChatReply is the result of one chat round-trip
type ChatReply struct {
	Reply          string
	SessionID      string
	ConversationID uint
	MessageID      uint // the persisted assistant message, zero when persistence failed
}

// ChatService orchestrates one inbound widget message: resolve the
// conversation, persist the user turn, generate a reply, persist it and
// hand both back to the caller.
type ChatService struct {
	chatbots      repository.ChatbotRepository
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	provider      ai.Provider
	historyWindow int
	log           *logger.Logger
}

// NewChatService creates a new chat service
func NewChatService(
	chatbots repository.ChatbotRepository,
	conversations repository.ConversationRepository,
	messages repository.MessageRepository,
	provider ai.Provider,
	historyWindow int,
	log *logger.Logger,
) *ChatService {
	if historyWindow <= 0 {
		historyWindow = ai.HistoryWindow
	}
	return &ChatService{
		chatbots:      chatbots,
		conversations: conversations,
		messages:      messages,
		provider:      provider,
		historyWindow: historyWindow,
		log:           log,
	}
}

// Send handles one inbound chat message for the public widget path.
// A failure to persist the user turn aborts; a failure to persist the
// assistant turn is logged and the reply is still returned, so an
// already-generated answer is never lost to a storage hiccup.
func (s *ChatService) Send(ctx context.Context, chatbotID uint, sessionID, text string, meta models.MessageMetadata) (*ChatReply, error) {
	if text == "" {
		return nil, ErrEmptyMessage
	}

	chatbot, err := s.chatbots.GetByID(chatbotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatbotNotFound
		}
		return nil, fmt.Errorf("looking up chatbot: %w", err)
	}
	if !chatbot.IsActive {
		return nil, ErrChatbotInactive
	}

	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	conversation, err := s.conversations.FirstOrCreate(chatbot.ID, sessionID)
	if err != nil {
		s.log.LogError(err, "failed to resolve conversation",
			"chatbot_id", chatbot.ID, "session_id", sessionID)
		return nil, ErrConversationOpen
	}

	userMessage := &models.Message{
		ConversationID: conversation.ID,
		Role:           models.RoleUser,
		Content:        text,
		Metadata:       meta,
	}
	if err := s.messages.Create(userMessage); err != nil {
		s.log.LogError(err, "failed to persist user message", "conversation_id", conversation.ID)
		return nil, ErrMessageNotSaved
	}

	// The fetch includes the user message persisted above, so ask for one
	// extra row to keep the forwarded window at historyWindow turns.
	history, err := s.messages.ListRecentByConversation(conversation.ID, s.historyWindow+1)
	if err != nil {
		// History is context, not a hard dependency; answer without it
		s.log.LogError(err, "failed to load conversation history", "conversation_id", conversation.ID)
		history = nil
	}

	aiHistory := make([]ai.Message, 0, len(history))
	for _, msg := range history {
		if msg.ID == userMessage.ID {
			continue
		}
		aiHistory = append(aiHistory, ai.Message{Role: msg.Role, Content: msg.Content})
	}

	reply, err := s.provider.Complete(ctx, aiHistory, text, ai.ModelConfig{
		Model:        chatbot.ModelConfiguration.Model,
		Temperature:  chatbot.ModelConfiguration.Temperature,
		MaxTokens:    chatbot.ModelConfiguration.MaxTokens,
		SystemPrompt: chatbot.ModelConfiguration.SystemPrompt,
	})
	if err != nil {
		// Providers degrade internally; an error here is unexpected
		s.log.LogError(err, "completion provider failed", "provider", s.provider.Name())
		reply = ai.FallbackReply
	}

	assistantMessage := &models.Message{
		ConversationID: conversation.ID,
		Role:           models.RoleAssistant,
		Content:        reply,
	}
	if err := s.messages.Create(assistantMessage); err != nil {
		s.log.LogError(err, "failed to persist assistant message",
			"conversation_id", conversation.ID)
		assistantMessage.ID = 0
	}

	return &ChatReply{
		Reply:          reply,
		SessionID:      sessionID,
		ConversationID: conversation.ID,
		MessageID:      assistantMessage.ID,
	}, nil
}

// LatestMessages returns the message history of the chatbot's most recent
// conversation, oldest first. Ownership is the caller's concern.
func (s *ChatService) LatestMessages(chatbotID uint) ([]models.Message, error) {
	conversation, err := s.conversations.GetLatestByChatbot(chatbotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []models.Message{}, nil
		}
		return nil, err
	}
	return s.messages.ListByConversation(conversation.ID)
}
