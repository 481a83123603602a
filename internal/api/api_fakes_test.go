package api

import (
	"github.com/jabol183/ezbots-V2/internal/models"

	"gorm.io/gorm"
)

// Minimal in-memory repositories for handler tests. They cover only the
// paths the handlers persist through; repository behavior itself is
// tested in internal/repository and internal/service.

type memChatbotRepo struct {
	chatbots map[uint]*models.Chatbot
	nextID   uint
}

func newMemChatbotRepo() *memChatbotRepo {
	return &memChatbotRepo{chatbots: make(map[uint]*models.Chatbot), nextID: 1}
}

func (r *memChatbotRepo) Create(chatbot *models.Chatbot) error {
	chatbot.ID = r.nextID
	r.nextID++
	clone := *chatbot
	r.chatbots[chatbot.ID] = &clone
	return nil
}

func (r *memChatbotRepo) GetByID(id uint) (*models.Chatbot, error) {
	if chatbot, ok := r.chatbots[id]; ok {
		clone := *chatbot
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memChatbotRepo) GetOwned(id, userID uint) (*models.Chatbot, error) {
	if chatbot, ok := r.chatbots[id]; ok && chatbot.UserID == userID {
		clone := *chatbot
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memChatbotRepo) ListByUser(userID uint) ([]models.Chatbot, error) {
	var out []models.Chatbot
	for _, chatbot := range r.chatbots {
		if chatbot.UserID == userID {
			out = append(out, *chatbot)
		}
	}
	return out, nil
}

func (r *memChatbotRepo) ListIDsByUser(userID uint) ([]uint, error) {
	var ids []uint
	for _, chatbot := range r.chatbots {
		if chatbot.UserID == userID {
			ids = append(ids, chatbot.ID)
		}
	}
	return ids, nil
}

func (r *memChatbotRepo) ExistsByName(userID uint, name string) (bool, error) {
	for _, chatbot := range r.chatbots {
		if chatbot.UserID == userID && chatbot.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *memChatbotRepo) Update(chatbot *models.Chatbot) error {
	clone := *chatbot
	r.chatbots[chatbot.ID] = &clone
	return nil
}

func (r *memChatbotRepo) Deactivate(id uint) error {
	if chatbot, ok := r.chatbots[id]; ok {
		chatbot.IsActive = false
		return nil
	}
	return gorm.ErrRecordNotFound
}

type memConversationRepo struct {
	conversations map[uint]*models.Conversation
	nextID        uint
}

func newMemConversationRepo() *memConversationRepo {
	return &memConversationRepo{conversations: make(map[uint]*models.Conversation), nextID: 1}
}

func (r *memConversationRepo) FirstOrCreate(chatbotID uint, sessionID string) (*models.Conversation, error) {
	for _, conversation := range r.conversations {
		if conversation.ChatbotID == chatbotID && conversation.SessionID == sessionID {
			clone := *conversation
			return &clone, nil
		}
	}
	conversation := &models.Conversation{
		ID:        r.nextID,
		ChatbotID: chatbotID,
		SessionID: sessionID,
		Status:    models.ConversationActive,
	}
	r.nextID++
	r.conversations[conversation.ID] = conversation
	clone := *conversation
	return &clone, nil
}

func (r *memConversationRepo) GetLatestByChatbot(chatbotID uint) (*models.Conversation, error) {
	var latest *models.Conversation
	for _, conversation := range r.conversations {
		if conversation.ChatbotID == chatbotID && (latest == nil || conversation.ID > latest.ID) {
			latest = conversation
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *latest
	return &clone, nil
}

func (r *memConversationRepo) ListByChatbotSince(chatbotIDs []uint, since string) ([]models.Conversation, error) {
	var out []models.Conversation
	for _, conversation := range r.conversations {
		for _, id := range chatbotIDs {
			if conversation.ChatbotID == id {
				out = append(out, *conversation)
			}
		}
	}
	return out, nil
}

func (r *memConversationRepo) CountByChatbot(chatbotID uint) (int64, error) {
	var count int64
	for _, conversation := range r.conversations {
		if conversation.ChatbotID == chatbotID {
			count++
		}
	}
	return count, nil
}

func (r *memConversationRepo) UpdateStatus(id uint, status string) error {
	if conversation, ok := r.conversations[id]; ok {
		conversation.Status = status
		return nil
	}
	return gorm.ErrRecordNotFound
}

type memMessageRepo struct {
	messages      []*models.Message
	nextID        uint
	conversations *memConversationRepo
}

func newMemMessageRepo(conversations *memConversationRepo) *memMessageRepo {
	return &memMessageRepo{nextID: 1, conversations: conversations}
}

func (r *memMessageRepo) Create(message *models.Message) error {
	message.ID = r.nextID
	r.nextID++
	clone := *message
	r.messages = append(r.messages, &clone)
	return nil
}

func (r *memMessageRepo) GetByID(id uint) (*models.Message, error) {
	for _, message := range r.messages {
		if message.ID == id {
			clone := *message
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memMessageRepo) ListByConversation(conversationID uint) ([]models.Message, error) {
	var out []models.Message
	for _, message := range r.messages {
		if message.ConversationID == conversationID {
			out = append(out, *message)
		}
	}
	return out, nil
}

func (r *memMessageRepo) ListRecentByConversation(conversationID uint, limit int) ([]models.Message, error) {
	all, _ := r.ListByConversation(conversationID)
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}

func (r *memMessageRepo) ListByChatbot(chatbotID uint) ([]models.Message, error) {
	var out []models.Message
	for _, message := range r.messages {
		conversation, ok := r.conversations.conversations[message.ConversationID]
		if ok && conversation.ChatbotID == chatbotID {
			out = append(out, *message)
		}
	}
	return out, nil
}

func (r *memMessageRepo) CountByChatbot(chatbotID uint) (int64, error) {
	messages, _ := r.ListByChatbot(chatbotID)
	return int64(len(messages)), nil
}

type memAnalyticsRepo struct {
	snapshots map[uint]*models.AnalyticsSnapshot
	nextID    uint
}

func newMemAnalyticsRepo() *memAnalyticsRepo {
	return &memAnalyticsRepo{snapshots: make(map[uint]*models.AnalyticsSnapshot), nextID: 1}
}

func (r *memAnalyticsRepo) ListByChatbots(chatbotIDs []uint) ([]models.AnalyticsSnapshot, error) {
	var out []models.AnalyticsSnapshot
	for _, snapshot := range r.snapshots {
		for _, id := range chatbotIDs {
			if snapshot.ChatbotID == id {
				out = append(out, *snapshot)
			}
		}
	}
	return out, nil
}

func (r *memAnalyticsRepo) Upsert(snapshot *models.AnalyticsSnapshot) error {
	if existing, ok := r.snapshots[snapshot.ChatbotID]; ok {
		snapshot.ID = existing.ID
	} else {
		snapshot.ID = r.nextID
		r.nextID++
	}
	clone := *snapshot
	r.snapshots[snapshot.ChatbotID] = &clone
	return nil
}

type memFeedbackRepo struct {
	entries  []*models.Feedback
	nextID   uint
	messages *memMessageRepo
}

func newMemFeedbackRepo(messages *memMessageRepo) *memFeedbackRepo {
	return &memFeedbackRepo{nextID: 1, messages: messages}
}

func (r *memFeedbackRepo) Create(feedback *models.Feedback) error {
	feedback.ID = r.nextID
	r.nextID++
	clone := *feedback
	r.entries = append(r.entries, &clone)
	return nil
}

func (r *memFeedbackRepo) ListByChatbot(chatbotID uint) ([]models.Feedback, error) {
	var out []models.Feedback
	for _, feedback := range r.entries {
		message, err := r.messages.GetByID(feedback.MessageID)
		if err != nil {
			continue
		}
		conversation, ok := r.messages.conversations.conversations[message.ConversationID]
		if ok && conversation.ChatbotID == chatbotID {
			out = append(out, *feedback)
		}
	}
	return out, nil
}

type memUserRepo struct {
	users  map[uint]*models.User
	nextID uint
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uint]*models.User), nextID: 1}
}

func (r *memUserRepo) Create(user *models.User) error {
	hashed, err := models.HashPassword(user.Password)
	if err != nil {
		return err
	}
	user.Password = hashed
	user.ID = r.nextID
	r.nextID++
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) GetByID(id uint) (*models.User, error) {
	if user, ok := r.users[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) Update(user *models.User) error {
	clone := *user
	r.users[user.ID] = &clone
	return nil
}
