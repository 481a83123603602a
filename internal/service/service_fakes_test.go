package service

import (
	"context"
	"errors"
	"sort"

	"github.com/jabol183/ezbots-V2/internal/ai"
	"github.com/jabol183/ezbots-V2/internal/models"

	"gorm.io/gorm"
)

type fakeChatbotRepo struct {
	chatbots map[uint]*models.Chatbot
	nextID   uint
}

func newFakeChatbotRepo() *fakeChatbotRepo {
	return &fakeChatbotRepo{chatbots: make(map[uint]*models.Chatbot), nextID: 1}
}

func (r *fakeChatbotRepo) Create(chatbot *models.Chatbot) error {
	chatbot.ID = r.nextID
	r.nextID++
	clone := *chatbot
	r.chatbots[chatbot.ID] = &clone
	return nil
}

func (r *fakeChatbotRepo) GetByID(id uint) (*models.Chatbot, error) {
	if chatbot, ok := r.chatbots[id]; ok {
		clone := *chatbot
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeChatbotRepo) GetOwned(id, userID uint) (*models.Chatbot, error) {
	if chatbot, ok := r.chatbots[id]; ok && chatbot.UserID == userID {
		clone := *chatbot
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeChatbotRepo) ListByUser(userID uint) ([]models.Chatbot, error) {
	var out []models.Chatbot
	for _, chatbot := range r.chatbots {
		if chatbot.UserID == userID {
			out = append(out, *chatbot)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeChatbotRepo) ListIDsByUser(userID uint) ([]uint, error) {
	var ids []uint
	for _, chatbot := range r.chatbots {
		if chatbot.UserID == userID {
			ids = append(ids, chatbot.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *fakeChatbotRepo) ExistsByName(userID uint, name string) (bool, error) {
	for _, chatbot := range r.chatbots {
		if chatbot.UserID == userID && chatbot.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeChatbotRepo) Update(chatbot *models.Chatbot) error {
	if _, ok := r.chatbots[chatbot.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	clone := *chatbot
	r.chatbots[chatbot.ID] = &clone
	return nil
}

func (r *fakeChatbotRepo) Deactivate(id uint) error {
	chatbot, ok := r.chatbots[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	chatbot.IsActive = false
	return nil
}

type fakeConversationRepo struct {
	conversations map[uint]*models.Conversation
	nextID        uint
	failCreate    bool
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{conversations: make(map[uint]*models.Conversation), nextID: 1}
}

func (r *fakeConversationRepo) FirstOrCreate(chatbotID uint, sessionID string) (*models.Conversation, error) {
	if r.failCreate {
		return nil, errors.New("storage unavailable")
	}
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

func (r *fakeConversationRepo) GetLatestByChatbot(chatbotID uint) (*models.Conversation, error) {
	var latest *models.Conversation
	for _, conversation := range r.conversations {
		if conversation.ChatbotID != chatbotID {
			continue
		}
		if latest == nil || conversation.ID > latest.ID {
			latest = conversation
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *latest
	return &clone, nil
}

func (r *fakeConversationRepo) ListByChatbotSince(chatbotIDs []uint, since string) ([]models.Conversation, error) {
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

func (r *fakeConversationRepo) CountByChatbot(chatbotID uint) (int64, error) {
	var count int64
	for _, conversation := range r.conversations {
		if conversation.ChatbotID == chatbotID {
			count++
		}
	}
	return count, nil
}

func (r *fakeConversationRepo) UpdateStatus(id uint, status string) error {
	conversation, ok := r.conversations[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	conversation.Status = status
	return nil
}

type fakeMessageRepo struct {
	messages      []*models.Message
	nextID        uint
	failAfter     int // fail Create once this many writes succeeded; -1 fails immediately, 0 disables
	created       int
	conversations *fakeConversationRepo
}

func newFakeMessageRepo(conversations *fakeConversationRepo) *fakeMessageRepo {
	return &fakeMessageRepo{nextID: 1, conversations: conversations}
}

func (r *fakeMessageRepo) Create(message *models.Message) error {
	if r.failAfter == -1 || (r.failAfter > 0 && r.created >= r.failAfter) {
		return errors.New("storage unavailable")
	}
	message.ID = r.nextID
	r.nextID++
	r.created++
	clone := *message
	r.messages = append(r.messages, &clone)
	return nil
}

func (r *fakeMessageRepo) GetByID(id uint) (*models.Message, error) {
	for _, message := range r.messages {
		if message.ID == id {
			clone := *message
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeMessageRepo) ListByConversation(conversationID uint) ([]models.Message, error) {
	var out []models.Message
	for _, message := range r.messages {
		if message.ConversationID == conversationID {
			out = append(out, *message)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) ListRecentByConversation(conversationID uint, limit int) ([]models.Message, error) {
	all, _ := r.ListByConversation(conversationID)
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}

func (r *fakeMessageRepo) ListByChatbot(chatbotID uint) ([]models.Message, error) {
	var out []models.Message
	for _, message := range r.messages {
		conversation, ok := r.conversations.conversations[message.ConversationID]
		if ok && conversation.ChatbotID == chatbotID {
			out = append(out, *message)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) CountByChatbot(chatbotID uint) (int64, error) {
	messages, _ := r.ListByChatbot(chatbotID)
	return int64(len(messages)), nil
}

type fakeAnalyticsRepo struct {
	snapshots map[uint]*models.AnalyticsSnapshot
	nextID    uint
}

func newFakeAnalyticsRepo() *fakeAnalyticsRepo {
	return &fakeAnalyticsRepo{snapshots: make(map[uint]*models.AnalyticsSnapshot), nextID: 1}
}

func (r *fakeAnalyticsRepo) ListByChatbots(chatbotIDs []uint) ([]models.AnalyticsSnapshot, error) {
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

func (r *fakeAnalyticsRepo) Upsert(snapshot *models.AnalyticsSnapshot) error {
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

type fakeFeedbackRepo struct {
	entries  []*models.Feedback
	nextID   uint
	messages *fakeMessageRepo
}

func newFakeFeedbackRepo(messages *fakeMessageRepo) *fakeFeedbackRepo {
	return &fakeFeedbackRepo{nextID: 1, messages: messages}
}

func (r *fakeFeedbackRepo) Create(feedback *models.Feedback) error {
	feedback.ID = r.nextID
	r.nextID++
	clone := *feedback
	r.entries = append(r.entries, &clone)
	return nil
}

func (r *fakeFeedbackRepo) ListByChatbot(chatbotID uint) ([]models.Feedback, error) {
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

type fakeUserRepo struct {
	users  map[uint]*models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*models.User), nextID: 1}
}

func (r *fakeUserRepo) Create(user *models.User) error {
	// Mirror the gorm hook that hashes on insert
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

func (r *fakeUserRepo) GetByID(id uint) (*models.User, error) {
	if user, ok := r.users[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

type scriptedProvider struct {
	reply       string
	err         error
	calls       int
	lastHistory []ai.Message
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Complete(_ context.Context, history []ai.Message, _ string, _ ai.ModelConfig) (string, error) {
	p.calls++
	p.lastHistory = append([]ai.Message(nil), history...)
	return p.reply, p.err
}
