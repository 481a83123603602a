package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/jabol183/ezbots-V2/internal/ai"
	"github.com/jabol183/ezbots-V2/internal/models"
	"github.com/jabol183/ezbots-V2/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatFixture(t *testing.T, provider ai.Provider) (*ChatService, *fakeChatbotRepo, *fakeConversationRepo, *fakeMessageRepo) {
	t.Helper()
	chatbots := newFakeChatbotRepo()
	conversations := newFakeConversationRepo()
	messages := newFakeMessageRepo(conversations)
	log := logger.New(logger.DefaultConfig())
	svc := NewChatService(chatbots, conversations, messages, provider, 5, log)
	return svc, chatbots, conversations, messages
}

func seedChatbot(t *testing.T, repo *fakeChatbotRepo, active bool) *models.Chatbot {
	t.Helper()
	chatbot := &models.Chatbot{
		UserID:   1,
		Name:     "Support Bot",
		IsActive: active,
	}
	require.NoError(t, repo.Create(chatbot))
	return chatbot
}

func TestChatSendRoundTrip(t *testing.T) {
	provider := &scriptedProvider{reply: "Sure, happy to help."}
	svc, chatbots, _, messages := newChatFixture(t, provider)
	chatbot := seedChatbot(t, chatbots, true)

	meta := models.MessageMetadata{IP: "127.0.0.1"}
	reply, err := svc.Send(context.Background(), chatbot.ID, "", "I need a hand", meta)
	require.NoError(t, err)

	assert.Equal(t, "Sure, happy to help.", reply.Reply)
	assert.NotEmpty(t, reply.SessionID)
	assert.NotZero(t, reply.ConversationID)
	assert.NotZero(t, reply.MessageID)

	stored, err := messages.ListByConversation(reply.ConversationID)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, models.RoleUser, stored[0].Role)
	assert.Equal(t, "I need a hand", stored[0].Content)
	assert.Equal(t, models.RoleAssistant, stored[1].Role)
}

func TestChatSendReusesSession(t *testing.T) {
	provider := &scriptedProvider{reply: "ok"}
	svc, chatbots, _, messages := newChatFixture(t, provider)
	chatbot := seedChatbot(t, chatbots, true)

	first, err := svc.Send(context.Background(), chatbot.ID, "", "hello", models.MessageMetadata{})
	require.NoError(t, err)

	second, err := svc.Send(context.Background(), chatbot.ID, first.SessionID, "and another thing", models.MessageMetadata{})
	require.NoError(t, err)

	assert.Equal(t, first.ConversationID, second.ConversationID)
	assert.Equal(t, first.SessionID, second.SessionID)

	stored, err := messages.ListByConversation(first.ConversationID)
	require.NoError(t, err)
	assert.Len(t, stored, 4)

	// The second turn sees the full first exchange, not the new message
	assert.Len(t, provider.lastHistory, 2)
}

func TestChatSendForwardsFullHistoryWindow(t *testing.T) {
	provider := &scriptedProvider{reply: "ok"}
	svc, chatbots, _, _ := newChatFixture(t, provider)
	chatbot := seedChatbot(t, chatbots, true)

	first, err := svc.Send(context.Background(), chatbot.ID, "", "turn 1", models.MessageMetadata{})
	require.NoError(t, err)
	for i := 2; i <= 6; i++ {
		_, err := svc.Send(context.Background(), chatbot.ID, first.SessionID, fmt.Sprintf("turn %d", i), models.MessageMetadata{})
		require.NoError(t, err)
	}

	// Once the conversation is long enough the provider gets exactly the
	// trailing window, never including the message being answered.
	require.Len(t, provider.lastHistory, 5)
	for _, msg := range provider.lastHistory {
		assert.NotEqual(t, "turn 6", msg.Content)
	}
}

func TestChatSendUnknownChatbot(t *testing.T) {
	svc, _, _, _ := newChatFixture(t, &scriptedProvider{reply: "ok"})

	_, err := svc.Send(context.Background(), 99, "", "hello", models.MessageMetadata{})
	assert.ErrorIs(t, err, ErrChatbotNotFound)
}

func TestChatSendInactiveChatbot(t *testing.T) {
	svc, chatbots, _, _ := newChatFixture(t, &scriptedProvider{reply: "ok"})
	chatbot := seedChatbot(t, chatbots, false)

	_, err := svc.Send(context.Background(), chatbot.ID, "", "hello", models.MessageMetadata{})
	assert.ErrorIs(t, err, ErrChatbotInactive)
}

func TestChatSendEmptyMessage(t *testing.T) {
	svc, chatbots, _, _ := newChatFixture(t, &scriptedProvider{reply: "ok"})
	chatbot := seedChatbot(t, chatbots, true)

	_, err := svc.Send(context.Background(), chatbot.ID, "", "", models.MessageMetadata{})
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestChatSendProviderErrorFallsBack(t *testing.T) {
	provider := &scriptedProvider{err: assert.AnError}
	svc, chatbots, _, _ := newChatFixture(t, provider)
	chatbot := seedChatbot(t, chatbots, true)

	reply, err := svc.Send(context.Background(), chatbot.ID, "", "hello", models.MessageMetadata{})
	require.NoError(t, err)
	assert.Equal(t, ai.FallbackReply, reply.Reply)
}

func TestChatSendAssistantPersistenceBestEffort(t *testing.T) {
	provider := &scriptedProvider{reply: "answer"}
	svc, chatbots, conversations, _ := newChatFixture(t, provider)
	chatbot := seedChatbot(t, chatbots, true)

	// Rebuild the service with a repo that accepts the user turn and
	// then refuses the assistant turn
	messages := newFakeMessageRepo(conversations)
	messages.failAfter = 1
	svc = NewChatService(chatbots, conversations, messages, provider, 5, logger.New(logger.DefaultConfig()))

	reply, err := svc.Send(context.Background(), chatbot.ID, "", "hello", models.MessageMetadata{})
	require.NoError(t, err)
	assert.Equal(t, "answer", reply.Reply)
	assert.Zero(t, reply.MessageID)
}

func TestChatSendUserPersistenceFailureAborts(t *testing.T) {
	provider := &scriptedProvider{reply: "answer"}
	svc, chatbots, conversations, _ := newChatFixture(t, provider)
	chatbot := seedChatbot(t, chatbots, true)

	// Refuse every write
	rejecting := newFakeMessageRepo(conversations)
	rejecting.failAfter = -1
	svc = NewChatService(chatbots, conversations, rejecting, provider, 5, logger.New(logger.DefaultConfig()))

	_, err := svc.Send(context.Background(), chatbot.ID, "", "hello", models.MessageMetadata{})
	assert.ErrorIs(t, err, ErrMessageNotSaved)
	assert.Zero(t, provider.calls)
}

func TestLatestMessagesNoConversation(t *testing.T) {
	svc, chatbots, _, _ := newChatFixture(t, &scriptedProvider{reply: "ok"})
	chatbot := seedChatbot(t, chatbots, true)

	history, err := svc.LatestMessages(chatbot.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestLatestMessagesReturnsNewestConversation(t *testing.T) {
	provider := &scriptedProvider{reply: "ok"}
	svc, chatbots, _, _ := newChatFixture(t, provider)
	chatbot := seedChatbot(t, chatbots, true)

	_, err := svc.Send(context.Background(), chatbot.ID, "older", "first conversation", models.MessageMetadata{})
	require.NoError(t, err)
	latest, err := svc.Send(context.Background(), chatbot.ID, "newer", "second conversation", models.MessageMetadata{})
	require.NoError(t, err)

	history, err := svc.LatestMessages(chatbot.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, latest.ConversationID, history[0].ConversationID)
	assert.Equal(t, "second conversation", history[0].Content)
}
