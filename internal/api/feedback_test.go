package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jabol183/ezbots-V2/internal/models"
	"github.com/jabol183/ezbots-V2/internal/service"
	"github.com/jabol183/ezbots-V2/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFeedbackTestServer(t *testing.T) (*gin.Engine, *memMessageRepo, *memConversationRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conversations := newMemConversationRepo()
	messages := newMemMessageRepo(conversations)
	feedback := newMemFeedbackRepo(messages)

	log := logger.New(logger.DefaultConfig())
	handler := NewFeedbackHandler(service.NewFeedbackService(messages, feedback), log)

	r := gin.New()
	r.POST("/api/messages/:id/feedback", handler.Record)
	return r, messages, conversations
}

func postFeedback(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestFeedbackRecord(t *testing.T) {
	r, messages, conversations := newFeedbackTestServer(t)

	conversation, err := conversations.FirstOrCreate(1, "s1")
	require.NoError(t, err)
	message := &models.Message{
		ConversationID: conversation.ID,
		Role:           models.RoleAssistant,
		Content:        "answer",
	}
	require.NoError(t, messages.Create(message))

	w := postFeedback(r, "/api/messages/1/feedback", gin.H{"rating": 5, "comment": "great"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
}

func TestFeedbackUnknownMessage(t *testing.T) {
	r, _, _ := newFeedbackTestServer(t)

	w := postFeedback(r, "/api/messages/99/feedback", gin.H{"rating": 4})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFeedbackInvalidRating(t *testing.T) {
	r, messages, conversations := newFeedbackTestServer(t)

	conversation, err := conversations.FirstOrCreate(1, "s1")
	require.NoError(t, err)
	require.NoError(t, messages.Create(&models.Message{
		ConversationID: conversation.ID,
		Role:           models.RoleAssistant,
	}))

	w := postFeedback(r, "/api/messages/1/feedback", gin.H{"rating": 9})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postFeedback(r, "/api/messages/1/feedback", gin.H{"comment": "no rating"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFeedbackBadMessageID(t *testing.T) {
	r, _, _ := newFeedbackTestServer(t)

	w := postFeedback(r, "/api/messages/abc/feedback", gin.H{"rating": 4})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
