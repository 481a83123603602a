package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jabol183/ezbots-V2/internal/models"
	"github.com/jabol183/ezbots-V2/internal/repository"
	"github.com/jabol183/ezbots-V2/pkg/logger"
)

// RollupService recomputes a chatbot's analytics snapshot from raw
// conversation, message and feedback rows. The dashboard always reads
// snapshots; this is the only writer, so the two views cannot diverge.
type RollupService struct {
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	feedback      repository.FeedbackRepository
	analytics     repository.AnalyticsRepository
	log           *logger.Logger
}

// NewRollupService creates a new rollup service
func NewRollupService(
	conversations repository.ConversationRepository,
	messages repository.MessageRepository,
	feedback repository.FeedbackRepository,
	analytics repository.AnalyticsRepository,
	log *logger.Logger,
) *RollupService {
	return &RollupService{
		conversations: conversations,
		messages:      messages,
		feedback:      feedback,
		analytics:     analytics,
		log:           log,
	}
}

// RecomputeSnapshot rebuilds and stores the snapshot for one chatbot
func (s *RollupService) RecomputeSnapshot(chatbotID uint) (*models.AnalyticsSnapshot, error) {
	conversationCount, err := s.conversations.CountByChatbot(chatbotID)
	if err != nil {
		return nil, fmt.Errorf("counting conversations: %w", err)
	}

	messages, err := s.messages.ListByChatbot(chatbotID)
	if err != nil {
		return nil, fmt.Errorf("loading messages: %w", err)
	}

	feedback, err := s.feedback.ListByChatbot(chatbotID)
	if err != nil {
		return nil, fmt.Errorf("loading feedback: %w", err)
	}

	conversations, err := s.conversations.ListByChatbotSince([]uint{chatbotID}, "1970-01-01")
	if err != nil {
		return nil, fmt.Errorf("loading conversations: %w", err)
	}

	snapshot := &models.AnalyticsSnapshot{
		ChatbotID:           chatbotID,
		ConversationCount:   int(conversationCount),
		MessageCount:        len(messages),
		AverageResponseTime: averageResponseTime(messages),
		UserSatisfaction:    satisfactionScore(feedback),
		PopularTopics:       topicFrequencies(messages),
		ConversationsByDay:  conversationsByDay(conversations),
		UpdatedAt:           time.Now(),
	}

	if err := s.analytics.Upsert(snapshot); err != nil {
		return nil, fmt.Errorf("storing snapshot: %w", err)
	}

	s.log.Info("analytics snapshot recomputed",
		"chatbot_id", chatbotID,
		"conversations", snapshot.ConversationCount,
		"messages", snapshot.MessageCount,
	)

	return snapshot, nil
}

// averageResponseTime measures the mean delay in seconds between each
// user message and the assistant message that directly follows it within
// the same conversation
func averageResponseTime(messages []models.Message) float64 {
	var total float64
	var count int

	for i := 1; i < len(messages); i++ {
		prev, curr := messages[i-1], messages[i]
		if curr.ConversationID != prev.ConversationID {
			continue
		}
		if prev.Role == models.RoleUser && curr.Role == models.RoleAssistant {
			total += curr.CreatedAt.Sub(prev.CreatedAt).Seconds()
			count++
		}
	}

	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// satisfactionScore converts 1–5 star feedback ratings to a 0–100 score
func satisfactionScore(feedback []models.Feedback) float64 {
	if len(feedback) == 0 {
		return 0
	}

	var total int
	for _, f := range feedback {
		total += f.Rating
	}

	mean := float64(total) / float64(len(feedback))
	return mean / 5.0 * 100.0
}

// topicWords are ignored when counting topic keywords
var topicStopwords = map[string]bool{
	"the": true, "and": true, "for": true, "you": true, "your": true,
	"with": true, "that": true, "this": true, "have": true, "how": true,
	"what": true, "can": true, "are": true, "not": true, "but": true,
	"was": true, "from": true, "about": true, "there": true, "when": true,
	"would": true, "could": true, "please": true, "like": true, "need": true,
}

// topicFrequencies counts keyword occurrences across user messages and
// returns the ranked list, capped for snapshot storage
func topicFrequencies(messages []models.Message) models.TopicCounts {
	counts := make(map[string]int)

	for _, msg := range messages {
		if msg.Role != models.RoleUser {
			continue
		}
		for _, word := range strings.Fields(strings.ToLower(msg.Content)) {
			word = strings.Trim(word, ".,!?\"'()[]:;")
			if len(word) < 3 || topicStopwords[word] {
				continue
			}
			counts[word]++
		}
	}

	topics := make(models.TopicCounts, 0, len(counts))
	for word, count := range counts {
		topics = append(topics, models.TopicCount{Topic: word, Count: count})
	}

	sort.SliceStable(topics, func(i, j int) bool {
		if topics[i].Count != topics[j].Count {
			return topics[i].Count > topics[j].Count
		}
		return topics[i].Topic < topics[j].Topic
	})

	// No point storing a long tail of one-off words
	if len(topics) > 10 {
		topics = topics[:10]
	}
	return topics
}

// conversationsByDay buckets conversation creation times per calendar day
func conversationsByDay(conversations []models.Conversation) models.DayCounts {
	byDay := make(models.DayCounts, len(conversations))
	for _, c := range conversations {
		byDay[c.CreatedAt.Format("2006-01-02")]++
	}
	return byDay
}
