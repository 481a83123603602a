package service

import (
	"context"
	"testing"
	"time"

	"github.com/jabol183/ezbots-V2/internal/models"
	"github.com/jabol183/ezbots-V2/pkg/cache"
	"github.com/jabol183/ezbots-V2/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var analyticsNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func day(offset int) string {
	return analyticsNow.AddDate(0, 0, offset).Format("2006-01-02")
}

func TestAggregateSnapshotsEmpty(t *testing.T) {
	summary := AggregateSnapshots(nil, 7, analyticsNow)

	assert.Zero(t, summary.TotalConversations)
	assert.Zero(t, summary.TotalMessages)
	assert.Zero(t, summary.AverageResponseTime)
	assert.Zero(t, summary.UserSatisfaction)
	assert.Empty(t, summary.PopularTopics)
	require.Len(t, summary.ConversationsByDay, 7)
	for _, entry := range summary.ConversationsByDay {
		assert.Zero(t, entry.Count)
	}
	assert.Equal(t, day(-6), summary.ConversationsByDay[0].Date)
	assert.Equal(t, day(0), summary.ConversationsByDay[6].Date)
}

func TestAggregateSnapshotsWeightedMeans(t *testing.T) {
	snapshots := []models.AnalyticsSnapshot{
		{
			ChatbotID:           1,
			ConversationCount:   10,
			MessageCount:        100,
			AverageResponseTime: 1.0,
			UserSatisfaction:    80,
		},
		{
			ChatbotID:           2,
			ConversationCount:   30,
			MessageCount:        300,
			AverageResponseTime: 3.0,
			UserSatisfaction:    60,
		},
	}

	summary := AggregateSnapshots(snapshots, 7, analyticsNow)

	assert.Equal(t, 40, summary.TotalConversations)
	assert.Equal(t, 400, summary.TotalMessages)
	// (1.0*100 + 3.0*300) / 400
	assert.InDelta(t, 2.5, summary.AverageResponseTime, 1e-9)
	// (80*10 + 60*30) / 40
	assert.InDelta(t, 65.0, summary.UserSatisfaction, 1e-9)
}

func TestAggregateSnapshotsTopTopics(t *testing.T) {
	snapshots := []models.AnalyticsSnapshot{
		{
			ChatbotID: 1,
			PopularTopics: models.TopicCounts{
				{Topic: "billing", Count: 8},
				{Topic: "passwords", Count: 3},
				{Topic: "shipping", Count: 12},
			},
		},
		{
			ChatbotID: 2,
			PopularTopics: models.TopicCounts{
				{Topic: "returns", Count: 9},
				{Topic: "pricing", Count: 5},
				{Topic: "accounts", Count: 1},
				{Topic: "features", Count: 7},
			},
		},
	}

	summary := AggregateSnapshots(snapshots, 7, analyticsNow)

	require.Len(t, summary.PopularTopics, TopTopics)
	assert.Equal(t, "shipping", summary.PopularTopics[0].Topic)
	assert.Equal(t, "returns", summary.PopularTopics[1].Topic)
	assert.Equal(t, "billing", summary.PopularTopics[2].Topic)
	for i := 1; i < len(summary.PopularTopics); i++ {
		assert.GreaterOrEqual(t,
			summary.PopularTopics[i-1].Count, summary.PopularTopics[i].Count)
	}
}

func TestAggregateSnapshotsHistogramWindow(t *testing.T) {
	snapshots := []models.AnalyticsSnapshot{
		{
			ChatbotID: 1,
			ConversationsByDay: models.DayCounts{
				day(0):   3,
				day(-2):  5,
				day(-6):  2,
				day(-10): 99, // outside the window, must be dropped
			},
		},
		{
			ChatbotID: 2,
			ConversationsByDay: models.DayCounts{
				day(-2): 4,
			},
		},
	}

	summary := AggregateSnapshots(snapshots, 7, analyticsNow)

	require.Len(t, summary.ConversationsByDay, 7)
	byDate := make(map[string]int, len(summary.ConversationsByDay))
	for _, entry := range summary.ConversationsByDay {
		byDate[entry.Date] = entry.Count
	}
	assert.Equal(t, 3, byDate[day(0)])
	assert.Equal(t, 9, byDate[day(-2)])
	assert.Equal(t, 2, byDate[day(-6)])
	assert.Equal(t, 0, byDate[day(-1)])
	assert.NotContains(t, byDate, day(-10))
}

func TestAggregateSnapshotsLongWindows(t *testing.T) {
	for _, days := range []int{30, 90} {
		summary := AggregateSnapshots(nil, days, analyticsNow)
		assert.Len(t, summary.ConversationsByDay, days)
		assert.Equal(t, day(-(days-1)), summary.ConversationsByDay[0].Date)
	}
}

func TestSummaryNoChatbots(t *testing.T) {
	svc := NewAnalyticsService(newFakeChatbotRepo(), newFakeAnalyticsRepo(), nil, time.Minute, logger.New(logger.DefaultConfig()))

	summary, err := svc.Summary(context.Background(), 42, 7)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalConversations)
	assert.Len(t, summary.ConversationsByDay, 7)
}

func TestSummaryUsesCache(t *testing.T) {
	chatbots := newFakeChatbotRepo()
	require.NoError(t, chatbots.Create(&models.Chatbot{UserID: 1, Name: "Bot", IsActive: true}))

	analytics := newFakeAnalyticsRepo()
	require.NoError(t, analytics.Upsert(&models.AnalyticsSnapshot{ChatbotID: 1, ConversationCount: 4}))

	c := cache.NewMemory(cache.MemoryOptions{})
	svc := NewAnalyticsService(chatbots, analytics, c, time.Minute, logger.New(logger.DefaultConfig()))

	first, err := svc.Summary(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Equal(t, 4, first.TotalConversations)

	// A snapshot change is not visible until the cache entry expires or
	// is invalidated
	require.NoError(t, analytics.Upsert(&models.AnalyticsSnapshot{ChatbotID: 1, ConversationCount: 9}))

	cached, err := svc.Summary(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Equal(t, 4, cached.TotalConversations)

	svc.InvalidateFor(context.Background(), 1)

	fresh, err := svc.Summary(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Equal(t, 9, fresh.TotalConversations)
}
