package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/jabol183/ezbots-V2/internal/models"
	"github.com/jabol183/ezbots-V2/internal/repository"
	"github.com/jabol183/ezbots-V2/pkg/cache"
	"github.com/jabol183/ezbots-V2/pkg/logger"
)

// TopTopics is how many topics the dashboard shows
const TopTopics = 5

// AnalyticsService aggregates precomputed per-chatbot snapshots into the
// dashboard payload for one user and time window
type AnalyticsService struct {
	chatbots  repository.ChatbotRepository
	analytics repository.AnalyticsRepository
	cache     cache.Cache
	cacheTTL  time.Duration
	log       *logger.Logger
	now       func() time.Time
}

// NewAnalyticsService creates a new analytics service. The cache may be
// nil, in which case every request aggregates from the database.
func NewAnalyticsService(
	chatbots repository.ChatbotRepository,
	analytics repository.AnalyticsRepository,
	c cache.Cache,
	cacheTTL time.Duration,
	log *logger.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		chatbots:  chatbots,
		analytics: analytics,
		cache:     c,
		cacheTTL:  cacheTTL,
		log:       log,
		now:       time.Now,
	}
}

// Summary returns the aggregated metrics for all chatbots the user owns,
// over the trailing window of the given number of days. A caller with no
// chatbots or no snapshot rows gets an all-zero payload, not an error.
func (s *AnalyticsService) Summary(ctx context.Context, userID uint, days int) (*models.AnalyticsSummary, error) {
	if days <= 0 {
		days = 7
	}

	cacheKey := fmt.Sprintf("analytics:%d:%dd", userID, days)
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, cacheKey); ok {
			var summary models.AnalyticsSummary
			if err := json.Unmarshal([]byte(cached), &summary); err == nil {
				return &summary, nil
			}
		}
	}

	chatbotIDs, err := s.chatbots.ListIDsByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("listing chatbots: %w", err)
	}

	var snapshots []models.AnalyticsSnapshot
	if len(chatbotIDs) > 0 {
		snapshots, err = s.analytics.ListByChatbots(chatbotIDs)
		if err != nil {
			return nil, fmt.Errorf("loading analytics snapshots: %w", err)
		}
	}

	summary := AggregateSnapshots(snapshots, days, s.now())

	if s.cache != nil {
		if payload, err := json.Marshal(summary); err == nil {
			s.cache.Set(ctx, cacheKey, string(payload), s.cacheTTL)
		}
	}

	return summary, nil
}

// InvalidateFor drops cached summaries for a user after a recompute
func (s *AnalyticsService) InvalidateFor(ctx context.Context, userID uint) {
	if s.cache == nil {
		return
	}
	for _, days := range []int{7, 30, 90} {
		s.cache.Delete(ctx, fmt.Sprintf("analytics:%d:%dd", userID, days))
	}
}

// AggregateSnapshots folds per-chatbot snapshot rows into one dashboard
// payload. Weighted means guard their denominators so an empty account
// yields zeros rather than NaN.
func AggregateSnapshots(snapshots []models.AnalyticsSnapshot, days int, now time.Time) *models.AnalyticsSummary {
	summary := &models.AnalyticsSummary{
		PopularTopics:      []models.TopicCount{},
		ConversationsByDay: denseDays(days, now),
	}

	var (
		weightedResponseTime float64
		weightedSatisfaction float64
		allTopics            []models.TopicCount
	)

	windowStart := now.AddDate(0, 0, -(days - 1)).Format("2006-01-02")

	byDay := make(map[string]int, days)

	for _, snap := range snapshots {
		summary.TotalConversations += snap.ConversationCount
		summary.TotalMessages += snap.MessageCount

		weightedResponseTime += snap.AverageResponseTime * float64(snap.MessageCount)
		weightedSatisfaction += snap.UserSatisfaction * float64(snap.ConversationCount)

		allTopics = append(allTopics, snap.PopularTopics...)

		for date, count := range snap.ConversationsByDay {
			if date >= windowStart {
				byDay[date] += count
			}
		}
	}

	if summary.TotalMessages > 0 {
		summary.AverageResponseTime = weightedResponseTime / float64(summary.TotalMessages)
	}
	if summary.TotalConversations > 0 {
		summary.UserSatisfaction = weightedSatisfaction / float64(summary.TotalConversations)
	}

	sort.SliceStable(allTopics, func(i, j int) bool {
		return allTopics[i].Count > allTopics[j].Count
	})
	if len(allTopics) > TopTopics {
		allTopics = allTopics[:TopTopics]
	}
	summary.PopularTopics = append(summary.PopularTopics, allTopics...)

	for i := range summary.ConversationsByDay {
		if count, ok := byDay[summary.ConversationsByDay[i].Date]; ok {
			summary.ConversationsByDay[i].Count += count
		}
	}

	return summary
}

// denseDays builds one zero entry per day from (now − days + 1) to now
func denseDays(days int, now time.Time) []models.DayCount {
	entries := make([]models.DayCount, 0, days)
	for i := days - 1; i >= 0; i-- {
		entries = append(entries, models.DayCount{
			Date: now.AddDate(0, 0, -i).Format("2006-01-02"),
		})
	}
	return entries
}
