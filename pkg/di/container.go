package di

import (
	"context"
	"time"

	"github.com/jabol183/ezbots-V2/internal/ai"
	"github.com/jabol183/ezbots-V2/internal/api"
	"github.com/jabol183/ezbots-V2/internal/repository"
	"github.com/jabol183/ezbots-V2/internal/service"
	"github.com/jabol183/ezbots-V2/pkg/cache"
	"github.com/jabol183/ezbots-V2/pkg/config"
	"github.com/jabol183/ezbots-V2/pkg/health"
	"github.com/jabol183/ezbots-V2/pkg/jwt"
	"github.com/jabol183/ezbots-V2/pkg/logger"
	"github.com/jabol183/ezbots-V2/pkg/observability"
	"github.com/jabol183/ezbots-V2/pkg/secrets"

	"gorm.io/gorm"
)

// Container holds all the dependencies for the application
type Container struct {
	DB      *gorm.DB
	Config  *config.Config
	Logger  *logger.Logger
	Metrics *observability.Metrics
	Health  *health.Checker
	Cache   cache.Cache

	JWTService *jwt.Service
	Provider   ai.Provider

	UserService      *service.UserService
	ChatbotService   *service.ChatbotService
	ChatService      *service.ChatService
	AnalyticsService *service.AnalyticsService
	RollupService    *service.RollupService
	FeedbackService  *service.FeedbackService
	EmbedService     *service.EmbedService

	AuthHandler      *api.AuthHandler
	ChatbotHandler   *api.ChatbotHandler
	ChatHandler      *api.ChatHandler
	AnalyticsHandler *api.AnalyticsHandler
	FeedbackHandler  *api.FeedbackHandler
	WSHandler        *api.WSHandler
}

// New wires repositories, services and handlers for the given database
// and configuration
func New(db *gorm.DB, cfg *config.Config, log *logger.Logger) (*Container, error) {
	metrics := observability.NewMetrics()

	userRepo := repository.NewGormUserRepository(db)
	chatbotRepo := repository.NewGormChatbotRepository(db)
	conversationRepo := repository.NewGormConversationRepository(db)
	messageRepo := repository.NewGormMessageRepository(db)
	analyticsRepo := repository.NewGormAnalyticsRepository(db)
	feedbackRepo := repository.NewGormFeedbackRepository(db)

	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.Expiry)

	appCache := buildCache(cfg, log)
	provider := buildProvider(cfg, log, metrics)

	userService := service.NewUserService(userRepo, jwtService)
	chatbotService := service.NewChatbotService(chatbotRepo)
	chatService := service.NewChatService(
		chatbotRepo, conversationRepo, messageRepo,
		provider, cfg.Features.HistoryWindow, log,
	)
	analyticsService := service.NewAnalyticsService(
		chatbotRepo, analyticsRepo, appCache, cfg.Cache.TTL, log,
	)
	rollupService := service.NewRollupService(
		conversationRepo, messageRepo, feedbackRepo, analyticsRepo, log,
	)
	feedbackService := service.NewFeedbackService(messageRepo, feedbackRepo)
	embedService := service.NewEmbedService(service.EmbedConfig{
		ScriptURL:    cfg.Widget.ScriptURL,
		APIURL:       cfg.Server.BaseURL + "/api/chat",
		EmbedBaseURL: cfg.Widget.EmbedBaseURL,
	})

	checker := health.NewChecker(log, 30*time.Second)
	registerHealthChecks(checker, db, appCache)

	return &Container{
		DB:      db,
		Config:  cfg,
		Logger:  log,
		Metrics: metrics,
		Health:  checker,
		Cache:   appCache,

		JWTService: jwtService,
		Provider:   provider,

		UserService:      userService,
		ChatbotService:   chatbotService,
		ChatService:      chatService,
		AnalyticsService: analyticsService,
		RollupService:    rollupService,
		FeedbackService:  feedbackService,
		EmbedService:     embedService,

		AuthHandler:      api.NewAuthHandler(userService, log),
		ChatbotHandler:   api.NewChatbotHandler(chatbotService, chatService, embedService, log),
		ChatHandler:      api.NewChatHandler(chatService, log),
		AnalyticsHandler: api.NewAnalyticsHandler(analyticsService, rollupService, chatbotService, log),
		FeedbackHandler:  api.NewFeedbackHandler(feedbackService, log),
		WSHandler:        api.NewWSHandler(chatService, log),
	}, nil
}

// buildCache picks Redis when an address is configured, otherwise an
// in-process cache. Disabled caching returns nil and the analytics
// service aggregates on every request.
func buildCache(cfg *config.Config, log *logger.Logger) cache.Cache {
	if !cfg.Cache.Enabled {
		return nil
	}
	if cfg.Redis.Addr != "" {
		return cache.NewRedis(cache.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, log)
	}
	return cache.NewMemory(cache.MemoryOptions{MaxItems: cfg.Cache.MaxSize})
}

// buildProvider selects the completion backend. "remote" needs an API
// key, read from Vault when configured and the environment otherwise;
// anything else falls back to the canned mock so the platform always
// answers.
func buildProvider(cfg *config.Config, log *logger.Logger, metrics *observability.Metrics) ai.Provider {
	if cfg.AI.Provider != "remote" {
		return newInstrumentedProvider(ai.NewMockProvider(), metrics)
	}

	apiKey := cfg.AI.APIKey
	if apiKey == "" {
		apiKey = lookupProviderKey(cfg, log)
	}
	if apiKey == "" {
		log.Warn("remote provider selected but no API key available, using mock provider")
		return newInstrumentedProvider(ai.NewMockProvider(), metrics)
	}

	remote := ai.NewRemoteProvider(ai.RemoteConfig{
		APIKey:  apiKey,
		BaseURL: cfg.AI.BaseURL,
		Model:   cfg.AI.Model,
		Timeout: cfg.AI.Timeout,
	}, log)
	return newInstrumentedProvider(remote, metrics)
}

func lookupProviderKey(cfg *config.Config, log *logger.Logger) string {
	var manager secrets.Manager = secrets.NewEnvManager()

	if cfg.Vault.Addr != "" && cfg.Vault.Token != "" {
		vaultManager, err := secrets.NewVaultManager(secrets.VaultConfig{
			Address:     cfg.Vault.Addr,
			Token:       cfg.Vault.Token,
			SecretsPath: cfg.Vault.SecretPath,
		}, log)
		if err != nil {
			log.Warn("vault unavailable, falling back to environment secrets", "error", err.Error())
		} else {
			manager = vaultManager
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return manager.GetSecretWithDefault(ctx, "ai-api-key", "")
}

func registerHealthChecks(checker *health.Checker, db *gorm.DB, appCache cache.Cache) {
	checker.RegisterCheck("database", func() (health.Status, string, error) {
		sqlDB, err := db.DB()
		if err != nil {
			return health.StatusDown, "cannot access connection pool", err
		}
		if err := sqlDB.Ping(); err != nil {
			return health.StatusDown, "ping failed", err
		}
		return health.StatusUp, "connected", nil
	})

	if redisCache, ok := appCache.(*cache.Redis); ok {
		checker.RegisterCheck("redis", func() (health.Status, string, error) {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := redisCache.Ping(ctx); err != nil {
				return health.StatusDegraded, "cache unreachable", err
			}
			return health.StatusUp, "connected", nil
		})
	}
}

// instrumentedProvider counts completion outcomes without the services
// knowing about metrics
type instrumentedProvider struct {
	inner   ai.Provider
	metrics *observability.Metrics
}

func newInstrumentedProvider(inner ai.Provider, metrics *observability.Metrics) ai.Provider {
	return &instrumentedProvider{inner: inner, metrics: metrics}
}

func (p *instrumentedProvider) Name() string {
	return p.inner.Name()
}

func (p *instrumentedProvider) Complete(ctx context.Context, history []ai.Message, newMessage string, cfg ai.ModelConfig) (string, error) {
	reply, err := p.inner.Complete(ctx, history, newMessage, cfg)
	outcome := "ok"
	if err != nil || reply == ai.FallbackReply {
		outcome = "fallback"
	}
	p.metrics.ObserveCompletion(p.inner.Name(), outcome)
	return reply, err
}
