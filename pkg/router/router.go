package router

import (
	"github.com/jabol183/ezbots-V2/pkg/config"
	"github.com/jabol183/ezbots-V2/pkg/di"
	"github.com/jabol183/ezbots-V2/pkg/errors"
	"github.com/jabol183/ezbots-V2/pkg/logger"
	"github.com/jabol183/ezbots-V2/pkg/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Router is the main router for the application
type Router struct {
	Engine    *gin.Engine
	Container *di.Container
	Logger    *logger.Logger
	Config    *config.Config
}

// New creates a new router with the given container
func New(container *di.Container) *Router {
	logger.SetGlobal(container.Logger)

	cfg := container.Config
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.SetTrustedProxies(cfg.Security.TrustedProxies)

	// Logger first so every request is captured, then error rendering
	// and recovery with structured logging
	engine.Use(logger.Middleware(container.Logger))
	engine.Use(errors.ErrorHandler())
	engine.Use(errors.RecoveryWithLogger())
	engine.Use(container.Metrics.Middleware())

	return &Router{
		Engine:    engine,
		Container: container,
		Logger:    container.Logger,
		Config:    cfg,
	}
}

// SetupRoutes registers all application routes
func (r *Router) SetupRoutes() {
	c := r.Container

	jwtAuth := middleware.JWTAuth(c.JWTService, r.Logger)

	rateLimiter := middleware.NewRateLimiter(r.Logger, middleware.RateLimiterOptions{
		Limit: rate.Limit(r.Config.Security.RateLimit),
		Burst: r.Config.Security.RateLimitBurst,
	})

	// Public embed surface. Widgets run on third-party pages, so these
	// routes carry CORS headers and per-client rate limits.
	cors := middleware.CORS(middleware.CORSOptions{
		AllowedOrigins: r.Config.Security.AllowedOrigins,
	})

	public := r.Engine.Group("/api")
	public.Use(cors, rateLimiter.Middleware())
	{
		public.POST("/chat", c.ChatHandler.Send)
		public.OPTIONS("/chat", func(*gin.Context) {})
		public.POST("/messages/:id/feedback", c.FeedbackHandler.Record)
		public.OPTIONS("/messages/:id/feedback", func(*gin.Context) {})
	}

	// Dashboard API, cookie-less JWT auth
	auth := r.Engine.Group("/api/auth")
	{
		auth.POST("/signup", c.AuthHandler.Signup)
		auth.POST("/login", c.AuthHandler.Login)
		auth.GET("/me", jwtAuth, c.AuthHandler.Me)
	}

	chatbots := r.Engine.Group("/api/chatbots")
	chatbots.Use(jwtAuth)
	{
		chatbots.POST("", c.ChatbotHandler.Create)
		chatbots.GET("", c.ChatbotHandler.List)
		chatbots.GET("/:id", c.ChatbotHandler.Get)
		chatbots.PUT("/:id", c.ChatbotHandler.Update)
		chatbots.DELETE("/:id", c.ChatbotHandler.Delete)
		chatbots.GET("/:id/messages", c.ChatbotHandler.Messages)
		chatbots.GET("/:id/embed", c.ChatbotHandler.Embed)
		chatbots.POST("/:id/analytics/recompute", c.AnalyticsHandler.Recompute)
	}

	r.Engine.GET("/api/analytics", jwtAuth, c.AnalyticsHandler.Summary)

	// Realtime widget channel
	r.Engine.GET("/ws", c.WSHandler.Serve)

	// Widget bootstrap script served from the API host so one <script>
	// tag is all an embedding page needs
	r.Engine.StaticFile("/widget.js", "./public/widget.js")

	r.Engine.GET("/health", c.Health.Handler())
	r.Engine.GET("/metrics", c.Metrics.Handler())
}
