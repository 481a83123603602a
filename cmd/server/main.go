package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jabol183/ezbots-V2/internal/models"
	"github.com/jabol183/ezbots-V2/pkg/config"
	"github.com/jabol183/ezbots-V2/pkg/di"
	"github.com/jabol183/ezbots-V2/pkg/logger"
	"github.com/jabol183/ezbots-V2/pkg/router"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		stdlog.Println("No .env file found")
	}

	cfg := config.New()

	logConfig := logger.DefaultConfig()
	if cfg.Logging.Level != "" {
		logConfig.Level = cfg.Logging.Level
	}
	logConfig.JSON = cfg.Logging.Format != "text"

	log := logger.New(logConfig)
	logger.SetGlobal(log)

	log.Info("Starting application", "env", cfg.Server.Env)

	db, err := config.NewDB()
	if err != nil {
		log.LogError(err, "Failed to initialize database")
		os.Exit(1)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Chatbot{},
		&models.Conversation{},
		&models.Message{},
		&models.Feedback{},
		&models.AnalyticsSnapshot{},
	); err != nil {
		log.LogError(err, "Failed to migrate database")
		os.Exit(1)
	}

	// Hot-path indexes AutoMigrate does not derive from tags
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_messages_conversation_created ON messages(conversation_id, created_at)").Error; err != nil {
		log.LogError(err, "Failed to create message index", "index", "idx_messages_conversation_created")
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_conversations_chatbot_created ON conversations(chatbot_id, created_at)").Error; err != nil {
		log.LogError(err, "Failed to create conversation index", "index", "idx_conversations_chatbot_created")
	}

	container, err := di.New(db, cfg, log)
	if err != nil {
		log.LogError(err, "Failed to initialize dependency container")
		os.Exit(1)
	}

	container.Health.Start()

	r := router.New(container)
	r.SetupRoutes()

	// No read/write timeouts on the server itself: /ws connections are
	// long-lived and manage their own deadlines
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r.Engine,
		ReadHeaderTimeout: cfg.Server.Timeout,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Server.Port, "provider", container.Provider.Name())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.LogError(err, "Server failed to start")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.LogError(err, "Server forced to shutdown")
	}

	log.Info("Server exited")
}
