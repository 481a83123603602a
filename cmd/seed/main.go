// Command seed loads demo data: one test user, two chatbots, a sample
// conversation each, feedback on the replies, and a recomputed analytics
// snapshot so the dashboard has something to show on first login.
package main

import (
	"errors"
	stdlog "log"
	"os"
	"time"

	"github.com/jabol183/ezbots-V2/internal/models"
	"github.com/jabol183/ezbots-V2/internal/repository"
	"github.com/jabol183/ezbots-V2/internal/service"
	"github.com/jabol183/ezbots-V2/pkg/config"
	"github.com/jabol183/ezbots-V2/pkg/jwt"
	"github.com/jabol183/ezbots-V2/pkg/logger"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

const (
	seedEmail    = "test@example.com"
	seedPassword = "password123"
)

type sampleTurn struct {
	user      string
	assistant string
	rating    int
}

type sampleChatbot struct {
	request models.CreateChatbotRequest
	turns   []sampleTurn
}

func main() {
	if err := godotenv.Load(); err != nil {
		stdlog.Println("No .env file found")
	}

	log := logger.New(logger.DefaultConfig())
	logger.SetGlobal(log)

	cfg := config.New()

	db, err := config.NewDB()
	if err != nil {
		log.LogError(err, "Failed to connect to database")
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

	userRepo := repository.NewGormUserRepository(db)
	chatbotRepo := repository.NewGormChatbotRepository(db)
	conversationRepo := repository.NewGormConversationRepository(db)
	messageRepo := repository.NewGormMessageRepository(db)
	analyticsRepo := repository.NewGormAnalyticsRepository(db)
	feedbackRepo := repository.NewGormFeedbackRepository(db)

	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.Expiry)
	users := service.NewUserService(userRepo, jwtService)
	chatbots := service.NewChatbotService(chatbotRepo)
	rollup := service.NewRollupService(conversationRepo, messageRepo, feedbackRepo, analyticsRepo, log)

	user, _, err := users.Signup(&models.SignupRequest{
		Name:     "Test User",
		Email:    seedEmail,
		Password: seedPassword,
		Company:  "Test Company",
	})
	if err != nil {
		if !errors.Is(err, service.ErrUserAlreadyExists) {
			log.LogError(err, "Failed to create test user")
			os.Exit(1)
		}
		existing, getErr := userRepo.GetByEmail(seedEmail)
		if getErr != nil {
			log.LogError(getErr, "Failed to load existing test user")
			os.Exit(1)
		}
		user = existing
		log.Info("Test user already exists", "email", seedEmail)
	} else {
		log.Info("Created test user", "email", seedEmail, "id", user.ID)
	}

	samples := []sampleChatbot{
		{
			request: models.CreateChatbotRequest{
				Name:           "Customer Support Bot",
				Description:    "A helpful customer support assistant",
				Type:           "customer-support",
				WelcomeMessage: "Hello! How can I assist you today?",
				PrimaryColor:   "#4F46E5",
				Config:         &models.ModelConfiguration{Model: "deepseek-chat", Temperature: 0.7},
			},
			turns: []sampleTurn{
				{
					user:      "Hello, I need some help",
					assistant: "Hi there! I'd be happy to help. What can I assist you with today?",
					rating:    5,
				},
				{
					user:      "How do I reset my password?",
					assistant: "To reset your password, please go to the login page and click on \"Forgot Password\". You'll receive an email with instructions to create a new password.",
					rating:    4,
				},
			},
		},
		{
			request: models.CreateChatbotRequest{
				Name:           "Sales Assistant",
				Description:    "A bot to help with sales inquiries",
				Type:           "sales",
				WelcomeMessage: "Welcome! Looking for product information?",
				PrimaryColor:   "#10B981",
				Config:         &models.ModelConfiguration{Model: "deepseek-chat", Temperature: 0.5},
			},
			turns: []sampleTurn{
				{
					user:      "What does the pro plan cost?",
					assistant: "The pro plan starts at $29 per month and includes unlimited chatbots. Would you like a full feature comparison?",
					rating:    5,
				},
			},
		},
	}

	for _, sample := range samples {
		chatbot, err := chatbots.Create(user.ID, &sample.request)
		if err != nil {
			if errors.Is(err, service.ErrChatbotNameTaken) {
				log.Info("Chatbot already exists, skipping", "name", sample.request.Name)
				continue
			}
			log.LogError(err, "Failed to create chatbot", "name", sample.request.Name)
			os.Exit(1)
		}
		log.Info("Created chatbot", "name", chatbot.Name, "id", chatbot.ID)

		if err := seedConversation(conversationRepo, messageRepo, feedbackRepo, chatbot.ID, sample.turns); err != nil {
			log.LogError(err, "Failed to seed conversation", "chatbot_id", chatbot.ID)
			os.Exit(1)
		}

		if _, err := rollup.RecomputeSnapshot(chatbot.ID); err != nil {
			log.LogError(err, "Failed to compute analytics snapshot", "chatbot_id", chatbot.ID)
			os.Exit(1)
		}
		log.Info("Seeded conversation and analytics", "chatbot_id", chatbot.ID)
	}

	log.Info("Database seeding completed",
		"email", seedEmail, "password", seedPassword)
}

func seedConversation(
	conversations repository.ConversationRepository,
	messages repository.MessageRepository,
	feedback repository.FeedbackRepository,
	chatbotID uint,
	turns []sampleTurn,
) error {
	sessionID := "seed-" + uuid.New().String()

	conversation, err := conversations.FirstOrCreate(chatbotID, sessionID)
	if err != nil {
		return err
	}

	meta := models.MessageMetadata{
		IP:        "127.0.0.1",
		Timestamp: time.Now().Format(time.RFC3339),
	}

	for _, turn := range turns {
		userMsg := &models.Message{
			ConversationID: conversation.ID,
			Role:           models.RoleUser,
			Content:        turn.user,
			Metadata:       meta,
		}
		if err := messages.Create(userMsg); err != nil {
			return err
		}

		assistantMsg := &models.Message{
			ConversationID: conversation.ID,
			Role:           models.RoleAssistant,
			Content:        turn.assistant,
			Metadata:       meta,
		}
		if err := messages.Create(assistantMsg); err != nil {
			return err
		}

		if turn.rating > 0 {
			if err := feedback.Create(&models.Feedback{
				MessageID: assistantMsg.ID,
				Rating:    turn.rating,
				Source:    "seed",
			}); err != nil {
				return err
			}
		}
	}

	return nil
}
