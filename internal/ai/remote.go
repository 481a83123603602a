package ai

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jabol183/ezbots-V2/pkg/logger"

	openai "github.com/sashabaranov/go-openai"
)

// RemoteConfig configures the remote completion provider
type RemoteConfig struct {
	APIKey  string
	BaseURL string // OpenAI-compatible endpoint, e.g. https://api.deepseek.com/v1
	Model   string // default model when a chatbot configures none
	Timeout time.Duration
}

// RemoteProvider forwards completions to an OpenAI-compatible chat
// endpoint. DeepSeek speaks the same wire format, so the one client
// covers both.
type RemoteProvider struct {
	client       *openai.Client
	defaultModel string
	log          *logger.Logger
}

// NewRemoteProvider creates a provider backed by the configured endpoint
func NewRemoteProvider(cfg RemoteConfig, log *logger.Logger) *RemoteProvider {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	model := cfg.Model
	if model == "" {
		model = "deepseek-chat"
	}

	return &RemoteProvider{
		client:       openai.NewClientWithConfig(clientConfig),
		defaultModel: model,
		log:          log,
	}
}

// Name identifies the provider
func (p *RemoteProvider) Name() string {
	return "remote"
}

// Complete forwards the system prompt, the trailing history window and the
// new message. Provider failures degrade to the fixed fallback reply.
func (p *RemoteProvider) Complete(ctx context.Context, history []Message, newMessage string, cfg ModelConfig) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, HistoryWindow+2)

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: p.systemPrompt(cfg),
	})

	for _, msg := range TrimHistory(history) {
		role := openai.ChatMessageRoleAssistant
		if msg.Role == "user" {
			role = openai.ChatMessageRoleUser
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		})
	}

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: newMessage,
	})

	model := cfg.Model
	if model == "" {
		model = p.defaultModel
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: float32(cfg.Temperature),
		MaxTokens:   cfg.MaxTokens,
	})
	if err != nil {
		p.log.Error("chat completion request failed", "model", model, "error", err.Error())
		return FallbackReply, nil
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		p.log.Warn("chat completion returned no choices", "model", model)
		return FallbackReply, nil
	}

	return resp.Choices[0].Message.Content, nil
}

func (p *RemoteProvider) systemPrompt(cfg ModelConfig) string {
	if cfg.SystemPrompt != "" {
		return cfg.SystemPrompt
	}
	return fmt.Sprintf(
		"You are a helpful customer-facing assistant embedded on a website. "+
			"Answer concisely and stay on topic. Today's date is %s.",
		time.Now().Format("2006-01-02"),
	)
}
