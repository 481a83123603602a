package ai

import (
	"context"
)

// Message is one turn of completion context
type Message struct {
	Role    string
	Content string
}

// ModelConfig carries the per-chatbot completion settings
type ModelConfig struct {
	Model        string
	Temperature  float64
	MaxTokens    int
	SystemPrompt string
}

// Provider generates a reply from conversation history and a new message.
// Implementations never surface provider failures to the chat path; they
// degrade to a fixed reply instead, so a broken upstream cannot take the
// widget down with it.
type Provider interface {
	// Complete returns the assistant reply text
	Complete(ctx context.Context, history []Message, newMessage string, cfg ModelConfig) (string, error)

	// Name identifies the provider in logs and metrics
	Name() string
}

// HistoryWindow is how many trailing turns are forwarded as context
const HistoryWindow = 5

// FallbackReply is returned when the configured provider cannot answer
const FallbackReply = "I'm sorry, I'm having trouble responding right now. Please try again in a moment."

// TrimHistory keeps the last HistoryWindow turns
func TrimHistory(history []Message) []Message {
	if len(history) <= HistoryWindow {
		return history
	}
	return history[len(history)-HistoryWindow:]
}
