package ai

import (
	"context"
	"strings"
)

// MockProvider synthesizes deterministic replies without any upstream
// dependency. It is the default when no provider key is configured, and
// what the widget demo pages run against.
type MockProvider struct{}

// NewMockProvider creates a new mock provider
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// Name identifies the provider
func (p *MockProvider) Name() string {
	return "mock"
}

// Complete selects a canned response by keyword. It never fails.
func (p *MockProvider) Complete(_ context.Context, _ []Message, newMessage string, _ ModelConfig) (string, error) {
	lower := strings.ToLower(newMessage)

	switch {
	case containsAny(lower, "hello", "hi ", "hey"), lower == "hi":
		return "Hello! How can I assist you today?", nil
	case containsAny(lower, "help", "support", "assist"):
		return "I'm here to help! Could you tell me a bit more about what you need?", nil
	case containsAny(lower, "thank", "thanks"):
		return "You're welcome! Is there anything else I can assist you with?", nil
	case containsAny(lower, "price", "pricing", "cost", "how much"):
		return "Our pricing depends on the plan you choose. Would you like me to walk you through the options?", nil
	case containsAny(lower, "feature", "can you", "does it", "do you support"):
		return "Great question! I can answer questions, guide you through our product, and collect your feedback.", nil
	default:
		return "Thanks for your message about \"" + truncate(newMessage, 30) + "\". How can I help you further?", nil
	}
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
