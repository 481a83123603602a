package service

import (
	"fmt"

	"github.com/jabol183/ezbots-V2/internal/models"
)

// EmbedConfig carries the public URLs baked into generated snippets
type EmbedConfig struct {
	ScriptURL    string // e.g. https://app.example.com/widget.js
	APIURL       string // e.g. https://app.example.com/api/chat
	EmbedBaseURL string // e.g. https://app.example.com/embed
}

// EmbedSnippets are the two embeddable variants for one chatbot
type EmbedSnippets struct {
	Script string `json:"script"`
	Iframe string `json:"iframe"`
}

// EmbedService generates the copy-paste snippets shown on the dashboard.
// The script variant renders a floating bubble; the iframe variant embeds
// the full-page chat.
type EmbedService struct {
	config EmbedConfig
}

// NewEmbedService creates a new embed service
func NewEmbedService(config EmbedConfig) *EmbedService {
	return &EmbedService{config: config}
}

// Snippets builds both embed variants for a chatbot
func (s *EmbedService) Snippets(chatbot *models.Chatbot) EmbedSnippets {
	script := fmt.Sprintf(`<script
  src=%q
  data-chatbot-id="%d"
  data-api-url=%q
  data-primary-color=%q
  data-welcome-message=%q>
</script>`,
		s.config.ScriptURL,
		chatbot.ID,
		s.config.APIURL,
		chatbot.PrimaryColor,
		chatbot.WelcomeMessage,
	)

	iframe := fmt.Sprintf(
		`<iframe src="%s/%d" width="400" height="600" frameborder="0"></iframe>`,
		s.config.EmbedBaseURL,
		chatbot.ID,
	)

	return EmbedSnippets{Script: script, Iframe: iframe}
}
