package ai

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	ProviderGroq      = "groq"
	ProviderGemini    = "gemini"
	ProviderGeminiSDK = "gemini-sdk"

	defaultMaxTokens   = 4000
	defaultTemperature = 0.7

	roleSystem    = "system"
	roleUser      = "user"
	roleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client — провайдер языковой модели, возвращает текст и сырой ответ API.
type Client interface {
	Chat(ctx context.Context, messages []Message) (string, []byte, error)
}

type Options struct {
	APIKey    string
	BaseURL   string
	Model     string
	Timeout   time.Duration
	MaxTokens int
}

// NewClient создает клиента для выбранного провайдера.
func NewClient(ctx context.Context, provider string, opts Options) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case ProviderGroq, "":
		return NewGroqClient(opts), nil
	case ProviderGemini:
		return NewGeminiClient(opts), nil
	case ProviderGeminiSDK:
		return NewGeminiSDKClient(ctx, opts)
	default:
		return nil, fmt.Errorf("unknown ai provider %q", provider)
	}
}

func resolveMaxTokens(value int) int {
	if value > 0 {
		return value
	}

	return defaultMaxTokens
}

// splitMessages отделяет системные инструкции от диалога.
func splitMessages(messages []Message) (system []string, dialog []Message) {
	for _, message := range messages {
		text := strings.TrimSpace(message.Content)
		if text == "" {
			continue
		}
		if strings.EqualFold(message.Role, roleSystem) {
			system = append(system, text)
			continue
		}
		dialog = append(dialog, Message{Role: strings.ToLower(message.Role), Content: text})
	}
	return system, dialog
}
