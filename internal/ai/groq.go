package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// GroqClient calls the Groq OpenAI-compatible chat completions API.
type GroqClient struct {
	apiKey     string
	endpoint   string
	model      string
	maxTokens  int
	httpClient *http.Client
}

type groqChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type groqChatResponse struct {
	Choices []struct {
		Message      Message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
}

// NewGroqClient создает клиент Groq с заданными параметрами.
func NewGroqClient(opts Options) *GroqClient {
	return &GroqClient{
		apiKey:     opts.APIKey,
		endpoint:   strings.TrimRight(opts.BaseURL, "/") + "/chat/completions",
		model:      opts.Model,
		maxTokens:  opts.MaxTokens,
		httpClient: &http.Client{Timeout: opts.Timeout},
	}
}

// Chat отправляет сообщения в Groq и возвращает текст ответа и сырой ответ API.
func (c *GroqClient) Chat(ctx context.Context, messages []Message) (string, []byte, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return "", nil, errors.New("groq api key is missing")
	}

	system, dialog := splitMessages(messages)
	if len(dialog) == 0 {
		return "", nil, errors.New("groq request has no user content")
	}

	payload := groqChatRequest{
		Model:       c.model,
		Temperature: defaultTemperature,
		MaxTokens:   resolveMaxTokens(c.maxTokens),
	}
	if len(system) > 0 {
		payload.Messages = append(payload.Messages, Message{Role: roleSystem, Content: strings.Join(system, "\n\n")})
	}
	payload.Messages = append(payload.Messages, dialog...)

	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}
	body, err := postJSON(ctx, c.httpClient, ProviderGroq, c.endpoint, headers, payload)
	if err != nil {
		return "", body, err
	}

	var parsed groqChatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", body, err
	}

	if len(parsed.Choices) == 0 {
		return "", body, errors.New("groq response missing choices")
	}

	return parsed.Choices[0].Message.Content, body, nil
}
