package ai

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiSDKClient работает с Gemini через официальный Go SDK.
type GeminiSDKClient struct {
	client    *genai.Client
	model     string
	maxTokens int
	timeout   time.Duration
}

// NewGeminiSDKClient создает клиента SDK; Close освобождает соединение.
func NewGeminiSDKClient(ctx context.Context, opts Options) (*GeminiSDKClient, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("gemini api key is missing")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(opts.APIKey))
	if err != nil {
		return nil, err
	}

	return &GeminiSDKClient{
		client:    client,
		model:     opts.Model,
		maxTokens: opts.MaxTokens,
		timeout:   opts.Timeout,
	}, nil
}

// Chat передает историю в чат-сессию и отправляет последнее сообщение пользователя.
func (c *GeminiSDKClient) Chat(ctx context.Context, messages []Message) (string, []byte, error) {
	system, dialog := splitMessages(messages)
	if len(dialog) == 0 {
		return "", nil, errors.New("gemini request has no user content")
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	model := c.client.GenerativeModel(c.model)
	model.SetMaxOutputTokens(int32(resolveMaxTokens(c.maxTokens)))
	model.SetTemperature(defaultTemperature)
	if len(system) > 0 {
		model.SystemInstruction = genai.NewUserContent(genai.Text(strings.Join(system, "\n\n")))
	}

	session := model.StartChat()
	last := dialog[len(dialog)-1]
	for _, message := range dialog[:len(dialog)-1] {
		role := roleUser
		if message.Role == roleAssistant || message.Role == "model" {
			role = "model"
		}
		session.History = append(session.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(message.Content)},
		})
	}

	response, err := session.SendMessage(ctx, genai.Text(last.Content))
	if err != nil {
		return "", nil, err
	}
	raw, _ := json.Marshal(response)

	if len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		return "", raw, errors.New("gemini response missing content")
	}

	var builder strings.Builder
	for _, part := range response.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			builder.WriteString(string(text))
		}
	}

	return builder.String(), raw, nil
}

func (c *GeminiSDKClient) Close() error {
	return c.client.Close()
}
