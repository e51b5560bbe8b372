package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// GeminiClient calls the Generative Language REST API.
type GeminiClient struct {
	apiKey     string
	baseURL    string
	model      string
	maxTokens  int
	httpClient *http.Client
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  geminiConfig    `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
}

// NewGeminiClient создает REST-клиент Gemini.
func NewGeminiClient(opts Options) *GeminiClient {
	return &GeminiClient{
		apiKey:     opts.APIKey,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		model:      opts.Model,
		maxTokens:  opts.MaxTokens,
		httpClient: &http.Client{Timeout: opts.Timeout},
	}
}

// Chat отправляет сообщения в Gemini и склеивает текстовые части первого кандидата.
func (c *GeminiClient) Chat(ctx context.Context, messages []Message) (string, []byte, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return "", nil, errors.New("gemini api key is missing")
	}

	system, dialog := splitMessages(messages)
	if len(dialog) == 0 {
		return "", nil, errors.New("gemini request has no user content")
	}

	payload := geminiRequest{
		GenerationConfig: geminiConfig{
			Temperature:     defaultTemperature,
			MaxOutputTokens: resolveMaxTokens(c.maxTokens),
		},
	}
	for _, message := range dialog {
		role := roleUser
		if message.Role == roleAssistant || message.Role == "model" {
			role = "model"
		}
		payload.Contents = append(payload.Contents, geminiContent{Role: role, Parts: []geminiPart{{Text: message.Content}}})
	}
	if len(system) > 0 {
		parts := make([]geminiPart, 0, len(system))
		for _, text := range system {
			parts = append(parts, geminiPart{Text: text})
		}
		payload.SystemInstruction = &geminiContent{Parts: parts}
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, url.PathEscape(c.model), url.QueryEscape(c.apiKey))
	body, err := postJSON(ctx, c.httpClient, ProviderGemini, endpoint, nil, payload)
	if err != nil {
		return "", body, err
	}

	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", body, err
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", body, errors.New("gemini response missing content")
	}

	var builder strings.Builder
	for _, part := range parsed.Candidates[0].Content.Parts {
		builder.WriteString(part.Text)
	}

	return builder.String(), body, nil
}
