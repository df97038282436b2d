// Package moonshot adapts an OpenAI-compatible chat completion API (Moonshot
// Kimi by default) to the ADK model.LLM interface.
package moonshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"net/http"
	"strings"
	"time"

	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

const (
	defaultBaseURL = "https://api.moonshot.ai/v1"
	defaultModel   = "kimi-k2-turbo-preview"
)

// Config for the chat completion endpoint.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	// Timeout bounds a single HTTP round trip. Zero leaves it to the caller's context.
	Timeout time.Duration
}

// ChatModel adapts a chat completion API to the ADK model.LLM interface.
// Only text parts are supported; the agents built on it do not use tools.
type ChatModel struct {
	config Config
	client *http.Client
}

func NewModel(cfg Config) *ChatModel {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	return &ChatModel{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (m *ChatModel) Name() string {
	return m.config.Model
}

// GenerateContent adapts ADK requests to the OpenAI-compatible API. Streaming
// is not supported; a single response is yielded.
func (m *ChatModel) GenerateContent(ctx context.Context, req *model.LLMRequest, stream bool) iter.Seq2[*model.LLMResponse, error] {
	return func(yield func(*model.LLMResponse, error) bool) {
		resp, err := m.generate(ctx, req)
		yield(resp, err)
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    *float64          `json:"temperature,omitempty"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error any `json:"error"`
}

func (m *ChatModel) generate(ctx context.Context, req *model.LLMRequest) (*model.LLMResponse, error) {
	body := chatRequest{
		Model:    m.config.Model,
		Messages: buildMessages(req),
	}
	if req != nil && req.Config != nil {
		if req.Config.Temperature != nil {
			t := float64(*req.Config.Temperature)
			body.Temperature = &t
		}
		if req.Config.ResponseMIMEType == "application/json" {
			body.ResponseFormat = map[string]string{"type": "json_object"}
		}
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode chat request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, m.config.BaseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+m.config.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("chat api status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode chat response: %w", err)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("chat api error: %v", result.Error)
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("chat api error: empty choices")
	}

	return &model.LLMResponse{
		Content: genai.NewContentFromText(result.Choices[0].Message.Content, genai.RoleModel),
	}, nil
}

func buildMessages(req *model.LLMRequest) []chatMessage {
	if req == nil {
		return nil
	}
	messages := make([]chatMessage, 0, len(req.Contents)+1)
	if req.Config != nil && req.Config.SystemInstruction != nil {
		if text := joinText(req.Config.SystemInstruction); text != "" {
			messages = append(messages, chatMessage{Role: "system", Content: text})
		}
	}
	for _, content := range req.Contents {
		if content == nil {
			continue
		}
		text := joinText(content)
		if text == "" {
			continue
		}
		messages = append(messages, chatMessage{Role: roleForContent(content.Role), Content: text})
	}
	return messages
}

func roleForContent(role string) string {
	if role == "model" {
		return "assistant"
	}
	return "user"
}

func joinText(content *genai.Content) string {
	var b strings.Builder
	for _, part := range content.Parts {
		if part == nil || strings.TrimSpace(part.Text) == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(part.Text)
	}
	return strings.TrimSpace(b.String())
}

var _ model.LLM = (*ChatModel)(nil)
