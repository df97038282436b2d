package moonshot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

func TestGenerateContentSendsSystemPromptAndJSONMode(t *testing.T) {
	var captured chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer key" {
			t.Errorf("missing bearer token")
		}
		_ = json.NewDecoder(r.Body).Decode(&captured)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"ok\":true}"}}]}`))
	}))
	defer srv.Close()

	m := NewModel(Config{APIKey: "key", BaseURL: srv.URL})
	req := &model.LLMRequest{
		Contents: []*genai.Content{genai.NewContentFromText("score these", genai.RoleUser)},
		Config: &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText("you are a scorer", genai.RoleUser),
			ResponseMIMEType:  "application/json",
		},
	}

	var got *model.LLMResponse
	for resp, err := range m.GenerateContent(context.Background(), req, false) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got = resp
	}

	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" || captured.Messages[1].Content != "score these" {
		t.Fatalf("unexpected messages: %+v", captured.Messages)
	}
	if captured.ResponseFormat["type"] != "json_object" {
		t.Fatalf("expected json response format, got %v", captured.ResponseFormat)
	}
	if captured.Model != defaultModel {
		t.Fatalf("expected default model, got %q", captured.Model)
	}
	if got == nil || got.Content == nil || got.Content.Parts[0].Text != `{"ok":true}` {
		t.Fatalf("unexpected response: %+v", got)
	}
}

func TestGenerateContentSurfacesHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	m := NewModel(Config{APIKey: "key", BaseURL: srv.URL})
	for _, err := range m.GenerateContent(context.Background(), &model.LLMRequest{}, false) {
		if err == nil {
			t.Fatal("expected error for non-2xx response")
		}
	}
}
