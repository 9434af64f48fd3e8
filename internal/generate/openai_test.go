// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pdiddy/plan-engine/pkg/types"
)

// openaiSeenRequest mirrors the chat-completions request body for
// assertions.
type openaiSeenRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

func testOpenAIBackend(t *testing.T, handler http.HandlerFunc) *OpenAIBackend {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	b, err := NewOpenAIBackend(types.AIConfig{
		Provider: types.ProviderOpenAI,
		Model:    "test-model",
		APIKey:   "sk-test",
		BaseURL:  ts.URL,
	})
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestOpenAIBackendGenerate(t *testing.T) {
	var gotReq openaiSeenRequest
	var gotAuth string
	b := testOpenAIBackend(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"choices": []map[string]any{
				{
					"index":   0,
					"message": map[string]any{"role": "assistant", "content": "  generated section  "},
				},
			},
		})
	})

	text, err := b.Generate(context.Background(), "Write a section.")
	if err != nil {
		t.Fatal(err)
	}

	if text != "generated section" {
		t.Errorf("text = %q, want trimmed response", text)
	}
	if gotReq.Model != "test-model" {
		t.Errorf("model = %q", gotReq.Model)
	}
	if gotReq.MaxTokens != defaultMaxTokens {
		t.Errorf("max_tokens = %d, want %d", gotReq.MaxTokens, defaultMaxTokens)
	}
	if gotReq.Temperature != defaultTemperature {
		t.Errorf("temperature = %v, want %v", gotReq.Temperature, defaultTemperature)
	}
	if len(gotReq.Messages) != 2 {
		t.Fatalf("messages = %+v, want system + user", gotReq.Messages)
	}
	if gotReq.Messages[0].Role != "system" || gotReq.Messages[0].Content != SystemPrompt {
		t.Errorf("system message = %+v", gotReq.Messages[0])
	}
	if gotReq.Messages[1].Role != "user" || gotReq.Messages[1].Content != "Write a section." {
		t.Errorf("user message = %+v", gotReq.Messages[1])
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q", gotAuth)
	}
}

func TestOpenAIBackendOverrides(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req openaiSeenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if req.MaxTokens != 1200 {
			t.Errorf("max_tokens = %d, want 1200", req.MaxTokens)
		}
		if req.Temperature != 0.2 {
			t.Errorf("temperature = %v, want 0.2", req.Temperature)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "ok"}},
			},
		})
	}))
	defer ts.Close()

	b, err := NewOpenAIBackend(types.AIConfig{
		Provider:    types.ProviderOpenAI,
		Model:       "test-model",
		APIKey:      "sk-test",
		BaseURL:     ts.URL,
		MaxTokens:   1200,
		Temperature: 0.2,
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := b.Generate(context.Background(), "prompt"); err != nil {
		t.Fatal(err)
	}
}

func TestOpenAIBackendEmptyChoices(t *testing.T) {
	b := testOpenAIBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	})

	_, err := b.Generate(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected error for empty choices")
	}
}
