// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pdiddy/plan-engine/pkg/types"
)

func testClaudeBackend(t *testing.T, handler http.HandlerFunc) *ClaudeBackend {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	old := claudeAPIURL
	claudeAPIURL = ts.URL
	t.Cleanup(func() { claudeAPIURL = old })

	b, err := NewClaudeBackend(types.AIConfig{
		Provider: types.ProviderClaude,
		Model:    "test-model",
		APIKey:   "ak-test",
	})
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestClaudeBackendGenerate(t *testing.T) {
	var gotReq claudeRequest
	var gotHeaders http.Header
	b := testClaudeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		json.NewEncoder(w).Encode(claudeResponse{
			Content: []claudeContent{{Type: "text", Text: "  generated section  "}},
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
	if gotReq.System != SystemPrompt {
		t.Errorf("system = %q", gotReq.System)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" || gotReq.Messages[0].Content != "Write a section." {
		t.Errorf("messages = %+v", gotReq.Messages)
	}
	if gotHeaders.Get("x-api-key") != "ak-test" {
		t.Error("request missing API key header")
	}
	if gotHeaders.Get("anthropic-version") == "" {
		t.Error("request missing anthropic-version header")
	}
}

func TestClaudeBackendSkipsNonTextBlocks(t *testing.T) {
	b := testClaudeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(claudeResponse{
			Content: []claudeContent{
				{Type: "thinking", Text: "hmm"},
				{Type: "text", Text: "the section"},
			},
		})
	})

	text, err := b.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatal(err)
	}
	if text != "the section" {
		t.Errorf("text = %q", text)
	}
}

func TestClaudeBackendErrorStatus(t *testing.T) {
	b := testClaudeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": "overloaded"}`, http.StatusServiceUnavailable)
	})

	_, err := b.Generate(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected error for non-200 status")
	}
	if !strings.Contains(err.Error(), "503") {
		t.Errorf("error = %v, want status code included", err)
	}
}

func TestClaudeBackendNoTextContent(t *testing.T) {
	b := testClaudeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(claudeResponse{})
	})

	_, err := b.Generate(context.Background(), "prompt")
	if err == nil || !strings.Contains(err.Error(), "no text content") {
		t.Errorf("err = %v, want no-text-content error", err)
	}
}

func TestNewBackendValidation(t *testing.T) {
	tests := []struct {
		name   string
		cfg    types.AIConfig
		errMsg string
	}{
		{
			name:   "missing provider",
			cfg:    types.AIConfig{Model: "m", APIKey: "k"},
			errMsg: "no provider configured",
		},
		{
			name:   "unknown provider",
			cfg:    types.AIConfig{Provider: "gemini", Model: "m", APIKey: "k"},
			errMsg: "unsupported provider",
		},
		{
			name:   "openai without key",
			cfg:    types.AIConfig{Provider: types.ProviderOpenAI, Model: "m"},
			errMsg: "api key missing",
		},
		{
			name:   "claude without model",
			cfg:    types.AIConfig{Provider: types.ProviderClaude, APIKey: "k"},
			errMsg: "model is required",
		},
		{
			name: "valid openai",
			cfg:  types.AIConfig{Provider: types.ProviderOpenAI, Model: "m", APIKey: "k"},
		},
		{
			name: "valid claude",
			cfg:  types.AIConfig{Provider: types.ProviderClaude, Model: "m", APIKey: "k"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend, err := NewBackend(tt.cfg)
			if tt.errMsg != "" {
				if err == nil {
					t.Fatalf("expected error containing %q", tt.errMsg)
				}
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("error = %v, want containing %q", err, tt.errMsg)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if backend == nil {
				t.Fatal("nil backend without error")
			}
		})
	}
}
