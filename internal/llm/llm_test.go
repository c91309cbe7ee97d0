package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAIComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing auth header, got %q", r.Header.Get("Authorization"))
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["model"] != "gpt-4.1-mini" {
			t.Errorf("expected model gpt-4.1-mini, got %v", body["model"])
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "  A summary.  "}},
			},
		})
	}))
	defer srv.Close()

	p := &OpenAIProvider{APIKey: "test-key", BaseURL: srv.URL, client: srv.Client()}
	out, err := p.Complete(context.Background(), "gpt-4.1-mini", "Summarize.", "Some text.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "A summary." {
		t.Errorf("expected trimmed output, got %q", out)
	}
}

func TestOpenAICompleteErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "quota"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := &OpenAIProvider{APIKey: "test-key", BaseURL: srv.URL, client: srv.Client()}
	if _, err := p.Complete(context.Background(), "gpt-4.1", "x", "y"); err == nil {
		t.Fatal("expected error for 429 response")
	}
}

func TestOpenAINotConfigured(t *testing.T) {
	p := &OpenAIProvider{}
	if p.IsConfigured() {
		t.Error("expected unconfigured without API key")
	}
	if _, err := p.Complete(context.Background(), "gpt-4.1", "x", "y"); err == nil {
		t.Error("expected error without API key")
	}
}

func TestOllamaComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]string{"content": "local answer"},
		})
	}))
	defer srv.Close()

	p := NewOllamaProvider("qwen2.5:7b", srv.URL)
	out, err := p.Complete(context.Background(), "ignored-model", "instruction", "input")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "local answer" {
		t.Errorf("expected local answer, got %q", out)
	}
}

func TestDisabledProvider(t *testing.T) {
	p := DisabledProvider{}
	out, err := p.Complete(context.Background(), "any", "x", "y")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out == "" {
		t.Error("expected placeholder notice")
	}
	if p.IsConfigured() {
		t.Error("disabled provider should not report configured")
	}
}
