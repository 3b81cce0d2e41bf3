// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pdiddy/deep-research/pkg/types"
)

func TestNewOpenAIGeneratorRequiresModel(t *testing.T) {
	if _, err := NewOpenAIGenerator(types.AIConfig{}); err == nil {
		t.Fatal("missing model should fail construction")
	}
}

func TestGenerate(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model       string  `json:"model"`
			Temperature float64 `json:"temperature"`
			Messages    []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if req.Model != "gpt-4o-mini" {
			t.Errorf("model = %q", req.Model)
		}
		if req.Temperature != 0.3 {
			t.Errorf("temperature = %f, want 0.3", req.Temperature)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("messages = %+v", req.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"id": "cmpl-1",
			"object": "chat.completion",
			"choices": [
				{"index": 0, "message": {"role": "assistant", "content": "keyword one\nkeyword two"}, "finish_reason": "stop"}
			]
		}`)
	}))
	defer ts.Close()

	g, err := NewOpenAIGenerator(types.AIConfig{
		Model:   "gpt-4o-mini",
		APIKey:  "test-key",
		BaseURL: ts.URL,
	})
	if err != nil {
		t.Fatalf("NewOpenAIGenerator: %v", err)
	}

	got, err := g.Generate(context.Background(), []Message{
		{Role: RoleSystem, Content: "you are a researcher"},
		{Role: RoleUser, Content: "list keywords"},
	}, 0.3)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "keyword one\nkeyword two" {
		t.Errorf("Generate = %q", got)
	}
}

func TestGenerateEmptyChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": "cmpl-1", "object": "chat.completion", "choices": []}`)
	}))
	defer ts.Close()

	g, err := NewOpenAIGenerator(types.AIConfig{Model: "gpt-4o-mini", APIKey: "k", BaseURL: ts.URL})
	if err != nil {
		t.Fatalf("NewOpenAIGenerator: %v", err)
	}
	if _, err := g.Generate(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, 0.5); err == nil {
		t.Fatal("empty choices should be an error")
	}
}
