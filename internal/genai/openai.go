// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package genai

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/pdiddy/deep-research/pkg/types"
)

const defaultTimeout = 60 * time.Second

// OpenAIGenerator calls an OpenAI-compatible chat-completion API. A custom
// BaseURL routes requests to compatible providers (Azure, OpenRouter, local).
type OpenAIGenerator struct {
	api     openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAIGenerator builds a generator from AIConfig.
func NewOpenAIGenerator(cfg types.AIConfig) (*OpenAIGenerator, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("ai config: model is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &OpenAIGenerator{
		api:     openai.NewClient(opts...),
		model:   cfg.Model,
		timeout: timeout,
	}, nil
}

// Generate sends one chat-completion request and returns the first choice's
// text. A timeout or provider error is returned unchanged for the caller's
// stage to classify.
func (g *OpenAIGenerator) Generate(ctx context.Context, messages []Message, temperature float64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(g.model),
		Messages:    toChatMessages(messages),
		Temperature: openai.Float(temperature),
	}

	resp, err := g.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

func toChatMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
