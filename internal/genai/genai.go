// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package genai abstracts the text-generation capability consumed by the
// planning and synthesis stages. The pipeline treats generation as a black
// box: messages in, text out, provider errors surfaced as-is.
package genai

import "context"

// Role identifies the author of one chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of a chat-completion conversation.
type Message struct {
	Role    Role
	Content string
}

// Generator produces text from an ordered message sequence. Implementations
// must be safe for concurrent use; tests supply a mock.
type Generator interface {
	Generate(ctx context.Context, messages []Message, temperature float64) (string, error)
}
