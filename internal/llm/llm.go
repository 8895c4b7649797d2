// Package llm talks to OpenAI-compatible chat completion endpoints.
package llm

import "context"

// Role is the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat turn.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Client completes a conversation with a single assistant reply.
type Client interface {
	Complete(ctx context.Context, msgs []Message) (string, error)
}
