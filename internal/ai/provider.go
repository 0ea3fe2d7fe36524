package ai

import "context"

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider is a chat-completion backend. Implementations take the full
// message list and return the assistant reply.
type Provider interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}
