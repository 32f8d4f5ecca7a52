// File path: internal/llm/providers/provider.go
package providers

import "context"

// Message is one turn of a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider abstracts the chat backend. The system prompt is passed
// separately so each provider can place it where its API expects.
type Provider interface {
	Chat(ctx context.Context, system string, messages []Message) (string, error)
	Name() string
}
