// Package llm talks to a hosted chat-completion model.
package llm

import "context"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client completes a chat and returns the first choice's text.
// Implementations must be safe for concurrent use.
type Client interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// UserMessage builds a single-turn conversation.
func UserMessage(content string) []Message {
	return []Message{{Role: RoleUser, Content: content}}
}
