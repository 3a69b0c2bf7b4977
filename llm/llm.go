// Package llm defines the transport contract between termchat and a
// chat-completion provider.
package llm

import "context"

// Roles used in conversation messages. The provider also understands
// "system", but termchat never sends it (see turn.Frame).
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry in a conversation transcript.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request describes a single streaming chat-completion call.
type Request struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// Stream is a lazy, finite, forward-only sequence of text fragments from
// one completion call. Next advances to the next fragment and reports
// whether one is available; Text returns the current fragment. After Next
// returns false, Err reports whether the stream ended cleanly.
type Stream interface {
	Next() bool
	Text() string
	Err() error
	Close() error
}

// Client is a minimal interface for streaming chat-completion calls.
// Implementations provide the actual HTTP transport to a specific provider.
type Client interface {
	StreamChat(ctx context.Context, req Request) (Stream, error)
}
