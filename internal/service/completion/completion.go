// Package completion talks to the remote text-generation and embedding endpoints.
//
// Every call is a single synchronous request bounded by a fixed deadline. No
// retry is attempted here; callers decide how to degrade on failure.
package completion

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

const (
	opComplete = "chat completion"
	opEmbed    = "embeddings"
)

// Message is one prompt turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request describes a chat completion call.
type Request struct {
	Messages    []Message
	Temperature float32
	MaxTokens   int
	Tools       []openai.Tool
}

// Reply is the first choice of a completion response.
type Reply struct {
	Content      string
	ToolCalls    []openai.ToolCall
	FinishReason string
	Model        string
}

// Completer produces a reply for a structured prompt.
type Completer interface {
	Complete(ctx context.Context, req Request) (*Reply, error)
}

// Embedder turns texts into vectors, one per input, in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
