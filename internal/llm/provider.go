package llm

import (
	"context"
)

// Provider is the completion client used by worksheet generation.
// It treats the vendor as an opaque text-completion service.
type Provider interface {
	// Generate sends the request and returns the complete response text.
	Generate(ctx context.Context, req Request) (*Response, error)

	// Stream sends the request and calls onDelta once per text delta, in
	// arrival order, from the calling goroutine. The next delta is not read
	// until onDelta returns. A non-nil error from onDelta aborts the stream
	// and is returned unchanged. On success the returned Response carries
	// the concatenated text.
	Stream(ctx context.Context, req Request, onDelta DeltaFunc) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// DeltaFunc receives one incremental piece of generated text.
type DeltaFunc func(delta string) error

// Request describes what to send to the LLM.
type Request struct {
	// System is the system prompt. Optional.
	System string

	// Messages is the conversation. Worksheet generation sends a single
	// user message holding the full instruction prompt.
	Messages []Message

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Response holds the LLM's output.
type Response struct {
	// Text is the full generated text.
	Text string

	// Usage reports token consumption for this request. Streaming vendors
	// that do not report usage leave it zero.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens"
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// UserPrompt builds a single-turn request.
func UserPrompt(prompt string, maxTokens int, temperature float64) Request {
	return Request{
		Messages:    []Message{{Role: RoleUser, Content: prompt}},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
}
