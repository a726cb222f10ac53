package model

import (
	"context"
	"encoding/json"
)

// Role identifies the author of a conversation turn.
type Role string

const (
	// RoleUser marks a turn authored by the caller.
	RoleUser Role = "user"
	// RoleAssistant marks a turn generated by the model.
	RoleAssistant Role = "assistant"
)

// Message is a single conversation turn.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// History accumulates an ordered conversation under a fixed system
// instruction. It is the canonical step-state shape for steps that carry a
// growing dialogue across invocations. History is not safe for concurrent
// use; within a single process run step invocations are strictly sequential
// so no locking is required.
type History struct {
	Instructions string    `json:"instructions"`
	Messages     []Message `json:"messages"`
}

// NewHistory creates a History seeded with the given system instruction.
func NewHistory(instructions string) *History {
	return &History{Instructions: instructions}
}

// AddUserMessage appends a user turn.
func (h *History) AddUserMessage(text string) {
	h.Messages = append(h.Messages, Message{Role: RoleUser, Text: text})
}

// AddAssistantMessage appends an assistant turn.
func (h *History) AddAssistantMessage(text string) {
	h.Messages = append(h.Messages, Message{Role: RoleAssistant, Text: text})
}

// Len returns the number of turns (the system instruction is not counted).
func (h *History) Len() int { return len(h.Messages) }

// Request builds a generation request carrying a snapshot of the full
// accumulated conversation.
func (h *History) Request() Request {
	msgs := make([]Message, len(h.Messages))
	copy(msgs, h.Messages)

	return Request{Instructions: h.Instructions, Messages: msgs}
}

// Request captures the normalized model input produced by steps.
type Request struct {
	// Instructions is the system prompt for the call.
	Instructions string `json:"instructions"`
	// Messages is the ordered conversation history.
	Messages []Message `json:"messages"`
	// ResponseFormat, when set, asks the provider for a JSON response
	// conforming to the given schema.
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
	// Temperature overrides the provider default when > 0.
	Temperature float64 `json:"temperature,omitempty"`
	// MaxTokens overrides the provider default when > 0.
	MaxTokens int64 `json:"max_tokens,omitempty"`
}

// Response is the completed output of a generation call.
type Response struct {
	// Text is the raw generated text.
	Text string `json:"text"`
	// Structured holds the schema-conforming JSON payload when the request
	// carried a ResponseFormat. Decode it with DecodeStructured.
	Structured json.RawMessage `json:"structured,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name               string `json:"name"`
	Provider           string `json:"provider"` // "openai", "anthropic", "mock", etc.
	SupportsStructured bool   `json:"supports_structured"`
}

// Model is the minimal capability interface required by process steps to
// drive generation. Implementations must be safe for concurrent use by
// independent process runs.
type Model interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the model implementation.
	Info() Info
}
