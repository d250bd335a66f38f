// Package provider provides an abstraction over streaming completion backends.
package provider

import (
	"context"

	"github.com/convohq/convo/internal/domain"
)

// CompletionRequest carries a conversation to the provider.
type CompletionRequest struct {
	System   string
	Messages []domain.Message
}

// Chunk is one incremental piece of assistant output.
type Chunk struct {
	Text string
}

// StreamCallback is called for each chunk, in arrival order. Returning an
// error aborts the stream.
type StreamCallback func(chunk *Chunk) error

// Usage reports token accounting when the backend supplies it.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Completion is the finalized result of a successful stream: the full
// assistant text assembled from the chunks already delivered.
type Completion struct {
	Content string
	Model   string
	Usage   *Usage
}

// Provider is the capability contract for completion backends: accept a
// message history, produce a chunk stream, and return the finalized message
// on completion. A failed stream returns an error and no Completion.
type Provider interface {
	StreamCompletion(ctx context.Context, req *CompletionRequest, callback StreamCallback) (*Completion, error)
}
