package provider

import (
	"context"
	"fmt"

	"github.com/convohq/convo/internal/domain"
)

// MockProvider is a deterministic Provider for tests and offline mode.
type MockProvider struct{}

var _ Provider = (*MockProvider)(nil)

// NewMockProvider creates a new mock provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// StreamCompletion streams a canned reply derived from the last user message.
func (m *MockProvider) StreamCompletion(ctx context.Context, req *CompletionRequest, callback StreamCallback) (*Completion, error) {
	content := m.reply(req)

	for _, chunk := range splitIntoChunks(content, 10) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		if err := callback(&Chunk{Text: chunk}); err != nil {
			return nil, err
		}
	}

	return &Completion{
		Content: content,
		Model:   "mock",
	}, nil
}

func (m *MockProvider) reply(req *CompletionRequest) string {
	var lastUser string
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == domain.RoleUser {
			lastUser = req.Messages[i].Content
			break
		}
	}
	if lastUser == "" {
		return "[MOCK] This is a mock assistant reply."
	}
	return fmt.Sprintf("[MOCK] Received your message: %q.", truncate(lastUser, 100))
}

// splitIntoChunks splits a string into chunks of approximately the given size.
func splitIntoChunks(s string, chunkSize int) []string {
	if len(s) == 0 {
		return []string{""}
	}
	var chunks []string
	for i := 0; i < len(s); i += chunkSize {
		end := i + chunkSize
		if end > len(s) {
			end = len(s)
		}
		chunks = append(chunks, s[i:end])
	}
	return chunks
}

// truncate truncates a string to the given length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
