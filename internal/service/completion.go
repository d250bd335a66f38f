package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/convohq/convo/internal/domain"
	"github.com/convohq/convo/internal/provider"
)

// CompletionResult is the finalized outcome of a successful stream.
type CompletionResult struct {
	// ChatID is the chat the exchange was persisted under; freshly generated
	// when the request carried no id.
	ChatID string
	// Created reports whether this send minted a new chat id.
	Created bool
	// Assistant is the generated reply.
	Assistant domain.Message
	// Persisted is the exact message batch appended to the chat log.
	Persisted []domain.Message
}

// StreamCompletion forwards the message batch to the completion provider,
// relays each text delta through onDelta in production order, and, only after
// the provider signals completion, persists the exchange (request messages
// plus the assistant reply) through the store.
//
// On provider failure or caller cancellation nothing is persisted: the log a
// reader observes is unchanged from before the call. No retries.
func (s *Service) StreamCompletion(ctx context.Context, chatID string, messages []domain.Message, onDelta func(text string) error) (*CompletionResult, error) {
	if err := s.policy.CheckSend(ctx, messages); err != nil {
		return nil, err
	}

	created := false
	if chatID == "" {
		chatID = uuid.New().String()
		created = true
	}
	for i := range messages {
		if messages[i].ID == "" {
			messages[i].ID = uuid.New().String()
		}
	}

	req := &provider.CompletionRequest{
		System:   s.systemPrompt,
		Messages: messages,
	}
	completion, err := s.provider.StreamCompletion(ctx, req, func(chunk *provider.Chunk) error {
		return onDelta(chunk.Text)
	})
	if err != nil {
		return nil, fmt.Errorf("completion failed: %w", err)
	}

	assistant := domain.Message{
		ID:      uuid.New().String(),
		Role:    domain.RoleAssistant,
		Content: completion.Content,
	}
	persisted := append(append([]domain.Message{}, messages...), assistant)

	if err := s.store.AppendMessages(ctx, chatID, persisted); err != nil {
		return nil, fmt.Errorf("failed to persist exchange: %w", err)
	}

	s.logger.Info("completion persisted",
		zap.String("chatId", chatID),
		zap.Bool("created", created),
		zap.Int("messages", len(persisted)),
		zap.String("model", completion.Model))

	return &CompletionResult{
		ChatID:    chatID,
		Created:   created,
		Assistant: assistant,
		Persisted: persisted,
	}, nil
}
