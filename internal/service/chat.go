package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/convohq/convo/internal/domain"
)

// CreateChat creates an empty chat with the default title.
func (s *Service) CreateChat(ctx context.Context) (*domain.Chat, error) {
	return s.store.CreateChat(ctx)
}

// GetChat returns the full chat record.
func (s *Service) GetChat(ctx context.Context, id string) (*domain.Chat, error) {
	return s.store.GetChat(ctx, id)
}

// ListChats returns summaries of all chats, most recently updated first.
func (s *Service) ListChats(ctx context.Context) ([]domain.ChatSummary, error) {
	return s.store.ListChats(ctx)
}

// RenameChat validates and applies a new title.
func (s *Service) RenameChat(ctx context.Context, id, title string) (*domain.Chat, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	return s.store.RenameChat(ctx, id, title)
}

// DeleteChat removes a chat and returns the deleted record.
func (s *Service) DeleteChat(ctx context.Context, id string) (*domain.Chat, error) {
	return s.store.DeleteChat(ctx, id)
}
