// Package store provides durable persistence for chats.
package store

import (
	"context"

	"github.com/convohq/convo/internal/domain"
)

// Store is the persistence contract for chat records. Every mutating
// operation writes through to durable storage before returning.
type Store interface {
	// CreateChat allocates a fresh chat with a unique id, the default title
	// and an empty message log.
	CreateChat(ctx context.Context) (*domain.Chat, error)

	// GetChat returns the full chat record, or domain.ErrNotFound.
	GetChat(ctx context.Context, id string) (*domain.Chat, error)

	// ListChats returns summaries of all chats, most recently updated first.
	ListChats(ctx context.Context) ([]domain.ChatSummary, error)

	// RenameChat updates the title and refreshes updated_at. Title validation
	// is the caller's job; unknown ids yield domain.ErrNotFound.
	RenameChat(ctx context.Context, id, title string) (*domain.Chat, error)

	// DeleteChat removes the chat and returns the deleted record, or
	// domain.ErrNotFound.
	DeleteChat(ctx context.Context, id string) (*domain.Chat, error)

	// AppendMessages atomically rewrites the stored log as the concatenation
	// of the previous log and msgs, refreshing updated_at. If no chat exists
	// under id, one is created with the default title first.
	AppendMessages(ctx context.Context, id string, msgs []domain.Message) error

	// Close releases the underlying connection pool.
	Close() error
}
