package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/convohq/convo/internal/domain"
)

// timeLayout pins timestamps to millisecond precision in UTC so that the
// TEXT column sorts lexicographically in chronological order.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens the database at dsn and runs migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS chats (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL DEFAULT 'New Chat',
			messages TEXT NOT NULL DEFAULT '[]',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chats_updated ON chats(updated_at)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateChat creates a new chat with a fresh id and the default title.
func (s *SQLiteStore) CreateChat(ctx context.Context) (*domain.Chat, error) {
	now := nowUTC()
	chat := &domain.Chat{
		ID:        uuid.New().String(),
		Title:     domain.DefaultChatTitle,
		Messages:  []domain.Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chats (id, title, messages, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		chat.ID, chat.Title, "[]", formatTime(now), formatTime(now))
	if err != nil {
		return nil, fmt.Errorf("failed to insert chat: %w", err)
	}
	return chat, nil
}

// GetChat retrieves a chat by id.
func (s *SQLiteStore) GetChat(ctx context.Context, id string) (*domain.Chat, error) {
	return scanChat(s.db.QueryRowContext(ctx,
		`SELECT id, title, messages, created_at, updated_at FROM chats WHERE id = ?`, id))
}

// ListChats lists all chats as summaries, most recently updated first.
func (s *SQLiteStore) ListChats(ctx context.Context) ([]domain.ChatSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, messages, updated_at FROM chats ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query chats: %w", err)
	}
	defer rows.Close()

	summaries := []domain.ChatSummary{}
	for rows.Next() {
		var id, title, messagesJSON, updatedAt string
		if err := rows.Scan(&id, &title, &messagesJSON, &updatedAt); err != nil {
			return nil, err
		}
		messages, err := unmarshalMessages(messagesJSON)
		if err != nil {
			return nil, fmt.Errorf("corrupt message log for chat %s: %w", id, err)
		}
		updated, err := parseTime(updatedAt)
		if err != nil {
			return nil, fmt.Errorf("bad updated_at for chat %s: %w", id, err)
		}
		summaries = append(summaries, domain.ChatSummary{
			ID:           id,
			Title:        title,
			Preview:      domain.Preview(messages),
			UpdatedAt:    updated,
			MessageCount: len(messages),
		})
	}
	return summaries, rows.Err()
}

// RenameChat updates a chat's title.
func (s *SQLiteStore) RenameChat(ctx context.Context, id, title string) (*domain.Chat, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE chats SET title = ?, updated_at = ? WHERE id = ?`,
		title, formatTime(nowUTC()), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update title: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, domain.ErrNotFound
	}
	return s.GetChat(ctx, id)
}

// DeleteChat removes a chat and returns the deleted record.
func (s *SQLiteStore) DeleteChat(ctx context.Context, id string) (*domain.Chat, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	chat, err := scanChat(tx.QueryRowContext(ctx,
		`SELECT id, title, messages, created_at, updated_at FROM chats WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM chats WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("failed to delete chat: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return chat, nil
}

// AppendMessages rewrites the stored log as prev ++ msgs in one transaction,
// creating the chat under id if it does not exist yet.
func (s *SQLiteStore) AppendMessages(ctx context.Context, id string, msgs []domain.Message) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := formatTime(nowUTC())

	var messagesJSON string
	err = tx.QueryRowContext(ctx, `SELECT messages FROM chats WHERE id = ?`, id).Scan(&messagesJSON)
	switch {
	case err == sql.ErrNoRows:
		// Create-on-first-message: the chat id was minted by the caller.
		combined, merr := json.Marshal(msgs)
		if merr != nil {
			return fmt.Errorf("failed to marshal messages: %w", merr)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO chats (id, title, messages, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
			id, domain.DefaultChatTitle, string(combined), now, now); err != nil {
			return fmt.Errorf("failed to insert chat: %w", err)
		}
	case err != nil:
		return fmt.Errorf("failed to read message log: %w", err)
	default:
		prev, perr := unmarshalMessages(messagesJSON)
		if perr != nil {
			return fmt.Errorf("corrupt message log for chat %s: %w", id, perr)
		}
		combined, merr := json.Marshal(append(prev, msgs...))
		if merr != nil {
			return fmt.Errorf("failed to marshal messages: %w", merr)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE chats SET messages = ?, updated_at = ? WHERE id = ?`,
			string(combined), now, id); err != nil {
			return fmt.Errorf("failed to write message log: %w", err)
		}
	}

	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanChat(row rowScanner) (*domain.Chat, error) {
	var chat domain.Chat
	var messagesJSON, createdAt, updatedAt string
	err := row.Scan(&chat.ID, &chat.Title, &messagesJSON, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if chat.Messages, err = unmarshalMessages(messagesJSON); err != nil {
		return nil, fmt.Errorf("corrupt message log for chat %s: %w", chat.ID, err)
	}
	if chat.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("bad created_at for chat %s: %w", chat.ID, err)
	}
	if chat.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("bad updated_at for chat %s: %w", chat.ID, err)
	}
	return &chat, nil
}

func unmarshalMessages(raw string) ([]domain.Message, error) {
	msgs := []domain.Message{}
	if raw == "" {
		return msgs, nil
	}
	if err := json.Unmarshal([]byte(raw), &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
