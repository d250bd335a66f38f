// Package domain defines the core domain models for the chat backend.
package domain

import "time"

// DefaultChatTitle is the title assigned to chats created without one.
const DefaultChatTitle = "New Chat"

// PreviewMaxRunes is the maximum length of a chat summary preview.
const PreviewMaxRunes = 100

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is a single turn in a conversation. Order within a chat is
// significant; the position in the message log is the true order.
type Message struct {
	ID      string `json:"id,omitempty"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat is one persisted conversation.
type Chat struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ChatSummary is the listing view of a chat.
type ChatSummary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Preview      string    `json:"preview"`
	UpdatedAt    time.Time `json:"updatedAt"`
	MessageCount int       `json:"messageCount"`
}

// Preview derives the listing preview from a message log: the content of the
// last message, truncated to PreviewMaxRunes runes. Empty logs fall back to
// the default title, matching what a fresh chat looks like in the sidebar.
func Preview(messages []Message) string {
	if len(messages) == 0 {
		return DefaultChatTitle
	}
	content := messages[len(messages)-1].Content
	if content == "" {
		return DefaultChatTitle
	}
	runes := []rune(content)
	if len(runes) > PreviewMaxRunes {
		return string(runes[:PreviewMaxRunes])
	}
	return content
}

// Summarize builds the ChatSummary for a chat.
func (c *Chat) Summarize() ChatSummary {
	return ChatSummary{
		ID:           c.ID,
		Title:        c.Title,
		Preview:      Preview(c.Messages),
		UpdatedAt:    c.UpdatedAt,
		MessageCount: len(c.Messages),
	}
}
