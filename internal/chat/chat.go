// Package chat keeps assistant conversations in a store and forwards them to
// a completion backend. The service itself holds no per-conversation state.
package chat

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrEmptyMessage         = errors.New("message is empty")
	ErrNoReply              = errors.New("completion backend returned no reply")
)

type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Conversation is the persisted history of one conversation id.
type Conversation struct {
	ID        string    `json:"id"`
	Messages  []Message `json:"messages"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Append adds m and drops the oldest messages beyond limit (0 means unbounded).
// A trimmed history always starts on a user message, so no reply is kept
// without the question it answers.
func (c *Conversation) Append(m Message, limit int) {
	c.Messages = append(c.Messages, m)
	if limit > 0 && len(c.Messages) > limit {
		start := len(c.Messages) - limit
		for start < len(c.Messages)-1 && c.Messages[start].Role != RoleUser {
			start++
		}
		c.Messages = append([]Message(nil), c.Messages[start:]...)
	}
	c.UpdatedAt = m.CreatedAt
}

// Store persists conversations by id.
type Store interface {
	Get(ctx context.Context, id string) (Conversation, error)
	Save(ctx context.Context, c Conversation) error
	Delete(ctx context.Context, id string) error
}

// Completer produces the assistant reply for a system prompt and history.
type Completer interface {
	Complete(ctx context.Context, system string, history []Message) (string, error)
}
