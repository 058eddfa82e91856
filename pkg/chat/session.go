package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a conversation.
type Message struct {
	Role      Role      `json:"role" yaml:"role"`
	Content   string    `json:"content" yaml:"content"`
	Cypher    string    `json:"cypher,omitempty" yaml:"cypher,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Session is an ordered conversation buffer. It is safe for concurrent use.
type Session struct {
	id        string
	createdAt time.Time

	mu       sync.RWMutex
	messages []Message
}

// NewSession starts an empty session with a random ID.
func NewSession() *Session {
	return &Session{
		id:        uuid.NewString(),
		createdAt: time.Now().UTC(),
	}
}

// ID returns the session ID.
func (s *Session) ID() string {
	return s.id
}

// CreatedAt returns when the session was started.
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// Append adds a message, stamping it if CreatedAt is zero.
func (s *Session) Append(m Message) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, m)
}

// History returns a copy of the messages in order.
func (s *Session) History() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of messages.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Clear drops every message. The ID is kept.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
}

// SessionView is the serializable form of a Session.
type SessionView struct {
	ID        string    `json:"id" yaml:"id"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Messages  []Message `json:"messages" yaml:"messages"`
}

// View returns a snapshot of the session.
func (s *Session) View() SessionView {
	return SessionView{ID: s.id, CreatedAt: s.createdAt, Messages: s.History()}
}
