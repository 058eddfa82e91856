package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/sony/gobreaker"
	"github.com/soundprediction/musicgraph/pkg/chat"
	"github.com/soundprediction/musicgraph/pkg/server/dto"
)

// Asker answers a question within a session. *chat.Service satisfies it.
type Asker interface {
	Ask(ctx context.Context, session *chat.Session, question string) (*chat.Answer, error)
}

// SessionStore keeps chat sessions in memory. It is safe for concurrent use.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*chat.Session
}

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*chat.Session)}
}

// Create starts and registers a new session.
func (s *SessionStore) Create() *chat.Session {
	session := chat.NewSession()
	s.mu.Lock()
	s.sessions[session.ID()] = session
	s.mu.Unlock()
	return session
}

// Get looks a session up by ID.
func (s *SessionStore) Get(id string) (*chat.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	return session, ok
}

// Len returns the number of sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// ChatHandler handles chat session requests
type ChatHandler struct {
	asker    Asker
	sessions *SessionStore
	logger   *slog.Logger
}

// NewChatHandler creates a new chat handler. asker may be nil when no
// language model is configured; asking then fails with 503.
func NewChatHandler(asker Asker, sessions *SessionStore, logger *slog.Logger) *ChatHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if sessions == nil {
		sessions = NewSessionStore()
	}
	return &ChatHandler{
		asker:    asker,
		sessions: sessions,
		logger:   logger,
	}
}

// CreateSession handles POST /api/v1/sessions
func (h *ChatHandler) CreateSession(c *gin.Context) {
	session := h.sessions.Create()
	h.logger.InfoContext(c.Request.Context(), "Chat session created", "session_id", session.ID())
	c.JSON(http.StatusCreated, session.View())
}

// GetSession handles GET /api/v1/sessions/:id
func (h *ChatHandler) GetSession(c *gin.Context) {
	session, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, session.View())
}

// ClearSession handles DELETE /api/v1/sessions/:id. The session stays
// registered with an empty history.
func (h *ChatHandler) ClearSession(c *gin.Context) {
	session, ok := h.lookup(c)
	if !ok {
		return
	}
	session.Clear()
	c.JSON(http.StatusOK, session.View())
}

// Ask handles POST /api/v1/sessions/:id/messages
func (h *ChatHandler) Ask(c *gin.Context) {
	session, ok := h.lookup(c)
	if !ok {
		return
	}

	var req dto.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}
	if h.asker == nil {
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "unavailable", Message: "chat is not configured"})
		return
	}

	answer, err := h.asker.Ask(c.Request.Context(), session, req.Question)
	if err != nil {
		resp := dto.ErrorResponse{Error: "ask_failed", Message: err.Error()}
		if answer != nil {
			resp.Cypher = answer.Cypher
		}
		c.JSON(askErrorStatus(err), resp)
		return
	}

	c.JSON(http.StatusOK, dto.NewAskResponse(session.ID(), answer))
}

// Examples handles GET /api/v1/examples
func (h *ChatHandler) Examples(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ExamplesResponse{Questions: chat.ExampleQuestions})
}

func (h *ChatHandler) lookup(c *gin.Context) (*chat.Session, bool) {
	id := strings.TrimSpace(c.Param("id"))
	session, ok := h.sessions.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "not_found", Message: "session not found"})
		return nil, false
	}
	return session, true
}

func askErrorStatus(err error) int {
	switch {
	case errors.Is(err, chat.ErrEmptyQuestion):
		return http.StatusBadRequest
	case errors.Is(err, chat.ErrWriteQuery), errors.Is(err, chat.ErrEmptyTranslation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
