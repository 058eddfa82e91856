package dto

import (
	"errors"
	"strings"

	"github.com/soundprediction/musicgraph/pkg/chat"
	"github.com/soundprediction/musicgraph/pkg/driver"
)

// Validation errors
var (
	ErrEmptyQuestion   = errors.New("question cannot be empty")
	ErrQuestionTooLong = errors.New("question exceeds maximum length (4096)")
)

// MaxQuestionLength bounds a single chat question.
const MaxQuestionLength = 4096

// AskRequest is the body of POST /api/v1/sessions/:id/messages.
type AskRequest struct {
	Question string `json:"question" binding:"required"`
}

// Validate performs validation on AskRequest
func (r *AskRequest) Validate() error {
	if strings.TrimSpace(r.Question) == "" {
		return ErrEmptyQuestion
	}
	if len(r.Question) > MaxQuestionLength {
		return ErrQuestionTooLong
	}
	return nil
}

// AskResponse carries the answer and the Cypher that produced it.
type AskResponse struct {
	SessionID string           `json:"session_id"`
	Question  string           `json:"question"`
	Answer    string           `json:"answer"`
	Cypher    string           `json:"cypher,omitempty"`
	Rows      []map[string]any `json:"rows,omitempty"`
	Truncated bool             `json:"truncated,omitempty"`
}

// NewAskResponse converts a chat answer.
func NewAskResponse(sessionID string, a *chat.Answer) AskResponse {
	return AskResponse{
		SessionID: sessionID,
		Question:  a.Question,
		Answer:    a.Text,
		Cypher:    a.Cypher,
		Rows:      a.Rows,
		Truncated: a.Truncated,
	}
}

// StatsResponse wraps graph statistics.
type StatsResponse struct {
	Stats *driver.GraphStats `json:"stats"`
}

// ExamplesResponse lists suggested questions.
type ExamplesResponse struct {
	Questions []string `json:"questions"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Cypher  string `json:"cypher,omitempty"`
}
