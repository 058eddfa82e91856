package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/soundprediction/musicgraph/pkg/types"
)

// DefaultMaxRows caps the rows kept from a query.
const DefaultMaxRows = 50

// Querier runs read-only Cypher. driver.GraphDriver satisfies it.
type Querier interface {
	ExecuteRead(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
}

// Answer is the outcome of one question.
type Answer struct {
	Question  string           `json:"question" yaml:"question"`
	Cypher    string           `json:"cypher" yaml:"cypher"`
	Rows      []map[string]any `json:"rows" yaml:"rows"`
	Truncated bool             `json:"truncated,omitempty" yaml:"truncated,omitempty"`
	Text      string           `json:"text" yaml:"text"`
}

// Service answers questions against the graph.
type Service struct {
	translator Translator
	answerer   Answerer
	db         Querier
	logger     *slog.Logger
	maxRows    int
}

// NewService creates a Service. When translator also implements Answerer,
// it phrases answers; otherwise rows are formatted with FormatRows.
func NewService(translator Translator, db Querier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		translator: translator,
		db:         db,
		logger:     logger,
		maxRows:    DefaultMaxRows,
	}
	if a, ok := translator.(Answerer); ok {
		s.answerer = a
	}
	return s
}

// WithoutAnswerer makes the service format rows itself instead of asking
// the model to phrase them.
func (s *Service) WithoutAnswerer() *Service {
	s.answerer = nil
	return s
}

// Ask answers question within session and records both turns in it. On
// failure the user turn and an apology are recorded and the error returned.
func (s *Service) Ask(ctx context.Context, session *Session, question string) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}
	ctx = context.WithValue(ctx, types.ContextKeySessionID, session.ID())

	history := session.History()
	session.Append(Message{Role: RoleUser, Content: question})

	answer, err := s.answer(ctx, question, history)
	if err != nil {
		s.logger.ErrorContext(ctx, "Chat question failed", "session_id", session.ID(), "question", question, "error", err)
		session.Append(Message{Role: RoleAssistant, Content: fmt.Sprintf("Sorry, I encountered an error: %v", err)})
		return answer, err
	}

	session.Append(Message{Role: RoleAssistant, Content: answer.Text, Cypher: answer.Cypher})
	return answer, nil
}

func (s *Service) answer(ctx context.Context, question string, history []Message) (*Answer, error) {
	answer := &Answer{Question: question}

	cypher, err := s.translator.Translate(ctx, question, history)
	if err != nil {
		return answer, err
	}
	answer.Cypher = cypher
	s.logger.DebugContext(ctx, "Question translated", "cypher", cypher)

	if err := ValidateReadOnly(cypher); err != nil {
		return answer, err
	}

	rows, err := s.db.ExecuteRead(ctx, cypher, nil)
	if err != nil {
		return answer, fmt.Errorf("running query: %w", err)
	}
	if len(rows) > s.maxRows {
		rows = rows[:s.maxRows]
		answer.Truncated = true
	}
	answer.Rows = rows

	answer.Text = FormatRows(rows)
	if s.answerer != nil {
		text, err := s.answerer.Answer(ctx, question, cypher, rows)
		switch {
		case err == nil && text != "":
			answer.Text = text
		case err != nil && !errors.Is(err, errors.ErrUnsupported):
			s.logger.WarnContext(ctx, "Answer generation failed, using formatted rows", "error", err)
		}
	}
	return answer, nil
}

// FormatRows renders rows as a short plain-text answer.
func FormatRows(rows []map[string]any) string {
	if len(rows) == 0 {
		return "No matching data was found."
	}
	if len(rows) == 1 && len(rows[0]) == 1 {
		for _, v := range rows[0] {
			return fmt.Sprint(v)
		}
	}

	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		keys := make([]string, 0, len(row))
		for k := range row {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString("- ")
		for j, k := range keys {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s: %v", k, row[k])
		}
	}
	return b.String()
}
