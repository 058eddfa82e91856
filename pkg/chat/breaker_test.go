package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/soundprediction/musicgraph/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTranslator returns fixed results and counts calls.
type stubTranslator struct {
	cypher string
	err    error
	calls  int
}

func (s *stubTranslator) Translate(ctx context.Context, question string, history []Message) (string, error) {
	s.calls++
	return s.cypher, s.err
}

// stubAnswerer also phrases answers.
type stubAnswerer struct {
	stubTranslator
	text      string
	answerErr error
}

func (s *stubAnswerer) Answer(ctx context.Context, question, cypher string, rows []map[string]any) (string, error) {
	return s.text, s.answerErr
}

var testBreakerConfig = config.CircuitBreakerConfig{
	Enabled:          true,
	MaxRequests:      1,
	Interval:         60,
	Timeout:          30,
	ReadyToTripRatio: 0.5,
}

func TestBreakerTranslatorPassesThrough(t *testing.T) {
	inner := &stubTranslator{cypher: "MATCH (n) RETURN count(n)"}
	b := NewBreakerTranslator(inner, testBreakerConfig, "test", nil)

	got, err := b.Translate(context.Background(), "how many nodes?", nil)
	require.NoError(t, err)
	assert.Equal(t, "MATCH (n) RETURN count(n)", got)
	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestBreakerTranslatorTrips(t *testing.T) {
	inner := &stubTranslator{err: errors.New("503 from endpoint")}
	b := NewBreakerTranslator(inner, testBreakerConfig, "test", nil)

	for i := 0; i < 3; i++ {
		_, err := b.Translate(context.Background(), "q", nil)
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, b.State())

	_, err := b.Translate(context.Background(), "q", nil)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, inner.calls)
}

func TestBreakerTranslatorIgnoresEmptyTranslations(t *testing.T) {
	inner := &stubTranslator{err: ErrEmptyTranslation}
	b := NewBreakerTranslator(inner, testBreakerConfig, "test", nil)

	for i := 0; i < 5; i++ {
		_, err := b.Translate(context.Background(), "q", nil)
		assert.ErrorIs(t, err, ErrEmptyTranslation)
	}
	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestBreakerTranslatorAnswer(t *testing.T) {
	b := NewBreakerTranslator(&stubAnswerer{text: "Two artists."}, testBreakerConfig, "test", nil)
	text, err := b.Answer(context.Background(), "q", "MATCH", nil)
	require.NoError(t, err)
	assert.Equal(t, "Two artists.", text)

	plain := NewBreakerTranslator(&stubTranslator{}, testBreakerConfig, "test", nil)
	_, err = plain.Answer(context.Background(), "q", "MATCH", nil)
	assert.ErrorIs(t, err, errors.ErrUnsupported)
}
