package chat

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
	"github.com/soundprediction/musicgraph/pkg/config"
)

// BreakerTranslator wraps a Translator with circuit breaking logic. When the
// wrapped translator is also an Answerer, answers go through the same
// breaker.
type BreakerTranslator struct {
	next   Translator
	cb     *gobreaker.CircuitBreaker
	logger *slog.Logger
}

// NewBreakerTranslator creates a circuit breaker around next.
func NewBreakerTranslator(next Translator, cfg config.CircuitBreakerConfig, name string, logger *slog.Logger) *BreakerTranslator {
	if logger == nil {
		logger = slog.Default()
	}

	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    time.Duration(cfg.Interval) * time.Second,
		Timeout:     time.Duration(cfg.Timeout) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= cfg.ReadyToTripRatio
		},
		// Caller cancellations and unusable model output say nothing about
		// the endpoint's health.
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, context.Canceled) ||
				errors.Is(err, ErrEmptyTranslation)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			if to == gobreaker.StateOpen {
				logger.Error("Circuit breaker tripped", "name", name, "from", from.String(), "to", to.String())
				return
			}
			logger.Info("Circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	}

	return &BreakerTranslator{
		next:   next,
		cb:     gobreaker.NewCircuitBreaker(st),
		logger: logger,
	}
}

// Translate implements Translator
func (b *BreakerTranslator) Translate(ctx context.Context, question string, history []Message) (string, error) {
	resp, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Translate(ctx, question, history)
	})
	if err != nil {
		return "", err
	}
	return resp.(string), nil
}

// Answer implements Answerer. It fails with errors.ErrUnsupported when the
// wrapped translator cannot answer.
func (b *BreakerTranslator) Answer(ctx context.Context, question, cypher string, rows []map[string]any) (string, error) {
	answerer, ok := b.next.(Answerer)
	if !ok {
		return "", errors.ErrUnsupported
	}
	resp, err := b.cb.Execute(func() (interface{}, error) {
		return answerer.Answer(ctx, question, cypher, rows)
	})
	if err != nil {
		return "", err
	}
	return resp.(string), nil
}

// State returns the breaker state.
func (b *BreakerTranslator) State() gobreaker.State {
	return b.cb.State()
}
