package musicgraph

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/soundprediction/musicgraph/pkg/chat"
	"github.com/soundprediction/musicgraph/pkg/config"
	"github.com/soundprediction/musicgraph/pkg/driver"
	mglogger "github.com/soundprediction/musicgraph/pkg/logger"
	"github.com/soundprediction/musicgraph/pkg/telemetry"
)

// app holds what every command needs: configuration, a logger and a
// connected graph driver.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	telemetry *telemetry.ParquetHandler
	driver    *driver.Neo4jDriver
}

// newApp loads configuration, builds the logger and connects to Neo4j.
// requireLLM additionally demands an LLM API key.
func newApp(ctx context.Context, requireLLM bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	a := &app{cfg: cfg}
	a.logger, a.telemetry = buildLogger(cfg)

	if err := cfg.Validate(requireLLM); err != nil {
		a.close()
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	d, err := driver.NewNeo4jDriver(cfg.Database.URI, cfg.Database.Username, cfg.Database.Password, cfg.Database.Database)
	if err != nil {
		a.close()
		return nil, err
	}
	a.driver = d

	if err := d.VerifyConnectivity(ctx); err != nil {
		a.logger.ErrorContext(ctx, "Failed to connect to Neo4j", "uri", cfg.Database.URI, "error", err)
		a.close()
		return nil, fmt.Errorf("connecting to neo4j at %s: %w", cfg.Database.URI, err)
	}
	a.logger.DebugContext(ctx, "Connected to Neo4j", "uri", cfg.Database.URI, "database", cfg.Database.Database)
	return a, nil
}

// close releases the driver and flushes telemetry.
func (a *app) close() {
	if a.driver != nil {
		if err := a.driver.Close(); err != nil {
			a.logger.Warn("Failed to close Neo4j driver", "error", err)
		}
	}
	if a.telemetry != nil {
		if err := a.telemetry.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to flush telemetry: %v\n", err)
		}
	}
}

// newTranslator builds the question translator: an OpenAI-compatible client
// behind a circuit breaker when one is enabled.
func (a *app) newTranslator() (chat.Translator, error) {
	llm := a.cfg.LLM
	base, err := chat.NewOpenAITranslator(llm.APIKey, chat.OpenAIConfig{
		Model:       llm.Model,
		BaseURL:     llm.BaseURL,
		Temperature: llm.Temperature,
		MaxTokens:   llm.MaxTokens,
		Timeout:     time.Duration(llm.Timeout) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create translator: %w", err)
	}
	if !a.cfg.CircuitBreaker.Enabled {
		return base, nil
	}
	return chat.NewBreakerTranslator(base, a.cfg.CircuitBreaker, "llm-"+llm.Provider, a.logger), nil
}

// buildLogger creates the process logger from config and installs it as the
// slog default. With telemetry enabled, error records are also persisted
// to Parquet.
func buildLogger(cfg *config.Config) (*slog.Logger, *telemetry.ParquetHandler) {
	opts := &slog.HandlerOptions{Level: mglogger.ParseLevel(cfg.Log.Level)}

	var handler slog.Handler
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = mglogger.NewColorHandler(os.Stderr, opts)
	}

	var tel *telemetry.ParquetHandler
	if cfg.Telemetry.Enabled && cfg.Telemetry.ParquetPath != "" {
		h, err := telemetry.NewParquetHandler(handler, cfg.Telemetry.ParquetPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to initialize error tracking: %v\n", err)
		} else {
			tel = h
			handler = h
		}
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, tel
}
