package logger_test

import (
	"log/slog"

	"github.com/soundprediction/musicgraph/pkg/logger"
)

func ExampleNewDefaultLogger() {
	// Create a logger with default settings
	log := logger.NewDefaultLogger(slog.LevelDebug)

	// Log different levels
	log.Debug("This is a debug message")
	log.Info("This is an info message")
	log.Info("Writing songs", "count", 28356) // Will be green in terminal
	log.Warn("This is a warning message")     // Will be yellow in terminal
	log.Error("This is an error message")     // Will be red in terminal
}

func ExampleParseLevel() {
	log := logger.NewDefaultLogger(logger.ParseLevel("warn"))

	log.Info("Dropped below the threshold")
	log.Warn("Schema statement failed", "statement", "CREATE INDEX song_tempo IF NOT EXISTS FOR (s:Song) ON (s.tempo)")
}
