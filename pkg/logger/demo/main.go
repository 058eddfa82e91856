package main

import (
	"log/slog"

	"github.com/soundprediction/musicgraph/pkg/logger"
)

func main() {
	// Create a colored logger
	log := logger.NewDefaultLogger(slog.LevelDebug)

	log.Info("============================================")
	log.Info("    musicgraph Colored Logger Demo")
	log.Info("============================================")
	log.Info("")

	log.Debug("Debug message - standard color")
	log.Info("Info message - standard color")
	log.Info("Writing artists - green!", "count", 10692)
	log.Warn("Warning message - yellow!")
	log.Error("Error message - red!")

	log.Info("")
	log.Info("Graph writes are highlighted in green:")
	log.Info("Resetting graph")
	log.Info("Writing songs", "count", 28356)
	log.Info("Relationship batch written", "batch", 1, "of", 29, "tracks_done", 1000)
	log.Info("Graph load completed", "duration", "41.2s")

	log.Info("")
	log.Warn("Schema statement failed", "statement", "CREATE INDEX song_tempo IF NOT EXISTS FOR (s:Song) ON (s.tempo)")
	log.Error("Errors appear in red for immediate visibility")

	log.Info("")
	log.Info("Demo complete!")
}
