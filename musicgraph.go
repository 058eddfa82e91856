package musicgraph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/soundprediction/musicgraph/pkg/dataset"
	"github.com/soundprediction/musicgraph/pkg/driver"
	"github.com/soundprediction/musicgraph/pkg/loader"
	"github.com/soundprediction/musicgraph/pkg/types"
)

// ErrNoDriver is returned by NewClient when no graph driver is supplied.
var ErrNoDriver = errors.New("graph driver is required")

// MusicGraph is the pipeline that builds the music graph.
type MusicGraph interface {
	// Setup initializes the schema and then loads the CSV at csvPath.
	Setup(ctx context.Context, csvPath string) (*Result, error)

	// InitSchema applies constraints and indexes. Statement failures are
	// reported, not returned.
	InitSchema(ctx context.Context) (*loader.SchemaReport, error)

	// LoadFile reads, cleans and loads a CSV file.
	LoadFile(ctx context.Context, csvPath string) (*Result, error)

	// LoadTracks resets the graph and loads already cleaned tracks.
	LoadTracks(ctx context.Context, tracks []types.Track) (*loader.LoadSummary, error)

	// Stats returns node and relationship counts.
	Stats(ctx context.Context) (*driver.GraphStats, error)

	// Close releases the graph driver.
	Close() error
}

// Config holds configuration for the pipeline client.
type Config struct {
	// BatchSize is the relationship progress batch size in tracks.
	BatchSize int
	// Progress receives per-phase load progress.
	Progress loader.ProgressFunc
}

// Result collects what a pipeline run did.
type Result struct {
	RunID    string               `json:"run_id" yaml:"run_id"`
	Schema   *loader.SchemaReport `json:"schema,omitempty" yaml:"schema,omitempty"`
	RawRows  int                  `json:"raw_rows" yaml:"raw_rows"`
	Dataset  dataset.Summary      `json:"dataset" yaml:"dataset"`
	Load     *loader.LoadSummary  `json:"load,omitempty" yaml:"load,omitempty"`
	Duration time.Duration        `json:"duration" yaml:"duration"`
}

// Client is the main implementation of the MusicGraph interface.
type Client struct {
	driver driver.GraphDriver
	loader *loader.Loader
	config *Config
	logger *slog.Logger
}

var _ MusicGraph = (*Client)(nil)

// NewClient creates a pipeline client over a graph driver.
func NewClient(d driver.GraphDriver, config *Config, logger *slog.Logger) (*Client, error) {
	if d == nil {
		return nil, ErrNoDriver
	}
	if config == nil {
		config = &Config{BatchSize: loader.DefaultBatchSize}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		driver: d,
		loader: loader.NewLoader(d, &loader.Options{
			BatchSize: config.BatchSize,
			Progress:  config.Progress,
		}, logger),
		config: config,
		logger: logger,
	}, nil
}

// GetDriver returns the underlying graph driver.
func (c *Client) GetDriver() driver.GraphDriver {
	return c.driver
}

// WithRunID returns ctx carrying a run ID, generating one when ctx has none.
func WithRunID(ctx context.Context) (context.Context, string) {
	if id, ok := ctx.Value(types.ContextKeyRunID).(string); ok && id != "" {
		return ctx, id
	}
	id := uuid.NewString()
	return context.WithValue(ctx, types.ContextKeyRunID, id), id
}

// Setup runs schema initialization and then the load. The load never starts
// if the context is cancelled during schema initialization.
func (c *Client) Setup(ctx context.Context, csvPath string) (*Result, error) {
	start := time.Now()
	ctx, runID := WithRunID(ctx)
	c.logger.InfoContext(ctx, "Starting music graph setup", "run_id", runID, "csv", csvPath)

	schema, err := c.InitSchema(ctx)
	if err != nil {
		return &Result{RunID: runID, Schema: schema}, fmt.Errorf("schema initialization: %w", err)
	}

	result, err := c.LoadFile(ctx, csvPath)
	if result != nil {
		result.Schema = schema
		result.Duration = time.Since(start)
	}
	if err != nil {
		return result, err
	}

	c.logger.InfoContext(ctx, "Music graph setup completed",
		"run_id", runID,
		"schema_failed", len(schema.Failed),
		"songs", result.Load.Songs,
		"duration", result.Duration)
	return result, nil
}

// InitSchema applies the constraints and indexes.
func (c *Client) InitSchema(ctx context.Context) (*loader.SchemaReport, error) {
	return loader.InitSchema(ctx, c.driver, c.logger)
}

// LoadFile reads the CSV at csvPath, cleans it and loads it.
func (c *Client) LoadFile(ctx context.Context, csvPath string) (*Result, error) {
	start := time.Now()
	ctx, runID := WithRunID(ctx)
	result := &Result{RunID: runID}

	rows, err := dataset.ReadFile(csvPath)
	if err != nil {
		return result, fmt.Errorf("reading dataset: %w", err)
	}
	result.RawRows = len(rows)

	tracks := dataset.Clean(rows)
	result.Dataset = dataset.Summarize(tracks)
	c.logger.InfoContext(ctx, "Dataset cleaned",
		"raw_rows", result.RawRows,
		"songs", result.Dataset.Songs,
		"artists", result.Dataset.Artists,
		"albums", result.Dataset.Albums,
		"genres", result.Dataset.Genres)

	summary, err := c.LoadTracks(ctx, tracks)
	result.Load = summary
	result.Duration = time.Since(start)
	if err != nil {
		return result, err
	}
	return result, nil
}

// LoadTracks resets the graph and upserts tracks.
func (c *Client) LoadTracks(ctx context.Context, tracks []types.Track) (*loader.LoadSummary, error) {
	summary, err := c.loader.Load(ctx, tracks)
	if err != nil {
		return summary, fmt.Errorf("loading graph: %w", err)
	}
	return summary, nil
}

// Stats returns node and relationship counts from the graph.
func (c *Client) Stats(ctx context.Context) (*driver.GraphStats, error) {
	return c.driver.GetStats(ctx)
}

// Close closes the graph driver.
func (c *Client) Close() error {
	return c.driver.Close()
}
