package musicgraph

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/soundprediction/musicgraph"
	"github.com/soundprediction/musicgraph/pkg/loader"
	"github.com/spf13/cobra"
)

var (
	csvPath   string
	batchSize int
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the schema and load the CSV",
	Long: `Create constraints and indexes, then wipe the graph and load the CSV.

Running setup again rebuilds the same graph.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd, func(ctx context.Context, client *musicgraph.Client, path string) (*musicgraph.Result, error) {
			return client.Setup(ctx, path)
		})
	},
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Create constraints and indexes only",
	RunE:  runSchema,
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Wipe the graph and load the CSV without touching the schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd, func(ctx context.Context, client *musicgraph.Client, path string) (*musicgraph.Result, error) {
			return client.LoadFile(ctx, path)
		})
	},
}

func init() {
	rootCmd.AddCommand(setupCmd, schemaCmd, loadCmd)

	for _, c := range []*cobra.Command{setupCmd, loadCmd} {
		c.Flags().StringVar(&csvPath, "csv", "", "path to the songs CSV (default from data.csv_path)")
		c.Flags().IntVar(&batchSize, "batch-size", 0, "tracks per relationship batch (default from data.batch_size)")
	}
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

type pipelineFunc func(ctx context.Context, client *musicgraph.Client, csvPath string) (*musicgraph.Result, error)

func runPipeline(cmd *cobra.Command, run pipelineFunc) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.close()

	path := a.cfg.Data.CSVPath
	if cmd.Flags().Changed("csv") {
		path = csvPath
	}
	size := a.cfg.Data.BatchSize
	if cmd.Flags().Changed("batch-size") {
		size = batchSize
	}

	client, err := musicgraph.NewClient(a.driver, &musicgraph.Config{
		BatchSize: size,
		Progress:  progressLogger(ctx, a.logger),
	}, a.logger)
	if err != nil {
		return err
	}

	result, err := run(ctx, client, path)
	if err != nil {
		a.logger.ErrorContext(ctx, "Pipeline failed", "csv", path, "error", err)
		return err
	}

	printResult(cmd.OutOrStdout(), result)
	return nil
}

func runSchema(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.close()

	report, err := loader.InitSchema(ctx, a.driver, a.logger)
	if err != nil {
		return err
	}
	printSchema(cmd.OutOrStdout(), report)
	return nil
}

// progressLogger logs relationship batches and phase completions.
func progressLogger(ctx context.Context, logger *slog.Logger) loader.ProgressFunc {
	return func(phase loader.Phase, done, total int) {
		if phase == loader.PhaseRelationships && done < total {
			logger.DebugContext(ctx, "Relationship batch written", "done", done, "total", total)
			return
		}
		if done == total {
			logger.InfoContext(ctx, "Load phase finished", "phase", string(phase), "count", total)
		}
	}
}

func printSchema(w io.Writer, r *loader.SchemaReport) {
	fmt.Fprintf(w, "Schema: %d applied, %d already present, %d failed\n", len(r.Applied), len(r.Existing), len(r.Failed))
	for _, stmt := range r.Failed {
		fmt.Fprintf(w, "  failed: %s\n", stmt)
	}
}

func printResult(w io.Writer, r *musicgraph.Result) {
	if r.Schema != nil {
		printSchema(w, r.Schema)
	}
	fmt.Fprintf(w, "Dataset: %d rows read, %d songs, %d artists, %d albums, %d genres\n",
		r.RawRows, r.Dataset.Songs, r.Dataset.Artists, r.Dataset.Albums, len(r.Dataset.Genres))
	if r.Load != nil {
		fmt.Fprintf(w, "Graph: %d artists, %d albums, %d songs, %d relationships in %d batches\n",
			r.Load.Artists, r.Load.Albums, r.Load.Songs, r.Load.Relationships, r.Load.Batches)
	}
	fmt.Fprintf(w, "Run %s finished in %s\n", r.RunID, r.Duration.Round(time.Millisecond))
}
