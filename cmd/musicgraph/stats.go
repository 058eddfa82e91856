package musicgraph

import (
	"github.com/soundprediction/musicgraph/pkg/diagnostics"
	"github.com/spf13/cobra"
)

var (
	statsFormat string
	statsGenre  string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print a diagnostic report of the loaded graph",
	Long: `Print node and relationship counts, genres, top artists, sample songs,
the property schema and a few probe queries.`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringVar(&statsFormat, "format", diagnostics.FormatYAML, "output format (yaml, json, text)")
	statsCmd.Flags().StringVar(&statsGenre, "genre", "pop", "genre to break down")
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.close()

	report, err := diagnostics.NewAnalyzer(a.driver, &diagnostics.Options{Genre: statsGenre}, a.logger).Run(ctx)
	if err != nil {
		return err
	}
	for _, e := range report.Errors {
		a.logger.WarnContext(ctx, "Diagnostics section failed", "error", e)
	}
	return diagnostics.Render(cmd.OutOrStdout(), report, statsFormat)
}
