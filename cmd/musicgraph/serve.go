package musicgraph

import (
	"time"

	"github.com/soundprediction/musicgraph/pkg/chat"
	"github.com/soundprediction/musicgraph/pkg/server"
	"github.com/soundprediction/musicgraph/pkg/server/handlers"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API over the loaded graph.

The server provides endpoints for:
- Health, liveness and readiness checks
- Graph statistics
- Chat sessions that answer questions about the graph

Chat endpoints answer 503 when no LLM API key is configured.`,
	RunE: runServe,
}

var (
	serverHost string
	serverPort int
	serverMode string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverHost, "host", "localhost", "Server host")
	serveCmd.Flags().IntVar(&serverPort, "port", 8080, "Server port")
	serveCmd.Flags().StringVar(&serverMode, "mode", "debug", "Server mode (debug, release, test)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.close()

	if cmd.Flags().Changed("host") {
		a.cfg.Server.Host = serverHost
	}
	if cmd.Flags().Changed("port") {
		a.cfg.Server.Port = serverPort
	}
	if cmd.Flags().Changed("mode") {
		a.cfg.Server.Mode = serverMode
	}

	var asker handlers.Asker
	if a.cfg.LLM.APIKey != "" {
		translator, err := a.newTranslator()
		if err != nil {
			return err
		}
		asker = chat.NewService(translator, a.driver, a.logger)
	} else {
		a.logger.WarnContext(ctx, "No LLM API key configured, chat endpoints disabled")
	}

	srv := server.New(a.cfg, a.driver, asker, a.logger)
	srv.Setup()
	if err := srv.Run(ctx, 30*time.Second); err != nil {
		a.logger.ErrorContext(ctx, "Server error", "error", err)
		return err
	}
	a.logger.Info("Server stopped gracefully")
	return nil
}
