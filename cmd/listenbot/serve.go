package main

import (
	"os"

	"github.com/aretw0/listenbot/internal/cli"
	"github.com/aretw0/listenbot/pkg/runner"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a script as a remote response engine",
	Long: `Serves the configured script over HTTP (POST /respond, DELETE /sessions/{id}),
so that "listenbot run --engine remote" can talk to it. Each session ID gets
its own script state. Listens on :8080 unless --http is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := cli.NewLogger(cfg.Log, os.Stderr)

		ctx, stop := runner.WatchInterrupts(cmd.Context())
		defer stop()

		if err := cli.Serve(ctx, cfg, logger, nil); err != nil {
			return err
		}
		if sig := runner.InterruptSignal(ctx); sig != nil {
			logger.Debug("server stopped by signal", "signal", sig.String())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
