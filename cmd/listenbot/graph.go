package main

import (
	"fmt"
	"os"

	"github.com/aretw0/listenbot/internal/cli"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the script as a Mermaid flowchart",
	Long: `Prints the configured script as a Mermaid flowchart. With --session the
actions said in an exported snapshot are highlighted (requires --store).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		sessionID, _ := cmd.Flags().GetString("session")
		if backend, _ := cmd.Flags().GetString("store"); backend != "" {
			cfg.Store.Backend = backend
		}
		if dir, _ := cmd.Flags().GetString("store-dir"); dir != "" {
			cfg.Store.File.Dir = dir
		}
		out, err := cli.RenderGraph(cmd.Context(), cfg, sessionID, cli.NewLogger(cfg.Log, os.Stderr))
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("session", "", "session ID to overlay")
	graphCmd.Flags().String("store", "", "snapshot store holding the session (memory, redis, file)")
	graphCmd.Flags().String("store-dir", "", "directory of the file snapshot store")
}
