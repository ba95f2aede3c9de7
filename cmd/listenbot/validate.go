package main

import (
	"fmt"

	"github.com/aretw0/listenbot/internal/cli"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var validateCmd = &cobra.Command{
	Use:   "validate [script]",
	Short: "Check a script for consistency",
	Long: `Parses a script (built-in industry or file) and reports commands that do
not parse, actions without text and a missing greeting.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := viper.GetString("script")
		if len(args) > 0 {
			name = args[0]
		}
		s, err := cli.LoadScript(name)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Script %q is valid! ✅ (%d topics)\n", s.Name, len(s.Topics))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
