package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/listenbot"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of listenbot",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "listenbot version %s\n", strings.TrimSpace(listenbot.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
