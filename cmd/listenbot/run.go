package main

import (
	"fmt"
	"os"

	"github.com/aretw0/listenbot/internal/cli"
	"github.com/aretw0/listenbot/pkg/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start an interactive call",
	Long: `Starts a call on the terminal. Reply with "<TOPIC> <Y|N|?>", type PRINT to
dump the session state and exit (or ctrl-d) to hang up.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		res, err := cli.RunSession(cmd.Context(), cfg, cli.SessionOptions{
			In:      os.Stdin,
			Out:     os.Stdout,
			Logger:  cli.NewLogger(cfg.Log, os.Stderr),
			Signals: true,
		})
		if err != nil {
			return err
		}
		if cfg.UI.JSON || res.Outcome == domain.ResultNone {
			return nil
		}
		fmt.Fprintf(os.Stderr, "Outcome: %s\n", res.Outcome)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	flags := runCmd.Flags()
	flags.String("engine", "script", "response engine (script, remote)")
	flags.String("engine-url", "", "base URL of a remote response engine")
	flags.Duration("engine-timeout", 0, "timeout of a single engine call")
	flags.String("session", "", "session ID (generated when empty)")
	flags.String("store", "none", "snapshot store (none, memory, redis, file)")
	flags.String("redis-addr", "", "address of the Redis snapshot store")
	flags.String("store-dir", "", "directory of the file snapshot store")
	flags.StringSlice("redact", nil, "regular expressions masked in exported snapshots")
	flags.Bool("json", false, "run in JSON mode (NDJSON input/output)")
	flags.Bool("markdown", false, "render robot text as markdown")
	flags.Bool("banner", true, "print the welcome banner")
	flags.Int("max-reply", 512, "longest accepted reply in bytes")

	_ = viper.BindPFlag("engine.kind", flags.Lookup("engine"))
	_ = viper.BindPFlag("engine.url", flags.Lookup("engine-url"))
	_ = viper.BindPFlag("engine.timeout", flags.Lookup("engine-timeout"))
	_ = viper.BindPFlag("session.id", flags.Lookup("session"))
	_ = viper.BindPFlag("store.backend", flags.Lookup("store"))
	_ = viper.BindPFlag("store.redis.addr", flags.Lookup("redis-addr"))
	_ = viper.BindPFlag("store.file.dir", flags.Lookup("store-dir"))
	_ = viper.BindPFlag("store.redact", flags.Lookup("redact"))
	_ = viper.BindPFlag("ui.json", flags.Lookup("json"))
	_ = viper.BindPFlag("ui.markdown", flags.Lookup("markdown"))
	_ = viper.BindPFlag("ui.banner", flags.Lookup("banner"))
	_ = viper.BindPFlag("ui.max_reply", flags.Lookup("max-reply"))

	// Make 'run' the default if no command is provided
	rootCmd.RunE = runCmd.RunE
}
