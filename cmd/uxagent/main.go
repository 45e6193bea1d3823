package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

var (
	flagSettingsFile string
	flagEnvFile      string
	flagLogLevel     string
	flagLogFormat    string
	flagJSON         bool
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "uxagent",
		Short:         "Run a browser automation agent across shopper personas and A/B variants",
		Long:          "uxagent launches an external browser automation agent once per persona, variant and repetition of an experiment, stopping at the first failed run.",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadEnvFile(flagEnvFile); err != nil {
				return err
			}
			return initSettings()
		},
	}

	rootCmd.PersistentFlags().StringVar(&flagSettingsFile, "settings", "", "settings file (default .uxagent.yaml in the working or home directory)")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (env: UXAGENT_LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "log format: text or json (env: UXAGENT_LOG_FORMAT)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON where supported")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			printMessage(fmt.Sprintf("uxagent %s (commit: %s, built: %s)", Version, Commit, BuildDate))
		},
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newBatchCmd())
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newConfigCmd())
	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		printError(err)
		stop()
		os.Exit(1)
	}
}
