package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	logLevel   string

	config *config
	logger *slog.Logger
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "align",
		Short:         "Round addresses and sizes to power-of-two boundaries",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			config, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("log-level") {
				config.LogLevel = opts.logLevel
			}

			var level slog.Level
			if err := level.UnmarshalText([]byte(config.LogLevel)); err != nil {
				return fmt.Errorf("invalid log level '%s': %w", config.LogLevel, err)
			}

			opts.config = config
			opts.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		newDownCommand(opts),
		newUpCommand(opts),
		newCheckCommand(opts),
		newLayoutCommand(opts),
		newTableCommand(opts),
	)

	return cmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
