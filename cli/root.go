package cli

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mcwire",
	Short: "A Minecraft Java Edition handshake server and protocol toolkit",
	Long: `mcwire speaks the opening phases of the Minecraft Java Edition protocol:
handshake, server list status and ping, and login start.

It runs as a server that answers status pings and journals every session,
and as a client that probes servers and decodes captured packet streams.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

type loggerKey struct{}

// WithLogger returns a context carrying logger for the commands.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteWithContext runs the root command with context containing the logger
func ExecuteWithContext(ctx context.Context) error {
	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

// getLoggerFromContext retrieves the logger from context, or a disabled one
func getLoggerFromContext(ctx context.Context) zerolog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey{}).(zerolog.Logger); ok {
			return logger
		}
	}
	return zerolog.Nop()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}

func isVerbose(cmd *cobra.Command) bool {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return verbose
}
