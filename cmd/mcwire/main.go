package main

import (
	"context"
	"os"
	"time"

	"github.com/gear6io/mcwire/cli"
	"github.com/rs/zerolog"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(zerolog.WarnLevel).
		With().
		Timestamp().
		Str("component", "mcwire-cli").
		Logger()

	ctx := cli.WithLogger(context.Background(), logger)
	if err := cli.ExecuteWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
