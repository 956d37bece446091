package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gear6io/mcwire/server"
	"github.com/gear6io/mcwire/server/config"
	"github.com/spf13/cobra"
)

const defaultServerConfigFile = "mcwire-server.yml"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Java Edition listener and the status API",
	Long: `Run the Java Edition listener and the HTTP status API.

The configuration is read from --config. When that file does not exist the
built-in defaults are used.

Examples:
  mcwire serve
  mcwire serve --config /etc/mcwire/mcwire-server.yml
  mcwire serve --port 25566 --no-journal`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

type serveOptions struct {
	configPath string
	port       int
	noJournal  bool
	noHTTP     bool
}

var serveOpts = &serveOptions{}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveOpts.configPath, "config", "c", defaultServerConfigFile, "server configuration file")
	serveCmd.Flags().IntVar(&serveOpts.port, "port", 0, "override the Java listener port")
	serveCmd.Flags().BoolVar(&serveOpts.noJournal, "no-journal", false, "do not record sessions")
	serveCmd.Flags().BoolVar(&serveOpts.noHTTP, "no-http", false, "do not start the status API")
}

// loadServerConfig reads path, falling back to defaults when it is absent.
func loadServerConfig(path string) (*config.Config, bool, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.LoadDefaultConfig(), false, nil
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, false, err
	}
	return cfg, true, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	d := newDisplay(cmd)

	cfg, fromFile, err := loadServerConfig(serveOpts.configPath)
	if err != nil {
		d.Failure("Failed to load configuration", err)
		return err
	}
	if serveOpts.port != 0 {
		cfg.Server.Port = serveOpts.port
	}
	if serveOpts.noJournal {
		cfg.Journal.Enabled = false
	}
	if serveOpts.noHTTP {
		cfg.HTTP.Enabled = false
	}
	if isVerbose(cmd) {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		d.Failure("Invalid configuration", err)
		return err
	}

	logger, closer, err := config.SetupLogger(cfg)
	if err != nil {
		d.Failure("Failed to set up logging", err)
		return err
	}
	defer closer.Close()

	if fromFile {
		logger.Info().Str("config", serveOpts.configPath).Msg("Configuration loaded")
	} else {
		logger.Info().Msg("Using default configuration")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create server")
		return err
	}
	defer srv.Shutdown()

	if err := srv.Start(ctx); err != nil {
		logger.Error().Err(err).Msg("Server failed")
		return err
	}

	<-ctx.Done()
	logger.Info().Msg("Shutdown signal received")
	return nil
}
