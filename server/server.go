package server

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gear6io/mcwire/pkg/errors"
	"github.com/gear6io/mcwire/server/config"
	"github.com/gear6io/mcwire/server/journal"
	"github.com/gear6io/mcwire/server/protocols/http"
	"github.com/gear6io/mcwire/server/protocols/java"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
)

// Server represents the main server that manages all protocol servers
type Server struct {
	config     *config.Config
	logger     zerolog.Logger
	journal    *journal.Journal
	registry   *prometheus.Registry
	javaServer *java.Server
	httpServer *http.Server
	startTime  time.Time
	stopOnce   sync.Once
}

// New creates a new server instance. It opens the session journal when one
// is configured.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Server, error) {
	logger = logger.With().Str("component", "server").Logger()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var j *journal.Journal
	deps := java.Dependencies{Registerer: registry}
	var store http.SessionStore
	if cfg.IsJournalEnabled() {
		var err error
		j, err = openJournal(ctx, cfg.Journal.Path)
		if err != nil {
			return nil, err
		}
		deps.Journal = j
		store = j
		logger.Info().Str("path", cfg.Journal.Path).Msg("Session journal opened")
	}

	javaServer := java.NewServer(cfg, logger, deps)
	httpServer := http.NewServer(cfg, javaServer, store, registry, logger)

	return &Server{
		config:     cfg,
		logger:     logger,
		journal:    j,
		registry:   registry,
		javaServer: javaServer,
		httpServer: httpServer,
		startTime:  time.Now(),
	}, nil
}

func openJournal(ctx context.Context, path string) (*journal.Journal, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.New(ErrJournalSetupFailed, "failed to create journal directory", err).
				AddContext("path", path)
		}
	}
	return journal.Open(ctx, path)
}

// Start starts all protocol servers
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info().Msg("Starting mcwire server...")

	if err := s.javaServer.Start(ctx); err != nil {
		return errors.New(ErrStartupFailed, "failed to start Java server", err)
	}

	if err := s.httpServer.Start(ctx); err != nil {
		s.javaServer.Stop()
		return errors.New(ErrStartupFailed, "failed to start HTTP server", err)
	}

	event := s.logger.Info().Str("java_address", s.javaServer.Addr().String())
	if addr := s.httpServer.Addr(); addr != nil {
		event = event.Str("http_address", addr.String())
	}
	event.Bool("journal_enabled", s.journal != nil).Msg("All servers started")

	return nil
}

// Shutdown gracefully shuts down all servers
func (s *Server) Shutdown() error {
	s.stopOnce.Do(func() {
		s.logger.Info().Msg("Shutting down server...")

		if err := s.httpServer.Stop(); err != nil {
			s.logger.Error().Err(err).Msg("Error stopping HTTP server")
		}
		if err := s.javaServer.Stop(); err != nil {
			s.logger.Error().Err(err).Msg("Error stopping Java server")
		}
		if s.journal != nil {
			if err := s.journal.Close(); err != nil {
				s.logger.Error().Err(err).Msg("Error closing session journal")
			}
		}

		s.logger.Info().Msg("Graceful shutdown completed")
	})
	return nil
}

// JavaServer returns the Java Edition listener
func (s *Server) JavaServer() *java.Server {
	return s.javaServer
}

// HTTPServer returns the status API server
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// Journal returns the session journal, or nil when it is disabled
func (s *Server) Journal() *journal.Journal {
	return s.journal
}

// GetUptime returns the server uptime
func (s *Server) GetUptime() time.Duration {
	return time.Since(s.startTime)
}

// GetStatus returns the server status
func (s *Server) GetStatus() map[string]interface{} {
	return map[string]interface{}{
		"uptime":          s.GetUptime().String(),
		"start_time":      s.startTime,
		"http_enabled":    s.config.IsHTTPServerEnabled(),
		"journal_enabled": s.journal != nil,
		"java":            s.javaServer.GetStatus(),
	}
}
