package http

import (
	"context"
	stderrors "errors"
	"net"
	"sync"
	"time"

	"github.com/gear6io/mcwire/pkg/errors"
	"github.com/gear6io/mcwire/server/config"
	"github.com/gear6io/mcwire/server/journal"
	"github.com/gear6io/mcwire/server/protocols/java"
	"github.com/gear6io/mcwire/server/protocols/java/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
	shutdownTimeout     = 5 * time.Second
)

// JavaServer is what the status API reads from the Java listener.
type JavaServer interface {
	GetStatus() map[string]interface{}
	StatusDocument() java.StatusDocument
	Sessions() []middleware.SessionInfo
}

// SessionStore is the read side of the session journal.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*journal.Session, error)
	Recent(ctx context.Context, limit int) ([]journal.Session, error)
	Summarize(ctx context.Context) (journal.Summary, error)
	Ping(ctx context.Context) error
}

// Server represents the HTTP status server
type Server struct {
	cfg      *config.Config
	java     JavaServer
	sessions SessionStore
	gatherer prometheus.Gatherer
	logger   zerolog.Logger
	app      *fiber.App
	listener net.Listener
	started  time.Time
	wg       sync.WaitGroup
}

// NewServer creates a new HTTP server instance. sessions and gatherer may be
// nil, which disables the journal and metrics routes.
func NewServer(cfg *config.Config, javaServer JavaServer, sessions SessionStore, gatherer prometheus.Gatherer, logger zerolog.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		java:     javaServer,
		sessions: sessions,
		gatherer: gatherer,
		logger:   logger.With().Str("component", "http-server").Logger(),
		started:  time.Now(),
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "mcwire",
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Get("/health", s.handleHealth)
	s.app.Get("/status", s.handleStatus)
	s.app.Get("/sessions", s.handleLiveSessions)
	s.app.Get("/sessions/history", s.handleSessionHistory)
	s.app.Get("/sessions/summary", s.handleSessionSummary)
	s.app.Get("/sessions/:id", s.handleSession)

	if s.gatherer != nil {
		s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	if !s.cfg.IsHTTPServerEnabled() {
		s.logger.Info().Msg("HTTP server is disabled")
		return nil
	}

	addr := s.cfg.GetHTTPAddress()
	s.logger.Info().Str("address", addr).Msg("Starting HTTP server")

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return errors.New(ErrServerListenFailed, "failed to listen on "+addr, err).
			AddContext("address", addr)
	}
	s.listener = listener

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.app.Listener(listener); err != nil {
			s.logger.Error().Err(err).Msg("HTTP server error")
		}
	}()

	s.logger.Info().Str("address", listener.Addr().String()).Msg("HTTP server started successfully")
	return nil
}

// Addr returns the bound address, or nil when not listening.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop stops the HTTP server
func (s *Server) Stop() error {
	if s.listener == nil {
		return nil
	}
	s.logger.Info().Msg("Stopping HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.app.ShutdownWithContext(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Error shutting down HTTP server")
	}
	s.wg.Wait()

	s.logger.Info().Msg("HTTP server stopped")
	return nil
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	response := fiber.Map{
		"status": "ok",
		"uptime": time.Since(s.started).Round(time.Second).String(),
	}
	if s.sessions != nil {
		if err := s.sessions.Ping(c.UserContext()); err != nil {
			response["status"] = "degraded"
			response["journal"] = err.Error()
			return c.Status(fiber.StatusServiceUnavailable).JSON(response)
		}
		response["journal"] = "ok"
	}
	return c.JSON(response)
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"server":    s.java.GetStatus(),
		"status":    s.java.StatusDocument(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleLiveSessions(c *fiber.Ctx) error {
	sessions := s.java.Sessions()
	return c.JSON(fiber.Map{
		"count":    len(sessions),
		"sessions": sessions,
	})
}

func (s *Server) handleSessionHistory(c *fiber.Ctx) error {
	if err := s.requireJournal(); err != nil {
		return err
	}

	limit := c.QueryInt("limit", defaultHistoryLimit)
	if limit <= 0 || limit > maxHistoryLimit {
		return fiber.NewError(fiber.StatusBadRequest, "limit must be between 1 and 500")
	}

	rows, err := s.sessions.Recent(c.UserContext(), limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"count":    len(rows),
		"sessions": rows,
	})
}

func (s *Server) handleSessionSummary(c *fiber.Ctx) error {
	if err := s.requireJournal(); err != nil {
		return err
	}
	summary, err := s.sessions.Summarize(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

func (s *Server) handleSession(c *fiber.Ctx) error {
	if err := s.requireJournal(); err != nil {
		return err
	}
	row, err := s.sessions.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(row)
}

func (s *Server) requireJournal() error {
	if s.sessions == nil {
		return errors.New(ErrJournalDisabled, "session journal is disabled", nil)
	}
	return nil
}

// handleError maps coded errors onto HTTP statuses.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	var fiberErr *fiber.Error

	switch {
	case errors.HasCode(err, journal.ErrJournalSessionAbsent), errors.HasCode(err, ErrJournalDisabled):
		status = fiber.StatusNotFound
	case stderrors.As(err, &fiberErr):
		status = fiberErr.Code
	default:
		s.logger.Error().Err(err).Str("path", c.Path()).Msg("Request failed")
	}

	body := fiber.Map{"error": err.Error()}
	if code := errors.GetCode(err); code != "" {
		body["code"] = code
	}
	return c.Status(status).JSON(body)
}
