package java

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/gear6io/mcwire/pkg/errors"
	"github.com/gear6io/mcwire/server/config"
	"github.com/gear6io/mcwire/server/protocols/java/middleware"
	"github.com/gear6io/mcwire/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

const metricsNamespace = "mcwire"

// Dependencies are optional collaborators of the Java server.
type Dependencies struct {
	// Journal records sessions when set.
	Journal middleware.SessionJournal
	// Registerer receives the session metrics when set.
	Registerer prometheus.Registerer
}

// Server represents the Java Edition protocol server
type Server struct {
	cfg      *config.Config
	logger   zerolog.Logger
	listener net.Listener
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	players *PlayerList
	status  StatusSource

	// Middleware system
	middlewareChain *middleware.Chain
	sessionPool     *middleware.SessionPool
	clientGuard     *middleware.ClientGuard
	whitelist       *middleware.Whitelist
	metrics         *middleware.Metrics
	recorder        *middleware.JournalRecorder
}

// NewServer creates a new Java server instance
func NewServer(cfg *config.Config, logger zerolog.Logger, deps Dependencies) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	logger = logger.With().Str("component", "java-server").Logger()

	players := NewPlayerList()

	cleanupInterval := cfg.Server.IdleTimeout / 2
	sessionPool := middleware.NewSessionPool(
		cfg.Server.MaxConnections,
		cfg.Server.IdleTimeout,
		cleanupInterval,
		logger,
	)
	clientGuard := middleware.NewClientGuard(
		cfg.Guard.FailureThreshold,
		cfg.Guard.Window,
		cfg.Guard.BlockDuration,
		logger,
	)
	whitelist := middleware.NewWhitelist(cfg.Login.WhitelistEnabled, cfg.Login.Whitelist, logger)

	// Observers go first so they see sessions the admission middleware rejects.
	var chain []middleware.Middleware
	var metrics *middleware.Metrics
	if deps.Registerer != nil {
		metrics = middleware.NewMetrics(deps.Registerer, metricsNamespace)
		chain = append(chain, metrics)
	}
	var recorder *middleware.JournalRecorder
	if deps.Journal != nil {
		recorder = middleware.NewJournalRecorder(deps.Journal, cfg.Journal.QueueSize, logger)
		chain = append(chain, recorder)
	}
	chain = append(chain, sessionPool)
	if cfg.Guard.Enabled {
		chain = append(chain, clientGuard)
	}
	chain = append(chain, whitelist)

	return &Server{
		cfg:             cfg,
		logger:          logger,
		ctx:             ctx,
		cancel:          cancel,
		players:         players,
		status:          NewConfigStatus(cfg.Status, players),
		middlewareChain: middleware.NewChain(chain...),
		sessionPool:     sessionPool,
		clientGuard:     clientGuard,
		whitelist:       whitelist,
		metrics:         metrics,
		recorder:        recorder,
	}
}

// Start starts the Java protocol server
func (s *Server) Start(ctx context.Context) error {
	addr := s.cfg.GetJavaAddress()
	s.logger.Info().Str("address", addr).Msg("Starting Java protocol server")

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return errors.New(ErrServerListenFailed, "failed to listen on "+addr, err).
			AddContext("address", addr)
	}
	s.listener = listener

	s.wg.Add(1)
	go s.acceptConnections()

	s.logger.Info().Str("address", listener.Addr().String()).Msg("Java protocol server started successfully")
	return nil
}

// Addr returns the bound listener address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop stops the server and waits for every session to end.
func (s *Server) Stop() error {
	s.logger.Info().Msg("Stopping Java protocol server")

	s.cancel()

	if s.listener != nil {
		if err := s.listener.Close(); err != nil {
			s.logger.Error().Err(err).Msg("Error closing server listener")
		}
	}

	// Wait for all sessions to close
	s.wg.Wait()

	if err := s.sessionPool.Close(); err != nil {
		s.logger.Error().Err(err).Msg("Error closing session pool")
	}

	// Flush queued journal entries before the caller closes the journal
	if s.recorder != nil {
		if err := s.recorder.Close(); err != nil {
			s.logger.Error().Err(err).Msg("Error closing journal recorder")
		}
	}

	s.logger.Info().Msg("Java protocol server stopped")
	return nil
}

func (s *Server) acceptConnections() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.ctx.Err() != nil {
				// Server is shutting down
				return
			}
			s.logger.Error().Err(err).Msg("Error accepting connection")
			// Avoid spinning on persistent accept failures
			time.Sleep(50 * time.Millisecond)
			continue
		}

		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()

	handler := NewConnectionHandler(conn, utils.NewSessionID(), s.handlerOptions())
	if err := handler.Handle(s.ctx); err != nil {
		s.logger.Debug().
			Err(err).
			Str("client", conn.RemoteAddr().String()).
			Str("code", errors.GetCode(err)).
			Msg("Session closed with error")
	}
}

func (s *Server) handlerOptions() HandlerOptions {
	return HandlerOptions{
		ReadChunkSize:  s.cfg.Server.ReadChunkSize,
		MaxFrameLength: s.cfg.Server.MaxFrameLength,
		IdleTimeout:    s.cfg.Server.IdleTimeout,
		Status:         s.status,
		Players:        s.players,
		Chain:          s.middlewareChain,
		Logger:         s.logger,
	}
}

// Players returns the live player list
func (s *Server) Players() *PlayerList {
	return s.players
}

// StatusDocument returns what a status request would currently receive
func (s *Server) StatusDocument() StatusDocument {
	return s.status.Status()
}

// Sessions returns the sessions currently admitted
func (s *Server) Sessions() []middleware.SessionInfo {
	return s.sessionPool.Sessions()
}

// GetStatus returns server status
func (s *Server) GetStatus() map[string]interface{} {
	status := map[string]interface{}{
		"address":        s.cfg.Server.Address,
		"port":           s.cfg.Server.Port,
		"players_online": s.players.Online(),
		"session_pool":   s.sessionPool.GetStats(),
		"whitelist":      s.cfg.Login.WhitelistEnabled,
	}
	if addr := s.Addr(); addr != nil {
		status["listening"] = addr.String()
	}
	if s.cfg.Guard.Enabled {
		status["client_guard"] = s.clientGuard.GetStats()
	}
	return status
}
