package stream

import (
	"context"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Config holds configuration for the stream service
type Config struct {
	Connection ConnectionConfig
}

// DefaultConfig returns default configuration for the stream service
func DefaultConfig() Config {
	return Config{
		Connection: DefaultConnectionConfig(),
	}
}

// Service is the stream gateway: it opens sessions for SSE and WebSocket clients
// and serves match snapshots over plain HTTP.
type Service struct {
	config            ConnectionConfig
	matches           MatchSource
	clock             clockwork.Clock
	connectionManager *ConnectionManager

	eventsHandler *EventsHandler
	wsHandler     *WebSocketHandler
	stateHandler  *StateHandler
}

// NewService creates a new stream service
func NewService(config Config, matches MatchSource, clock clockwork.Clock) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	cfg := config.Connection
	if cfg.MinTickInterval <= 0 {
		cfg.MinTickInterval = DefaultConnectionConfig().MinTickInterval
	}
	if cfg.MaxTickInterval < cfg.MinTickInterval {
		cfg.MaxTickInterval = cfg.MinTickInterval
	}
	if cfg.CheckOrigin == nil {
		cfg.CheckOrigin = DefaultConnectionConfig().CheckOrigin
	}

	s := &Service{
		config:            cfg,
		matches:           matches,
		clock:             clock,
		connectionManager: NewConnectionManager(),
	}
	s.eventsHandler = NewEventsHandler(s)
	s.wsHandler = NewWebSocketHandler(s)
	s.stateHandler = NewStateHandler(matches, s.connectionManager)
	return s
}

// Start blocks until ctx is cancelled and then closes every session
func (s *Service) Start(ctx context.Context) error {
	log.Info().Msg("starting stream service")
	<-ctx.Done()
	log.Info().Msg("stream service shutting down")
	return s.Stop()
}

// Stop closes every active session. Sessions opened afterwards are refused.
func (s *Service) Stop() error {
	s.connectionManager.CloseAll()
	log.Info().Msg("stream service stopped")
	return nil
}

// RegisterRoutes registers the stream and snapshot routes
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	s.eventsHandler.RegisterRoutes(mux)
	s.wsHandler.RegisterRoutes(mux)
	s.stateHandler.RegisterStateRoutes(mux)
	log.Info().Msg("stream routes registered")
}

// Stats returns statistics about active sessions
func (s *Service) Stats() ConnectionStats {
	return s.connectionManager.GetConnectionStats()
}

// Stopped reports whether the service has stopped accepting sessions
func (s *Service) Stopped() bool {
	return s.connectionManager.Closed()
}

// RunSession opens a session over sink and blocks until it is closed
func (s *Service) RunSession(ctx context.Context, transport string, sink Sink) error {
	session := NewSession(uuid.New().String(), transport, sink, s.matches, s.clock, s.tickInterval())

	if err := s.connectionManager.register(session); err != nil {
		return err
	}
	defer s.connectionManager.unregister(session)

	return session.Run(ctx)
}

// tickInterval draws a per-session interval so that sessions do not tick in lockstep
func (s *Service) tickInterval() time.Duration {
	spread := s.config.MaxTickInterval - s.config.MinTickInterval
	if spread <= 0 {
		return s.config.MinTickInterval
	}
	return s.config.MinTickInterval + time.Duration(rand.Int64N(int64(spread)+1))
}
