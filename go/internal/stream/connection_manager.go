package stream

import (
	"errors"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ConnectionConfig holds configuration for stream connections
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(r *http.Request) bool

	// Each session ticks on an interval drawn uniformly from [MinTickInterval, MaxTickInterval]
	MinTickInterval time.Duration
	MaxTickInterval time.Duration

	// RetryAfter is the reconnect delay advertised to SSE clients
	RetryAfter time.Duration
}

// DefaultConnectionConfig returns default stream configuration
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		MaxMessageSize:  1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
		MinTickInterval: 3 * time.Second,
		MaxTickInterval: 5 * time.Second,
		RetryAfter:      5 * time.Second,
	}
}

// ErrServiceStopped is returned when a session is opened after the service stopped
var ErrServiceStopped = errors.New("stream service stopped")

// ConnectionStats summarizes the active sessions
type ConnectionStats struct {
	TotalSessions int            `json:"total_sessions"`
	ByTransport   map[string]int `json:"by_transport"`
	SessionIDs    []string       `json:"session_ids"`
}

// ConnectionManager tracks the open stream sessions
type ConnectionManager struct {
	sessions map[string]*Session
	closed   bool
	mu       sync.RWMutex
}

// NewConnectionManager creates a new connection manager
func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		sessions: make(map[string]*Session),
	}
}

func (cm *ConnectionManager) register(s *Session) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.closed {
		return ErrServiceStopped
	}
	cm.sessions[s.ID] = s

	log.Debug().
		Str("session_id", s.ID).
		Int("total_sessions", len(cm.sessions)).
		Msg("session registered")
	return nil
}

func (cm *ConnectionManager) unregister(s *Session) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if _, exists := cm.sessions[s.ID]; exists {
		delete(cm.sessions, s.ID)
		log.Debug().
			Str("session_id", s.ID).
			Int("total_sessions", len(cm.sessions)).
			Msg("session unregistered")
	}
}

// Session returns an active session by id
func (cm *ConnectionManager) Session(id string) (*Session, bool) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	s, ok := cm.sessions[id]
	return s, ok
}

// GetConnectionStats returns statistics about active sessions
func (cm *ConnectionManager) GetConnectionStats() ConnectionStats {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	stats := ConnectionStats{
		TotalSessions: len(cm.sessions),
		ByTransport:   make(map[string]int),
		SessionIDs:    make([]string, 0, len(cm.sessions)),
	}
	for _, s := range cm.sessions {
		stats.ByTransport[s.Transport]++
		stats.SessionIDs = append(stats.SessionIDs, s.ID)
	}
	slices.Sort(stats.SessionIDs)
	return stats
}

// Closed reports whether CloseAll has been called
func (cm *ConnectionManager) Closed() bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.closed
}

// CloseAll closes every active session and refuses new ones from then on
func (cm *ConnectionManager) CloseAll() {
	// Snapshot so Close does not run under the manager lock
	cm.mu.Lock()
	cm.closed = true
	sessions := make([]*Session, 0, len(cm.sessions))
	for _, s := range cm.sessions {
		sessions = append(sessions, s)
	}
	cm.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
