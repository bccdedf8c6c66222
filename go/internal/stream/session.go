package stream

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/scoreboard/go/internal/events"
	"github.com/mcdev12/scoreboard/go/internal/match"
	"github.com/mcdev12/scoreboard/go/internal/models"
	"github.com/rs/zerolog/log"
)

// ErrSessionClosed is returned when work is attempted on a closed session
var ErrSessionClosed = errors.New("session closed")

// MatchSource is what a session needs from the match simulation
type MatchSource interface {
	Matches() []models.Match
	Match(id int) (models.Match, error)
	Tick(ctx context.Context) match.TickResult
}

// Sink writes named events to one client transport.
// A write error means the client is gone.
type Sink interface {
	Send(name events.Name, payload any) error
}

// State is the lifecycle state of a session
type State int32

const (
	StateConnecting State = iota
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Session owns one client stream: it sends the initial snapshot and then ticks
// the simulation on its own interval, forwarding the results to its sink.
type Session struct {
	ID          string
	Transport   string
	Interval    time.Duration
	ConnectedAt time.Time

	sink    Sink
	matches MatchSource
	clock   clockwork.Clock

	mu     sync.Mutex
	state  State
	ticker clockwork.Ticker
	done   chan struct{}
}

// NewSession creates a session in the Connecting state
func NewSession(id, transport string, sink Sink, matches MatchSource, clock clockwork.Clock, interval time.Duration) *Session {
	return &Session{
		ID:          id,
		Transport:   transport,
		Interval:    interval,
		ConnectedAt: clock.Now(),
		sink:        sink,
		matches:     matches,
		clock:       clock,
		state:       StateConnecting,
		done:        make(chan struct{}),
	}
}

// State returns the current lifecycle state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Done is closed once the session reaches the Closed state
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Run opens the session and streams ticks until ctx is cancelled, Close is called
// or a write fails. The session is Closed when Run returns. A failed write is a
// disconnect, not an error; only a failure to deliver the initial snapshot is returned.
func (s *Session) Run(ctx context.Context) error {
	defer s.Close()

	ticker, err := s.open()
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.done:
			return nil
		case <-ticker.Chan():
			if err := s.tick(ctx); err != nil {
				if !errors.Is(err, ErrSessionClosed) {
					log.Debug().
						Err(err).
						Str("session_id", s.ID).
						Msg("stream write failed, treating as disconnect")
				}
				return nil
			}
		}
	}
}

// Close stops the session's ticker and moves it to Closed. It is safe to call
// more than once and from any goroutine; only the first call has an effect.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return
	}
	s.state = StateClosed
	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.done)

	log.Info().
		Str("session_id", s.ID).
		Str("transport", s.Transport).
		Dur("connected_for", s.clock.Since(s.ConnectedAt)).
		Msg("stream session closed")
}

// open sends the initial snapshot and starts the ticker
func (s *Session) open() (clockwork.Ticker, error) {
	s.mu.Lock()
	if s.state != StateConnecting {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	s.state = StateOpen
	s.mu.Unlock()

	if err := s.send(events.NameInitial, events.NewMatchesPayload(s.matches.Matches())); err != nil {
		return nil, fmt.Errorf("failed to send initial snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateOpen {
		return nil, ErrSessionClosed
	}
	s.ticker = s.clock.NewTicker(s.Interval)

	log.Info().
		Str("session_id", s.ID).
		Str("transport", s.Transport).
		Dur("interval", s.Interval).
		Msg("stream session opened")

	return s.ticker, nil
}

// tick advances the shared simulation once and forwards the results
func (s *Session) tick(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateOpen {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	result := s.matches.Tick(ctx)
	s.mu.Unlock()

	for _, u := range result.Updates {
		if u.Goal != nil {
			payload := events.NewScoreUpdate(u.Goal.MatchID, u.Goal.Event, u.Goal.HomeScore, u.Goal.AwayScore)
			if err := s.send(events.NameScoreUpdate, payload); err != nil {
				return err
			}
		}
		payload := events.NewStatusUpdate(u.Status.MatchID, u.Status.Status, u.Status.Minute)
		if err := s.send(events.NameStatusUpdate, payload); err != nil {
			return err
		}
	}

	if err := s.send(events.NameMatchesUpdate, events.NewMatchesPayload(result.Matches)); err != nil {
		return err
	}

	log.Debug().
		Str("session_id", s.ID).
		Int("updates", len(result.Updates)).
		Msg("tick streamed")
	return nil
}

func (s *Session) send(name events.Name, payload any) error {
	if s.State() == StateClosed {
		return ErrSessionClosed
	}
	if err := s.sink.Send(name, payload); err != nil {
		return fmt.Errorf("send %s: %w", name, err)
	}
	return nil
}
