package reconciler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/scoreboard/go/internal/events"
	"github.com/rs/zerolog/log"
)

// DefaultReconnectDelay is the fixed backoff between stream connections
const DefaultReconnectDelay = 5 * time.Second

// ClientConfig holds configuration for the stream client
type ClientConfig struct {
	// URL of the server's /events endpoint
	URL            string
	ReconnectDelay time.Duration
	HTTPClient     *http.Client
	Clock          clockwork.Clock
	// OnEvent is called after each event has been applied to the mirror
	OnEvent func(Result)
}

// Client keeps a Mirror in sync with a server's event stream, reconnecting
// after a fixed delay whenever the stream is lost.
type Client struct {
	config    ClientConfig
	mirror    *Mirror
	connected atomic.Bool
}

// NewClient creates a new stream client
func NewClient(config ClientConfig, mirror *Mirror) *Client {
	if config.ReconnectDelay <= 0 {
		config.ReconnectDelay = DefaultReconnectDelay
	}
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{}
	}
	if config.Clock == nil {
		config.Clock = clockwork.NewRealClock()
	}
	if mirror == nil {
		mirror = NewMirror()
	}
	return &Client{
		config: config,
		mirror: mirror,
	}
}

// Mirror returns the mirror the client keeps up to date
func (c *Client) Mirror() *Mirror {
	return c.mirror
}

// Connected reports whether a stream is currently open
func (c *Client) Connected() bool {
	return c.connected.Load()
}

// Run streams until ctx is cancelled
func (c *Client) Run(ctx context.Context) error {
	for {
		err := c.stream(ctx)
		c.connected.Store(false)
		if ctx.Err() != nil {
			return nil
		}
		log.Warn().
			Err(err).
			Str("url", c.config.URL).
			Dur("retry_in", c.config.ReconnectDelay).
			Msg("event stream lost")

		timer := c.config.Clock.NewTimer(c.config.ReconnectDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.Chan():
		}
	}
}

// stream runs one connection until it ends
func (c *Client) stream(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.URL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.config.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	c.connected.Store(true)
	log.Info().Str("url", c.config.URL).Msg("connected to event stream")

	err = ReadFrames(resp.Body, func(f Frame) error {
		result, err := c.mirror.Apply(f.Name, f.Data)
		if err != nil {
			log.Warn().Err(err).Str("event", string(f.Name)).Msg("ignoring malformed event")
			return nil
		}
		if c.config.OnEvent != nil {
			c.config.OnEvent(result)
		}
		return nil
	})
	if err == nil {
		err = errors.New("stream closed by server")
	}
	return err
}

// Notification formats a goal the way the scoreboard's event feed shows it
func Notification(goal events.ScoreUpdatePayload) string {
	return fmt.Sprintf("%s scored! %d-%d", goal.Scorer, goal.HomeScore, goal.AwayScore)
}
