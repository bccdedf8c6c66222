package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/mcdev12/scoreboard/go/internal/events"
	"github.com/mcdev12/scoreboard/go/internal/match"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// NATSConfig holds configuration for the NATS event mirror
type NATSConfig struct {
	URL           string
	SubjectPrefix string
	MaxReconnects int
	ReconnectWait time.Duration
}

// DefaultNATSConfig returns default NATS mirror configuration
func DefaultNATSConfig() NATSConfig {
	return NATSConfig{
		URL:           nats.DefaultURL,
		SubjectPrefix: "scoreboard.events",
		MaxReconnects: -1, // Infinite
		ReconnectWait: 2 * time.Second,
	}
}

// natsConn is the subset of *nats.Conn the publisher uses
type natsConn interface {
	PublishMsg(m *nats.Msg) error
	Close()
}

// NATSPublisher mirrors goal and status events onto NATS subjects
// of the form <prefix>.<event>.<matchId>
type NATSPublisher struct {
	nc     natsConn
	config NATSConfig
}

// NewNATSPublisher connects to NATS and returns a publisher
func NewNATSPublisher(cfg NATSConfig) (*NATSPublisher, error) {
	opts := []nats.Option{
		nats.Name("scoreboard"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	return newNATSPublisher(nc, cfg), nil
}

func newNATSPublisher(nc natsConn, cfg NATSConfig) *NATSPublisher {
	if cfg.SubjectPrefix == "" {
		cfg.SubjectPrefix = DefaultNATSConfig().SubjectPrefix
	}
	return &NATSPublisher{nc: nc, config: cfg}
}

// PublishGoal publishes a score_update payload
func (p *NATSPublisher) PublishGoal(ctx context.Context, goal match.Goal) error {
	payload := events.NewScoreUpdate(goal.MatchID, goal.Event, goal.HomeScore, goal.AwayScore)
	return p.publish(events.NameScoreUpdate, goal.MatchID, payload)
}

// PublishStatus publishes a status_update payload
func (p *NATSPublisher) PublishStatus(ctx context.Context, change match.StatusChange) error {
	payload := events.NewStatusUpdate(change.MatchID, change.Status, change.Minute)
	return p.publish(events.NameStatusUpdate, change.MatchID, payload)
}

func (p *NATSPublisher) publish(name events.Name, matchID int, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}

	subject := Subject(p.config.SubjectPrefix, name, matchID)
	msg := &nats.Msg{
		Subject: subject,
		Data:    data,
		Header: nats.Header{
			"Event-Type": []string{string(name)},
			"Match-ID":   []string{strconv.Itoa(matchID)},
		},
	}
	if err := p.nc.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish to NATS: %w", err)
	}

	log.Debug().
		Str("subject", subject).
		Int("match_id", matchID).
		Msg("published to NATS")
	return nil
}

// Close closes the NATS connection. Mirrored events are fire-and-forget.
func (p *NATSPublisher) Close() error {
	if p.nc != nil {
		p.nc.Close()
	}
	return nil
}

// Subject builds the NATS subject for an event about one match
func Subject(prefix string, name events.Name, matchID int) string {
	return fmt.Sprintf("%s.%s.%d", prefix, name, matchID)
}
