package match

import (
	"context"

	"github.com/mcdev12/scoreboard/go/internal/models"
	"github.com/rs/zerolog/log"
)

// EventPublisher mirrors tick results to an external sink
type EventPublisher interface {
	PublishGoal(ctx context.Context, goal Goal) error
	PublishStatus(ctx context.Context, change StatusChange) error
}

// NoOpPublisher is used when no external mirror is configured
type NoOpPublisher struct{}

func (NoOpPublisher) PublishGoal(ctx context.Context, goal Goal) error            { return nil }
func (NoOpPublisher) PublishStatus(ctx context.Context, change StatusChange) error { return nil }

// MatchUpdate is what happened to one live match during a tick
type MatchUpdate struct {
	Goal   *Goal
	Status StatusChange
}

// TickResult is the ordered outcome of one tick over the whole match set
type TickResult struct {
	Updates []MatchUpdate
	Matches []models.Match
}

// Service drives the simulation over the shared match set
type Service struct {
	repo      *Repository
	generator *Generator
	publisher EventPublisher
}

// NewService creates a new match service
func NewService(repo *Repository, generator *Generator, publisher EventPublisher) *Service {
	if publisher == nil {
		publisher = NoOpPublisher{}
	}
	return &Service{
		repo:      repo,
		generator: generator,
		publisher: publisher,
	}
}

// Matches returns a snapshot of all matches
func (s *Service) Matches() []models.Match {
	return s.repo.ListMatches()
}

// Match returns a snapshot of one match
func (s *Service) Match(id int) (models.Match, error) {
	return s.repo.GetMatch(id)
}

// Tick runs the goal generator and then the status clock for every live match.
// The whole tick holds the repository lock, so ticks from different sessions
// never interleave.
func (s *Service) Tick(ctx context.Context) TickResult {
	var updates []MatchUpdate
	snapshot := s.repo.Update(func(matches []*models.Match) {
		for _, m := range matches {
			if !m.Status.Live() {
				continue
			}
			goal := s.generator.MaybeScore(m)
			change := Advance(m)
			updates = append(updates, MatchUpdate{Goal: goal, Status: change})
		}
	})

	s.publish(ctx, updates)

	return TickResult{
		Updates: updates,
		Matches: snapshot,
	}
}

func (s *Service) publish(ctx context.Context, updates []MatchUpdate) {
	for _, u := range updates {
		if u.Goal != nil {
			if err := s.publisher.PublishGoal(ctx, *u.Goal); err != nil {
				log.Warn().Err(err).Int("match_id", u.Goal.MatchID).Msg("failed to publish goal")
			}
		}
		if err := s.publisher.PublishStatus(ctx, u.Status); err != nil {
			log.Warn().Err(err).Int("match_id", u.Status.MatchID).Msg("failed to publish status change")
		}
	}
}
