package main

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/scoreboard/go/internal/match"
	"github.com/mcdev12/scoreboard/go/internal/publish"
	"github.com/mcdev12/scoreboard/go/internal/stream"
	"github.com/rs/zerolog/log"
)

type Services struct {
	Matches   *match.Service
	Stream    *stream.Service
	publisher *publish.NATSPublisher
}

func setupServices(cfg *Config) (*Services, error) {
	// Wire up dependency injection chain
	// Seed → Repository → Generator → Match service → Stream service

	seed := match.DefaultMatches()
	roster := match.DefaultRoster()
	if cfg.SeedFile != "" {
		file, err := match.LoadSeedFile(cfg.SeedFile)
		if err != nil {
			return nil, err
		}
		seed = file.Matches
		if file.Roster != nil {
			roster = *file.Roster
		}
		log.Info().Str("seed_file", cfg.SeedFile).Int("matches", len(seed)).Msg("loaded seed file")
	}

	repo, err := match.NewRepository(seed)
	if err != nil {
		return nil, fmt.Errorf("failed to create match repository: %w", err)
	}

	generator := match.NewGenerator(newRand(cfg.RandomSeed), match.GeneratorConfig{
		GoalProbability: cfg.GoalProbability,
		MinuteFromClock: cfg.GoalMinuteFromClock,
		Roster:          roster,
	})

	services := &Services{}
	var publisher match.EventPublisher = match.NoOpPublisher{}
	if cfg.NATSURL != "" {
		natsCfg := publish.DefaultNATSConfig()
		natsCfg.URL = cfg.NATSURL
		natsCfg.SubjectPrefix = cfg.NATSSubjectPrefix

		p, err := publish.NewNATSPublisher(natsCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create NATS publisher: %w", err)
		}
		services.publisher = p
		publisher = p
		log.Info().Str("nats_url", cfg.NATSURL).Msg("mirroring match events to NATS")
	}

	services.Matches = match.NewService(repo, generator, publisher)

	streamCfg := stream.DefaultConfig()
	streamCfg.Connection.MinTickInterval = cfg.MinTickInterval
	streamCfg.Connection.MaxTickInterval = cfg.MaxTickInterval
	streamCfg.Connection.RetryAfter = cfg.RetryAfter
	streamCfg.Connection.CheckOrigin = checkOrigin(cfg.AllowedOrigins)
	services.Stream = stream.NewService(streamCfg, services.Matches, clockwork.NewRealClock())

	return services, nil
}

func (s *Services) Close() {
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close NATS publisher")
		}
	}
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed>>1|1))
}
