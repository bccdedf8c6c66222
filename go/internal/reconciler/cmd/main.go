package main

import (
	"context"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/scoreboard/go/internal/events"
	"github.com/mcdev12/scoreboard/go/internal/match"
	"github.com/mcdev12/scoreboard/go/internal/reconciler"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("could not load .env file")
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	url := getEnv("SCOREBOARD_EVENTS_URL", "http://localhost:3000/events")
	manualGoalEvery := getEnvAsDuration("MANUAL_GOAL_INTERVAL", 0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mirror := reconciler.NewMirror()
	client := reconciler.NewClient(reconciler.ClientConfig{
		URL:     url,
		OnEvent: logResult(mirror),
	}, mirror)

	if manualGoalEvery > 0 {
		go simulateGoals(ctx, clockwork.NewRealClock(), mirror, manualGoalEvery, nil)
	}

	log.Info().Str("url", url).Msg("watching scoreboard")
	if err := client.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("watcher failed")
	}
	log.Info().Msg("watcher stopped")
}

func logResult(mirror *reconciler.Mirror) func(reconciler.Result) {
	return func(r reconciler.Result) {
		switch r.Name {
		case events.NameScoreUpdate:
			if r.Goal != nil {
				log.Info().Int("match_id", r.Goal.MatchID).Msg(reconciler.Notification(*r.Goal))
			}
		case events.NameInitial, events.NameMatchesUpdate:
			for _, m := range mirror.Matches() {
				log.Debug().
					Int("match_id", m.ID).
					Str("status", string(m.Status)).
					Int("minute", m.Minute).
					Msgf("%s %d-%d %s", m.HomeTeam, m.HomeScore, m.AwayScore, m.AwayTeam)
			}
		}
	}
}

// simulateGoals is the local-only "add goal" affordance: it never reaches the server.
// onGoal, when set, is called after each simulated goal.
func simulateGoals(ctx context.Context, clock clockwork.Clock, mirror *reconciler.Mirror, every time.Duration, onGoal func(id int)) {
	rng := rand.New(rand.NewPCG(uint64(clock.Now().UnixNano()), 0))
	ticker := clock.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			id, goal, ok := mirror.SimulateGoal(rng, match.DefaultRoster())
			if !ok {
				continue
			}
			log.Info().
				Int("match_id", id).
				Msgf("[Manual] %s scored for %s!", goal.Scorer, goal.Team)
			if onGoal != nil {
				onGoal(id)
			}
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
