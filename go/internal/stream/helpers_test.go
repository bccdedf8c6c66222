package stream

import (
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/mcdev12/scoreboard/go/internal/events"
	"github.com/mcdev12/scoreboard/go/internal/match"
	"github.com/mcdev12/scoreboard/go/internal/models"
	"github.com/stretchr/testify/require"
)

const waitTimeout = 2 * time.Second

var errBrokenPipe = errors.New("broken pipe")

type recordedEvent struct {
	Name    events.Name
	Payload any
}

// recordingSink captures sent events; failOn makes the first send of that event fail
type recordingSink struct {
	out    chan recordedEvent
	mu     sync.Mutex
	failOn events.Name
}

func newRecordingSink() *recordingSink {
	return &recordingSink{out: make(chan recordedEvent, 256)}
}

func (s *recordingSink) Send(name events.Name, payload any) error {
	s.mu.Lock()
	fail := s.failOn != "" && s.failOn == name
	s.mu.Unlock()
	if fail {
		return errBrokenPipe
	}
	s.out <- recordedEvent{Name: name, Payload: payload}
	return nil
}

func (s *recordingSink) next(t *testing.T) recordedEvent {
	t.Helper()
	select {
	case e := <-s.out:
		return e
	case <-time.After(waitTimeout):
		t.Fatalf("timeout while waiting for event")
		return recordedEvent{}
	}
}

func (s *recordingSink) expectNone(t *testing.T, within time.Duration) {
	t.Helper()
	select {
	case e := <-s.out:
		t.Fatalf("unexpected event %s", e.Name)
	case <-time.After(within):
	}
}

func newMatchService(t *testing.T, seed []models.Match, goalProbability float64) *match.Service {
	t.Helper()
	repo, err := match.NewRepository(seed)
	require.NoError(t, err)

	cfg := match.DefaultGeneratorConfig()
	cfg.GoalProbability = goalProbability
	return match.NewService(repo, match.NewGenerator(rand.New(rand.NewPCG(3, 5)), cfg), nil)
}

func liveSeed() []models.Match {
	return []models.Match{
		{ID: 1, HomeTeam: "Manchester United", AwayTeam: "Liverpool", Status: models.MatchStatusFirstHalf, Minute: 10},
		{ID: 2, HomeTeam: "Barcelona", AwayTeam: "Real Madrid", Status: models.MatchStatusNotStarted},
		{ID: 3, HomeTeam: "Bayern Munich", AwayTeam: "PSG", Status: models.MatchStatusFullTime, Minute: 90},
	}
}
