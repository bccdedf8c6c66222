package match

import (
	"context"

	"github.com/mcdev12/scoreboard/go/internal/models"
)

// scriptedRand replays fixed draws so scenarios are reproducible
type scriptedRand struct {
	floats []float64
	ints   []int
}

func (s *scriptedRand) Float64() float64 {
	f := s.floats[0]
	s.floats = s.floats[1:]
	return f
}

func (s *scriptedRand) IntN(n int) int {
	i := s.ints[0]
	s.ints = s.ints[1:]
	return i % n
}

func testMatch(id int, status models.MatchStatus, minute int) models.Match {
	return models.Match{
		ID:          id,
		HomeTeam:    "Manchester United",
		AwayTeam:    "Liverpool",
		Status:      status,
		Minute:      minute,
		Competition: "Premier League",
		HomeLogo:    "MU",
		AwayLogo:    "LIV",
		GoalHistory: []models.GoalEvent{},
	}
}

type recordingPublisher struct {
	goals    []Goal
	statuses []StatusChange
	err      error
}

func (p *recordingPublisher) PublishGoal(_ context.Context, goal Goal) error {
	p.goals = append(p.goals, goal)
	return p.err
}

func (p *recordingPublisher) PublishStatus(_ context.Context, change StatusChange) error {
	p.statuses = append(p.statuses, change)
	return p.err
}
