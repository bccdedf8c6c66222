package match

import (
	"github.com/mcdev12/scoreboard/go/internal/models"
)

// DefaultGoalProbability is the chance that a live match produces a goal on a tick
const DefaultGoalProbability = 0.3

// RandSource is the random source the generator draws from.
// *rand.Rand from math/rand/v2 satisfies it.
type RandSource interface {
	Float64() float64
	IntN(n int) int
}

// Roster holds the fixed scorer names bound to each side
type Roster struct {
	Home []string `yaml:"home" validate:"required,min=1,dive,required"`
	Away []string `yaml:"away" validate:"required,min=1,dive,required"`
}

// DefaultRoster returns the built-in scorer names
func DefaultRoster() Roster {
	return Roster{
		Home: []string{"Ronaldo", "Rashford", "Fernandes"},
		Away: []string{"Salah", "Nunez", "Jota"},
	}
}

// Side returns the roster for the home or away side
func (r Roster) Side(home bool) []string {
	if home {
		return r.Home
	}
	return r.Away
}

// GeneratorConfig tunes the goal generator
type GeneratorConfig struct {
	GoalProbability float64
	// MinuteFromClock ties a goal's minute to the match clock instead of drawing
	// it uniformly from the active half.
	MinuteFromClock bool
	Roster          Roster
}

// DefaultGeneratorConfig returns the default generator configuration
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		GoalProbability: DefaultGoalProbability,
		Roster:          DefaultRoster(),
	}
}

// Goal is a goal produced by the generator together with the updated score
type Goal struct {
	MatchID   int
	Event     models.GoalEvent
	HomeScore int
	AwayScore int
}

// Generator randomly produces goal events for live matches.
// It is not safe for concurrent use; the Service serializes calls.
type Generator struct {
	rng    RandSource
	config GeneratorConfig
}

// NewGenerator creates a new goal generator
func NewGenerator(rng RandSource, config GeneratorConfig) *Generator {
	if len(config.Roster.Home) == 0 || len(config.Roster.Away) == 0 {
		config.Roster = DefaultRoster()
	}
	return &Generator{
		rng:    rng,
		config: config,
	}
}

// MaybeScore decides whether a goal happens on this tick. When it does, the goal is
// recorded on the match and returned; otherwise nil is returned and the match is unchanged.
// Any live match can score, including one at Half Time.
func (g *Generator) MaybeScore(m *models.Match) *Goal {
	if !m.Status.Live() {
		return nil
	}
	if g.rng.Float64() >= g.config.GoalProbability {
		return nil
	}

	isHome := g.rng.Float64() > 0.5
	roster := g.config.Roster.Side(isHome)
	scorer := roster[g.rng.IntN(len(roster))]

	event := models.GoalEvent{
		Team:       m.TeamName(isHome),
		Scorer:     scorer,
		Minute:     g.goalMinute(m),
		IsHomeTeam: isHome,
	}
	m.RecordGoal(event)

	return &Goal{
		MatchID:   m.ID,
		Event:     event,
		HomeScore: m.HomeScore,
		AwayScore: m.AwayScore,
	}
}

// goalMinute draws from the first half only while it is being played;
// a goal at Half Time is credited to the second half.
func (g *Generator) goalMinute(m *models.Match) int {
	first, last := 1, halfTimeMinute
	if m.Status != models.MatchStatusFirstHalf {
		first, last = secondHalfStart, fullTimeMinute
	}

	if g.config.MinuteFromClock {
		return min(max(m.Minute, first), last)
	}
	return first + g.rng.IntN(last-first+1)
}
