package models

// MatchStatus is the phase a match is currently in. The values are the
// labels sent over the wire.
type MatchStatus string

const (
	MatchStatusNotStarted MatchStatus = "Not Started"
	MatchStatusFirstHalf  MatchStatus = "1st Half"
	MatchStatusHalfTime   MatchStatus = "Half Time"
	MatchStatusSecondHalf MatchStatus = "2nd Half"
	MatchStatusFullTime   MatchStatus = "Full Time"
)

// Live reports whether the clock and the goal generator act on a match in this status.
func (s MatchStatus) Live() bool {
	return s != MatchStatusNotStarted && s != MatchStatusFullTime
}

// Rank orders statuses so that transitions can be checked to be strictly forward.
func (s MatchStatus) Rank() int {
	switch s {
	case MatchStatusNotStarted:
		return 0
	case MatchStatusFirstHalf:
		return 1
	case MatchStatusHalfTime:
		return 2
	case MatchStatusSecondHalf:
		return 3
	case MatchStatusFullTime:
		return 4
	default:
		return -1
	}
}

// Match represents a single fixture on the scoreboard
type Match struct {
	ID          int         `json:"id" yaml:"id" validate:"gt=0"`
	HomeTeam    string      `json:"homeTeam" yaml:"home_team" validate:"required"`
	AwayTeam    string      `json:"awayTeam" yaml:"away_team" validate:"required"`
	HomeScore   int         `json:"homeScore" yaml:"home_score" validate:"gte=0"`
	AwayScore   int         `json:"awayScore" yaml:"away_score" validate:"gte=0"`
	Status      MatchStatus `json:"status" yaml:"status" validate:"oneof='Not Started' '1st Half' 'Half Time' '2nd Half' 'Full Time'"`
	Minute      int         `json:"minute" yaml:"minute" validate:"gte=0"`
	Competition string      `json:"competition" yaml:"competition"`
	HomeLogo    string      `json:"homeLogo" yaml:"home_logo"`
	AwayLogo    string      `json:"awayLogo" yaml:"away_logo"`
	GoalHistory []GoalEvent `json:"goalHistory" yaml:"goal_history" validate:"dive"`
}

// GoalEvent is one entry in a match's goal history
type GoalEvent struct {
	Team       string `json:"team" yaml:"team" validate:"required"`
	Scorer     string `json:"scorer" yaml:"scorer" validate:"required"`
	Minute     int    `json:"minute" yaml:"minute" validate:"gte=1,lte=90"`
	IsHomeTeam bool   `json:"isHomeTeam" yaml:"is_home_team"`
}

// Clone returns a deep copy of the match. GoalHistory is never nil in the copy
// so that it serializes as an empty array.
func (m Match) Clone() Match {
	history := make([]GoalEvent, len(m.GoalHistory))
	copy(history, m.GoalHistory)
	m.GoalHistory = history
	return m
}

// TeamName returns the name of the home or away side.
func (m Match) TeamName(home bool) string {
	if home {
		return m.HomeTeam
	}
	return m.AwayTeam
}

// GoalCounts counts goal history entries per side.
func (m Match) GoalCounts() (home, away int) {
	for _, g := range m.GoalHistory {
		if g.IsHomeTeam {
			home++
		} else {
			away++
		}
	}
	return home, away
}

// ScoreConsistent reports whether the score counters agree with the goal history.
func (m Match) ScoreConsistent() bool {
	home, away := m.GoalCounts()
	return home == m.HomeScore && away == m.AwayScore
}

// RecordGoal credits a goal to the side named by the event and appends it to the history.
func (m *Match) RecordGoal(goal GoalEvent) {
	if goal.IsHomeTeam {
		m.HomeScore++
	} else {
		m.AwayScore++
	}
	m.GoalHistory = append(m.GoalHistory, goal)
}
