package events

import "github.com/mcdev12/scoreboard/go/internal/models"

// Event payload types shared by the stream server, the reconciler and the NATS mirror

// Name is the name of a stream event
type Name string

const (
	NameInitial       Name = "initial"
	NameScoreUpdate   Name = "score_update"
	NameStatusUpdate  Name = "status_update"
	NameMatchesUpdate Name = "matches_update"
)

// Values of the "type" discriminator inside payloads
const (
	TypeGoal         = "goal"
	TypeStatusUpdate = "status_update"
)

// MatchesPayload is the payload of initial and matches_update events
type MatchesPayload struct {
	Matches []models.Match `json:"matches"`
}

// ScoreUpdatePayload is the payload of a score_update event
type ScoreUpdatePayload struct {
	Type       string `json:"type"`
	MatchID    int    `json:"matchId"`
	IsHomeTeam bool   `json:"isHomeTeam"`
	Scorer     string `json:"scorer"`
	Minute     int    `json:"minute"`
	HomeScore  int    `json:"homeScore"`
	AwayScore  int    `json:"awayScore"`
}

// StatusUpdatePayload is the payload of a status_update event
type StatusUpdatePayload struct {
	Type    string             `json:"type"`
	MatchID int                `json:"matchId"`
	Status  models.MatchStatus `json:"status"`
	Minute  int                `json:"minute"`
}

// NewScoreUpdate builds a score_update payload for a goal
func NewScoreUpdate(matchID int, goal models.GoalEvent, homeScore, awayScore int) ScoreUpdatePayload {
	return ScoreUpdatePayload{
		Type:       TypeGoal,
		MatchID:    matchID,
		IsHomeTeam: goal.IsHomeTeam,
		Scorer:     goal.Scorer,
		Minute:     goal.Minute,
		HomeScore:  homeScore,
		AwayScore:  awayScore,
	}
}

// NewStatusUpdate builds a status_update payload
func NewStatusUpdate(matchID int, status models.MatchStatus, minute int) StatusUpdatePayload {
	return StatusUpdatePayload{
		Type:    TypeStatusUpdate,
		MatchID: matchID,
		Status:  status,
		Minute:  minute,
	}
}

// NewMatchesPayload wraps a snapshot; a nil snapshot is sent as an empty array
func NewMatchesPayload(matches []models.Match) MatchesPayload {
	if matches == nil {
		matches = []models.Match{}
	}
	return MatchesPayload{Matches: matches}
}
