package match

import "github.com/mcdev12/scoreboard/go/internal/models"

const (
	halfTimeMinute  = 45
	secondHalfStart = 46
	fullTimeMinute  = 90
)

// StatusChange describes a match's phase and minute after one clock step
type StatusChange struct {
	MatchID int
	Status  models.MatchStatus
	Minute  int
}

// Advance moves a live match forward by one tick and returns its new status and minute.
//
// Matches that are NotStarted or FullTime are left untouched; kickoff is a separate
// transition (see Kickoff) because the tick loop never starts a match on its own.
func Advance(m *models.Match) StatusChange {
	switch m.Status {
	case models.MatchStatusFirstHalf:
		m.Minute++
		if m.Minute >= halfTimeMinute {
			m.Status = models.MatchStatusHalfTime
		}
	case models.MatchStatusHalfTime:
		m.Status = models.MatchStatusSecondHalf
		m.Minute = secondHalfStart
	case models.MatchStatusSecondHalf:
		m.Minute++
		if m.Minute >= fullTimeMinute {
			m.Status = models.MatchStatusFullTime
		}
	}

	return StatusChange{
		MatchID: m.ID,
		Status:  m.Status,
		Minute:  m.Minute,
	}
}

// Kickoff starts a match that has not started yet. It is a no-op for any other status.
// Ticks never call it, so a seeded Not Started match stays Not Started on the server.
func Kickoff(m *models.Match) StatusChange {
	if m.Status == models.MatchStatusNotStarted {
		m.Status = models.MatchStatusFirstHalf
		m.Minute = 1
	}
	return StatusChange{
		MatchID: m.ID,
		Status:  m.Status,
		Minute:  m.Minute,
	}
}
