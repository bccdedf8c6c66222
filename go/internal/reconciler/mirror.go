package reconciler

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/mcdev12/scoreboard/go/internal/events"
	"github.com/mcdev12/scoreboard/go/internal/match"
	"github.com/mcdev12/scoreboard/go/internal/models"
)

// Result describes what applying one event did to the mirror
type Result struct {
	Name    events.Name
	Applied bool
	Goal    *events.ScoreUpdatePayload
}

// Mirror is a local copy of the server's match set keyed by match id
type Mirror struct {
	mu      sync.RWMutex
	matches map[int]models.Match
}

// NewMirror creates an empty mirror
func NewMirror() *Mirror {
	return &Mirror{
		matches: make(map[int]models.Match),
	}
}

// Apply reconciles one stream event into the mirror. Unknown event names and
// unknown match ids are ignored; only a payload that cannot be decoded is an error.
func (m *Mirror) Apply(name events.Name, data []byte) (Result, error) {
	result := Result{Name: name}

	switch name {
	case events.NameInitial, events.NameMatchesUpdate:
		var payload events.MatchesPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return result, fmt.Errorf("decode %s: %w", name, err)
		}
		m.applySnapshot(payload.Matches, name == events.NameInitial)
		result.Applied = true

	case events.NameScoreUpdate:
		var payload events.ScoreUpdatePayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return result, fmt.Errorf("decode %s: %w", name, err)
		}
		result.Goal = &payload
		result.Applied = m.update(payload.MatchID, func(mt *models.Match) {
			mt.HomeScore = payload.HomeScore
			mt.AwayScore = payload.AwayScore
		})

	case events.NameStatusUpdate:
		var payload events.StatusUpdatePayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return result, fmt.Errorf("decode %s: %w", name, err)
		}
		result.Applied = m.update(payload.MatchID, func(mt *models.Match) {
			mt.Status = payload.Status
			mt.Minute = payload.Minute
		})
	}

	return result, nil
}

// applySnapshot merges full match snapshots. A replace drops matches missing from
// the snapshot, which is what a fresh session's initial event means.
func (m *Mirror) applySnapshot(matches []models.Match, replace bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if replace {
		m.matches = make(map[int]models.Match, len(matches))
	}
	for _, mt := range matches {
		m.matches[mt.ID] = mt.Clone()
	}
}

func (m *Mirror) update(id int, fn func(mt *models.Match)) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	mt, exists := m.matches[id]
	if !exists {
		return false
	}
	fn(&mt)
	m.matches[id] = mt
	return true
}

// Matches returns the mirrored matches ordered by id
func (m *Mirror) Matches() []models.Match {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Match, 0, len(m.matches))
	for _, mt := range m.matches {
		out = append(out, mt.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Match returns one mirrored match
func (m *Mirror) Match(id int) (models.Match, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	mt, ok := m.matches[id]
	if !ok {
		return models.Match{}, false
	}
	return mt.Clone(), true
}

// SimulateGoal credits a random goal to a random unfinished match in the mirror only.
// The server never sees it; the next snapshot from the server overwrites it.
func (m *Mirror) SimulateGoal(rng match.RandSource, roster match.Roster) (int, models.GoalEvent, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]int, 0, len(m.matches))
	for id := range m.matches {
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return 0, models.GoalEvent{}, false
	}
	sort.Ints(ids)

	id := ids[rng.IntN(len(ids))]
	mt := m.matches[id]
	if mt.Status == models.MatchStatusFullTime {
		return 0, models.GoalEvent{}, false
	}

	isHome := rng.Float64() > 0.5
	scorers := roster.Side(isHome)
	goal := models.GoalEvent{
		Team:       mt.TeamName(isHome),
		Scorer:     scorers[rng.IntN(len(scorers))],
		Minute:     rng.IntN(90) + 1,
		IsHomeTeam: isHome,
	}

	mt = mt.Clone()
	mt.RecordGoal(goal)
	m.matches[id] = mt
	return id, goal, true
}
