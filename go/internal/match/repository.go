package match

import (
	"fmt"
	"sync"

	"github.com/mcdev12/scoreboard/go/internal/models"
)

// Repository is the in-memory store of the process-wide match set.
// The set is fixed at construction; matches are only mutated in place through Update.
type Repository struct {
	mu      sync.Mutex
	matches []*models.Match
	byID    map[int]*models.Match
}

// NewRepository creates a repository holding copies of the seed matches
func NewRepository(seed []models.Match) (*Repository, error) {
	r := &Repository{
		matches: make([]*models.Match, 0, len(seed)),
		byID:    make(map[int]*models.Match, len(seed)),
	}

	for _, m := range seed {
		if _, exists := r.byID[m.ID]; exists {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateMatchID, m.ID)
		}
		clone := m.Clone()
		r.matches = append(r.matches, &clone)
		r.byID[m.ID] = &clone
	}

	return r, nil
}

// ListMatches returns a snapshot of every match in seed order
func (r *Repository) ListMatches() []models.Match {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot()
}

// GetMatch returns a snapshot of a single match
func (r *Repository) GetMatch(id int) (models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, exists := r.byID[id]
	if !exists {
		return models.Match{}, fmt.Errorf("%w: %d", ErrMatchNotFound, id)
	}
	return m.Clone(), nil
}

// Update runs fn with exclusive access to the live matches and returns a snapshot
// taken before the lock is released. fn must not retain the pointers.
func (r *Repository) Update(fn func(matches []*models.Match)) []models.Match {
	r.mu.Lock()
	defer r.mu.Unlock()

	fn(r.matches)
	return r.snapshot()
}

func (r *Repository) snapshot() []models.Match {
	out := make([]models.Match, len(r.matches))
	for i, m := range r.matches {
		out[i] = m.Clone()
	}
	return out
}
