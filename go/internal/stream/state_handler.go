package stream

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/mcdev12/scoreboard/go/internal/match"
	"github.com/rs/zerolog/log"
)

// SessionInfo describes one active stream session
type SessionInfo struct {
	ID          string    `json:"id"`
	Transport   string    `json:"transport"`
	State       string    `json:"state"`
	Interval    string    `json:"interval"`
	ConnectedAt time.Time `json:"connected_at"`
}

// StateHandler serves point-in-time match snapshots
type StateHandler struct {
	matches           MatchSource
	connectionManager *ConnectionManager
}

// NewStateHandler creates a new state handler
func NewStateHandler(matches MatchSource, cm *ConnectionManager) *StateHandler {
	return &StateHandler{
		matches:           matches,
		connectionManager: cm,
	}
}

// HandleGetMatches handles GET /api/matches
func (h *StateHandler) HandleGetMatches(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.matches.Matches())
}

// HandleGetMatch handles GET /api/matches/{id}
func (h *StateHandler) HandleGetMatch(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid match ID format", http.StatusBadRequest)
		return
	}

	m, err := h.matches.Match(id)
	if err != nil {
		if errors.Is(err, match.ErrMatchNotFound) {
			http.Error(w, "Match not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Int("match_id", id).Msg("failed to get match")
		http.Error(w, "Failed to get match", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, m)
}

// HandleConnectionStats handles GET /api/stats
func (h *StateHandler) HandleConnectionStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.connectionManager.GetConnectionStats())
}

// HandleGetSession handles GET /api/sessions/{id}
func (h *StateHandler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.connectionManager.Session(r.PathValue("id"))
	if !ok {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, SessionInfo{
		ID:          s.ID,
		Transport:   s.Transport,
		State:       s.State().String(),
		Interval:    s.Interval.String(),
		ConnectedAt: s.ConnectedAt,
	})
}

// RegisterStateRoutes registers state-related HTTP routes
func (h *StateHandler) RegisterStateRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/matches", h.HandleGetMatches)
	mux.HandleFunc("GET /api/matches/{id}", h.HandleGetMatch)
	mux.HandleFunc("GET /api/stats", h.HandleConnectionStats)
	mux.HandleFunc("GET /api/sessions/{id}", h.HandleGetSession)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
