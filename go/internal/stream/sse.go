package stream

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mcdev12/scoreboard/go/internal/events"
	"github.com/rs/zerolog/log"
)

// TransportSSE names sessions served as text/event-stream
const TransportSSE = "sse"

// sseSink writes frames of the form "event: <name>\ndata: <json>\n\n"
type sseSink struct {
	w            http.ResponseWriter
	rc           *http.ResponseController
	writeTimeout time.Duration
}

// newSSESink writes the stream headers and the reconnect hint
func newSSESink(w http.ResponseWriter, writeTimeout, retry time.Duration) (*sseSink, error) {
	s := &sseSink{
		w:            w,
		rc:           http.NewResponseController(w),
		writeTimeout: writeTimeout,
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	s.extendDeadline()
	if retry > 0 {
		if _, err := fmt.Fprintf(w, "retry: %d\n\n", retry.Milliseconds()); err != nil {
			return nil, err
		}
	}
	if err := s.rc.Flush(); err != nil {
		return nil, fmt.Errorf("streaming unsupported: %w", err)
	}
	return s, nil
}

func (s *sseSink) Send(name events.Name, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", name, err)
	}

	s.extendDeadline()
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", name, data); err != nil {
		return err
	}
	return s.rc.Flush()
}

func (s *sseSink) extendDeadline() {
	if s.writeTimeout <= 0 {
		return
	}
	if err := s.rc.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil && !errors.Is(err, http.ErrNotSupported) {
		log.Debug().Err(err).Msg("failed to set SSE write deadline")
	}
}

// EventsHandler serves GET /events as a server-sent event stream
type EventsHandler struct {
	service *Service
}

// NewEventsHandler creates a new SSE handler
func NewEventsHandler(service *Service) *EventsHandler {
	return &EventsHandler{service: service}
}

// HandleEvents opens a stream session for the lifetime of the request
func (h *EventsHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	if h.service.Stopped() {
		http.Error(w, "Server is shutting down", http.StatusServiceUnavailable)
		return
	}

	cfg := h.service.config
	sink, err := newSSESink(w, cfg.WriteTimeout, cfg.RetryAfter)
	if err != nil {
		log.Error().Err(err).Str("remote_addr", r.RemoteAddr).Msg("failed to open SSE stream")
		return
	}

	if err := h.service.RunSession(r.Context(), TransportSSE, sink); err != nil {
		log.Debug().Err(err).Str("remote_addr", r.RemoteAddr).Msg("SSE session ended before opening")
	}
}

// RegisterRoutes registers the SSE route with an HTTP mux
func (h *EventsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /events", h.HandleEvents)
}
