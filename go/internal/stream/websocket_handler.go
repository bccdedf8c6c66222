package stream

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mcdev12/scoreboard/go/internal/events"
	"github.com/rs/zerolog/log"
)

// TransportWebSocket names sessions served over a WebSocket
const TransportWebSocket = "websocket"

// Frame is the JSON envelope of one event on the WebSocket transport
type Frame struct {
	Event events.Name `json:"event"`
	Data  any         `json:"data"`
}

// wsSink writes each event as a JSON text message
type wsSink struct {
	conn         *websocket.Conn
	writeTimeout time.Duration
}

func (s *wsSink) Send(name events.Name, payload any) error {
	if s.writeTimeout > 0 {
		if err := s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
			return err
		}
	}
	return s.conn.WriteJSON(Frame{Event: name, Data: payload})
}

// WebSocketHandler handles WebSocket upgrade requests for match streams
type WebSocketHandler struct {
	service  *Service
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(service *Service) *WebSocketHandler {
	cfg := service.config
	return &WebSocketHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin:     cfg.CheckOrigin,
		},
	}
}

// HandleConnection upgrades the request and runs a stream session over it
func (h *WebSocketHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	if h.service.Stopped() {
		http.Error(w, "Server is shutting down", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error response
		log.Error().Err(err).Str("remote_addr", r.RemoteAddr).Msg("failed to upgrade WebSocket connection")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go h.readPump(conn, cancel)

	cfg := h.service.config
	sink := &wsSink{conn: conn, writeTimeout: cfg.WriteTimeout}
	if err := h.service.RunSession(ctx, TransportWebSocket, sink); err != nil {
		log.Debug().Err(err).Str("remote_addr", r.RemoteAddr).Msg("WebSocket session ended before opening")
		return
	}

	deadline := time.Now().Add(cfg.WriteTimeout)
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = conn.WriteControl(websocket.CloseMessage, msg, deadline)
}

// readPump discards client messages and cancels the session when the client goes away
func (h *WebSocketHandler) readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	cfg := h.service.config
	conn.SetReadLimit(cfg.MaxMessageSize)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Debug().Err(err).Msg("unexpected WebSocket close error")
			}
			return
		}
	}
}

// RegisterRoutes registers WebSocket routes with an HTTP mux
func (h *WebSocketHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /ws/events", h.HandleConnection)
}
