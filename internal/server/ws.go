package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/airsketch/internal/cursor"
)

const (
	// clientBuffer is the number of queued events per client before new
	// events for it are dropped.
	clientBuffer = 32
	writeTimeout = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// Event types sent over /api/events.
const (
	EventChanged = "changed"
	EventCursor  = "cursor"
)

type changedEvent struct {
	Type string `json:"type"`
}

type cursorEvent struct {
	Type string `json:"type"`
	cursor.State
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// EventsHandler broadcasts drawing changes and cursor updates via WebSocket.
type EventsHandler struct {
	clients map[*client]bool
	mu      sync.RWMutex
	logger  *slog.Logger
}

// NewEventsHandler creates an EventsHandler with no clients.
func NewEventsHandler(logger *slog.Logger) *EventsHandler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &EventsHandler{
		clients: make(map[*client]bool),
		logger:  logger,
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade", "error", err)
		return
	}
	defer conn.Close()

	c := &client{conn: conn, send: make(chan []byte, clientBuffer)}

	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, c)
		h.mu.Unlock()
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Keep connection alive by reading messages
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case msg := <-c.send:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}
}

// Changed broadcasts that the drawing content changed.
func (h *EventsHandler) Changed() {
	h.broadcast(changedEvent{Type: EventChanged})
}

// Cursor broadcasts a cursor update.
func (h *EventsHandler) Cursor(s cursor.State) {
	h.broadcast(cursorEvent{Type: EventCursor, State: s})
}

// Clients returns the number of connected clients.
func (h *EventsHandler) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// broadcast queues ev for every client. A client that is not keeping up
// misses the event.
func (h *EventsHandler) broadcast(ev any) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.clients) == 0 {
		return
	}

	msg, err := json.Marshal(ev)
	if err != nil {
		h.logger.Warn("encoding event", "error", err)
		return
	}

	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
		}
	}
}
