// Package server provides the HTTP host surface for the sketch: canvas
// export, statistics, reset and a websocket event stream.
package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/ayusman/airsketch/internal/cursor"
	"github.com/ayusman/airsketch/internal/server/api"
	"github.com/ayusman/airsketch/internal/store"
)

// Sketch is the drawing component served over HTTP.
type Sketch interface {
	EncodePNG(w io.Writer) error
	EncodeOverlayPNG(w io.Writer) error
	CumulativeDrawMs() uint64
	Drawing() bool
	Strokes() int
	ResetAll()
	IsEnabled() bool
	SetEnabled(enabled bool)
	Cursor() cursor.State
	OnChange(fn func()) (remove func())
	OnCursor(fn func(cursor.State)) (remove func())
}

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Sketch    Sketch
	Logger    *slog.Logger
}

// Server represents the HTTP server for the sketch.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
	events *EventsHandler
	logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
		logger: logger,
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Store != nil {
		journal := api.NewJournalHandler(s.config.Store)
		s.mux.Handle("/api/strokes", journal)
		s.mux.Handle("/api/strokes/", journal)
		s.mux.Handle("/api/clears", journal)
	}

	if s.config.Sketch != nil {
		s.mux.HandleFunc("/api/canvas.png", s.handlePNG(s.config.Sketch.EncodePNG))
		s.mux.HandleFunc("/api/overlay.png", s.handlePNG(s.config.Sketch.EncodeOverlayPNG))
		s.mux.HandleFunc("/api/stats", s.handleStats)
		s.mux.HandleFunc("/api/reset", s.handleReset)
		s.mux.HandleFunc("/api/enabled", s.handleEnabled)
		s.mux.Handle("/api/canvas/stream", NewStreamHandler(s.config.Sketch))

		s.events = NewEventsHandler(s.logger)
		s.config.Sketch.OnChange(s.events.Changed)
		s.config.Sketch.OnCursor(s.events.Cursor)
		s.mux.Handle("/api/events", s.events)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Events returns the websocket event hub, or nil without a sketch.
func (s *Server) Events() *EventsHandler {
	return s.events
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}
	api.WriteJSON(w, http.StatusOK, response)
}

// handlePNG serves an image encoded by encode. The image is buffered so an
// encoding failure still yields a clean error response.
func (s *Server) handlePNG(encode func(io.Writer) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var buf bytes.Buffer
		if err := encode(&buf); err != nil {
			s.logger.Warn("encoding png", "path", r.URL.Path, "error", err)
			api.WriteError(w, http.StatusInternalServerError, "failed to encode image")
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		w.Write(buf.Bytes())
	}
}

type statsResponse struct {
	DrawMs  uint64       `json:"draw_ms"`
	Drawing bool         `json:"drawing"`
	Strokes int          `json:"strokes"`
	Enabled bool         `json:"enabled"`
	Cursor  cursor.State `json:"cursor"`
}

// handleStats handles GET /api/stats.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sk := s.config.Sketch
	api.WriteJSON(w, http.StatusOK, statsResponse{
		DrawMs:  sk.CumulativeDrawMs(),
		Drawing: sk.Drawing(),
		Strokes: sk.Strokes(),
		Enabled: sk.IsEnabled(),
		Cursor:  sk.Cursor(),
	})
}

// handleReset handles POST /api/reset.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.config.Sketch.ResetAll()
	w.WriteHeader(http.StatusNoContent)
}

type enabledRequest struct {
	Enabled *bool `json:"enabled"`
}

// handleEnabled handles GET and PUT /api/enabled.
func (s *Server) handleEnabled(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodPut:
		var req enabledRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.WriteError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		if req.Enabled == nil {
			api.WriteError(w, http.StatusBadRequest, "enabled is required")
			return
		}
		s.config.Sketch.SetEnabled(*req.Enabled)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]bool{"enabled": s.config.Sketch.IsEnabled()})
}
