package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ayusman/airsketch/internal/store"
)

// DefaultListLimit caps stroke listings without an explicit limit.
const DefaultListLimit = 100

// JournalHandler serves the stroke journal.
type JournalHandler struct {
	store *store.Store
}

// NewJournalHandler creates a new JournalHandler with the given store.
func NewJournalHandler(s *store.Store) *JournalHandler {
	return &JournalHandler{store: s}
}

// ServeHTTP routes /api/strokes, /api/strokes/{id} and /api/clears.
func (h *JournalHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if r.URL.Path == "/api/clears" {
		h.listClears(w, r)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/strokes")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		h.listStrokes(w, r)
		return
	}
	h.getStroke(w, r, path)
}

type listStrokesResponse struct {
	Strokes []*store.Stroke `json:"strokes"`
	Total   int             `json:"total"`
	DrawMs  uint64          `json:"draw_ms"`
}

type listClearsResponse struct {
	Clears []*store.Clear `json:"clears"`
}

// listStrokes handles GET /api/strokes?limit=N, newest first.
func (h *JournalHandler) listStrokes(w http.ResponseWriter, r *http.Request) {
	limit := DefaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			WriteError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	strokes, err := h.store.Strokes().List(limit)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "failed to list strokes")
		return
	}
	total, err := h.store.Strokes().Count()
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "failed to count strokes")
		return
	}
	drawMs, err := h.store.Strokes().TotalDrawMs()
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "failed to sum draw time")
		return
	}

	if strokes == nil {
		strokes = []*store.Stroke{}
	}
	WriteJSON(w, http.StatusOK, listStrokesResponse{Strokes: strokes, Total: total, DrawMs: drawMs})
}

// getStroke handles GET /api/strokes/{id}.
func (h *JournalHandler) getStroke(w http.ResponseWriter, r *http.Request, id string) {
	st, err := h.store.Strokes().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "stroke not found")
			return
		}
		WriteError(w, http.StatusInternalServerError, "failed to get stroke")
		return
	}
	WriteJSON(w, http.StatusOK, st)
}

// listClears handles GET /api/clears.
func (h *JournalHandler) listClears(w http.ResponseWriter, r *http.Request) {
	clears, err := h.store.Clears().List()
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "failed to list clears")
		return
	}
	if clears == nil {
		clears = []*store.Clear{}
	}
	WriteJSON(w, http.StatusOK, listClearsResponse{Clears: clears})
}
