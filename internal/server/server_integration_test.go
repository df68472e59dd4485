package server

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/airsketch/internal/app"
	"github.com/ayusman/airsketch/internal/landmark"
	"github.com/ayusman/airsketch/internal/store"
)

func newIntegrationServer(t *testing.T) (*app.App, *httptest.Server) {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	cfg := app.DefaultConfig()
	cfg.Store = s
	a := app.New(cfg)
	t.Cleanup(func() { a.Close() })

	srv := New(Config{Store: s, Sketch: a})
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return a, ts
}

func dialEvents(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, h *EventsHandler, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.Clients() < n {
		if time.Now().After(deadline) {
			t.Fatalf("hub has %d clients, want %d", h.Clients(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestAPI_DrawingWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	cfg := app.DefaultConfig()
	cfg.Store = s
	a := app.New(cfg)
	defer a.Close()

	srv := New(Config{Store: s, Sketch: a})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	conn := dialEvents(t, ts)
	waitForClients(t, srv.Events(), 1)

	// 1. Draw a short stroke and release it
	frames := []landmark.Frame{
		landmark.PinchFrame(0.3, 0.5),
		landmark.PinchFrame(0.4, 0.5),
		landmark.PinchFrame(0.5, 0.5),
		landmark.OpenHandFrame(0.5, 0.5),
	}
	for i := range frames {
		a.HandleFrame(&frames[i])
	}

	// 2. The event stream reports cursor moves and content changes
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	seen := map[string]int{}
	for seen[EventCursor] < len(frames) || seen[EventChanged] < 2 {
		var ev map[string]any
		if err := conn.ReadJSON(&ev); err != nil {
			t.Fatalf("read event: %v (seen %v)", err, seen)
		}
		seen[ev["type"].(string)]++
		if ev["type"] == EventCursor {
			if _, ok := ev["visible"]; !ok {
				t.Errorf("cursor event without visibility: %v", ev)
			}
		}
	}

	client := ts.Client()

	// 3. Stats reflect the stroke
	resp, err := client.Get(ts.URL + "/api/stats")
	if err != nil {
		t.Fatalf("GET /api/stats error = %v", err)
	}
	var stats struct {
		DrawMs  uint64 `json:"draw_ms"`
		Drawing bool   `json:"drawing"`
		Strokes int    `json:"strokes"`
	}
	json.NewDecoder(resp.Body).Decode(&stats)
	resp.Body.Close()

	if stats.DrawMs != 32 || stats.Drawing || stats.Strokes != 1 {
		t.Errorf("stats = %+v, want 32 ms, idle, 1 stroke", stats)
	}

	// 4. The journal lists the stroke
	resp, err = client.Get(ts.URL + "/api/strokes")
	if err != nil {
		t.Fatalf("GET /api/strokes error = %v", err)
	}
	var listed struct {
		Strokes []store.Stroke `json:"strokes"`
	}
	json.NewDecoder(resp.Body).Decode(&listed)
	resp.Body.Close()

	if len(listed.Strokes) != 1 || listed.Strokes[0].Segments != 2 {
		t.Fatalf("journal = %+v, want one stroke of 2 segments", listed.Strokes)
	}

	// 5. Reset wipes the drawing
	resp, err = client.Post(ts.URL+"/api/reset", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /api/reset error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("POST /api/reset status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}
	if a.CumulativeDrawMs() != 0 {
		t.Errorf("draw ms after reset = %d, want 0", a.CumulativeDrawMs())
	}

	// 6. The clear is journaled
	resp, err = client.Get(ts.URL + "/api/clears")
	if err != nil {
		t.Fatalf("GET /api/clears error = %v", err)
	}
	var clears struct {
		Clears []store.Clear `json:"clears"`
	}
	json.NewDecoder(resp.Body).Decode(&clears)
	resp.Body.Close()

	if len(clears.Clears) != 1 || clears.Clears[0].DiscardedMs != 32 {
		t.Errorf("clears = %+v, want one discarding 32 ms", clears.Clears)
	}
}

func TestAPI_CanvasStream(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	a, ts := newIntegrationServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/canvas/stream", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("GET /api/canvas/stream error = %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "multipart/x-mixed-replace") {
		t.Fatalf("Content-Type = %q", ct)
	}

	a.ResetAll()

	r := bufio.NewReader(resp.Body)
	line, err := r.ReadString('\n')
	if err != nil {
		t.Fatalf("read stream: %v", err)
	}
	if line != "--frame\r\n" {
		t.Errorf("first line = %q, want frame boundary", line)
	}
	line, _ = r.ReadString('\n')
	if line != "Content-Type: image/png\r\n" {
		t.Errorf("part header = %q", line)
	}
}

// eagerSketch reports a change as soon as a listener registers, the way a
// sketch does while a stroke is being extended at camera rate.
type eagerSketch struct {
	fakeSketch
	removed atomic.Int32
}

func (e *eagerSketch) OnChange(fn func()) func() {
	fn()
	fn()
	return func() { e.removed.Add(1) }
}

func TestStreamHandler_ChangeDuringSubscribe(t *testing.T) {
	sk := &eagerSketch{}
	h := NewStreamHandler(sk)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/canvas/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.ServeHTTP(rec, req)
	}()

	time.Sleep(300 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream handler did not return after the request was cancelled")
	}

	if !strings.HasPrefix(rec.Body.String(), "--frame\r\n") {
		t.Errorf("body starts with %q, want a frame", rec.Body.String())
	}
	if got := sk.removed.Load(); got != 1 {
		t.Errorf("change listener removed %d times, want 1", got)
	}
}
