package server

import (
	"bytes"
	"fmt"
	"net/http"
	"time"
)

// streamInterval paces the canvas stream at about 15 FPS.
const streamInterval = 66 * time.Millisecond

// StreamHandler serves the canvas as a multipart stream of PNG frames. A
// frame is only sent when the drawing changed since the previous one.
type StreamHandler struct {
	sketch Sketch
}

// NewStreamHandler creates a new StreamHandler for sketch.
func NewStreamHandler(sketch Sketch) *StreamHandler {
	return &StreamHandler{sketch: sketch}
}

// ServeHTTP streams PNG frames to the client until it disconnects.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Seeded so the first frame goes out without waiting for a change.
	dirty := make(chan struct{}, 1)
	dirty <- struct{}{}
	remove := h.sketch.OnChange(func() {
		select {
		case dirty <- struct{}{}:
		default:
		}
	})
	defer remove()

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(streamInterval)
	defer ticker.Stop()

	var buf bytes.Buffer
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}

		select {
		case <-dirty:
		default:
			continue
		}

		buf.Reset()
		if err := h.sketch.EncodePNG(&buf); err != nil {
			continue
		}

		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/png\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", buf.Len())
		if _, err := w.Write(buf.Bytes()); err != nil {
			return
		}
		fmt.Fprintf(w, "\r\n")

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}
