package detector

import (
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/airsketch/internal/landmark"
)

// MockDetector is a test implementation of the Detector interface.
// It returns scripted frames in order and then keeps returning the last one.
type MockDetector struct {
	mu     sync.Mutex
	frames []landmark.Frame
	next   int
	err    error
	calls  int
	closed bool
}

// NewMockDetector creates a new MockDetector that plays back frames.
func NewMockDetector(frames ...landmark.Frame) *MockDetector {
	return &MockDetector{frames: frames}
}

// SetFrames replaces the scripted frames and rewinds playback.
func (m *MockDetector) SetFrames(frames ...landmark.Frame) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frames = frames
	m.next = 0
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Detect returns the next scripted frame or the configured error.
// With no frames scripted it reports an absent hand.
func (m *MockDetector) Detect(frame *gocv.Mat) (*landmark.Frame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.frames) == 0 {
		f := landmark.AbsentFrame()
		return &f, nil
	}

	f := m.frames[m.next]
	if m.next < len(m.frames)-1 {
		m.next++
	}
	return &f, nil
}

// Calls returns the number of Detect calls.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Close marks the detector closed.
func (m *MockDetector) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockDetector) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
