// Package cursor provides the on-screen pen marker.
package cursor

import (
	"errors"
	"sync"
)

// Size is the diameter of the marker in pixels.
const Size = 20

// ErrNotInitialized is returned by Teardown when Init was never called.
var ErrNotInitialized = errors.New("cursor not initialized")

// Color is the indicator shown by the marker.
type Color int

const (
	// Idle is shown when a hand is tracked but not drawing.
	Idle Color = iota
	// Draw is shown while pinching.
	Draw
	// Clear is shown while the fist clears the canvas.
	Clear
)

// String returns the CSS color name used for the indicator.
func (c Color) String() string {
	switch c {
	case Draw:
		return "green"
	case Clear:
		return "red"
	default:
		return "blue"
	}
}

// MarshalText encodes the color by name.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Cursor is the capability the frame dispatcher drives once per frame.
type Cursor interface {
	Init() error
	Teardown() error
	SetVisible(visible bool)
	SetColor(c Color)
	SetPosition(x, y float64)
}

// State is a snapshot of the marker.
type State struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Color   Color   `json:"color"`
	Visible bool    `json:"visible"`
}

// TopLeft returns the corner of the marker box centred on the cursor.
func (s State) TopLeft() (x, y float64) {
	return s.X - Size/2, s.Y - Size/2
}

// Marker is an in-memory Cursor. Updates before Init or after Teardown
// are ignored. It is safe to read from other goroutines.
type Marker struct {
	mu          sync.RWMutex
	state       State
	initialized bool
}

var _ Cursor = (*Marker)(nil)

// NewMarker creates a Marker that is not yet initialized.
func NewMarker() *Marker {
	return &Marker{}
}

// Init (re)creates the marker: visible, idle colored, at the origin.
func (m *Marker) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = State{Color: Idle, Visible: true}
	m.initialized = true
	return nil
}

// Teardown hides and detaches the marker.
func (m *Marker) Teardown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return ErrNotInitialized
	}
	m.state.Visible = false
	m.initialized = false
	return nil
}

func (m *Marker) SetVisible(visible bool) {
	m.update(func(s *State) { s.Visible = visible })
}

func (m *Marker) SetColor(c Color) {
	m.update(func(s *State) { s.Color = c })
}

// SetPosition moves the centre of the marker to (x, y) in viewport pixels.
func (m *Marker) SetPosition(x, y float64) {
	m.update(func(s *State) { s.X, s.Y = x, y })
}

func (m *Marker) update(fn func(s *State)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	fn(&m.state)
}

// State returns the current marker state.
func (m *Marker) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Initialized reports whether Init has been called without a matching Teardown.
func (m *Marker) Initialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}
