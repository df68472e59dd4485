// Package dispatch interprets landmark frames one at a time and drives the
// cursor and the stroke engine.
package dispatch

import (
	"log/slog"

	"github.com/ayusman/airsketch/internal/canvas"
	"github.com/ayusman/airsketch/internal/cursor"
	"github.com/ayusman/airsketch/internal/gesture"
	"github.com/ayusman/airsketch/internal/landmark"
)

// StrokeEngine is the drawing state machine driven by the dispatcher.
type StrokeEngine interface {
	Active() bool
	Start(p canvas.Point)
	Extend(p canvas.Point)
	Stop()
	Clear()
}

// Overlay draws the hand on a visual layer. Failures are not fatal.
type Overlay interface {
	Render(f *landmark.Frame, width, height float64) error
}

// Config holds the thresholds and the content area size.
type Config struct {
	Thresholds gesture.Thresholds
	// Width and Height are the content area size in pixels.
	Width  float64
	Height float64
}

// DefaultConfig returns the recommended thresholds for a 640x480 area.
func DefaultConfig() Config {
	return Config{
		Thresholds: gesture.DefaultThresholds(),
		Width:      640,
		Height:     480,
	}
}

// Outcome describes what Dispatch did with a frame.
type Outcome struct {
	// Dropped is true when the frame was invalid and ignored.
	Dropped bool
	// Present is false when the hand presence was below threshold.
	Present bool
	// Label is the classified gesture of a present hand.
	Label gesture.Label
	// X and Y are the cursor position of a present hand.
	X, Y float64
}

// Dispatcher is the per-frame orchestrator. It is not safe for concurrent
// use; frames must be dispatched one at a time.
type Dispatcher struct {
	config     Config
	classifier *gesture.Classifier
	engine     StrokeEngine
	cursor     cursor.Cursor
	overlay    Overlay
	logger     *slog.Logger
}

// New creates a Dispatcher. overlay and logger may be nil.
func New(config Config, engine StrokeEngine, cur cursor.Cursor, overlay Overlay, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Dispatcher{
		config:     config,
		classifier: gesture.NewClassifier(config.Thresholds),
		engine:     engine,
		cursor:     cur,
		overlay:    overlay,
		logger:     logger,
	}
}

// Init creates the cursor. Call it before the first Dispatch.
func (d *Dispatcher) Init() error {
	return d.cursor.Init()
}

// Teardown ends any stroke in progress and removes the cursor.
func (d *Dispatcher) Teardown() error {
	if d.engine.Active() {
		d.engine.Stop()
	}
	return d.cursor.Teardown()
}

// Dispatch interprets one frame. It never fails: invalid frames are logged
// and dropped without touching any state.
//
// A hand below the presence threshold hides the cursor and ends the stroke.
// Otherwise the cursor follows the pinch anchor and the gesture decides,
// in priority order: Fist clears, Pinch starts or extends the stroke, and
// None ends it.
func (d *Dispatcher) Dispatch(f *landmark.Frame) Outcome {
	if err := f.Validate(); err != nil {
		d.logger.Warn("dropping landmark frame", "error", err)
		return Outcome{Dropped: true}
	}

	if f.HandPresentProb < d.config.Thresholds.HandPresent {
		d.cursor.SetVisible(false)
		if d.engine.Active() {
			d.engine.Stop()
			d.logger.Debug("hand lost, stroke ended")
		}
		return Outcome{}
	}

	d.cursor.SetVisible(true)
	d.renderOverlay(f)

	x, y := gesture.MapToScreen(f, d.config.Width, d.config.Height)
	d.cursor.SetPosition(x, y)
	point := canvas.Point{X: x, Y: y}

	label := d.classifier.Classify(f)
	switch label {
	case gesture.Fist:
		d.cursor.SetColor(cursor.Clear)
		d.engine.Clear()
	case gesture.Pinch:
		d.cursor.SetColor(cursor.Draw)
		if d.engine.Active() {
			d.engine.Extend(point)
		} else {
			d.engine.Start(point)
		}
	default:
		d.cursor.SetColor(cursor.Idle)
		if d.engine.Active() {
			d.engine.Stop()
		}
	}

	return Outcome{Present: true, Label: label, X: x, Y: y}
}

// renderOverlay draws the skeleton. The overlay is best effort: errors and
// panics from it are logged and never reach the stroke engine.
func (d *Dispatcher) renderOverlay(f *landmark.Frame) {
	if d.overlay == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			d.logger.Warn("overlay render panicked", "panic", r)
		}
	}()
	if err := d.overlay.Render(f, d.config.Width, d.config.Height); err != nil {
		d.logger.Debug("overlay render failed", "error", err)
	}
}

// Config returns the dispatcher configuration.
func (d *Dispatcher) Config() Config {
	return d.config
}
