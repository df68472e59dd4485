package canvas

import "log/slog"

// FrameMs is the drawing time credited for every extended segment. It
// approximates one frame at 60Hz and is not measured from the clock.
const FrameMs = 16

// State is the drawing state of the engine.
type State int

const (
	// Idle means the pen is up.
	Idle State = iota
	// Drawing means a stroke is in progress.
	Drawing
)

// String returns the lower-case name of the state.
func (s State) String() string {
	if s == Drawing {
		return "drawing"
	}
	return "idle"
}

// Session is the drawing session tracked by the engine.
type Session struct {
	// Active is true while a stroke is in progress.
	Active bool
	// LastPoint is the most recent pen position of the active stroke. It is
	// set exactly when Active is true.
	LastPoint *Point
	// DrawMs is the cumulative drawing time since the last clear.
	DrawMs uint64
}

// Config configures an Engine.
type Config struct {
	// Style is the pen style. Zero value means PenStyle().
	Style Style
	// OnChange is called after every mutation of the raster content.
	OnChange func()
	// Logger receives paint failures. Nil discards them.
	Logger *slog.Logger
}

// Engine is the stroke state machine. It owns the drawing surface and the
// session; it is not safe for concurrent use.
type Engine struct {
	surface  Surface
	style    Style
	onChange func()
	logger   *slog.Logger

	active  bool
	last    Point
	prevMid Point
	// extended is false between Start and the first Extend, when no
	// previous midpoint exists yet.
	extended bool
	drawMs   uint64

	segments int
	strokes  int
	clears   int
}

// NewEngine creates an idle engine drawing onto surface.
func NewEngine(surface Surface, cfg Config) *Engine {
	style := cfg.Style
	if style.Color == nil && style.Width == 0 {
		style = PenStyle()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		surface:  surface,
		style:    style,
		onChange: cfg.OnChange,
		logger:   logger,
	}
}

// Start puts the pen down at p. It is ignored unless the engine is Idle.
// Start begins a path but paints nothing and does not notify.
func (e *Engine) Start(p Point) {
	if e.active {
		return
	}
	e.active = true
	e.last = p
	e.extended = false
	e.segments = 0
	e.strokes++

	e.surface.SetStyle(e.style)
	e.surface.MoveTo(p.X, p.Y)
}

// Extend continues the stroke to p. It is ignored unless the engine is Drawing.
//
// Each call paints one quadratic segment from the previous midpoint, with the
// last point as control, to the midpoint of the last point and p. The curve
// therefore trails the pen by one frame. The first call after Start has no
// previous midpoint and runs from the start point to p.
func (e *Engine) Extend(p Point) {
	if !e.active {
		return
	}

	ctrl, end := e.last, midpoint(e.last, p)
	if e.extended {
		e.surface.MoveTo(e.prevMid.X, e.prevMid.Y)
	} else {
		ctrl, end = p, p
	}
	e.surface.QuadraticTo(ctrl.X, ctrl.Y, end.X, end.Y)
	if err := e.surface.Stroke(); err != nil {
		e.logger.Warn("stroke segment failed", "error", err)
	}

	e.prevMid = end
	e.extended = true
	e.last = p
	e.segments++
	e.drawMs += FrameMs

	e.notify()
}

// Stop lifts the pen and closes the current path. Stopping an idle engine
// is a no-op.
func (e *Engine) Stop() {
	if !e.active {
		return
	}
	e.surface.ClosePath()
	e.reset()
}

// Clear erases the whole raster, lifts the pen and resets the drawing time.
// It is valid in any state.
func (e *Engine) Clear() {
	e.surface.Clear()
	e.reset()
	e.drawMs = 0
	e.clears++
	e.notify()
}

func (e *Engine) reset() {
	e.active = false
	e.extended = false
	e.last = Point{}
	e.prevMid = Point{}
}

func (e *Engine) notify() {
	if e.onChange != nil {
		e.onChange()
	}
}

// State returns Drawing while a stroke is in progress and Idle otherwise.
func (e *Engine) State() State {
	if e.active {
		return Drawing
	}
	return Idle
}

// Active reports whether a stroke is in progress.
func (e *Engine) Active() bool {
	return e.active
}

// LastPoint returns the last pen position of the active stroke.
func (e *Engine) LastPoint() (Point, bool) {
	return e.last, e.active
}

// DrawMs returns the cumulative drawing time since the last clear.
func (e *Engine) DrawMs() uint64 {
	return e.drawMs
}

// Session returns a copy of the drawing session.
func (e *Engine) Session() Session {
	s := Session{Active: e.active, DrawMs: e.drawMs}
	if e.active {
		last := e.last
		s.LastPoint = &last
	}
	return s
}

// Segments returns the number of segments painted by the current stroke, or
// by the most recent one when idle.
func (e *Engine) Segments() int {
	return e.segments
}

// Strokes returns the number of strokes started since the engine was created.
func (e *Engine) Strokes() int {
	return e.strokes
}

// Clears returns the number of times the raster has been cleared.
func (e *Engine) Clears() int {
	return e.clears
}

// Surface returns the surface the engine draws on.
func (e *Engine) Surface() Surface {
	return e.surface
}
