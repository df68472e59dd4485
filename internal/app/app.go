// Package app assembles the sketch: the persistent canvas, the skeleton
// overlay, the cursor and the dispatcher, fed by a tracking source.
package app

import (
	"context"
	"image"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ayusman/airsketch/internal/canvas"
	"github.com/ayusman/airsketch/internal/cursor"
	"github.com/ayusman/airsketch/internal/dispatch"
	"github.com/ayusman/airsketch/internal/gesture"
	"github.com/ayusman/airsketch/internal/landmark"
	"github.com/ayusman/airsketch/internal/skeleton"
	"github.com/ayusman/airsketch/internal/store"
	"github.com/ayusman/airsketch/internal/tracking"
)

// Config holds configuration options for the application.
type Config struct {
	// Width and Height are the viewport size in pixels.
	Width  int
	Height int
	// Thresholds tune the gesture classifier.
	Thresholds gesture.Thresholds
	// Style is the pen style. Zero value means canvas.PenStyle().
	Style canvas.Style
	// Store receives the stroke journal and the enabled setting. Nil keeps
	// nothing.
	Store *store.Store
	// Logger receives diagnostics. Nil discards them.
	Logger *slog.Logger
}

// DefaultConfig returns a 640x480 sketch with default thresholds.
func DefaultConfig() Config {
	return Config{
		Width:      640,
		Height:     480,
		Thresholds: gesture.DefaultThresholds(),
	}
}

// App is the sketch component. Frames are interpreted one at a time; every
// other method is safe to call from any goroutine.
type App struct {
	config Config
	logger *slog.Logger

	// mu guards the rasters, the engine, the dispatcher and the journal.
	mu         sync.Mutex
	raster     *canvas.Raster
	overlay    *canvas.Raster
	engine     *canvas.Engine
	marker     *cursor.Marker
	dispatcher *dispatch.Dispatcher
	journal    *journal
	changed    bool

	// stateMu guards the fields below.
	stateMu         sync.RWMutex
	enabled         bool
	nextListener    int
	changeListeners map[int]func()
	cursorListeners map[int]func(cursor.State)
	cancel          context.CancelFunc
	done            chan struct{}
}

// New creates an App with an empty canvas and an initialized cursor.
func New(config Config) *App {
	if config.Width <= 0 || config.Height <= 0 {
		config.Width, config.Height = DefaultConfig().Width, DefaultConfig().Height
	}
	if config.Thresholds == (gesture.Thresholds{}) {
		config.Thresholds = gesture.DefaultThresholds()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	a := &App{
		config:  config,
		logger:  logger,
		raster:  canvas.NewRaster(config.Width, config.Height),
		overlay: canvas.NewRaster(config.Width, config.Height),
		marker:  cursor.NewMarker(),
		journal: newJournal(config.Store, logger),
		enabled: true,

		changeListeners: make(map[int]func()),
		cursorListeners: make(map[int]func(cursor.State)),
	}

	a.engine = canvas.NewEngine(a.raster, canvas.Config{
		Style:    config.Style,
		OnChange: func() { a.changed = true },
		Logger:   logger,
	})

	a.dispatcher = dispatch.New(
		dispatch.Config{
			Thresholds: config.Thresholds,
			Width:      float64(config.Width),
			Height:     float64(config.Height),
		},
		a.engine,
		a.marker,
		skeleton.NewRenderer(a.overlay),
		logger,
	)
	if err := a.dispatcher.Init(); err != nil {
		logger.Warn("initializing cursor", "error", err)
	}

	if config.Store != nil {
		enabled, err := config.Store.Settings().GetBool(store.SettingEnabled, true)
		if err != nil {
			logger.Warn("loading enabled setting", "error", err)
		}
		a.enabled = enabled
	}

	return a
}

// HandleFrame interprets one landmark frame. While the app is disabled the
// frame is ignored and the zero Outcome is returned.
func (a *App) HandleFrame(f *landmark.Frame) dispatch.Outcome {
	if !a.IsEnabled() {
		return dispatch.Outcome{}
	}

	now := time.Now()

	a.mu.Lock()
	before := a.mark()
	out := a.dispatcher.Dispatch(f)
	if !out.Dropped && !out.Present {
		a.overlay.Clear()
	}
	entries := a.journal.observe(before, a.mark(), out.Present, store.ClearGesture, now)
	changed := a.changed
	a.changed = false
	state := a.marker.State()
	a.mu.Unlock()

	a.journal.persist(entries)
	if changed {
		a.notifyChange()
	}
	a.notifyCursor(state)

	return out
}

// Start subscribes to src on a background goroutine. Each delivered frame
// goes through HandleFrame. Starting a running app is a no-op; once the
// previous source has ended on its own, Start subscribes again.
func (a *App) Start(ctx context.Context, src tracking.Source) error {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()

	if a.cancel != nil {
		select {
		case <-a.done:
			a.cancel()
		default:
			return nil
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	a.cancel = cancel
	a.done = done

	go func() {
		defer close(done)
		if err := src.Subscribe(ctx, func(f *landmark.Frame) { a.HandleFrame(f) }); err != nil {
			a.logger.Warn("tracking stopped", "error", err)
			return
		}
		a.logger.Info("tracking stopped")
	}()

	a.logger.Info("tracking started")
	return nil
}

// Stop cancels the tracking subscription and waits for it to finish.
func (a *App) Stop() {
	a.stateMu.Lock()
	cancel, done := a.cancel, a.done
	a.cancel, a.done = nil, nil
	a.stateMu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Done returns a channel closed when the current subscription ends, or nil
// when the app is not running.
func (a *App) Done() <-chan struct{} {
	a.stateMu.RLock()
	defer a.stateMu.RUnlock()
	return a.done
}

// Close stops tracking, ends any stroke in progress and removes the cursor.
func (a *App) Close() error {
	a.Stop()

	now := time.Now()
	a.mu.Lock()
	before := a.mark()
	err := a.dispatcher.Teardown()
	entries := a.journal.observe(before, a.mark(), true, store.ClearGesture, now)
	state := a.marker.State()
	a.mu.Unlock()

	a.journal.persist(entries)
	a.notifyCursor(state)
	return err
}

// SetEnabled enables or disables frame interpretation. Disabling does not
// touch the drawing session.
func (a *App) SetEnabled(enabled bool) {
	a.stateMu.Lock()
	a.enabled = enabled
	a.stateMu.Unlock()

	if a.config.Store != nil {
		if err := a.config.Store.Settings().SetBool(store.SettingEnabled, enabled); err != nil {
			a.logger.Warn("saving enabled setting", "error", err)
		}
	}
}

// IsEnabled returns whether frames are currently interpreted.
func (a *App) IsEnabled() bool {
	a.stateMu.RLock()
	defer a.stateMu.RUnlock()
	return a.enabled
}

// Snapshot returns a copy of the drawing.
func (a *App) Snapshot() *image.RGBA {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.raster.Snapshot()
}

// Overlay returns a copy of the skeleton layer.
func (a *App) Overlay() *image.RGBA {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.overlay.Snapshot()
}

// EncodePNG writes the drawing to w as PNG.
func (a *App) EncodePNG(w io.Writer) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.raster.EncodePNG(w)
}

// EncodeOverlayPNG writes the skeleton layer to w as PNG.
func (a *App) EncodeOverlayPNG(w io.Writer) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.overlay.EncodePNG(w)
}

// CumulativeDrawMs returns the drawing time since the last clear.
func (a *App) CumulativeDrawMs() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.engine.DrawMs()
}

// Drawing reports whether a stroke is in progress.
func (a *App) Drawing() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.engine.Active()
}

// Session returns a copy of the drawing session.
func (a *App) Session() canvas.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.engine.Session()
}

// Strokes returns the number of strokes started since the app was created.
func (a *App) Strokes() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.engine.Strokes()
}

// ResetAll clears the canvas and the drawing time, ending any stroke.
func (a *App) ResetAll() {
	now := time.Now()

	a.mu.Lock()
	before := a.mark()
	a.engine.Clear()
	a.overlay.Clear()
	entries := a.journal.observe(before, a.mark(), true, store.ClearReset, now)
	a.changed = false
	a.mu.Unlock()

	a.journal.persist(entries)
	a.notifyChange()
}

// Cursor returns the current cursor state.
func (a *App) Cursor() cursor.State {
	return a.marker.State()
}

// Size returns the viewport size in pixels.
func (a *App) Size() (width, height int) {
	return a.config.Width, a.config.Height
}

// OnChange registers fn to be called after the drawing changes. Listeners
// run on the goroutine that caused the change, outside any lock. The
// returned func unregisters fn.
func (a *App) OnChange(fn func()) (remove func()) {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()

	id := a.nextListener
	a.nextListener++
	a.changeListeners[id] = fn
	return func() {
		a.stateMu.Lock()
		defer a.stateMu.Unlock()
		delete(a.changeListeners, id)
	}
}

// OnCursor registers fn to receive the cursor state after every frame. The
// returned func unregisters fn.
func (a *App) OnCursor(fn func(cursor.State)) (remove func()) {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()

	id := a.nextListener
	a.nextListener++
	a.cursorListeners[id] = fn
	return func() {
		a.stateMu.Lock()
		defer a.stateMu.Unlock()
		delete(a.cursorListeners, id)
	}
}

func (a *App) notifyChange() {
	a.stateMu.RLock()
	listeners := make([]func(), 0, len(a.changeListeners))
	for _, fn := range a.changeListeners {
		listeners = append(listeners, fn)
	}
	a.stateMu.RUnlock()

	for _, fn := range listeners {
		fn()
	}
}

func (a *App) notifyCursor(s cursor.State) {
	a.stateMu.RLock()
	listeners := make([]func(cursor.State), 0, len(a.cursorListeners))
	for _, fn := range a.cursorListeners {
		listeners = append(listeners, fn)
	}
	a.stateMu.RUnlock()

	for _, fn := range listeners {
		fn(s)
	}
}

// mark captures the engine counters the journal compares. Callers hold mu.
func (a *App) mark() engineMark {
	return engineMark{
		active:   a.engine.Active(),
		drawMs:   a.engine.DrawMs(),
		segments: a.engine.Segments(),
		strokes:  a.engine.Strokes(),
		clears:   a.engine.Clears(),
	}
}
