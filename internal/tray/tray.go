// Package tray provides a system tray menu for the sketch.
package tray

import (
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle     func(enabled bool)
	onClear      func()
	onOpenCanvas func()
	onQuit       func()
	enabled      bool
	drawMs       uint64
	strokes      int
	mu           sync.RWMutex

	// Menu items stored for later updates
	menuToggle *systray.MenuItem
	menuStatus *systray.MenuItem
}

// New creates a new Tray instance showing the given enabled state.
func New(enabled bool) *Tray {
	return &Tray{
		enabled: enabled,
	}
}

// OnToggle sets the callback function to be called when the enabled state is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnClear sets the callback function to be called when Clear Canvas is clicked.
func (t *Tray) OnClear(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onClear = fn
}

// OnOpenCanvas sets the callback function to be called when Open Canvas is clicked.
func (t *Tray) OnOpenCanvas(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpenCanvas = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit closes the tray and makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Airsketch")
	systray.SetTooltip("Airsketch - draw in the air with a pinch")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Toggle hand tracking")
	systray.AddSeparator()

	t.menuStatus = systray.AddMenuItem(statusTitle(t.drawMs, t.strokes), "Drawing time since the last clear")
	t.menuStatus.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuClear := systray.AddMenuItem("Clear Canvas", "Erase the drawing")
	menuOpen := systray.AddMenuItem("Open Canvas...", "Open the canvas in the browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Airsketch")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuClear.ClickedCh:
				t.fire(func() func() { return t.onClear })
			case <-menuOpen.ClickedCh:
				t.fire(func() func() { return t.onOpenCanvas })
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {}

// handleToggle handles the toggle menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

// fire calls the callback returned by get, read under the lock.
func (t *Tray) fire(get func() func()) {
	t.mu.RLock()
	callback := get()
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.fire(func() func() { return t.onQuit })
	systray.Quit()
}

// SetEnabled updates the toggle when the state changes elsewhere.
func (t *Tray) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.enabled = enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
}

// SetDrawTime updates the status line with the drawing time and stroke count.
func (t *Tray) SetDrawTime(drawMs uint64, strokes int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.drawMs, t.strokes = drawMs, strokes
	if t.menuStatus != nil {
		t.menuStatus.SetTitle(statusTitle(drawMs, strokes))
	}
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Tracking"
	}
	return "○ Paused"
}

func statusTitle(drawMs uint64, strokes int) string {
	d := time.Duration(drawMs) * time.Millisecond
	return "Drawn: " + d.Round(100*time.Millisecond).String() + " in " +
		humanize.Comma(int64(strokes)) + " " + plural(strokes, "stroke", "strokes")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
