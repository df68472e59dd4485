package tracking

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ayusman/airsketch/internal/landmark"
)

// Replay plays back a recorded frame sequence.
type Replay struct {
	frames   []landmark.Frame
	interval time.Duration
	loop     bool
}

// NewReplay creates a Replay. A zero interval delivers frames back to back.
func NewReplay(frames []landmark.Frame, interval time.Duration, loop bool) *Replay {
	return &Replay{frames: frames, interval: interval, loop: loop}
}

// LoadReplay reads a JSON array of frames from path.
func LoadReplay(path string, interval time.Duration, loop bool) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open replay: %w", err)
	}
	defer f.Close()

	frames, err := landmark.DecodeSequence(f)
	if err != nil {
		return nil, fmt.Errorf("load replay %s: %w", path, err)
	}
	return NewReplay(frames, interval, loop), nil
}

// Len returns the number of recorded frames.
func (r *Replay) Len() int { return len(r.frames) }

// Subscribe delivers every frame in order and returns nil at the end of the
// recording. With loop set it only returns when ctx is done.
func (r *Replay) Subscribe(ctx context.Context, onFrame func(*landmark.Frame)) error {
	if len(r.frames) == 0 {
		return nil
	}

	var tick <-chan time.Time
	if r.interval > 0 {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		for i := range r.frames {
			if tick != nil {
				select {
				case <-ctx.Done():
					return nil
				case <-tick:
				}
			} else if ctx.Err() != nil {
				return nil
			}

			f := r.frames[i]
			onFrame(&f)
		}
		if !r.loop {
			return nil
		}
	}
}
