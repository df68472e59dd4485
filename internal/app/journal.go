package app

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/airsketch/internal/canvas"
	"github.com/ayusman/airsketch/internal/store"
)

// engineMark is a snapshot of the engine counters around one mutation.
type engineMark struct {
	active   bool
	drawMs   uint64
	segments int
	strokes  int
	clears   int
}

// journalEntries are the rows produced by one observation. The clear, when
// present, is written first so the stroke can reference it.
type journalEntries struct {
	clear  *store.Clear
	stroke *store.Stroke
}

// journal turns engine transitions into stroke and clear summaries.
type journal struct {
	store  *store.Store
	logger *slog.Logger
	open   *store.Stroke
}

func newJournal(s *store.Store, logger *slog.Logger) *journal {
	return &journal{store: s, logger: logger}
}

// observe compares two marks taken around one engine mutation. present is
// false when the hand dropped below the presence threshold.
func (j *journal) observe(before, after engineMark, present bool, source store.ClearSource, now time.Time) journalEntries {
	var out journalEntries

	if after.clears > before.clears {
		out.clear = &store.Clear{
			ID:          uuid.NewString(),
			ClearedAt:   now,
			DiscardedMs: before.drawMs,
			Source:      source,
		}
	}

	if j.open != nil && (!after.active || after.strokes > before.strokes) {
		st := j.open
		j.open = nil

		st.EndedAt = now
		st.Segments = after.segments
		st.DrawMs = uint64(after.segments) * canvas.FrameMs
		switch {
		case out.clear != nil:
			st.Reason = store.EndCleared
			st.ClearID = out.clear.ID
		case !present:
			st.Reason = store.EndLost
		default:
			st.Reason = store.EndReleased
		}
		out.stroke = st
	}

	if after.active && j.open == nil {
		j.open = &store.Stroke{ID: uuid.NewString(), StartedAt: now}
	}

	return out
}

// persist writes the entries. Failures are logged; the drawing never
// depends on the journal.
func (j *journal) persist(e journalEntries) {
	if j.store == nil {
		return
	}
	if e.clear != nil {
		if err := j.store.Clears().Create(e.clear); err != nil {
			j.logger.Warn("recording clear", "error", err)
			if e.stroke != nil {
				e.stroke.ClearID = ""
			}
		}
	}
	if e.stroke != nil {
		if err := j.store.Strokes().Create(e.stroke); err != nil {
			j.logger.Warn("recording stroke", "error", err)
		}
	}
}
