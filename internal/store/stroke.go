package store

import (
	"database/sql"
	"errors"
	"time"
)

// EndReason records why a stroke ended.
type EndReason string

// Stroke end reasons.
const (
	// EndReleased means the pinch opened.
	EndReleased EndReason = "released"
	// EndLost means hand confidence dropped below the presence threshold.
	EndLost EndReason = "lost"
	// EndCleared means a fist wiped the canvas mid-stroke.
	EndCleared EndReason = "cleared"
)

// Stroke is the summary of one continuous pinch-drawn stroke.
type Stroke struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
	Segments  int       `json:"segments"`
	DrawMs    uint64    `json:"draw_ms"`
	Reason    EndReason `json:"reason"`
	// ClearID links a stroke ended by a clear to that clear event.
	ClearID string `json:"clear_id,omitempty"`
}

// StrokeRepository provides access to the stroke journal.
type StrokeRepository struct {
	db *sql.DB
}

// Strokes returns the stroke repository for this store.
func (s *Store) Strokes() *StrokeRepository {
	return &StrokeRepository{db: s.db}
}

// Create inserts a stroke summary.
func (r *StrokeRepository) Create(st *Stroke) error {
	var clearID sql.NullString
	if st.ClearID != "" {
		clearID = sql.NullString{String: st.ClearID, Valid: true}
	}

	_, err := r.db.Exec(
		`INSERT INTO strokes (id, started_at, ended_at, segments, draw_ms, reason, clear_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		st.ID, st.StartedAt, st.EndedAt, st.Segments, int64(st.DrawMs), string(st.Reason), clearID,
	)
	return err
}

// GetByID retrieves a stroke by its ID.
func (r *StrokeRepository) GetByID(id string) (*Stroke, error) {
	st, err := scanStroke(r.db.QueryRow(
		`SELECT id, started_at, ended_at, segments, draw_ms, reason, clear_id
		 FROM strokes WHERE id = ?`,
		id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return st, nil
}

// List retrieves the most recent strokes, newest first. A limit of zero or
// less returns every stroke.
func (r *StrokeRepository) List(limit int) ([]*Stroke, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.Query(
		`SELECT id, started_at, ended_at, segments, draw_ms, reason, clear_id
		 FROM strokes ORDER BY started_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var strokes []*Stroke
	for rows.Next() {
		st, err := scanStroke(rows)
		if err != nil {
			return nil, err
		}
		strokes = append(strokes, st)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return strokes, nil
}

// Count returns the number of recorded strokes.
func (r *StrokeRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM strokes`).Scan(&n)
	return n, err
}

// TotalDrawMs returns the draw time summed over every recorded stroke.
func (r *StrokeRepository) TotalDrawMs() (uint64, error) {
	var total int64
	err := r.db.QueryRow(`SELECT COALESCE(SUM(draw_ms), 0) FROM strokes`).Scan(&total)
	return uint64(total), err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanStroke(row scanner) (*Stroke, error) {
	st := &Stroke{}
	var drawMs int64
	var reason string
	var clearID sql.NullString

	if err := row.Scan(&st.ID, &st.StartedAt, &st.EndedAt, &st.Segments, &drawMs, &reason, &clearID); err != nil {
		return nil, err
	}

	st.DrawMs = uint64(drawMs)
	st.Reason = EndReason(reason)
	st.ClearID = clearID.String
	return st, nil
}
