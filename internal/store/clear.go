package store

import (
	"database/sql"
	"time"
)

// ClearSource records what wiped the canvas.
type ClearSource string

// Clear sources.
const (
	// ClearGesture is a fist detected by the tracker.
	ClearGesture ClearSource = "gesture"
	// ClearReset is an explicit reset from the host.
	ClearReset ClearSource = "reset"
)

// Clear is one canvas wipe and the cumulative draw time it discarded.
type Clear struct {
	ID          string      `json:"id"`
	ClearedAt   time.Time   `json:"cleared_at"`
	DiscardedMs uint64      `json:"discarded_ms"`
	Source      ClearSource `json:"source"`
}

// ClearRepository provides access to recorded clears.
type ClearRepository struct {
	db *sql.DB
}

// Clears returns the clear repository for this store.
func (s *Store) Clears() *ClearRepository {
	return &ClearRepository{db: s.db}
}

// Create inserts a clear event.
func (r *ClearRepository) Create(c *Clear) error {
	_, err := r.db.Exec(
		`INSERT INTO clears (id, cleared_at, discarded_ms, source) VALUES (?, ?, ?, ?)`,
		c.ID, c.ClearedAt, int64(c.DiscardedMs), string(c.Source),
	)
	return err
}

// List retrieves all clears, newest first.
func (r *ClearRepository) List() ([]*Clear, error) {
	rows, err := r.db.Query(
		`SELECT id, cleared_at, discarded_ms, source FROM clears ORDER BY cleared_at DESC, rowid DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clears []*Clear
	for rows.Next() {
		c := &Clear{}
		var discarded int64
		var source string

		if err := rows.Scan(&c.ID, &c.ClearedAt, &discarded, &source); err != nil {
			return nil, err
		}

		c.DiscardedMs = uint64(discarded)
		c.Source = ClearSource(source)
		clears = append(clears, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return clears, nil
}

// Delete removes a clear. Strokes that referenced it keep their row and
// lose the link.
func (r *ClearRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM clears WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
