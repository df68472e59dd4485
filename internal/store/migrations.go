package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Clears table - one row per canvas wipe
		`CREATE TABLE IF NOT EXISTS clears (
			id TEXT PRIMARY KEY,
			cleared_at DATETIME NOT NULL,
			discarded_ms INTEGER NOT NULL DEFAULT 0,
			source TEXT NOT NULL CHECK(source IN ('gesture', 'reset'))
		)`,

		// Strokes table - one summary row per pinch-drawn stroke
		`CREATE TABLE IF NOT EXISTS strokes (
			id TEXT PRIMARY KEY,
			started_at DATETIME NOT NULL,
			ended_at DATETIME NOT NULL,
			segments INTEGER NOT NULL DEFAULT 0,
			draw_ms INTEGER NOT NULL DEFAULT 0,
			reason TEXT NOT NULL CHECK(reason IN ('released', 'lost', 'cleared')),
			clear_id TEXT REFERENCES clears(id) ON DELETE SET NULL
		)`,

		// Settings table - stores application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_strokes_started_at ON strokes(started_at)`,
		`CREATE INDEX IF NOT EXISTS idx_strokes_clear_id ON strokes(clear_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
