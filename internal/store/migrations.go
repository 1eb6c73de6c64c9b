package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Rounds table - one row per finished round.
		`CREATE TABLE IF NOT EXISTS rounds (
			id TEXT PRIMARY KEY,
			score INTEGER NOT NULL,
			highest_combo INTEGER NOT NULL DEFAULT 1,
			normal_hits INTEGER NOT NULL DEFAULT 0,
			bonus_hits INTEGER NOT NULL DEFAULT 0,
			danger_hits INTEGER NOT NULL DEFAULT 0,
			explosive_hits INTEGER NOT NULL DEFAULT 0,
			misses INTEGER NOT NULL DEFAULT 0,
			duration_seconds REAL NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Settings table - application settings as key-value pairs.
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Leaderboard queries order by score.
		`CREATE INDEX IF NOT EXISTS idx_rounds_score ON rounds(score DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_rounds_created_at ON rounds(created_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
