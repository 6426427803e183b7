package sqlite

import (
	"context"
)

func (s *Store) initSchema(ctx context.Context) error {
	// No FK constraints: SaveSet rewrites a set's questions inside one transaction.
	statements := []string{
		`CREATE TABLE IF NOT EXISTS question_sets (
			set_id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			source TEXT NOT NULL,
			question_count INTEGER NOT NULL,
			created_at_unix INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS set_questions (
			set_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			number TEXT NOT NULL,
			prompt TEXT NOT NULL,
			options_json TEXT NOT NULL,
			correct_letter TEXT NOT NULL,
			explanation TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (set_id, position)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_question_sets_created_at ON question_sets(created_at_unix DESC);`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
