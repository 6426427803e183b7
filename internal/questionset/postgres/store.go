package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/7283111011/FLK2/internal/questionset"
	"github.com/7283111011/FLK2/internal/quiz"
)

const defaultListLimit = 50

var _ questionset.Repository = (*Store)(nil)

// Store keeps question sets in PostgreSQL.
type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the bank tables if they are missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS question_sets (
			set_id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			source TEXT NOT NULL,
			question_count INTEGER NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS set_questions (
			set_id TEXT NOT NULL REFERENCES question_sets(set_id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			number TEXT NOT NULL,
			prompt TEXT NOT NULL,
			options JSONB NOT NULL,
			correct_letter TEXT NOT NULL,
			explanation TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (set_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_question_sets_created_at ON question_sets(created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (s *Store) SaveSet(ctx context.Context, set questionset.Set) error {
	if set.SetID == "" {
		return errors.New("set id is required")
	}
	if set.CreatedAt.IsZero() {
		set.CreatedAt = time.Now().UTC()
	}

	return withinTx(ctx, s.db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM set_questions WHERE set_id = $1`, set.SetID); err != nil {
			return fmt.Errorf("clear set questions: %w", err)
		}

		query := `
			INSERT INTO question_sets (set_id, title, source, question_count, created_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (set_id) DO UPDATE SET
				title = EXCLUDED.title,
				source = EXCLUDED.source,
				question_count = EXCLUDED.question_count,
				created_at = EXCLUDED.created_at
		`
		if _, err := tx.Exec(ctx, query, set.SetID, set.Title, set.Source, len(set.Questions), set.CreatedAt); err != nil {
			return fmt.Errorf("save set: %w", err)
		}

		for idx, question := range set.Questions {
			options, err := json.Marshal(question.Options)
			if err != nil {
				return err
			}

			_, err = tx.Exec(
				ctx,
				`INSERT INTO set_questions (set_id, position, number, prompt, options, correct_letter, explanation)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				set.SetID,
				idx,
				question.Number,
				question.Text,
				options,
				question.CorrectLetter,
				question.Explanation,
			)
			if err != nil {
				return fmt.Errorf("save question %d: %w", idx, err)
			}
		}
		return nil
	})
}

func (s *Store) GetSet(ctx context.Context, setID string) (questionset.Set, error) {
	var set questionset.Set
	err := s.db.QueryRow(
		ctx,
		`SELECT set_id, title, source, question_count, created_at FROM question_sets WHERE set_id = $1`,
		setID,
	).Scan(&set.SetID, &set.Title, &set.Source, &set.QuestionCount, &set.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return questionset.Set{}, questionset.ErrSetNotFound
		}
		return questionset.Set{}, fmt.Errorf("get set: %w", err)
	}
	set.CreatedAt = set.CreatedAt.UTC()

	rows, err := s.db.Query(
		ctx,
		`SELECT number, prompt, options, correct_letter, explanation
		 FROM set_questions
		 WHERE set_id = $1
		 ORDER BY position ASC`,
		setID,
	)
	if err != nil {
		return questionset.Set{}, fmt.Errorf("get set questions: %w", err)
	}
	defer rows.Close()

	set.Questions = make([]quiz.Question, 0, set.QuestionCount)
	for rows.Next() {
		var (
			question quiz.Question
			options  []byte
		)
		if err := rows.Scan(&question.Number, &question.Text, &options, &question.CorrectLetter, &question.Explanation); err != nil {
			return questionset.Set{}, err
		}
		if err := json.Unmarshal(options, &question.Options); err != nil {
			return questionset.Set{}, err
		}
		set.Questions = append(set.Questions, question)
	}
	if err := rows.Err(); err != nil {
		return questionset.Set{}, err
	}

	return set, nil
}

func (s *Store) ListSets(ctx context.Context, limit int) ([]questionset.SetMetadata, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.db.Query(
		ctx,
		`SELECT set_id, title, source, question_count, created_at
		 FROM question_sets
		 ORDER BY created_at DESC, set_id ASC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}
	defer rows.Close()

	sets := make([]questionset.SetMetadata, 0)
	for rows.Next() {
		var meta questionset.SetMetadata
		if err := rows.Scan(&meta.SetID, &meta.Title, &meta.Source, &meta.QuestionCount, &meta.CreatedAt); err != nil {
			return nil, err
		}
		meta.CreatedAt = meta.CreatedAt.UTC()
		sets = append(sets, meta)
	}

	return sets, rows.Err()
}

func (s *Store) DeleteSet(ctx context.Context, setID string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM question_sets WHERE set_id = $1`, setID)
	if err != nil {
		return fmt.Errorf("delete set: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return questionset.ErrSetNotFound
	}
	return nil
}
