package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/7283111011/FLK2/internal/questionset"
	"github.com/7283111011/FLK2/internal/quiz"
)

const defaultListLimit = 50

var _ questionset.Repository = (*Store)(nil)

// SaveSet replaces any set stored under the same id.
func (s *Store) SaveSet(ctx context.Context, set questionset.Set) error {
	if set.SetID == "" {
		return errors.New("set id is required")
	}
	if set.CreatedAt.IsZero() {
		set.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM set_questions WHERE set_id = ?`, set.SetID); err != nil {
		return err
	}

	_, err = tx.ExecContext(
		ctx,
		`INSERT OR REPLACE INTO question_sets (set_id, title, source, question_count, created_at_unix)
		 VALUES (?, ?, ?, ?, ?)`,
		set.SetID,
		set.Title,
		set.Source,
		len(set.Questions),
		set.CreatedAt.UnixNano(),
	)
	if err != nil {
		return err
	}

	for idx, question := range set.Questions {
		optionsJSON, err := json.Marshal(question.Options)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO set_questions (set_id, position, number, prompt, options_json, correct_letter, explanation)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			set.SetID,
			idx,
			question.Number,
			question.Text,
			string(optionsJSON),
			question.CorrectLetter,
			question.Explanation,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Store) GetSet(ctx context.Context, setID string) (questionset.Set, error) {
	var (
		set           questionset.Set
		createdAtUnix int64
	)
	err := s.db.QueryRowContext(
		ctx,
		`SELECT set_id, title, source, question_count, created_at_unix FROM question_sets WHERE set_id = ?`,
		setID,
	).Scan(&set.SetID, &set.Title, &set.Source, &set.QuestionCount, &createdAtUnix)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return questionset.Set{}, questionset.ErrSetNotFound
		}
		return questionset.Set{}, err
	}
	set.CreatedAt = time.Unix(0, createdAtUnix).UTC()

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT number, prompt, options_json, correct_letter, explanation
		 FROM set_questions
		 WHERE set_id = ?
		 ORDER BY position ASC`,
		setID,
	)
	if err != nil {
		return questionset.Set{}, err
	}
	defer rows.Close()

	set.Questions = make([]quiz.Question, 0, set.QuestionCount)
	for rows.Next() {
		var (
			question    quiz.Question
			optionsJSON string
		)
		if err := rows.Scan(&question.Number, &question.Text, &optionsJSON, &question.CorrectLetter, &question.Explanation); err != nil {
			return questionset.Set{}, err
		}
		if err := json.Unmarshal([]byte(optionsJSON), &question.Options); err != nil {
			return questionset.Set{}, err
		}
		set.Questions = append(set.Questions, question)
	}
	if err := rows.Err(); err != nil {
		return questionset.Set{}, err
	}

	return set, nil
}

// ListSets returns set metadata, newest first.
func (s *Store) ListSets(ctx context.Context, limit int) ([]questionset.SetMetadata, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT set_id, title, source, question_count, created_at_unix
		 FROM question_sets
		 ORDER BY created_at_unix DESC, set_id ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sets := make([]questionset.SetMetadata, 0)
	for rows.Next() {
		var (
			meta          questionset.SetMetadata
			createdAtUnix int64
		)
		if err := rows.Scan(&meta.SetID, &meta.Title, &meta.Source, &meta.QuestionCount, &createdAtUnix); err != nil {
			return nil, err
		}
		meta.CreatedAt = time.Unix(0, createdAtUnix).UTC()
		sets = append(sets, meta)
	}

	return sets, rows.Err()
}

func (s *Store) DeleteSet(ctx context.Context, setID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `DELETE FROM question_sets WHERE set_id = ?`, setID)
	if err != nil {
		return err
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return questionset.ErrSetNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM set_questions WHERE set_id = ?`, setID); err != nil {
		return err
	}

	return tx.Commit()
}
