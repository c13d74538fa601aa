package graph

import (
	"context"
	"database/sql"
	"errors"
)

type store struct {
	db *sql.DB
}

// NewStore returns a Store backed by the questions and options tables.
func NewStore(db *sql.DB) Store {
	return &store{db: db}
}

func (s *store) QuestionByID(ctx context.Context, id int64) (Question, error) {
	var q Question
	err := s.db.QueryRowContext(ctx, `
		SELECT id, key FROM questions WHERE id = $1
	`, id).Scan(&q.ID, &q.Key)
	if errors.Is(err, sql.ErrNoRows) {
		return Question{}, ErrNotFound
	}
	if err != nil {
		return Question{}, err
	}

	q.Options, err = s.OptionsOf(ctx, q.ID)
	if err != nil {
		return Question{}, err
	}
	return q, nil
}

func (s *store) QuestionByKey(ctx context.Context, key string) (Question, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM questions WHERE key = $1
	`, key).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return Question{}, ErrNotFound
	}
	if err != nil {
		return Question{}, err
	}
	return s.QuestionByID(ctx, id)
}

func (s *store) OptionsOf(ctx context.Context, questionID int64) ([]Option, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, COALESCE(next_question_id, 0)
		FROM options
		WHERE question_id = $1
		ORDER BY position ASC
	`, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Option
	for rows.Next() {
		var key string
		var nextID int64
		if err := rows.Scan(&key, &nextID); err != nil {
			return nil, err
		}
		out = append(out, Option{Key: key, Next: nextFromID(nextID)})
	}
	return out, rows.Err()
}

func (s *store) OptionByKey(ctx context.Context, key string) (Option, error) {
	var nextID int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(next_question_id, 0) FROM options WHERE key = $1
	`, key).Scan(&nextID)
	if errors.Is(err, sql.ErrNoRows) {
		return Option{}, ErrNotFound
	}
	if err != nil {
		return Option{}, err
	}
	return Option{Key: key, Next: nextFromID(nextID)}, nil
}

// A zero or NULL next_question_id marks a terminal option in storage.
func nextFromID(id int64) Next {
	if id == 0 {
		return Terminal()
	}
	return Continue(id)
}
