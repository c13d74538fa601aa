package i18n

import (
	"context"
	"database/sql"
	"errors"
)

type store struct {
	db *sql.DB
}

// NewStore returns a Translator backed by the translations table.
func NewStore(db *sql.DB) Translator {
	return &store{db: db}
}

func (s *store) Translate(ctx context.Context, key string, lang Language) (string, error) {
	var text string
	err := s.db.QueryRowContext(ctx, `
		SELECT text FROM translations
		WHERE key = $1 AND language = $2
	`, key, string(lang)).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrMissingTranslation
	}
	if err != nil {
		return "", err
	}
	return text, nil
}

func (s *store) ReverseLookup(ctx context.Context, text string) (string, error) {
	var key string
	err := s.db.QueryRowContext(ctx, `
		SELECT key FROM translations
		WHERE text = $1
		LIMIT 1
	`, text).Scan(&key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrUnknownText
	}
	if err != nil {
		return "", err
	}
	return key, nil
}
