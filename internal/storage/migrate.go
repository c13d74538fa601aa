package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate creates the bot's tables when they do not exist yet. Question,
// option and translation content is authored directly in these tables and
// is read-only to the running bot.
func Migrate(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS questions (
			id   BIGINT PRIMARY KEY,
			key  TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS options (
			id               BIGSERIAL PRIMARY KEY,
			question_id      BIGINT NOT NULL REFERENCES questions (id),
			key              TEXT NOT NULL UNIQUE,
			next_question_id BIGINT,
			position         INT NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS translations (
			key      TEXT NOT NULL,
			language TEXT NOT NULL,
			text     TEXT NOT NULL,
			PRIMARY KEY (key, language)
		)`,
		`CREATE TABLE IF NOT EXISTS clients (
			client_id    BIGSERIAL PRIMARY KEY,
			chat_id      BIGINT NOT NULL UNIQUE,
			full_name    TEXT NOT NULL,
			phone_number TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id            UUID PRIMARY KEY,
			client_id     BIGINT NOT NULL REFERENCES clients (client_id) ON DELETE CASCADE,
			registered_at TIMESTAMPTZ NOT NULL,
			active        BOOLEAN NOT NULL DEFAULT true
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("storage: migrate: %w", err)
		}
	}
	return nil
}
