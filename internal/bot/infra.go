package bot

import (
	"context"
	"database/sql"
	"errors"
)

type repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) Repo {
	return &repo{db: db}
}

func (r *repo) CreateClient(ctx context.Context, client *Client) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO clients (chat_id, full_name, phone_number)
		VALUES ($1, $2, $3)
		RETURNING client_id
	`,
		client.ChatID,
		client.FullName,
		client.PhoneNumber,
	).Scan(&client.ID)
}

func (r *repo) FindClientByChatID(ctx context.Context, chatID int64) (*Client, error) {
	var c Client
	err := r.db.QueryRowContext(ctx, `
		SELECT client_id, chat_id, full_name, phone_number
		FROM clients
		WHERE chat_id = $1
	`, chatID).Scan(&c.ID, &c.ChatID, &c.FullName, &c.PhoneNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repo) DeleteClient(ctx context.Context, clientID int64) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM clients WHERE client_id = $1
	`, clientID)
	return err
}

func (r *repo) CreateSession(ctx context.Context, session *Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, client_id, registered_at, active)
		VALUES ($1, $2, $3, $4)
	`,
		session.ID,
		session.ClientID,
		session.RegisteredAt,
		session.Active,
	)
	return err
}

func (r *repo) FindActiveSessionByClientID(ctx context.Context, clientID int64) (*Session, error) {
	var s Session
	err := r.db.QueryRowContext(ctx, `
		SELECT id, client_id, registered_at, active
		FROM sessions
		WHERE client_id = $1 AND active = true
		ORDER BY registered_at DESC
		LIMIT 1
	`, clientID).Scan(&s.ID, &s.ClientID, &s.RegisteredAt, &s.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
