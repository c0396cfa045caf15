package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type postgresStore struct {
	db  *sqlx.DB
	ttl time.Duration
}

// NewPostgresStore returns a Store backed by the sessions table. The
// session document is kept as a single JSONB column so schema changes
// never require a migration.
func NewPostgresStore(db *sqlx.DB, ttl time.Duration) Store {
	return &postgresStore{db: db, ttl: ttl}
}

func (s *postgresStore) Get(ctx context.Context, userID int64) (*Session, error) {
	var raw []byte
	err := s.db.GetContext(ctx, &raw,
		`SELECT data FROM sessions WHERE telegram_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if sess.Expired(s.ttl) {
		_ = s.Clear(ctx, userID)
		if sess.InFlow() {
			return nil, ErrExpired
		}
		return nil, nil
	}
	return &sess, nil
}

func (s *postgresStore) Put(ctx context.Context, userID int64, sess *Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (telegram_id, data, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (telegram_id)
		 DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		userID, raw)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

func (s *postgresStore) Clear(ctx context.Context, userID int64) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE telegram_id = $1`, userID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
