package session

import (
	"context"
	"errors"
)

// ErrExpired is returned by Get when the idle timeout discarded a
// session that still had a flow in progress. The store has already
// cleared the record; the caller owes the user an expiry notice.
var ErrExpired = errors.New("session expired")

// Store persists sessions keyed by Telegram user ID. Get returns
// (nil, nil) when no session exists and (nil, ErrExpired) when an
// in-flow session just timed out; callers decide whether to start a
// fresh one. Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, userID int64) (*Session, error)
	Put(ctx context.Context, userID int64, s *Session) error
	Clear(ctx context.Context, userID int64) error
}

// Config selects and tunes the session backend.
type Config struct {
	// Backend is one of "memory", "redis", "postgres".
	Backend string `yaml:"backend" envconfig:"SESSION_BACKEND"`
	// IdleTimeoutMinutes bounds how long an inactive conversation
	// survives before it is discarded.
	IdleTimeoutMinutes int `yaml:"idle_timeout_minutes" envconfig:"SESSION_IDLE_TIMEOUT_MINUTES"`
}
