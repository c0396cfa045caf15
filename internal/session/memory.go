package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type memoryStore struct {
	mu  sync.RWMutex
	ttl time.Duration
	m   map[int64][]byte
}

// NewMemoryStore constructs an in-process Store for tests and
// development. Sessions are copied through JSON so callers never
// share state with the store.
func NewMemoryStore(ttl time.Duration) Store {
	return &memoryStore{ttl: ttl, m: make(map[int64][]byte)}
}

func (s *memoryStore) Get(_ context.Context, userID int64) (*Session, error) {
	s.mu.RLock()
	raw, ok := s.m[userID]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, err
	}
	if sess.Expired(s.ttl) {
		s.mu.Lock()
		delete(s.m, userID)
		s.mu.Unlock()
		if sess.InFlow() {
			return nil, ErrExpired
		}
		return nil, nil
	}
	return &sess, nil
}

func (s *memoryStore) Put(_ context.Context, userID int64, sess *Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.m[userID] = raw
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Clear(_ context.Context, userID int64) error {
	s.mu.Lock()
	delete(s.m, userID)
	s.mu.Unlock()
	return nil
}
