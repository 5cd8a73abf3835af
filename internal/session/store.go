package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const keyPrefix = "circuitsizer:session:"

// Store persists sessions as JSON in a KVStore.
type Store struct {
	kv     KVStore
	ttl    time.Duration
	logger *zap.Logger
}

// NewStore creates a session store. A zero ttl keeps sessions indefinitely.
func NewStore(kv KVStore, ttl time.Duration, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		kv:     kv,
		ttl:    ttl,
		logger: logger,
	}
}

func sessionKey(id string) string {
	return keyPrefix + id
}

// Load reads a session. It returns ErrNotFound if the session does not exist.
func (s *Store) Load(ctx context.Context, id string) (*Session, error) {
	raw, err := s.kv.Get(ctx, sessionKey(id))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session %s: %w", id, err)
	}

	var st state
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session %s: %w", id, err)
	}
	if st.ID == "" {
		st.ID = id
	}

	s.logger.Debug("Loaded session",
		zap.String("session_id", id),
		zap.Int("rooms", len(st.Rooms)),
	)
	return fromState(st), nil
}

// LoadOrNew reads a session or starts an empty one when none is stored.
func (s *Store) LoadOrNew(ctx context.Context, id string) (*Session, error) {
	sess, err := s.Load(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return New(id), nil
	}
	return sess, err
}

// Save writes the session with the store's TTL.
func (s *Store) Save(ctx context.Context, sess *Session) error {
	st := sess.snapshotState()
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to marshal session %s: %w", st.ID, err)
	}

	if err := s.kv.Set(ctx, sessionKey(st.ID), string(data), s.ttl); err != nil {
		return fmt.Errorf("failed to save session %s: %w", st.ID, err)
	}

	s.logger.Debug("Saved session",
		zap.String("session_id", st.ID),
		zap.Int("rooms", len(st.Rooms)),
		zap.Int("undo_depth", len(st.Undo)),
	)
	return nil
}

// Delete removes a stored session.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.kv.Del(ctx, sessionKey(id)); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	return nil
}
