package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"paperplane/internal/cache"
	"paperplane/internal/domain"
)

// cacheSessionStore keeps sessions in the cache until they expire.
type cacheSessionStore struct {
	cache domain.Cache
	now   func() time.Time
}

func NewSessionStore(c domain.Cache) domain.SessionStore {
	return &cacheSessionStore{cache: c, now: time.Now}
}

func (s *cacheSessionStore) Save(ctx context.Context, session *domain.Session) error {
	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return domain.NewInvalidInputError("session already expired")
	}
	raw, err := json.Marshal(session)
	if err != nil {
		return domain.NewInternalError("failed to encode session", err)
	}
	if err := s.cache.Set(ctx, cache.SessionKey(session.ID), string(raw), ttl); err != nil {
		return domain.NewStorageError("failed to store session", err)
	}
	return nil
}

// Get returns an UNAUTHORIZED error for unknown or revoked sessions.
func (s *cacheSessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	raw, err := s.cache.Get(ctx, cache.SessionKey(id))
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, domain.NewUnauthorizedError("session expired or revoked")
		}
		return nil, domain.NewStorageError("failed to read session", err)
	}
	var session domain.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, domain.NewInternalError("failed to decode session", err)
	}
	return &session, nil
}

func (s *cacheSessionStore) Revoke(ctx context.Context, id string) error {
	if err := s.cache.Delete(ctx, cache.SessionKey(id)); err != nil {
		return domain.NewStorageError("failed to revoke session", err)
	}
	return nil
}
