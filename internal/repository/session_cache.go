package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Edelweiss/internal/domain/models"
	drepo "Edelweiss/internal/domain/repository"
	"Edelweiss/pkg/cache"
)

// SessionCache persists per-session selection snapshots in the cache
// backend. Only the selection survives a restart; request state is
// rebuilt by the first fetch of a new process.
type SessionCache struct {
	cache cache.Service
	ttl   time.Duration
}

// NewSessionCache creates a SessionStore backed by cache.Service.
func NewSessionCache(c cache.Service, ttl time.Duration) drepo.SessionStore {
	return &SessionCache{cache: c, ttl: ttl}
}

func (s *SessionCache) SaveSelection(ctx context.Context, sessionID string, sel models.SelectionState) error {
	if err := s.cache.Set(ctx, selectionKey(sessionID), sel, s.ttl); err != nil {
		return fmt.Errorf("save selection: %w", err)
	}
	return nil
}

func (s *SessionCache) LoadSelection(ctx context.Context, sessionID string) (models.SelectionState, bool, error) {
	var sel models.SelectionState
	err := s.cache.Get(ctx, selectionKey(sessionID), &sel)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return models.SelectionState{}, false, nil
		}
		return models.SelectionState{}, false, fmt.Errorf("load selection: %w", err)
	}
	return sel, true, nil
}

func (s *SessionCache) DeleteSelection(ctx context.Context, sessionID string) error {
	return s.cache.Delete(ctx, selectionKey(sessionID))
}

func selectionKey(sessionID string) string {
	return "session:selection:" + sessionID
}
