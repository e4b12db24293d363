package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/session"
)

var ErrNotFound = errors.New("memory: not found")

type SessionRepository struct {
	mu    sync.RWMutex
	items map[string]session.Session
}

func NewSessionRepository(seed ...session.Session) *SessionRepository {
	r := &SessionRepository{items: make(map[string]session.Session, len(seed))}
	for _, item := range seed {
		r.items[item.ID] = item
	}
	return r
}

func (r *SessionRepository) GetByID(_ context.Context, id string) (session.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return session.Session{}, ErrNotFound
	}
	return item, nil
}

func (r *SessionRepository) ListCreatedSince(_ context.Context, cutoff time.Time, limit int) ([]session.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]session.Session, 0, len(r.items))
	for _, item := range r.items {
		if item.CreatedAt.Before(cutoff) {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *SessionRepository) Put(item session.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = item
}
