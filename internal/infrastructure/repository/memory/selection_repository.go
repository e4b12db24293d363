package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/selection"
)

type SelectionRepository struct {
	mu    sync.RWMutex
	items map[string]selection.Selection
}

func NewSelectionRepository() *SelectionRepository {
	return &SelectionRepository{items: make(map[string]selection.Selection)}
}

func (r *SelectionRepository) GetBySessionID(_ context.Context, sessionID string) (selection.Selection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[sessionID]
	if !ok {
		return selection.Selection{}, ErrNotFound
	}
	return cloneSelection(item), nil
}

func (r *SelectionRepository) Save(_ context.Context, sel selection.Selection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[sel.SessionID] = cloneSelection(sel)
	return nil
}

func cloneSelection(item selection.Selection) selection.Selection {
	copied := item
	copied.UserPlayers = append([]string(nil), item.UserPlayers...)
	copied.FriendPlayers = append([]string(nil), item.FriendPlayers...)
	if item.FrozenAt != nil {
		at := *item.FrozenAt
		copied.FrozenAt = &at
	}
	return copied
}
