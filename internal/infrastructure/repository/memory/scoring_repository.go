package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/scoring"
)

type ScoringRepository struct {
	mu    sync.RWMutex
	items map[string][]scoring.BreakdownRow
}

func NewScoringRepository() *ScoringRepository {
	return &ScoringRepository{items: make(map[string][]scoring.BreakdownRow)}
}

func (r *ScoringRepository) InsertMany(_ context.Context, rows []scoring.BreakdownRow) error {
	if len(rows) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range rows {
		r.items[row.SessionID] = append(r.items[row.SessionID], cloneRow(row))
	}
	return nil
}

func (r *ScoringRepository) ListBySession(_ context.Context, sessionID string) ([]scoring.BreakdownRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.items[sessionID]
	out := make([]scoring.BreakdownRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, cloneRow(row))
	}
	return out, nil
}

func (r *ScoringRepository) DeleteBySession(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, sessionID)
	return nil
}

func cloneRow(row scoring.BreakdownRow) scoring.BreakdownRow {
	copied := row
	copied.RuleWise = append([]scoring.Contribution(nil), row.RuleWise...)
	return copied
}
