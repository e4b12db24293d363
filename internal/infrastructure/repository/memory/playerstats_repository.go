package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/playerstats"
)

type PlayerStatsRepository struct {
	mu    sync.RWMutex
	items map[string]map[string]playerstats.SessionStat
}

func NewPlayerStatsRepository() *PlayerStatsRepository {
	return &PlayerStatsRepository{items: make(map[string]map[string]playerstats.SessionStat)}
}

func (r *PlayerStatsRepository) Upsert(_ context.Context, stat playerstats.SessionStat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	byPlayer, ok := r.items[stat.SessionID]
	if !ok {
		byPlayer = make(map[string]playerstats.SessionStat)
		r.items[stat.SessionID] = byPlayer
	}
	byPlayer[stat.PlayerID] = stat
	return nil
}

func (r *PlayerStatsRepository) ListBySession(_ context.Context, sessionID string) ([]playerstats.SessionStat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byPlayer := r.items[sessionID]
	out := make([]playerstats.SessionStat, 0, len(byPlayer))
	for _, stat := range byPlayer {
		out = append(out, stat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out, nil
}

func (r *PlayerStatsRepository) DeleteBySession(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, sessionID)
	return nil
}
