package playerstats

import "context"

// Repository exposes per-session raw stat storage.
type Repository interface {
	Upsert(ctx context.Context, stat SessionStat) error
	ListBySession(ctx context.Context, sessionID string) ([]SessionStat, error)
	DeleteBySession(ctx context.Context, sessionID string) error
}
