package scoring

import "context"

// Repository exposes breakdown row storage.
type Repository interface {
	InsertMany(ctx context.Context, rows []BreakdownRow) error
	ListBySession(ctx context.Context, sessionID string) ([]BreakdownRow, error)
	DeleteBySession(ctx context.Context, sessionID string) error
}
