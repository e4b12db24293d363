package selection

import "context"

// Repository exposes selection read and write operations.
type Repository interface {
	GetBySessionID(ctx context.Context, sessionID string) (Selection, error)
	Save(ctx context.Context, sel Selection) error
}
