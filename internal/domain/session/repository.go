package session

import (
	"context"
	"time"
)

// Repository exposes session read operations.
type Repository interface {
	GetByID(ctx context.Context, id string) (Session, error)
	// ListCreatedSince returns sessions created at or after the cutoff,
	// newest first, capped at limit.
	ListCreatedSince(ctx context.Context, cutoff time.Time, limit int) ([]Session, error)
}
