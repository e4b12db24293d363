package ruleset

import "context"

// Repository exposes rule set read operations.
type Repository interface {
	GetByID(ctx context.Context, id string) (RuleSet, error)
}
