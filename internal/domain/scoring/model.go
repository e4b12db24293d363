package scoring

import "time"

const (
	TeamUser   = "USER"
	TeamFriend = "FRIEND"
)

// Contribution is one rule's share of a player's total. Counting and
// milestone entries carry the count, the per-event points and the computed
// result; the captainMultiplier entry carries the multiplier and the
// before/after totals instead.
type Contribution struct {
	Event      string
	Count      int
	UnitPoints float64
	Points     float64
	Multiplier float64
	Before     float64
	After      float64
}

// BreakdownRow is the persisted per-player result of a calculation. Rows are
// a derived cache: deleted and regenerated wholesale, never patched in place.
type BreakdownRow struct {
	SessionID   string
	Team        string
	PlayerID    string
	IsCaptain   bool
	TotalPoints float64
	RuleWise    []Contribution
	GeneratedAt time.Time
}
