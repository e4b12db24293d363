package playerstats

import "time"

// Record holds one player's raw counting statistics for a match. Counts are
// additive across innings; a player batting twice accumulates.
type Record struct {
	PlayerID string
	Runs     int
	Fours    int
	Sixes    int
	Wickets  int
	Catches  int
	Runouts  int
}

// Add folds another record's counts into r.
func (r *Record) Add(other Record) {
	r.Runs += other.Runs
	r.Fours += other.Fours
	r.Sixes += other.Sixes
	r.Wickets += other.Wickets
	r.Catches += other.Catches
	r.Runouts += other.Runouts
}

func (r Record) IsZero() bool {
	return r.Runs == 0 && r.Fours == 0 && r.Sixes == 0 &&
		r.Wickets == 0 && r.Catches == 0 && r.Runouts == 0
}

// SessionStat is a persisted stat row keyed by (sessionID, playerID). The
// playerID here is the user's selected token, which may differ from the
// external id the stats were scraped under.
type SessionStat struct {
	SessionID string
	PlayerID  string
	Stats     Record
	UpdatedAt time.Time
}
