package ruleset

import "time"

// Scoring events. Counting events award per unit of the matching stat,
// milestone events award once when a threshold is met, and
// EventCaptainMultiplier scales the rostered captain's final total.
const (
	EventRun    = "run"
	EventFour   = "four"
	EventSix    = "six"
	EventWicket = "wicket"
	EventCatch  = "catch"
	EventRunout = "runout"

	EventFifty       = "fifty"
	EventHundred     = "hundred"
	EventThreeWicket = "threeWicket"
	EventFiveWicket  = "fiveWicket"

	EventCaptainMultiplier = "captainMultiplier"
)

var countingEvents = map[string]struct{}{
	EventRun:    {},
	EventFour:   {},
	EventSix:    {},
	EventWicket: {},
	EventCatch:  {},
	EventRunout: {},
}

var milestoneEvents = map[string]struct{}{
	EventFifty:       {},
	EventHundred:     {},
	EventThreeWicket: {},
	EventFiveWicket:  {},
}

func IsCountingEvent(event string) bool {
	_, ok := countingEvents[event]
	return ok
}

func IsMilestoneEvent(event string) bool {
	_, ok := milestoneEvents[event]
	return ok
}

// Rule awards points for one event.
type Rule struct {
	Event      string
	Points     float64
	Multiplier float64
	Enabled    bool
}

// RuleSet is an ordered list of rules owned by a user. A set referenced by a
// completed session's breakdown is never mutated; recomputation is explicit.
type RuleSet struct {
	ID         string
	OwnerID    string
	FriendID   string
	Name       string
	IsTemplate bool
	Rules      []Rule
	CreatedAt  time.Time
}

// CaptainRule returns the enabled captainMultiplier rule, if any.
func (rs RuleSet) CaptainRule() (Rule, bool) {
	for _, r := range rs.Rules {
		if r.Event == EventCaptainMultiplier && r.Enabled {
			return r, true
		}
	}
	return Rule{}, false
}
