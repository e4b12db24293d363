package scoring

import (
	"github.com/riskibarqy/fantasy-cricket/internal/domain/playerstats"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/ruleset"
)

// Milestone thresholds on accumulated stats.
const (
	FiftyRuns        = 50
	HundredRuns      = 100
	ThreeWicketCount = 3
	FiveWicketCount  = 5
)

// Result is the outcome of scoring one player against one rule set.
type Result struct {
	TotalPoints float64
	PerRule     []Contribution
}

// Compute scores raw stats against an ordered rule set. Pure and
// deterministic. Disabled rules contribute nothing and are omitted from
// PerRule. The captain multiplier is applied to the sum of all other
// contributions after the rule loop, never per event.
func Compute(stats playerstats.Record, rules []ruleset.Rule, isCaptain bool) Result {
	var (
		total   float64
		perRule []Contribution
		captain *ruleset.Rule
	)

	for i, rule := range rules {
		if !rule.Enabled {
			continue
		}
		if rule.Event == ruleset.EventCaptainMultiplier {
			if captain == nil {
				captain = &rules[i]
			}
			continue
		}

		multiplier := rule.Multiplier
		if multiplier == 0 {
			multiplier = 1
		}

		var (
			count        int
			contribution float64
		)
		switch {
		case ruleset.IsCountingEvent(rule.Event):
			count = countFor(stats, rule.Event)
			contribution = float64(count) * rule.Points * multiplier
		case ruleset.IsMilestoneEvent(rule.Event):
			if milestoneMet(stats, rule.Event) {
				count = 1
				contribution = rule.Points * multiplier
			}
		default:
			continue
		}

		perRule = append(perRule, Contribution{
			Event:      rule.Event,
			Count:      count,
			UnitPoints: rule.Points,
			Multiplier: multiplier,
			Points:     contribution,
		})
		total += contribution
	}

	if isCaptain && captain != nil {
		multiplier := captain.Multiplier
		if multiplier == 0 {
			multiplier = 1
		}
		after := total * multiplier
		perRule = append(perRule, Contribution{
			Event:      ruleset.EventCaptainMultiplier,
			Multiplier: multiplier,
			Before:     total,
			After:      after,
		})
		total = after
	}

	return Result{TotalPoints: total, PerRule: perRule}
}

func countFor(stats playerstats.Record, event string) int {
	switch event {
	case ruleset.EventRun:
		return stats.Runs
	case ruleset.EventFour:
		return stats.Fours
	case ruleset.EventSix:
		return stats.Sixes
	case ruleset.EventWicket:
		return stats.Wickets
	case ruleset.EventCatch:
		return stats.Catches
	case ruleset.EventRunout:
		return stats.Runouts
	default:
		return 0
	}
}

func milestoneMet(stats playerstats.Record, event string) bool {
	switch event {
	case ruleset.EventFifty:
		return stats.Runs >= FiftyRuns
	case ruleset.EventHundred:
		return stats.Runs >= HundredRuns
	case ruleset.EventThreeWicket:
		return stats.Wickets >= ThreeWicketCount
	case ruleset.EventFiveWicket:
		return stats.Wickets >= FiveWicketCount
	default:
		return false
	}
}
