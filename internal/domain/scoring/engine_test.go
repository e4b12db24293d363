package scoring

import (
	"testing"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/playerstats"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/ruleset"
)

func rule(event string, points, multiplier float64) ruleset.Rule {
	return ruleset.Rule{Event: event, Points: points, Multiplier: multiplier, Enabled: true}
}

func contributionFor(t *testing.T, result Result, event string) Contribution {
	t.Helper()
	for _, c := range result.PerRule {
		if c.Event == event {
			return c
		}
	}
	t.Fatalf("no contribution recorded for %s", event)
	return Contribution{}
}

func TestCompute_CountingEvents(t *testing.T) {
	t.Parallel()

	stats := playerstats.Record{Runs: 37, Fours: 4, Sixes: 2, Wickets: 1, Catches: 2, Runouts: 1}
	rules := []ruleset.Rule{
		rule(ruleset.EventRun, 1, 1),
		rule(ruleset.EventFour, 1, 2),
		rule(ruleset.EventSix, 2, 1),
		rule(ruleset.EventWicket, 25, 1),
		rule(ruleset.EventCatch, 8, 1),
		rule(ruleset.EventRunout, 12, 1),
	}

	result := Compute(stats, rules, false)

	want := 37.0 + 8 + 4 + 25 + 16 + 12
	if result.TotalPoints != want {
		t.Fatalf("total = %v, want %v", result.TotalPoints, want)
	}
	if got := contributionFor(t, result, ruleset.EventFour).Points; got != 8 {
		t.Fatalf("four contribution = %v, want 8", got)
	}
}

func TestCompute_CaptainMultiplierAppliesToSum(t *testing.T) {
	t.Parallel()

	stats := playerstats.Record{Runs: 50}
	rules := []ruleset.Rule{
		rule(ruleset.EventRun, 1, 1),
		rule(ruleset.EventCaptainMultiplier, 0, 2),
	}

	captain := Compute(stats, rules, true)
	if captain.TotalPoints != 100 {
		t.Fatalf("captain total = %v, want 100", captain.TotalPoints)
	}
	entry := contributionFor(t, captain, ruleset.EventCaptainMultiplier)
	if entry.Multiplier != 2 || entry.Before != 50 || entry.After != 100 {
		t.Fatalf("unexpected captain entry: %+v", entry)
	}

	regular := Compute(stats, rules, false)
	if regular.TotalPoints != 50 {
		t.Fatalf("non-captain total = %v, want 50", regular.TotalPoints)
	}
	for _, c := range regular.PerRule {
		if c.Event == ruleset.EventCaptainMultiplier {
			t.Fatal("captain entry recorded for non-captain")
		}
	}
}

func TestCompute_MilestoneBoundaries(t *testing.T) {
	t.Parallel()

	rules := []ruleset.Rule{
		rule(ruleset.EventFifty, 10, 1),
		rule(ruleset.EventHundred, 25, 1),
	}

	if got := Compute(playerstats.Record{Runs: 49}, rules, false).TotalPoints; got != 0 {
		t.Fatalf("49 runs scored %v, want 0", got)
	}
	if got := Compute(playerstats.Record{Runs: 50}, rules, false).TotalPoints; got != 10 {
		t.Fatalf("50 runs scored %v, want 10", got)
	}
	if got := Compute(playerstats.Record{Runs: 100}, rules, false).TotalPoints; got != 35 {
		t.Fatalf("100 runs scored %v, want 35 (fifty and hundred)", got)
	}
}

func TestCompute_WicketMilestones(t *testing.T) {
	t.Parallel()

	rules := []ruleset.Rule{
		rule(ruleset.EventThreeWicket, 15, 1),
		rule(ruleset.EventFiveWicket, 30, 1),
	}

	if got := Compute(playerstats.Record{Wickets: 2}, rules, false).TotalPoints; got != 0 {
		t.Fatalf("2 wickets scored %v, want 0", got)
	}
	if got := Compute(playerstats.Record{Wickets: 3}, rules, false).TotalPoints; got != 15 {
		t.Fatalf("3 wickets scored %v, want 15", got)
	}
	if got := Compute(playerstats.Record{Wickets: 5}, rules, false).TotalPoints; got != 45 {
		t.Fatalf("5 wickets scored %v, want 45", got)
	}
}

func TestCompute_DisabledRulesExcluded(t *testing.T) {
	t.Parallel()

	rules := []ruleset.Rule{
		rule(ruleset.EventRun, 1, 1),
		{Event: ruleset.EventSix, Points: 100, Multiplier: 1, Enabled: false},
	}

	result := Compute(playerstats.Record{Runs: 10, Sixes: 3}, rules, false)
	if result.TotalPoints != 10 {
		t.Fatalf("total = %v, want 10", result.TotalPoints)
	}
	for _, c := range result.PerRule {
		if c.Event == ruleset.EventSix {
			t.Fatal("disabled rule present in per-rule contributions")
		}
	}
}

func TestCompute_UnmetMilestoneRecordsZero(t *testing.T) {
	t.Parallel()

	rules := []ruleset.Rule{rule(ruleset.EventFifty, 10, 1)}
	result := Compute(playerstats.Record{Runs: 12}, rules, false)

	if got := contributionFor(t, result, ruleset.EventFifty).Points; got != 0 {
		t.Fatalf("unmet milestone contribution = %v, want 0", got)
	}
}

func TestCompute_Deterministic(t *testing.T) {
	t.Parallel()

	stats := playerstats.Record{Runs: 61, Fours: 7, Sixes: 2, Wickets: 3}
	rules := []ruleset.Rule{
		rule(ruleset.EventRun, 1, 1),
		rule(ruleset.EventFifty, 10, 2),
		rule(ruleset.EventThreeWicket, 15, 1),
		rule(ruleset.EventCaptainMultiplier, 0, 2),
	}

	first := Compute(stats, rules, true)
	for i := 0; i < 10; i++ {
		again := Compute(stats, rules, true)
		if again.TotalPoints != first.TotalPoints {
			t.Fatalf("run %d total %v differs from first %v", i, again.TotalPoints, first.TotalPoints)
		}
		if len(again.PerRule) != len(first.PerRule) {
			t.Fatalf("run %d per-rule length differs", i)
		}
		for j := range again.PerRule {
			if again.PerRule[j] != first.PerRule[j] {
				t.Fatalf("run %d contribution %d differs", i, j)
			}
		}
	}
}
