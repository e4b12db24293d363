package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/playerstats"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/ruleset"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/scoring"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/selection"
	"github.com/riskibarqy/fantasy-cricket/internal/infrastructure/repository/memory"
)

func breakdownRuleSet() ruleset.RuleSet {
	return ruleset.RuleSet{
		ID:   "ruleset-breakdown",
		Name: "Breakdown",
		Rules: []ruleset.Rule{
			{Event: ruleset.EventRun, Points: 1, Multiplier: 1, Enabled: true},
			{Event: ruleset.EventFour, Points: 1, Multiplier: 2, Enabled: true},
			{Event: ruleset.EventWicket, Points: 25, Multiplier: 1, Enabled: true},
			{Event: ruleset.EventFifty, Points: 8, Multiplier: 1, Enabled: true},
			{Event: ruleset.EventFiveWicket, Points: 16, Multiplier: 1, Enabled: true},
			{Event: ruleset.EventCaptainMultiplier, Multiplier: 2, Enabled: true},
		},
	}
}

func breakdownFixture(t *testing.T) (*BreakdownService, *memory.PlayerStatsRepository) {
	t.Helper()

	sess := seedSession("sess-1")
	sess.RuleSetID = "ruleset-breakdown"
	sessionRepo := memory.NewSessionRepository(sess)

	selectionRepo := memory.NewSelectionRepository()
	sel := selection.Selection{
		SessionID:     "sess-1",
		UserPlayers:   []string{"RG Sharma", "V Kohli", "u-3", "u-4", "u-5", "u-6"},
		UserCaptain:   "RG Sharma",
		FriendPlayers: []string{"MA Starc", "f-2", "f-3", "f-4", "f-5", "f-6"},
		FriendCaptain: "f-2",
		IsFrozen:      true,
	}
	if err := selectionRepo.Save(context.Background(), sel); err != nil {
		t.Fatalf("save selection: %v", err)
	}

	rulesetRepo := memory.NewRuleSetRepository(breakdownRuleSet())
	statsRepo := memory.NewPlayerStatsRepository()
	return NewBreakdownService(sessionRepo, selectionRepo, rulesetRepo, statsRepo), statsRepo
}

func TestBreakdownService_Build(t *testing.T) {
	svc, statsRepo := breakdownFixture(t)
	now := time.Now().UTC()
	seedStats := []playerstats.SessionStat{
		{SessionID: "sess-1", PlayerID: "RG Sharma", Stats: playerstats.Record{PlayerID: "RG Sharma", Runs: 52, Fours: 6}, UpdatedAt: now},
		{SessionID: "sess-1", PlayerID: "MA Starc", Stats: playerstats.Record{PlayerID: "MA Starc", Wickets: 5}, UpdatedAt: now},
	}
	for _, stat := range seedStats {
		if err := statsRepo.Upsert(context.Background(), stat); err != nil {
			t.Fatalf("upsert stat: %v", err)
		}
	}

	breakdown, err := svc.Build(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if breakdown.MatchID != "112233" || breakdown.MatchName != "India vs Australia" {
		t.Fatalf("match echo = %q / %q", breakdown.MatchID, breakdown.MatchName)
	}
	if breakdown.RuleSetID != "ruleset-breakdown" {
		t.Fatalf("rule set echo = %q", breakdown.RuleSetID)
	}
	if len(breakdown.User.Players) != 6 || len(breakdown.Friend.Players) != 6 {
		t.Fatalf("player counts = %d / %d", len(breakdown.User.Players), len(breakdown.Friend.Players))
	}

	captain := breakdown.User.Players[0]
	if captain.PlayerID != "RG Sharma" || !captain.IsCaptain {
		t.Fatalf("unexpected first user player: %+v", captain)
	}
	wantLines := []string{
		"run: 52 x 1 = 52",
		"four: 6 x 1 x 2 = 12",
		"wicket: 0 x 25 = 0",
		"fifty: 8 = 8",
		"fiveWicket: 0 = 0",
		"captain: 72 x 2 = 144",
	}
	if len(captain.Lines) != len(wantLines) {
		t.Fatalf("line count = %d, want %d: %v", len(captain.Lines), len(wantLines), captain.Lines)
	}
	for i, want := range wantLines {
		if captain.Lines[i] != want {
			t.Fatalf("line %d = %q, want %q", i, captain.Lines[i], want)
		}
	}
	if captain.Subtotal != 72 || captain.Total != 144 {
		t.Fatalf("captain subtotal/total = %v / %v", captain.Subtotal, captain.Total)
	}

	bowler := breakdown.Friend.Players[0]
	wantBowler := []string{
		"run: 0 x 1 = 0",
		"four: 0 x 1 x 2 = 0",
		"wicket: 5 x 25 = 125",
		"fifty: 0 = 0",
		"fiveWicket: 16 = 16",
	}
	if len(bowler.Lines) != len(wantBowler) {
		t.Fatalf("bowler line count = %d: %v", len(bowler.Lines), bowler.Lines)
	}
	for i, want := range wantBowler {
		if bowler.Lines[i] != want {
			t.Fatalf("bowler line %d = %q, want %q", i, bowler.Lines[i], want)
		}
	}
	if bowler.Subtotal != 141 || bowler.Total != 141 {
		t.Fatalf("bowler subtotal/total = %v / %v", bowler.Subtotal, bowler.Total)
	}

	if breakdown.User.Total != 144 || breakdown.Friend.Total != 141 {
		t.Fatalf("team totals = %v / %v", breakdown.User.Total, breakdown.Friend.Total)
	}
	if breakdown.GrandTotal != 285 {
		t.Fatalf("grand total = %v, want 285", breakdown.GrandTotal)
	}
	if breakdown.Winner != scoring.TeamUser {
		t.Fatalf("winner = %q", breakdown.Winner)
	}
}

func TestBreakdownService_Build_ZeroStatsBeforeRefresh(t *testing.T) {
	svc, _ := breakdownFixture(t)

	breakdown, err := svc.Build(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("expected zero-filled breakdown without stats, got %v", err)
	}

	if breakdown.User.Total != 0 || breakdown.Friend.Total != 0 || breakdown.GrandTotal != 0 {
		t.Fatalf("totals = %v / %v / %v, want all zero", breakdown.User.Total, breakdown.Friend.Total, breakdown.GrandTotal)
	}
	if breakdown.Winner != "" {
		t.Fatalf("winner = %q, want draw", breakdown.Winner)
	}
	for _, player := range append(breakdown.User.Players, breakdown.Friend.Players...) {
		if len(player.Lines) == 0 {
			t.Fatalf("player %s has no lines", player.PlayerID)
		}
		if player.Lines[0] != "run: 0 x 1 = 0" {
			t.Fatalf("player %s first line = %q", player.PlayerID, player.Lines[0])
		}
	}

	captain := breakdown.User.Players[0]
	if got := captain.Lines[len(captain.Lines)-1]; got != "captain: 0 x 2 = 0" {
		t.Fatalf("captain line = %q", got)
	}
}

func TestBreakdownService_Build_SessionMissing(t *testing.T) {
	svc := NewBreakdownService(
		memory.NewSessionRepository(),
		memory.NewSelectionRepository(),
		memory.NewRuleSetRepository(breakdownRuleSet()),
		memory.NewPlayerStatsRepository(),
	)

	_, err := svc.Build(context.Background(), "sess-1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBreakdownService_Build_SelectionMissing(t *testing.T) {
	sess := seedSession("sess-1")
	sess.RuleSetID = "ruleset-breakdown"
	svc := NewBreakdownService(
		memory.NewSessionRepository(sess),
		memory.NewSelectionRepository(),
		memory.NewRuleSetRepository(breakdownRuleSet()),
		memory.NewPlayerStatsRepository(),
	)

	_, err := svc.Build(context.Background(), "sess-1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBreakdownService_Build_RuleSetMissing(t *testing.T) {
	sess := seedSession("sess-1")
	sess.RuleSetID = "ruleset-missing"
	sessionRepo := memory.NewSessionRepository(sess)
	selectionRepo := memory.NewSelectionRepository()
	sel := selection.Selection{
		SessionID:     "sess-1",
		UserPlayers:   sidePlayers("u"),
		UserCaptain:   "u-1",
		FriendPlayers: sidePlayers("f"),
		FriendCaptain: "f-1",
		IsFrozen:      true,
	}
	if err := selectionRepo.Save(context.Background(), sel); err != nil {
		t.Fatalf("save selection: %v", err)
	}
	svc := NewBreakdownService(sessionRepo, selectionRepo, memory.NewRuleSetRepository(), memory.NewPlayerStatsRepository())

	_, err := svc.Build(context.Background(), "sess-1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
