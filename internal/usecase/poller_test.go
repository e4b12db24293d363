package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/selection"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/session"
	"github.com/riskibarqy/fantasy-cricket/internal/infrastructure/repository/memory"
)

type recordingRefresher struct {
	mu       sync.Mutex
	sessions []string
	err      error
}

func (r *recordingRefresher) RefreshSessionStats(_ context.Context, sessionID string) (RefreshResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = append(r.sessions, sessionID)
	return RefreshResult{SessionID: sessionID}, r.err
}

func (r *recordingRefresher) refreshed() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.sessions...)
}

func frozenSelection(t *testing.T, sessionID string) selection.Selection {
	t.Helper()
	sel := selection.Selection{SessionID: sessionID}
	if err := sel.SetSide(selection.SideUser, sidePlayers("u"), "u-1"); err != nil {
		t.Fatalf("set user side: %v", err)
	}
	if err := sel.SetSide(selection.SideFriend, sidePlayers("f"), "f-1"); err != nil {
		t.Fatalf("set friend side: %v", err)
	}
	if err := sel.Freeze(time.Now().UTC()); err != nil {
		t.Fatalf("freeze: %v", err)
	}
	return sel
}

func TestStatsPoller_RunOnce_RefreshesOnlyFrozenRecentSessions(t *testing.T) {
	now := time.Now().UTC()
	sessions := []session.Session{
		{ID: "frozen-recent", MatchID: "1", CreatedAt: now.Add(-time.Hour)},
		{ID: "unfrozen-recent", MatchID: "2", CreatedAt: now.Add(-time.Hour)},
		{ID: "frozen-stale", MatchID: "3", CreatedAt: now.Add(-100 * time.Hour)},
	}
	sessionRepo := memory.NewSessionRepository(sessions...)
	selectionRepo := memory.NewSelectionRepository()
	ctx := context.Background()
	if err := selectionRepo.Save(ctx, frozenSelection(t, "frozen-recent")); err != nil {
		t.Fatalf("save selection: %v", err)
	}
	if err := selectionRepo.Save(ctx, frozenSelection(t, "frozen-stale")); err != nil {
		t.Fatalf("save selection: %v", err)
	}
	if err := selectionRepo.Save(ctx, selection.Selection{SessionID: "unfrozen-recent"}); err != nil {
		t.Fatalf("save selection: %v", err)
	}

	refresher := &recordingRefresher{}
	poller := NewStatsPoller(sessionRepo, selectionRepo, refresher, nil, StatsPollerConfig{
		Lookback: 72 * time.Hour,
		Workers:  2,
	})

	pool, err := ants.NewPool(2)
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	defer pool.Release()

	poller.RunOnce(ctx, pool)

	refreshed := refresher.refreshed()
	if len(refreshed) != 1 || refreshed[0] != "frozen-recent" {
		t.Fatalf("refreshed = %v, want only frozen-recent", refreshed)
	}
}

func TestStatsPoller_RunOnce_SessionFailureDoesNotStopTick(t *testing.T) {
	now := time.Now().UTC()
	sessionRepo := memory.NewSessionRepository(
		session.Session{ID: "sess-a", MatchID: "1", CreatedAt: now},
		session.Session{ID: "sess-b", MatchID: "2", CreatedAt: now},
	)
	selectionRepo := memory.NewSelectionRepository()
	ctx := context.Background()
	for _, id := range []string{"sess-a", "sess-b"} {
		if err := selectionRepo.Save(ctx, frozenSelection(t, id)); err != nil {
			t.Fatalf("save selection: %v", err)
		}
	}

	refresher := &recordingRefresher{err: errors.New("scrape failed")}
	poller := NewStatsPoller(sessionRepo, selectionRepo, refresher, nil, StatsPollerConfig{Workers: 1})

	pool, err := ants.NewPool(1)
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	defer pool.Release()

	poller.RunOnce(ctx, pool)

	if len(refresher.refreshed()) != 2 {
		t.Fatalf("refreshed = %v, want both sessions attempted", refresher.refreshed())
	}
}

func TestStatsPoller_Run_StopsOnContextCancel(t *testing.T) {
	poller := NewStatsPoller(memory.NewSessionRepository(), memory.NewSelectionRepository(), &recordingRefresher{}, nil, StatsPollerConfig{
		Interval: 10 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- poller.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("run returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("poller did not stop after cancel")
	}
}
