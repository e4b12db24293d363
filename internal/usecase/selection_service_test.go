package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/selection"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/session"
	"github.com/riskibarqy/fantasy-cricket/internal/infrastructure/repository/memory"
)

func seedSession(id string) session.Session {
	return session.Session{
		ID:        id,
		UserID:    "user-1",
		FriendID:  "friend-1",
		MatchID:   "112233",
		MatchName: "India vs Australia",
		RuleSetID: memory.RuleSetIDStandard,
		CreatedAt: time.Now().UTC(),
	}
}

func sidePlayers(prefix string) []string {
	return []string{prefix + "-1", prefix + "-2", prefix + "-3", prefix + "-4", prefix + "-5", prefix + "-6"}
}

func TestSelectionService_SaveSide(t *testing.T) {
	sessionRepo := memory.NewSessionRepository(seedSession("sess-1"))
	selectionRepo := memory.NewSelectionRepository()
	svc := NewSelectionService(sessionRepo, selectionRepo)

	players := sidePlayers("u")
	sel, err := svc.SaveSide(context.Background(), "sess-1", selection.SideUser, players, "u-1")
	if err != nil {
		t.Fatalf("save side failed: %v", err)
	}
	if len(sel.UserPlayers) != 6 || sel.UserCaptain != "u-1" {
		t.Fatalf("unexpected selection: %+v", sel)
	}
}

func TestSelectionService_SaveSide_UnknownSession(t *testing.T) {
	svc := NewSelectionService(memory.NewSessionRepository(), memory.NewSelectionRepository())

	_, err := svc.SaveSide(context.Background(), "missing", selection.SideUser, sidePlayers("u"), "u-1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSelectionService_SaveSide_InvalidSize(t *testing.T) {
	svc := NewSelectionService(memory.NewSessionRepository(seedSession("sess-1")), memory.NewSelectionRepository())

	_, err := svc.SaveSide(context.Background(), "sess-1", selection.SideUser, []string{"a", "b"}, "a")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if !errors.Is(err, selection.ErrInvalidSideSize) {
		t.Fatalf("expected side size cause, got %v", err)
	}
}

func TestSelectionService_Freeze(t *testing.T) {
	sessionRepo := memory.NewSessionRepository(seedSession("sess-1"))
	selectionRepo := memory.NewSelectionRepository()
	svc := NewSelectionService(sessionRepo, selectionRepo)
	ctx := context.Background()

	if _, err := svc.SaveSide(ctx, "sess-1", selection.SideUser, sidePlayers("u"), "u-1"); err != nil {
		t.Fatalf("save user side: %v", err)
	}
	if _, err := svc.SaveSide(ctx, "sess-1", selection.SideFriend, sidePlayers("f"), "f-2"); err != nil {
		t.Fatalf("save friend side: %v", err)
	}

	sel, err := svc.Freeze(ctx, "sess-1")
	if err != nil {
		t.Fatalf("freeze failed: %v", err)
	}
	if !sel.IsFrozen || sel.FrozenAt == nil {
		t.Fatalf("selection not frozen: %+v", sel)
	}

	// Frozen selections reject edits and a second freeze.
	if _, err := svc.SaveSide(ctx, "sess-1", selection.SideUser, sidePlayers("u"), "u-2"); !errors.Is(err, selection.ErrFrozen) {
		t.Fatalf("expected ErrFrozen, got %v", err)
	}
	if _, err := svc.Freeze(ctx, "sess-1"); !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("expected ErrPreconditionFailed, got %v", err)
	}
}

func TestSelectionService_Freeze_IncompleteSides(t *testing.T) {
	sessionRepo := memory.NewSessionRepository(seedSession("sess-1"))
	selectionRepo := memory.NewSelectionRepository()
	svc := NewSelectionService(sessionRepo, selectionRepo)
	ctx := context.Background()

	if _, err := svc.SaveSide(ctx, "sess-1", selection.SideUser, sidePlayers("u"), "u-1"); err != nil {
		t.Fatalf("save user side: %v", err)
	}

	_, err := svc.Freeze(ctx, "sess-1")
	if !errors.Is(err, selection.ErrIncompleteSides) {
		t.Fatalf("expected ErrIncompleteSides, got %v", err)
	}
}
