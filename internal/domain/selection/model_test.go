package selection

import (
	"errors"
	"testing"
	"time"
)

func players(names ...string) []string { return names }

func validSelection() Selection {
	return Selection{
		SessionID:     "s1",
		UserPlayers:   players("10001", "10002", "10003", "10004", "10005", "10006"),
		UserCaptain:   "10001",
		FriendPlayers: players("20001", "20002", "20003", "20004", "20005", "20006"),
		FriendCaptain: "20003",
	}
}

func TestSetSide_Validation(t *testing.T) {
	t.Parallel()

	sel := validSelection()

	if err := sel.SetSide(SideUser, players("a", "b", "c"), ""); !errors.Is(err, ErrInvalidSideSize) {
		t.Fatalf("expected side size error, got %v", err)
	}
	if err := sel.SetSide(SideUser, players("a", "a", "b", "c", "d", "e"), ""); !errors.Is(err, ErrDuplicatePlayer) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if err := sel.SetSide(SideUser, players("a", "b", "c", "d", "e", "f"), "zz"); !errors.Is(err, ErrCaptainNotInSide) {
		t.Fatalf("expected captain membership error, got %v", err)
	}
	if err := sel.SetSide(SideUser, players("a", "b", "c", "d", "e", "f"), "c"); err != nil {
		t.Fatalf("valid side rejected: %v", err)
	}
}

func TestFreeze_IsOneWay(t *testing.T) {
	t.Parallel()

	sel := validSelection()
	now := time.Date(2026, 8, 14, 10, 0, 0, 0, time.UTC)

	if err := sel.Freeze(now); err != nil {
		t.Fatalf("freeze: %v", err)
	}
	if !sel.IsFrozen || sel.FrozenAt == nil {
		t.Fatal("selection not marked frozen")
	}

	if err := sel.Freeze(now); !errors.Is(err, ErrAlreadyFrozen) {
		t.Fatalf("expected ErrAlreadyFrozen, got %v", err)
	}
	if err := sel.SetSide(SideUser, players("a", "b", "c", "d", "e", "f"), ""); !errors.Is(err, ErrFrozen) {
		t.Fatalf("expected ErrFrozen on mutation, got %v", err)
	}
}

func TestFreeze_RequiresBothSides(t *testing.T) {
	t.Parallel()

	sel := validSelection()
	sel.FriendPlayers = nil

	if err := sel.Freeze(time.Now()); !errors.Is(err, ErrIncompleteSides) {
		t.Fatalf("expected ErrIncompleteSides, got %v", err)
	}
}
