package selection

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	MinPlayersPerSide = 6
	MaxPlayersPerSide = 9
)

type Side string

const (
	SideUser   Side = "USER"
	SideFriend Side = "FRIEND"
)

var (
	ErrFrozen             = errors.New("selection is frozen")
	ErrAlreadyFrozen      = errors.New("selection already frozen")
	ErrInvalidSideSize    = errors.New("invalid side size")
	ErrDuplicatePlayer    = errors.New("duplicate player in side")
	ErrCaptainNotInSide   = errors.New("captain is not a member of its side")
	ErrIncompleteSides    = errors.New("both sides must be picked before freezing")
	ErrEmptyPlayerToken   = errors.New("empty player token")
	ErrUnknownSide        = errors.New("unknown side")
)

// Selection holds both sides' picked players for one session. Once frozen the
// record is immutable and scoring may begin.
type Selection struct {
	SessionID     string
	UserPlayers   []string
	UserCaptain   string
	FriendPlayers []string
	FriendCaptain string
	IsFrozen      bool
	FrozenAt      *time.Time
	UpdatedAt     time.Time
}

// SetSide replaces one side's players and captain. Rejected once frozen.
func (s *Selection) SetSide(side Side, players []string, captain string) error {
	if s.IsFrozen {
		return fmt.Errorf("%w: session=%s", ErrFrozen, s.SessionID)
	}
	if err := validateSide(players, captain); err != nil {
		return err
	}

	switch side {
	case SideUser:
		s.UserPlayers = players
		s.UserCaptain = captain
	case SideFriend:
		s.FriendPlayers = players
		s.FriendCaptain = captain
	default:
		return fmt.Errorf("%w: %s", ErrUnknownSide, side)
	}

	return nil
}

// Freeze transitions the selection to read-only. One-way.
func (s *Selection) Freeze(now time.Time) error {
	if s.IsFrozen {
		return fmt.Errorf("%w: session=%s", ErrAlreadyFrozen, s.SessionID)
	}
	if err := validateSide(s.UserPlayers, s.UserCaptain); err != nil {
		return fmt.Errorf("%w: user side invalid: %s", ErrIncompleteSides, err)
	}
	if err := validateSide(s.FriendPlayers, s.FriendCaptain); err != nil {
		return fmt.Errorf("%w: friend side invalid: %s", ErrIncompleteSides, err)
	}

	s.IsFrozen = true
	s.FrozenAt = &now
	return nil
}

// PlayersFor returns one side's players and captain.
func (s *Selection) PlayersFor(side Side) ([]string, string) {
	if side == SideFriend {
		return s.FriendPlayers, s.FriendCaptain
	}
	return s.UserPlayers, s.UserCaptain
}

func validateSide(players []string, captain string) error {
	if len(players) < MinPlayersPerSide || len(players) > MaxPlayersPerSide {
		return fmt.Errorf("%w: expected %d-%d, got %d", ErrInvalidSideSize, MinPlayersPerSide, MaxPlayersPerSide, len(players))
	}

	seen := make(map[string]struct{}, len(players))
	for _, token := range players {
		trimmed := strings.TrimSpace(token)
		if trimmed == "" {
			return ErrEmptyPlayerToken
		}
		if _, exists := seen[trimmed]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicatePlayer, trimmed)
		}
		seen[trimmed] = struct{}{}
	}

	if captain != "" {
		if _, ok := seen[strings.TrimSpace(captain)]; !ok {
			return fmt.Errorf("%w: %s", ErrCaptainNotInSide, captain)
		}
	}

	return nil
}
