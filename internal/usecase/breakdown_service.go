package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/playerstats"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/ruleset"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/scoring"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/selection"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/session"
)

// PlayerBreakdown is one player's human-readable scoring explanation.
// Subtotal is the pre-captain sum; Total includes the captain multiplier.
type PlayerBreakdown struct {
	PlayerID  string
	IsCaptain bool
	Lines     []string
	Subtotal  float64
	Total     float64
}

// TeamBreakdown groups player breakdowns for one side of a session.
type TeamBreakdown struct {
	Team    string
	Players []PlayerBreakdown
	Total   float64
}

// SessionBreakdown is the full display model for a session's scoring.
type SessionBreakdown struct {
	SessionID  string
	MatchID    string
	MatchName  string
	RuleSetID  string
	User       TeamBreakdown
	Friend     TeamBreakdown
	GrandTotal float64
	Winner     string
}

// BreakdownService renders a session's scoring as formula lines so a user can
// verify every point by hand. It computes from the selection, the rule set
// and the raw stats directly; players without stat rows score from a zeroed
// record, so a frozen session has a breakdown before any refresh ran.
type BreakdownService struct {
	sessionRepo   session.Repository
	selectionRepo selection.Repository
	rulesetRepo   ruleset.Repository
	statsRepo     playerstats.Repository
}

func NewBreakdownService(sessionRepo session.Repository, selectionRepo selection.Repository, rulesetRepo ruleset.Repository, statsRepo playerstats.Repository) *BreakdownService {
	return &BreakdownService{
		sessionRepo:   sessionRepo,
		selectionRepo: selectionRepo,
		rulesetRepo:   rulesetRepo,
		statsRepo:     statsRepo,
	}
}

func (s *BreakdownService) Build(ctx context.Context, sessionID string) (SessionBreakdown, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BreakdownService.Build")
	defer span.End()

	if sessionID == "" {
		return SessionBreakdown{}, errors.Wrap(ErrInvalidInput, "session id is required")
	}
	sess, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return SessionBreakdown{}, errors.Wrapf(ErrNotFound, "session %s: %v", sessionID, err)
	}
	sel, err := s.selectionRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return SessionBreakdown{}, errors.Wrapf(ErrNotFound, "selection for session %s: %v", sessionID, err)
	}
	rules, err := s.rulesetRepo.GetByID(ctx, sess.RuleSetID)
	if err != nil {
		return SessionBreakdown{}, errors.Wrapf(ErrNotFound, "rule set %s: %v", sess.RuleSetID, err)
	}

	stats, err := s.statsRepo.ListBySession(ctx, sessionID)
	if err != nil {
		return SessionBreakdown{}, errors.Wrapf(err, "list stats for session %s", sessionID)
	}
	statsByPlayer := make(map[string]playerstats.Record, len(stats))
	for _, stat := range stats {
		statsByPlayer[stat.PlayerID] = stat.Stats
	}

	out := SessionBreakdown{
		SessionID: sessionID,
		MatchID:   sess.MatchID,
		MatchName: sess.MatchName,
		RuleSetID: sess.RuleSetID,
		User:      buildTeam(scoring.TeamUser, sel.UserPlayers, sel.UserCaptain, rules.Rules, statsByPlayer),
		Friend:    buildTeam(scoring.TeamFriend, sel.FriendPlayers, sel.FriendCaptain, rules.Rules, statsByPlayer),
	}

	out.GrandTotal = out.User.Total + out.Friend.Total
	switch {
	case out.User.Total > out.Friend.Total:
		out.Winner = scoring.TeamUser
	case out.Friend.Total > out.User.Total:
		out.Winner = scoring.TeamFriend
	}
	return out, nil
}

// buildTeam scores each selected player. A player with no stat row gets a
// zeroed record, never an error.
func buildTeam(team string, players []string, captain string, rules []ruleset.Rule, statsByPlayer map[string]playerstats.Record) TeamBreakdown {
	out := TeamBreakdown{Team: team}
	for _, playerID := range players {
		stats := statsByPlayer[playerID]
		isCaptain := captain != "" && playerID == captain
		result := scoring.Compute(stats, rules, isCaptain)

		subtotal := result.TotalPoints
		for _, c := range result.PerRule {
			if c.Event == ruleset.EventCaptainMultiplier {
				subtotal = c.Before
				break
			}
		}

		out.Players = append(out.Players, PlayerBreakdown{
			PlayerID:  playerID,
			IsCaptain: isCaptain,
			Lines:     formatRuleLines(result.PerRule),
			Subtotal:  subtotal,
			Total:     result.TotalPoints,
		})
		out.Total += result.TotalPoints
	}
	return out
}

// formatRuleLines renders each contribution as the formula that produced it.
// Counting lines carry the count ("four: 6 x 1 x 2 = 12"), milestone lines
// only the awarded points ("fifty: 8 = 8", or "fifty: 0 = 0" when the
// threshold was missed), the captain line the before/after totals.
func formatRuleLines(contributions []scoring.Contribution) []string {
	lines := make([]string, 0, len(contributions))
	for _, c := range contributions {
		switch {
		case c.Event == ruleset.EventCaptainMultiplier:
			lines = append(lines, fmt.Sprintf("captain: %s x %s = %s",
				formatPoints(c.Before), formatPoints(c.Multiplier), formatPoints(c.After)))
		case ruleset.IsMilestoneEvent(c.Event):
			if c.Count == 0 {
				lines = append(lines, fmt.Sprintf("%s: 0 = 0", c.Event))
				continue
			}
			var b strings.Builder
			fmt.Fprintf(&b, "%s: %s", c.Event, formatPoints(c.UnitPoints))
			if c.Multiplier != 0 && c.Multiplier != 1 {
				fmt.Fprintf(&b, " x %s", formatPoints(c.Multiplier))
			}
			fmt.Fprintf(&b, " = %s", formatPoints(c.Points))
			lines = append(lines, b.String())
		default:
			var b strings.Builder
			fmt.Fprintf(&b, "%s: %d x %s", c.Event, c.Count, formatPoints(c.UnitPoints))
			if c.Multiplier != 0 && c.Multiplier != 1 {
				fmt.Fprintf(&b, " x %s", formatPoints(c.Multiplier))
			}
			fmt.Fprintf(&b, " = %s", formatPoints(c.Points))
			lines = append(lines, b.String())
		}
	}
	return lines
}

func formatPoints(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
