package usecase

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/playerstats"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/ruleset"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/scoring"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/selection"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/session"
)

// ScoreSummary is the session-level outcome of a calculation.
type ScoreSummary struct {
	SessionID         string
	UserTotal         float64
	FriendTotal       float64
	Winner            string
	Rows              []scoring.BreakdownRow
	AlreadyCalculated bool
	GeneratedAt       time.Time
}

// ScoringService turns persisted raw stats into breakdown rows using the
// session's rule set. Rows are a derived cache: a recalculation deletes the
// old rows and inserts the new set, never patching in place.
type ScoringService struct {
	sessionRepo   session.Repository
	selectionRepo selection.Repository
	rulesetRepo   ruleset.Repository
	statsRepo     playerstats.Repository
	scoringRepo   scoring.Repository
	now           func() time.Time
}

func NewScoringService(
	sessionRepo session.Repository,
	selectionRepo selection.Repository,
	rulesetRepo ruleset.Repository,
	statsRepo playerstats.Repository,
	scoringRepo scoring.Repository,
) *ScoringService {
	return &ScoringService{
		sessionRepo:   sessionRepo,
		selectionRepo: selectionRepo,
		rulesetRepo:   rulesetRepo,
		statsRepo:     statsRepo,
		scoringRepo:   scoringRepo,
		now:           time.Now,
	}
}

// Calculate scores the session. Without force, existing rows are returned as
// is so repeated calls are idempotent; force discards them and recomputes.
func (s *ScoringService) Calculate(ctx context.Context, sessionID string, force bool) (ScoreSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.Calculate")
	defer span.End()

	if sessionID == "" {
		return ScoreSummary{}, errors.Wrap(ErrInvalidInput, "session id is required")
	}

	if !force {
		existing, err := s.scoringRepo.ListBySession(ctx, sessionID)
		if err != nil {
			return ScoreSummary{}, errors.Wrapf(err, "list breakdown rows for session %s", sessionID)
		}
		if len(existing) > 0 {
			summary := summarize(sessionID, existing)
			summary.AlreadyCalculated = true
			return summary, nil
		}
	}

	sess, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return ScoreSummary{}, errors.Wrapf(ErrNotFound, "session %s", sessionID)
	}
	sel, err := s.selectionRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return ScoreSummary{}, errors.Wrapf(ErrNotFound, "selection for session %s", sessionID)
	}
	if !sel.IsFrozen {
		return ScoreSummary{}, errors.Wrapf(ErrPreconditionFailed, "selection for session %s is not frozen", sessionID)
	}

	rs, err := s.rulesetRepo.GetByID(ctx, sess.RuleSetID)
	if err != nil {
		return ScoreSummary{}, errors.Wrapf(ErrNotFound, "rule set %s", sess.RuleSetID)
	}

	stats, err := s.statsRepo.ListBySession(ctx, sessionID)
	if err != nil {
		return ScoreSummary{}, errors.Wrapf(err, "list stats for session %s", sessionID)
	}
	statsByToken := make(map[string]playerstats.Record, len(stats))
	for _, stat := range stats {
		statsByToken[stat.PlayerID] = stat.Stats
	}

	now := s.now().UTC()
	rows := make([]scoring.BreakdownRow, 0, len(sel.UserPlayers)+len(sel.FriendPlayers))
	for _, side := range []selection.Side{selection.SideUser, selection.SideFriend} {
		team := scoring.TeamUser
		if side == selection.SideFriend {
			team = scoring.TeamFriend
		}
		players, captain := sel.PlayersFor(side)
		for _, token := range players {
			isCaptain := token == captain
			result := scoring.Compute(statsByToken[token], rs.Rules, isCaptain)
			rows = append(rows, scoring.BreakdownRow{
				SessionID:   sessionID,
				Team:        team,
				PlayerID:    token,
				IsCaptain:   isCaptain,
				TotalPoints: result.TotalPoints,
				RuleWise:    result.PerRule,
				GeneratedAt: now,
			})
		}
	}

	if err := s.scoringRepo.DeleteBySession(ctx, sessionID); err != nil {
		return ScoreSummary{}, errors.Wrapf(err, "delete breakdown rows for session %s", sessionID)
	}
	if err := s.scoringRepo.InsertMany(ctx, rows); err != nil {
		return ScoreSummary{}, errors.Wrapf(err, "insert breakdown rows for session %s", sessionID)
	}

	summary := summarize(sessionID, rows)
	summary.GeneratedAt = now
	return summary, nil
}

// Summary returns the stored calculation without recomputing.
func (s *ScoringService) Summary(ctx context.Context, sessionID string) (ScoreSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.Summary")
	defer span.End()

	if sessionID == "" {
		return ScoreSummary{}, errors.Wrap(ErrInvalidInput, "session id is required")
	}
	rows, err := s.scoringRepo.ListBySession(ctx, sessionID)
	if err != nil {
		return ScoreSummary{}, errors.Wrapf(err, "list breakdown rows for session %s", sessionID)
	}
	if len(rows) == 0 {
		return ScoreSummary{}, errors.Wrapf(ErrNotFound, "no calculation stored for session %s", sessionID)
	}
	return summarize(sessionID, rows), nil
}

func summarize(sessionID string, rows []scoring.BreakdownRow) ScoreSummary {
	summary := ScoreSummary{SessionID: sessionID, Rows: rows}
	for _, row := range rows {
		switch row.Team {
		case scoring.TeamUser:
			summary.UserTotal += row.TotalPoints
		case scoring.TeamFriend:
			summary.FriendTotal += row.TotalPoints
		}
		if row.GeneratedAt.After(summary.GeneratedAt) {
			summary.GeneratedAt = row.GeneratedAt
		}
	}
	switch {
	case summary.UserTotal > summary.FriendTotal:
		summary.Winner = scoring.TeamUser
	case summary.FriendTotal > summary.UserTotal:
		summary.Winner = scoring.TeamFriend
	default:
		summary.Winner = ""
	}
	return summary
}
