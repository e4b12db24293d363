package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/fantasy-cricket/external/cricbuzz"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/match"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/playerstats"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/selection"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/session"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/id"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/resilience"
)

// StatsExtractor is the slice of the scraping client the refresh flow needs.
type StatsExtractor interface {
	ExtractStats(ctx context.Context, matchID string) (*cricbuzz.StatsExtract, error)
}

// MatchStater reports a match's lifecycle status.
type MatchStater interface {
	MatchStateByID(ctx context.Context, matchID string) (string, *match.Summary, error)
}

// Recalculator recomputes a session's breakdown after new stats land.
type Recalculator interface {
	Calculate(ctx context.Context, sessionID string, force bool) (ScoreSummary, error)
}

// RefreshResult summarizes one stat refresh pass for a session. RefreshID is
// a correlation id tying log lines of one pass together.
type RefreshResult struct {
	RefreshID        string
	SessionID        string
	MatchID          string
	MatchStatus      string
	ScorecardState   string
	ScorecardStatus  string
	SourceURL        string
	PlayersMatched   int
	PlayersUnmatched []string
	NonZeroStats     int
	RefreshedAt      time.Time
}

// StatsRefreshService pulls live scorecard stats for a session's selected
// players and persists them, then triggers a score recomputation. Concurrent
// refreshes of the same session collapse into a single pass.
type StatsRefreshService struct {
	sessionRepo   session.Repository
	selectionRepo selection.Repository
	statsRepo     playerstats.Repository
	extractor     StatsExtractor
	stater        MatchStater
	recalc        Recalculator
	logger        *logging.Logger
	ids           id.Generator
	now           func() time.Time
	flight        resilience.SingleFlight
}

func NewStatsRefreshService(
	sessionRepo session.Repository,
	selectionRepo selection.Repository,
	statsRepo playerstats.Repository,
	extractor StatsExtractor,
	stater MatchStater,
	recalc Recalculator,
	logger *logging.Logger,
) *StatsRefreshService {
	if logger == nil {
		logger = logging.Default()
	}
	return &StatsRefreshService{
		sessionRepo:   sessionRepo,
		selectionRepo: selectionRepo,
		statsRepo:     statsRepo,
		extractor:     extractor,
		stater:        stater,
		recalc:        recalc,
		logger:        logger,
		ids:           id.NewRandomGenerator(),
		now:           time.Now,
	}
}

// RefreshSessionStats runs one refresh pass for a session. Preconditions:
// the selection must be frozen and the match must have started. Selected
// players absent from the scorecard are written as zero records so the
// breakdown stays complete, and they are reported back as unmatched.
func (s *StatsRefreshService) RefreshSessionStats(ctx context.Context, sessionID string) (RefreshResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsRefreshService.RefreshSessionStats")
	defer span.End()

	if sessionID == "" {
		return RefreshResult{}, errors.Wrap(ErrInvalidInput, "session id is required")
	}

	value, err, _ := s.flight.Do("stats-refresh:"+sessionID, func() (any, error) {
		result, runErr := s.refreshOnce(ctx, sessionID)
		if runErr != nil {
			return nil, runErr
		}
		return result, nil
	})
	if err != nil {
		return RefreshResult{}, err
	}
	return value.(RefreshResult), nil
}

func (s *StatsRefreshService) refreshOnce(ctx context.Context, sessionID string) (RefreshResult, error) {
	sess, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return RefreshResult{}, errors.Wrapf(ErrNotFound, "session %s", sessionID)
	}

	sel, err := s.selectionRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return RefreshResult{}, errors.Wrapf(ErrNotFound, "selection for session %s", sessionID)
	}
	if !sel.IsFrozen {
		return RefreshResult{}, errors.Wrapf(ErrPreconditionFailed, "selection for session %s is not frozen", sessionID)
	}

	status, _, err := s.stater.MatchStateByID(ctx, sess.MatchID)
	if err != nil {
		return RefreshResult{}, errors.Join(ErrDependencyUnavailable, err)
	}
	if !match.HasStarted(status) {
		return RefreshResult{}, errors.Wrapf(ErrPreconditionFailed, "match %s has not started (status %s)", sess.MatchID, status)
	}

	extract, err := s.extractor.ExtractStats(ctx, sess.MatchID)
	if err != nil {
		return RefreshResult{}, errors.Join(ErrDependencyUnavailable, err)
	}

	refreshID, err := s.ids.NewID()
	if err != nil {
		refreshID = sessionID
	}

	resolver := NewPlayerResolver(extract.StatsByID, extract.NameByID)
	now := s.now().UTC()
	result := RefreshResult{
		RefreshID:       refreshID,
		SessionID:       sessionID,
		MatchID:         sess.MatchID,
		MatchStatus:     status,
		ScorecardState:  extract.State,
		ScorecardStatus: extract.Status,
		SourceURL:       extract.SourceURL,
		RefreshedAt:     now,
	}

	for _, side := range []selection.Side{selection.SideUser, selection.SideFriend} {
		players, _ := sel.PlayersFor(side)
		for _, token := range players {
			rec, ok := resolver.Resolve(token)
			if ok {
				result.PlayersMatched++
			} else {
				result.PlayersUnmatched = append(result.PlayersUnmatched, token)
			}
			if !rec.IsZero() {
				result.NonZeroStats++
			}
			rec.PlayerID = token
			stat := playerstats.SessionStat{
				SessionID: sessionID,
				PlayerID:  token,
				Stats:     rec,
				UpdatedAt: now,
			}
			if err := s.statsRepo.Upsert(ctx, stat); err != nil {
				return RefreshResult{}, errors.Wrapf(err, "upsert stats for player %s in session %s", token, sessionID)
			}
		}
	}
	sort.Strings(result.PlayersUnmatched)

	if _, err := s.recalc.Calculate(ctx, sessionID, true); err != nil {
		return RefreshResult{}, errors.Wrapf(err, "recalculate session %s after refresh", sessionID)
	}

	s.logger.InfoContext(ctx, "session stats refreshed",
		"refresh_id", refreshID,
		"session_id", sessionID,
		"match_id", sess.MatchID,
		"match_status", status,
		"scorecard_state", extract.State,
		"matched", result.PlayersMatched,
		"unmatched", len(result.PlayersUnmatched),
		"non_zero", result.NonZeroStats,
	)
	return result, nil
}

// UpsertManualStats writes caller-provided stat records for a session and
// forces a recalculation, for matches the scraper cannot read. The selection
// must be frozen, and every record must name a selected player.
func (s *StatsRefreshService) UpsertManualStats(ctx context.Context, sessionID string, records []playerstats.Record) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsRefreshService.UpsertManualStats")
	defer span.End()

	if sessionID == "" {
		return errors.Wrap(ErrInvalidInput, "session id is required")
	}
	if len(records) == 0 {
		return errors.Wrap(ErrInvalidInput, "at least one stat record is required")
	}
	if _, err := s.sessionRepo.GetByID(ctx, sessionID); err != nil {
		return errors.Wrapf(ErrNotFound, "session %s", sessionID)
	}

	sel, err := s.selectionRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return errors.Wrapf(ErrNotFound, "selection for session %s", sessionID)
	}
	if !sel.IsFrozen {
		return errors.Wrapf(ErrPreconditionFailed, "selection for session %s is not frozen", sessionID)
	}

	selected := make(map[string]struct{}, len(sel.UserPlayers)+len(sel.FriendPlayers))
	for _, side := range []selection.Side{selection.SideUser, selection.SideFriend} {
		players, _ := sel.PlayersFor(side)
		for _, token := range players {
			selected[token] = struct{}{}
		}
	}

	now := s.now().UTC()
	for _, rec := range records {
		if rec.PlayerID == "" {
			return errors.Wrap(ErrInvalidInput, "stat record without player id")
		}
		if _, ok := selected[rec.PlayerID]; !ok {
			return errors.Wrapf(ErrInvalidInput, "player %s is not selected in session %s", rec.PlayerID, sessionID)
		}
		stat := playerstats.SessionStat{
			SessionID: sessionID,
			PlayerID:  rec.PlayerID,
			Stats:     rec,
			UpdatedAt: now,
		}
		if err := s.statsRepo.Upsert(ctx, stat); err != nil {
			return errors.Wrapf(err, "upsert manual stats for player %s in session %s", rec.PlayerID, sessionID)
		}
	}

	if _, err := s.recalc.Calculate(ctx, sessionID, true); err != nil {
		return errors.Wrapf(err, "recalculate session %s after manual stats", sessionID)
	}

	s.logger.InfoContext(ctx, "manual stats upserted", "session_id", sessionID, "records", len(records))
	return nil
}
