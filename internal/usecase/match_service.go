package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/match"
	"github.com/sourcegraph/conc/pool"
)

// MatchLister is the slice of the scraping client the match service needs.
type MatchLister interface {
	ListLiveAndTodayMatches(ctx context.Context, bypassCache bool) ([]match.Summary, error)
	ListUpcomingMatches(ctx context.Context, bypassCache bool) ([]match.Summary, error)
	MatchStateByID(ctx context.Context, matchID string) (string, *match.Summary, error)
}

type MatchService struct {
	lister MatchLister
}

func NewMatchService(lister MatchLister) *MatchService {
	return &MatchService{lister: lister}
}

// BrowseMatches returns live, today and upcoming matches in one call for the
// session-creation flow. The two listings are scraped concurrently; both
// must answer because a partial list would hide matches silently.
func (s *MatchService) BrowseMatches(ctx context.Context, bypassCache bool) ([]match.Summary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.BrowseMatches")
	defer span.End()

	var liveToday, upcoming []match.Summary
	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		result, err := s.lister.ListLiveAndTodayMatches(ctx, bypassCache)
		if err != nil {
			return errors.Wrap(err, "list live and today matches")
		}
		liveToday = result
		return nil
	})
	p.Go(func(ctx context.Context) error {
		result, err := s.lister.ListUpcomingMatches(ctx, bypassCache)
		if err != nil {
			return errors.Wrap(err, "list upcoming matches")
		}
		upcoming = result
		return nil
	})
	if err := p.Wait(); err != nil {
		return nil, errors.Join(ErrDependencyUnavailable, err)
	}

	seen := make(map[string]struct{}, len(liveToday)+len(upcoming))
	out := make([]match.Summary, 0, len(liveToday)+len(upcoming))
	for _, summary := range append(liveToday, upcoming...) {
		if _, dup := seen[summary.MatchID]; dup {
			continue
		}
		seen[summary.MatchID] = struct{}{}
		out = append(out, summary)
	}
	return out, nil
}

// MatchState reports a match's lifecycle status for scoring preconditions.
func (s *MatchService) MatchState(ctx context.Context, matchID string) (string, *match.Summary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.MatchState")
	defer span.End()

	if matchID == "" {
		return "", nil, errors.Wrap(ErrInvalidInput, "match id is required")
	}
	status, summary, err := s.lister.MatchStateByID(ctx, matchID)
	if err != nil {
		return "", nil, errors.Join(ErrDependencyUnavailable, err)
	}
	return status, summary, nil
}
