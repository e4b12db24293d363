package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/selection"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/session"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
)

// StatsPollerConfig bounds the background refresh loop.
type StatsPollerConfig struct {
	Interval   time.Duration
	Lookback   time.Duration
	MaxPerTick int
	Workers    int
}

// SessionRefresher runs one refresh pass for a session.
type SessionRefresher interface {
	RefreshSessionStats(ctx context.Context, sessionID string) (RefreshResult, error)
}

// StatsPoller periodically refreshes stats for recent frozen sessions so
// scores stay warm without user interaction. A failing session is logged and
// skipped; it never stops the loop or the rest of the tick.
type StatsPoller struct {
	sessionRepo   session.Repository
	selectionRepo selection.Repository
	refresher     SessionRefresher
	logger        *logging.Logger
	cfg           StatsPollerConfig
	now           func() time.Time
}

func NewStatsPoller(
	sessionRepo session.Repository,
	selectionRepo selection.Repository,
	refresher SessionRefresher,
	logger *logging.Logger,
	cfg StatsPollerConfig,
) *StatsPoller {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.Lookback <= 0 {
		cfg.Lookback = 72 * time.Hour
	}
	if cfg.MaxPerTick <= 0 {
		cfg.MaxPerTick = 10
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &StatsPoller{
		sessionRepo:   sessionRepo,
		selectionRepo: selectionRepo,
		refresher:     refresher,
		logger:        logger,
		cfg:           cfg,
		now:           time.Now,
	}
}

// Run blocks until ctx is canceled, executing one tick per interval.
func (p *StatsPoller) Run(ctx context.Context) error {
	pool, err := ants.NewPool(p.cfg.Workers)
	if err != nil {
		return errors.Wrap(err, "create stats poller worker pool")
	}
	defer pool.Release()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	p.logger.InfoContext(ctx, "stats poller started",
		"interval", p.cfg.Interval, "lookback", p.cfg.Lookback, "max_per_tick", p.cfg.MaxPerTick)

	for {
		select {
		case <-ctx.Done():
			p.logger.InfoContext(ctx, "stats poller stopped")
			return ctx.Err()
		case <-ticker.C:
			p.RunOnce(ctx, pool)
		}
	}
}

// RunOnce refreshes one batch of recent frozen sessions.
func (p *StatsPoller) RunOnce(ctx context.Context, pool *ants.Pool) {
	cutoff := p.now().UTC().Add(-p.cfg.Lookback)
	sessions, err := p.sessionRepo.ListCreatedSince(ctx, cutoff, p.cfg.MaxPerTick)
	if err != nil {
		p.logger.ErrorContext(ctx, "stats poller list sessions failed", "error", err)
		return
	}
	if len(sessions) == 0 {
		return
	}

	var wg sync.WaitGroup
	refreshed := 0
	for _, sess := range sessions {
		sel, err := p.selectionRepo.GetBySessionID(ctx, sess.ID)
		if err != nil || !sel.IsFrozen {
			continue
		}

		sessionID := sess.ID
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if _, err := p.refresher.RefreshSessionStats(ctx, sessionID); err != nil {
				if errors.Is(err, ErrPreconditionFailed) {
					p.logger.DebugContext(ctx, "stats poller skipped session", "session_id", sessionID, "error", err)
					return
				}
				p.logger.WarnContext(ctx, "stats poller refresh failed", "session_id", sessionID, "error", err)
			}
		})
		if submitErr != nil {
			wg.Done()
			p.logger.WarnContext(ctx, "stats poller submit failed", "session_id", sessionID, "error", submitErr)
			continue
		}
		refreshed++
	}
	wg.Wait()

	p.logger.InfoContext(ctx, "stats poller tick complete", "candidates", len(sessions), "dispatched", refreshed)
}
