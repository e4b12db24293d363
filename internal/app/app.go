package app

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/fantasy-cricket/external/cricbuzz"
	"github.com/riskibarqy/fantasy-cricket/internal/config"
	"github.com/riskibarqy/fantasy-cricket/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-cricket/internal/infrastructure/repository/mongo"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-cricket/internal/usecase"
)

// App wires configuration, storage, the scraping client and the services
// into one runnable unit.
type App struct {
	Config config.Config
	Logger *logging.Logger

	Cricbuzz *cricbuzz.Client

	MatchService     *usecase.MatchService
	SelectionService *usecase.SelectionService
	ScoringService   *usecase.ScoringService
	RefreshService   *usecase.StatsRefreshService
	BreakdownService *usecase.BreakdownService
	Poller           *usecase.StatsPoller

	db *mongo.DB
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.NewJSON(cfg.LogLevel)
	}
	logging.SetDefault(logger)

	db, err := mongo.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
	if err != nil {
		return nil, errors.Wrap(err, "connect storage")
	}

	sessionRepo := mongo.NewSessionRepository(db)
	selectionRepo := mongo.NewSelectionRepository(db)
	rulesetRepo := mongo.NewRuleSetRepository(db)
	if err := ensureTemplateRuleSets(ctx, rulesetRepo); err != nil {
		return nil, errors.Wrap(err, "seed rule set templates")
	}
	statsRepo := mongo.NewPlayerStatsRepository(db)
	scoringRepo := mongo.NewScoringRepository(db)

	client := cricbuzz.NewClient(cricbuzz.ClientConfig{
		BaseURL:        cfg.CricbuzzBaseURL,
		UserAgent:      cfg.CricbuzzUserAgent,
		Timeout:        cfg.CricbuzzTimeout,
		MaxRetries:     cfg.CricbuzzMaxRetries,
		ListDelay:      cfg.MatchListDelay,
		DetailDelay:    cfg.MatchDetailDelay,
		DetailFetchCap: cfg.MatchDetailFetchCap,
		CacheEnabled:   cfg.CacheEnabled,
		MatchListTTL:   cfg.MatchListTTL,
		FormatTTL:      cfg.FormatTTL,
		SquadTTL:       cfg.SquadTTL,
		ScorecardTTL:   cfg.ScorecardTTL,
		MatchStateTTL:  cfg.MatchStateTTL,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.CricbuzzCircuitEnabled,
			FailureThreshold: cfg.CricbuzzCircuitFailureCount,
			OpenTimeout:      cfg.CricbuzzCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.CricbuzzCircuitHalfOpenMaxReq,
		},
		Logger: logger,
	})

	scoringSvc := usecase.NewScoringService(sessionRepo, selectionRepo, rulesetRepo, statsRepo, scoringRepo)
	refreshSvc := usecase.NewStatsRefreshService(sessionRepo, selectionRepo, statsRepo, client, client, scoringSvc, logger)

	poller := usecase.NewStatsPoller(sessionRepo, selectionRepo, refreshSvc, logger, usecase.StatsPollerConfig{
		Interval:   cfg.StatsPollInterval,
		Lookback:   cfg.StatsPollLookback,
		MaxPerTick: cfg.StatsPollMaxPerTick,
		Workers:    cfg.StatsPollWorkers,
	})

	return &App{
		Config:           cfg,
		Logger:           logger,
		Cricbuzz:         client,
		MatchService:     usecase.NewMatchService(client),
		SelectionService: usecase.NewSelectionService(sessionRepo, selectionRepo),
		ScoringService:   scoringSvc,
		RefreshService:   refreshSvc,
		BreakdownService: usecase.NewBreakdownService(sessionRepo, selectionRepo, rulesetRepo, statsRepo),
		Poller:           poller,
		db:               db,
	}, nil
}

// ensureTemplateRuleSets writes the standard template if it is missing, so a
// fresh database can score sessions without manual setup. Existing documents
// are left alone to preserve operator edits.
func ensureTemplateRuleSets(ctx context.Context, repo *mongo.RuleSetRepository) error {
	for _, set := range memory.SeedRuleSets() {
		_, err := repo.GetByID(ctx, set.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, mongo.ErrNotFound) {
			return err
		}
		if err := repo.Upsert(ctx, set); err != nil {
			return err
		}
	}
	return nil
}

// Run blocks until ctx is canceled. With polling disabled it only waits, so
// shutdown behaves the same either way.
func (a *App) Run(ctx context.Context) error {
	if !a.Config.StatsPollEnabled {
		a.Logger.InfoContext(ctx, "stats polling disabled, idling until shutdown")
		<-ctx.Done()
		return ctx.Err()
	}
	return a.Poller.Run(ctx)
}

func (a *App) Close(ctx context.Context) error {
	if a.db == nil {
		return nil
	}
	return a.db.Close(ctx)
}
