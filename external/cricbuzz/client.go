package cricbuzz

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/match"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/cache"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/resilience"
)

var (
	ErrMatchListUnavailable = errors.New("cricbuzz: match listing unavailable")
	ErrSquadUnavailable     = errors.New("cricbuzz: squad unavailable")
	ErrScorecardUnavailable = errors.New("cricbuzz: scorecard unavailable")
)

const (
	defaultTimeout        = 15 * time.Second
	defaultListDelay      = 250 * time.Millisecond
	defaultDetailDelay    = 3 * time.Second
	defaultDetailFetchCap = 8

	defaultMatchListTTL  = time.Minute
	defaultFormatTTL     = 6 * time.Hour
	defaultSquadTTL      = 5 * time.Minute
	defaultScorecardTTL  = time.Minute
	defaultMatchStateTTL = time.Minute
)

// ClientConfig carries everything the scraping client needs. Zero values are
// replaced with production defaults by NormalizeClientConfig.
type ClientConfig struct {
	BaseURL        string
	UserAgent      string
	Timeout        time.Duration
	MaxRetries     int
	ListDelay      time.Duration
	DetailDelay    time.Duration
	DetailFetchCap int

	CacheEnabled  bool
	MatchListTTL  time.Duration
	FormatTTL     time.Duration
	SquadTTL      time.Duration
	ScorecardTTL  time.Duration
	MatchStateTTL time.Duration

	CircuitBreaker resilience.CircuitBreakerConfig

	HTTPClient *http.Client
	Logger     *logging.Logger
}

func NormalizeClientConfig(cfg ClientConfig) ClientConfig {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.cricbuzz.com"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.UserAgent == "" {
		cfg.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.ListDelay <= 0 {
		cfg.ListDelay = defaultListDelay
	}
	if cfg.DetailDelay <= 0 {
		cfg.DetailDelay = defaultDetailDelay
	}
	if cfg.DetailFetchCap <= 0 {
		cfg.DetailFetchCap = defaultDetailFetchCap
	}
	if cfg.MatchListTTL <= 0 {
		cfg.MatchListTTL = defaultMatchListTTL
	}
	if cfg.FormatTTL <= 0 {
		cfg.FormatTTL = defaultFormatTTL
	}
	if cfg.SquadTTL <= 0 {
		cfg.SquadTTL = defaultSquadTTL
	}
	if cfg.ScorecardTTL <= 0 {
		cfg.ScorecardTTL = defaultScorecardTTL
	}
	if cfg.MatchStateTTL <= 0 {
		cfg.MatchStateTTL = defaultMatchStateTTL
	}
	cfg.CircuitBreaker = resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	return cfg
}

// Client scrapes the public cricket site for match listings, squads and
// scorecards. All results flow through purpose-scoped TTL caches; no scraped
// data is ever the system of record.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     *logging.Logger

	breaker        *resilience.CircuitBreaker
	circuitEnabled bool

	maxRetries     int
	listDelay      time.Duration
	detailDelay    time.Duration
	detailFetchCap int

	cacheEnabled   bool
	listCache      *cache.Store
	formatCache    *cache.Store
	squadCache     *cache.Store
	scorecardCache *cache.Store
	stateCache     *cache.Store
}

func NewClient(cfg ClientConfig) *Client {
	cfg = NormalizeClientConfig(cfg)
	return &Client{
		httpClient: cfg.HTTPClient,
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
		logger:     cfg.Logger,
		breaker: resilience.NewCircuitBreaker(
			cfg.CircuitBreaker.FailureThreshold,
			cfg.CircuitBreaker.OpenTimeout,
			cfg.CircuitBreaker.HalfOpenMaxReq,
		),
		circuitEnabled: cfg.CircuitBreaker.Enabled,
		maxRetries:     cfg.MaxRetries,
		listDelay:      cfg.ListDelay,
		detailDelay:    cfg.DetailDelay,
		detailFetchCap: cfg.DetailFetchCap,
		cacheEnabled:   cfg.CacheEnabled,
		listCache:      cache.NewStore(cfg.MatchListTTL),
		formatCache:    cache.NewStore(cfg.FormatTTL),
		squadCache:     cache.NewStore(cfg.SquadTTL),
		scorecardCache: cache.NewStore(cfg.ScorecardTTL),
		stateCache:     cache.NewStore(cfg.MatchStateTTL),
	}
}

func (c *Client) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

const (
	cacheKeyLiveList     = "matchlist:live"
	cacheKeyUpcomingList = "matchlist:upcoming"
)

// ListLiveAndTodayMatches returns currently live matches plus matches
// starting today. Results are cached briefly; bypassCache forces a fresh
// scrape and refreshes the cache.
func (c *Client) ListLiveAndTodayMatches(ctx context.Context, bypassCache bool) ([]match.Summary, error) {
	candidates := []string{
		c.baseURL + "/cricket-match/live-scores",
		c.baseURL + "/live-cricket-scores",
	}
	return c.listMatches(ctx, cacheKeyLiveList, candidates, listingLiveToday, bypassCache)
}

// ListUpcomingMatches returns matches that have not started yet.
func (c *Client) ListUpcomingMatches(ctx context.Context, bypassCache bool) ([]match.Summary, error) {
	candidates := []string{
		c.baseURL + "/cricket-schedule/upcoming-series",
		c.baseURL + "/cricket-schedule/upcoming-series/all",
		c.baseURL + "/cricket-match/live-scores",
	}
	return c.listMatches(ctx, cacheKeyUpcomingList, candidates, listingUpcoming, bypassCache)
}

func (c *Client) listMatches(ctx context.Context, cacheKey string, candidates []string, kind listingKind, bypassCache bool) ([]match.Summary, error) {
	loader := func(ctx context.Context) (any, error) {
		_, html, ok := c.fetchFirst(ctx, candidates, cacheKey)
		if !ok {
			return nil, errors.Wrapf(ErrMatchListUnavailable, "no listing page responded for %s", cacheKey)
		}
		summaries := parseListingPage(c.baseURL, html, kind)
		c.completeFormats(ctx, summaries)
		c.logger.InfoContext(ctx, "cricbuzz match listing parsed", "listing", cacheKey, "matches", len(summaries))
		return summaries, nil
	}

	if !c.cacheEnabled {
		value, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		return value.([]match.Summary), nil
	}
	if bypassCache {
		c.listCache.Delete(ctx, cacheKey)
	}

	value, err := c.listCache.GetOrLoad(ctx, cacheKey, loader)
	if err != nil {
		return nil, err
	}
	return value.([]match.Summary), nil
}

// completeFormats fills missing match formats using the long-lived format
// cache first, then a bounded number of throttled detail-page fetches. A
// detail page that yields nothing is cached as empty so it is not re-fetched
// every listing cycle.
func (c *Client) completeFormats(ctx context.Context, summaries []match.Summary) {
	budget := c.detailFetchCap
	for i := range summaries {
		if summaries[i].MatchType != "" {
			c.formatCache.Set(ctx, formatCacheKey(summaries[i].MatchID), summaries[i].MatchType)
			continue
		}

		if cached, ok := c.formatCache.Get(ctx, formatCacheKey(summaries[i].MatchID)); ok {
			summaries[i].MatchType = cached.(string)
			continue
		}

		if budget <= 0 || summaries[i].SourceURL == "" {
			continue
		}
		budget--
		if err := c.sleep(ctx, c.detailDelay); err != nil {
			return
		}
		html, ok := c.fetchPage(ctx, summaries[i].SourceURL, "match detail")
		if !ok {
			continue
		}
		format := matchFormatFromDetailPage(html, summaries[i].MatchID)
		summaries[i].MatchType = format
		c.formatCache.Set(ctx, formatCacheKey(summaries[i].MatchID), format)
	}
}

func formatCacheKey(matchID string) string {
	return "format:" + matchID
}

// matchFormatFromDetailPage scans the detail page's embedded JSON for the
// format of the given match id, then falls back to the page title and meta
// description. The id-scoped scan avoids picking up a sibling match's format
// from a shared payload.
func matchFormatFromDetailPage(html, matchID string) string {
	scan := strings.ReplaceAll(html, `\"`, `"`)
	idRegex := regexp.MustCompile(`"matchId"\s*:\s*` + regexp.QuoteMeta(matchID) + `\b`)
	if loc := idRegex.FindStringIndex(scan); loc != nil {
		window := scan[loc[1]:]
		if len(window) > 700 {
			window = window[:700]
		}
		if m := detailFormatRegex.FindStringSubmatch(window); m != nil {
			if format := match.ParseFormat(m[1]); format != "" {
				return format
			}
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	if format := match.ParseFormat(doc.Find("title").First().Text()); format != "" {
		return format
	}
	if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		return match.ParseFormat(desc)
	}
	return ""
}

var detailFormatRegex = regexp.MustCompile(`(?i)"matchFormat"\s*:\s*"(T20I?|ODI|TEST)"`)

// ResolveSquad scrapes both teams' player names for a match. It walks a
// ladder of candidate pages, promoting any scorecard link found along the
// way, and prefers Playing XI blocks over profile-link harvesting.
func (c *Client) ResolveSquad(ctx context.Context, matchID string) (*SquadResult, error) {
	loader := func(ctx context.Context) (any, error) {
		return c.resolveSquad(ctx, matchID)
	}

	if !c.cacheEnabled {
		value, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		return value.(*SquadResult), nil
	}

	value, err := c.squadCache.GetOrLoad(ctx, "squad:"+matchID, loader)
	if err != nil {
		return nil, err
	}
	return value.(*SquadResult), nil
}

func (c *Client) resolveSquad(ctx context.Context, matchID string) (*SquadResult, error) {
	matchURL := c.cachedMatchURL(ctx, matchID)
	candidates := squadPageCandidates(c.baseURL, matchID, matchURL)

	best := &SquadResult{MatchID: matchID}
	for i := 0; i < len(candidates); i++ {
		if i > 0 {
			if err := c.sleep(ctx, c.listDelay); err != nil {
				return nil, err
			}
		}
		url := candidates[i]
		html, ok := c.fetchPage(ctx, url, "squad")
		if !ok {
			continue
		}

		if names, lineup := parseSquadNames(html); len(names) > len(best.Players) {
			best = &SquadResult{MatchID: matchID, Players: names, PlayingXI: lineup, SourceURL: url}
			if len(names) >= 16 {
				break
			}
		}

		// A scorecard link on this page usually carries the full lineup.
		if href := findScorecardHref(c.baseURL, html); href != "" && !containsString(candidates, href) {
			rest := append([]string{href}, candidates[i+1:]...)
			candidates = append(candidates[:i+1], rest...)
		}
	}

	if len(best.Players) == 0 {
		return nil, errors.Wrapf(ErrSquadUnavailable, "match %s", matchID)
	}
	c.logger.InfoContext(ctx, "cricbuzz squad resolved", "match_id", matchID, "players", len(best.Players), "source", best.SourceURL)
	return best, nil
}

// cachedMatchURL finds the match's listing URL without new network calls.
func (c *Client) cachedMatchURL(ctx context.Context, matchID string) string {
	needle := "/" + matchID + "/"
	for _, key := range []string{cacheKeyLiveList, cacheKeyUpcomingList} {
		value, ok := c.listCache.Get(ctx, key)
		if !ok {
			continue
		}
		for _, summary := range value.([]match.Summary) {
			if strings.Contains(summary.SourceURL, needle) {
				return summary.SourceURL
			}
		}
	}
	return ""
}

func containsString(values []string, needle string) bool {
	for _, v := range values {
		if v == needle {
			return true
		}
	}
	return false
}

// ExtractStats fetches a match's scorecard and returns accumulated raw stats
// per external player id. The whole URL ladder is retried with a linear
// backoff because live scorecards flap during innings breaks.
func (c *Client) ExtractStats(ctx context.Context, matchID string) (*StatsExtract, error) {
	loader := func(ctx context.Context) (any, error) {
		return c.extractStats(ctx, matchID)
	}

	if !c.cacheEnabled {
		value, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		return value.(*StatsExtract), nil
	}

	value, err := c.scorecardCache.GetOrLoad(ctx, "scorecard:"+matchID, loader)
	if err != nil {
		return nil, err
	}
	return value.(*StatsExtract), nil
}

func (c *Client) extractStats(ctx context.Context, matchID string) (*StatsExtract, error) {
	candidates := []string{
		c.baseURL + "/live-cricket-scorecard/" + matchID,
		c.baseURL + "/live-cricket-scores/" + matchID + "/scorecard",
		c.baseURL + "/cricket-scores/" + matchID + "/scorecard",
	}

	attempts := c.maxRetries + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			if err := c.sleep(ctx, time.Duration(attempt-1)*c.detailDelay); err != nil {
				return nil, err
			}
			c.logger.WarnContext(ctx, "cricbuzz scorecard retry", "match_id", matchID, "attempt", attempt)
		}

		url, html, ok := c.fetchFirst(ctx, candidates, "scorecard")
		if !ok {
			continue
		}
		raw := ExtractNamedJSON(html, "scorecardApiData")
		extract, ok := parseScorecard(raw)
		if !ok {
			c.logger.WarnContext(ctx, "cricbuzz scorecard payload missing", "match_id", matchID, "url", url)
			continue
		}

		extract.MatchID = matchID
		extract.SourceURL = url
		c.logger.InfoContext(ctx, "cricbuzz scorecard extracted",
			"match_id", matchID, "players", len(extract.StatsByID), "state", extract.State)
		return extract, nil
	}

	return nil, errors.Wrapf(ErrScorecardUnavailable, "match %s", matchID)
}

// MatchStateByID reports where a match currently sits in its lifecycle by
// consulting the cached listings. Matches absent from both listings are
// UNKNOWN rather than an error.
func (c *Client) MatchStateByID(ctx context.Context, matchID string) (string, *match.Summary, error) {
	if c.cacheEnabled {
		if cached, ok := c.stateCache.Get(ctx, "state:"+matchID); ok {
			state := cached.(stateEntry)
			return state.status, state.summary, nil
		}
	}

	status, summary, err := c.lookupState(ctx, matchID)
	if err != nil {
		return "", nil, err
	}
	if c.cacheEnabled {
		c.stateCache.Set(ctx, "state:"+matchID, stateEntry{status: status, summary: summary})
	}
	return status, summary, nil
}

type stateEntry struct {
	status  string
	summary *match.Summary
}

func (c *Client) lookupState(ctx context.Context, matchID string) (string, *match.Summary, error) {
	live, err := c.ListLiveAndTodayMatches(ctx, false)
	if err != nil {
		return "", nil, err
	}
	for i := range live {
		if live[i].MatchID == matchID {
			return live[i].MatchStatus, &live[i], nil
		}
	}

	upcoming, err := c.ListUpcomingMatches(ctx, false)
	if err != nil {
		// The live listing answered, so a failed upcoming scrape only
		// downgrades the answer instead of failing the lookup.
		c.logger.WarnContext(ctx, "cricbuzz upcoming listing unavailable during state lookup", "match_id", matchID, "error", err)
		return match.StatusUnknown, nil, nil
	}
	for i := range upcoming {
		if upcoming[i].MatchID == matchID {
			return match.StatusUpcoming, &upcoming[i], nil
		}
	}

	return match.StatusUnknown, nil, nil
}
