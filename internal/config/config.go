package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	MongoURI       string
	MongoDatabase  string

	CricbuzzBaseURL               string
	CricbuzzUserAgent             string
	CricbuzzTimeout               time.Duration
	CricbuzzMaxRetries            int
	CricbuzzCircuitEnabled        bool
	CricbuzzCircuitFailureCount   int
	CricbuzzCircuitOpenTimeout    time.Duration
	CricbuzzCircuitHalfOpenMaxReq int

	MatchDetailDelay    time.Duration
	MatchListDelay      time.Duration
	MatchDetailFetchCap int

	CacheEnabled  bool
	MatchListTTL  time.Duration
	FormatTTL     time.Duration
	SquadTTL      time.Duration
	ScorecardTTL  time.Duration
	MatchStateTTL time.Duration

	StatsPollEnabled    bool
	StatsPollInterval   time.Duration
	StatsPollLookback   time.Duration
	StatsPollMaxPerTick int
	StatsPollWorkers    int

	LogLevel logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cricbuzzTimeout, err := time.ParseDuration(getEnv("CRICBUZZ_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CRICBUZZ_TIMEOUT: %w", err)
	}
	if cricbuzzTimeout <= 0 {
		return Config{}, fmt.Errorf("CRICBUZZ_TIMEOUT must be > 0")
	}

	cricbuzzMaxRetries, err := getEnvAsInt("CRICBUZZ_MAX_RETRIES", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse CRICBUZZ_MAX_RETRIES: %w", err)
	}
	if cricbuzzMaxRetries < 0 {
		return Config{}, fmt.Errorf("CRICBUZZ_MAX_RETRIES must be >= 0")
	}

	cricbuzzCircuitEnabled, err := strconv.ParseBool(getEnv("CRICBUZZ_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CRICBUZZ_CIRCUIT_ENABLED: %w", err)
	}
	cricbuzzCircuitFailureCount, err := getEnvAsInt("CRICBUZZ_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse CRICBUZZ_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if cricbuzzCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("CRICBUZZ_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	cricbuzzCircuitOpenTimeout, err := time.ParseDuration(getEnv("CRICBUZZ_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CRICBUZZ_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if cricbuzzCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("CRICBUZZ_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	cricbuzzCircuitHalfOpenMaxReq, err := getEnvAsInt("CRICBUZZ_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse CRICBUZZ_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if cricbuzzCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("CRICBUZZ_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	matchDetailDelay, err := time.ParseDuration(getEnv("MATCH_DETAIL_DELAY", "3s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse MATCH_DETAIL_DELAY: %w", err)
	}
	if matchDetailDelay < 0 {
		return Config{}, fmt.Errorf("MATCH_DETAIL_DELAY must be >= 0")
	}
	matchListDelay, err := time.ParseDuration(getEnv("MATCH_LIST_DELAY", "250ms"))
	if err != nil {
		return Config{}, fmt.Errorf("parse MATCH_LIST_DELAY: %w", err)
	}
	if matchListDelay < 0 {
		return Config{}, fmt.Errorf("MATCH_LIST_DELAY must be >= 0")
	}
	matchDetailFetchCap, err := getEnvAsInt("MATCH_DETAIL_FETCH_CAP", 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse MATCH_DETAIL_FETCH_CAP: %w", err)
	}
	if matchDetailFetchCap < 0 {
		return Config{}, fmt.Errorf("MATCH_DETAIL_FETCH_CAP must be >= 0")
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	matchListTTL, err := parsePositiveDuration("MATCH_LIST_TTL", "60s")
	if err != nil {
		return Config{}, err
	}
	formatTTL, err := parsePositiveDuration("MATCH_FORMAT_TTL", "6h")
	if err != nil {
		return Config{}, err
	}
	squadTTL, err := parsePositiveDuration("SQUAD_TTL", "5m")
	if err != nil {
		return Config{}, err
	}
	scorecardTTL, err := parsePositiveDuration("SCORECARD_TTL", "60s")
	if err != nil {
		return Config{}, err
	}
	matchStateTTL, err := parsePositiveDuration("MATCH_STATE_TTL", "60s")
	if err != nil {
		return Config{}, err
	}

	statsPollEnabled, err := strconv.ParseBool(getEnv("STATS_POLL_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STATS_POLL_ENABLED: %w", err)
	}
	statsPollInterval, err := parsePositiveDuration("STATS_POLL_INTERVAL", "60s")
	if err != nil {
		return Config{}, err
	}
	statsPollLookback, err := parsePositiveDuration("STATS_POLL_LOOKBACK", "72h")
	if err != nil {
		return Config{}, err
	}
	statsPollMaxPerTick, err := getEnvAsInt("STATS_POLL_MAX_PER_TICK", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse STATS_POLL_MAX_PER_TICK: %w", err)
	}
	if statsPollMaxPerTick < 1 {
		return Config{}, fmt.Errorf("STATS_POLL_MAX_PER_TICK must be >= 1")
	}
	statsPollWorkers, err := getEnvAsInt("STATS_POLL_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse STATS_POLL_WORKERS: %w", err)
	}
	if statsPollWorkers < 1 {
		return Config{}, fmt.Errorf("STATS_POLL_WORKERS must be >= 1")
	}

	cfg := Config{
		AppEnv:                        appEnv,
		ServiceName:                   getEnv("APP_SERVICE_NAME", "fantasy-cricket-worker"),
		ServiceVersion:                getEnv("APP_SERVICE_VERSION", "dev"),
		MongoURI:                      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:                 getEnv("MONGO_DATABASE", "fantasy_cricket"),
		CricbuzzBaseURL:               strings.TrimRight(getEnv("CRICBUZZ_BASE_URL", "https://www.cricbuzz.com"), "/"),
		CricbuzzUserAgent:             getEnv("CRICBUZZ_USER_AGENT", defaultUserAgent),
		CricbuzzTimeout:               cricbuzzTimeout,
		CricbuzzMaxRetries:            cricbuzzMaxRetries,
		CricbuzzCircuitEnabled:        cricbuzzCircuitEnabled,
		CricbuzzCircuitFailureCount:   cricbuzzCircuitFailureCount,
		CricbuzzCircuitOpenTimeout:    cricbuzzCircuitOpenTimeout,
		CricbuzzCircuitHalfOpenMaxReq: cricbuzzCircuitHalfOpenMaxReq,
		MatchDetailDelay:              matchDetailDelay,
		MatchListDelay:                matchListDelay,
		MatchDetailFetchCap:           matchDetailFetchCap,
		CacheEnabled:                  cacheEnabled,
		MatchListTTL:                  matchListTTL,
		FormatTTL:                     formatTTL,
		SquadTTL:                      squadTTL,
		ScorecardTTL:                  scorecardTTL,
		MatchStateTTL:                 matchStateTTL,
		StatsPollEnabled:              statsPollEnabled,
		StatsPollInterval:             statsPollInterval,
		StatsPollLookback:             statsPollLookback,
		StatsPollMaxPerTick:           statsPollMaxPerTick,
		StatsPollWorkers:              statsPollWorkers,
		LogLevel:                      parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}

	if cfg.CricbuzzBaseURL == "" {
		return Config{}, fmt.Errorf("CRICBUZZ_BASE_URL cannot be empty")
	}
	if strings.TrimSpace(cfg.MongoURI) == "" {
		return Config{}, fmt.Errorf("MONGO_URI cannot be empty")
	}
	if strings.TrimSpace(cfg.MongoDatabase) == "" {
		return Config{}, fmt.Errorf("MONGO_DATABASE cannot be empty")
	}

	return cfg, nil
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	v, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}

	return v, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
