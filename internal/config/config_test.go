package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.CricbuzzBaseURL != "https://www.cricbuzz.com" {
		t.Fatalf("unexpected base url: %q", cfg.CricbuzzBaseURL)
	}
	if cfg.CricbuzzTimeout != 15*time.Second {
		t.Fatalf("unexpected timeout: %s", cfg.CricbuzzTimeout)
	}
	if cfg.MatchDetailDelay != 3*time.Second {
		t.Fatalf("unexpected detail delay: %s", cfg.MatchDetailDelay)
	}
	if cfg.MatchListDelay != 250*time.Millisecond {
		t.Fatalf("unexpected list delay: %s", cfg.MatchListDelay)
	}
	if cfg.MatchDetailFetchCap != 8 {
		t.Fatalf("unexpected detail fetch cap: %d", cfg.MatchDetailFetchCap)
	}
	if cfg.MatchListTTL != 60*time.Second {
		t.Fatalf("unexpected match list ttl: %s", cfg.MatchListTTL)
	}
	if cfg.FormatTTL != 6*time.Hour {
		t.Fatalf("unexpected format ttl: %s", cfg.FormatTTL)
	}
	if cfg.SquadTTL != 5*time.Minute {
		t.Fatalf("unexpected squad ttl: %s", cfg.SquadTTL)
	}
	if cfg.ScorecardTTL != 60*time.Second {
		t.Fatalf("unexpected scorecard ttl: %s", cfg.ScorecardTTL)
	}
	if cfg.StatsPollLookback != 72*time.Hour {
		t.Fatalf("unexpected poll lookback: %s", cfg.StatsPollLookback)
	}
	if !cfg.CacheEnabled {
		t.Fatalf("expected cache enabled by default")
	}
}

func TestLoad_BaseURLTrimsTrailingSlash(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("CRICBUZZ_BASE_URL", "https://mirror.example.com/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.CricbuzzBaseURL != "https://mirror.example.com" {
		t.Fatalf("unexpected base url: %q", cfg.CricbuzzBaseURL)
	}
}

func TestLoad_InvalidDurations(t *testing.T) {
	cases := map[string]string{
		"CRICBUZZ_TIMEOUT":    "bad",
		"MATCH_LIST_TTL":      "-1s",
		"SQUAD_TTL":           "0s",
		"STATS_POLL_INTERVAL": "soon",
	}

	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", key, value)
			}
		})
	}
}

func TestLoad_PollerBoundsValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STATS_POLL_MAX_PER_TICK", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for STATS_POLL_MAX_PER_TICK=0")
	}
}

func TestLoad_LogLevelParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APP_LOG_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.LogLevel.String() != "warn" {
		t.Fatalf("unexpected log level: %s", cfg.LogLevel.String())
	}
}
