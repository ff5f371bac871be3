package app

import (
	"testing"
	"time"

	"songfinder/lyricsearch/internal/domain"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"HTTP_ADDR", "RESOLVE_TIMEOUT_SECONDS", "SOURCE_TIMEOUT_SECONDS", "LOG_LEVEL", "LOG_FORMAT",
		"USER_AGENT", "GENIUS_API_KEY", "DEFAULT_LANGUAGE", "HISTORY_BACKEND", "HISTORY_MAX_ITEMS",
		"ENRICH_CACHE_TTL_HOURS", "ENRICH_CACHE_DISABLED", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()

	if cfg.HTTPAddr != ":8095" {
		t.Errorf("HTTPAddr: got %q", cfg.HTTPAddr)
	}
	if cfg.ResolveTimeout != 20*time.Second || cfg.SourceTimeout != 10*time.Second {
		t.Errorf("timeouts: got %v / %v", cfg.ResolveTimeout, cfg.SourceTimeout)
	}
	if cfg.UserAgent != "SongFinder/1.0" {
		t.Errorf("UserAgent: got %q", cfg.UserAgent)
	}
	if cfg.DefaultLanguage != domain.LanguageVietnamese {
		t.Errorf("DefaultLanguage: got %q", cfg.DefaultLanguage)
	}
	if cfg.HistoryBackend != "memory" || cfg.HistoryMaxItems != domain.DefaultHistoryMaxItems {
		t.Errorf("history: got %q/%d", cfg.HistoryBackend, cfg.HistoryMaxItems)
	}
	if cfg.CacheTTL != 24*time.Hour || cfg.CacheDisabled {
		t.Errorf("cache: got %v disabled=%v", cfg.CacheTTL, cfg.CacheDisabled)
	}
	if cfg.RateLimitRPS != 5 || cfg.RateLimitBurst != 10 {
		t.Errorf("rate limit: got %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("RESOLVE_TIMEOUT_SECONDS", "5")
	t.Setenv("DEFAULT_LANGUAGE", "en_US")
	t.Setenv("HISTORY_BACKEND", "SQLite")
	t.Setenv("HISTORY_MAX_ITEMS", "-3")
	t.Setenv("ENRICH_CACHE_DISABLED", "yes")
	t.Setenv("LOG_FORMAT", "JSON")

	cfg := LoadConfig()

	if cfg.HTTPAddr != ":9000" || cfg.ResolveTimeout != 5*time.Second {
		t.Errorf("unexpected addr/timeout: %q %v", cfg.HTTPAddr, cfg.ResolveTimeout)
	}
	if cfg.DefaultLanguage != domain.LanguageEnglish {
		t.Errorf("DefaultLanguage: got %q", cfg.DefaultLanguage)
	}
	if cfg.HistoryBackend != "sqlite" {
		t.Errorf("HistoryBackend: got %q", cfg.HistoryBackend)
	}
	if cfg.HistoryMaxItems != domain.DefaultHistoryMaxItems {
		t.Errorf("negative max items should fall back, got %d", cfg.HistoryMaxItems)
	}
	if !cfg.CacheDisabled || cfg.LogFormat != "json" {
		t.Errorf("unexpected cache/log format: %v %q", cfg.CacheDisabled, cfg.LogFormat)
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		raw      string
		fallback bool
		want     bool
	}{
		{"", true, true},
		{"on", false, true},
		{"0", true, false},
		{"maybe", true, true},
	}
	for _, tt := range tests {
		t.Setenv("LYRICSEARCH_TEST_BOOL", tt.raw)
		if got := getEnvBool("LYRICSEARCH_TEST_BOOL", tt.fallback); got != tt.want {
			t.Errorf("getEnvBool(%q, %v) = %v, want %v", tt.raw, tt.fallback, got, tt.want)
		}
	}
}
