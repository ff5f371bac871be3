package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"songfinder/lyricsearch/internal/domain"
)

type Config struct {
	HTTPAddr       string
	ResolveTimeout time.Duration
	SourceTimeout  time.Duration
	LogLevel       string
	LogFormat      string
	UserAgent      string

	GeniusAPIKey  string
	GeniusBaseURL string
	LRCLibBaseURL string
	ITunesBaseURL string

	DefaultLanguage domain.Language

	HistoryBackend  string
	HistoryMaxItems int
	RedisURL        string
	MongoURI        string
	MongoDatabase   string
	SQLitePath      string

	CacheTTL      time.Duration
	CacheDisabled bool

	RateLimitRPS   float64
	RateLimitBurst int
}

func LoadConfig() Config {
	return Config{
		HTTPAddr:        getEnv("HTTP_ADDR", ":8095"),
		ResolveTimeout:  time.Duration(getEnvInt("RESOLVE_TIMEOUT_SECONDS", 20)) * time.Second,
		SourceTimeout:   time.Duration(getEnvInt("SOURCE_TIMEOUT_SECONDS", 10)) * time.Second,
		LogLevel:        strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:       strings.ToLower(getEnv("LOG_FORMAT", "text")),
		UserAgent:       getEnv("USER_AGENT", "SongFinder/1.0"),
		GeniusAPIKey:    strings.TrimSpace(os.Getenv("GENIUS_API_KEY")),
		GeniusBaseURL:   getEnv("GENIUS_BASE_URL", "https://api.genius.com"),
		LRCLibBaseURL:   getEnv("LRCLIB_BASE_URL", "https://lrclib.net"),
		ITunesBaseURL:   getEnv("ITUNES_BASE_URL", "https://itunes.apple.com"),
		DefaultLanguage: domain.NormalizeLanguage(os.Getenv("DEFAULT_LANGUAGE"), domain.LanguageVietnamese),
		HistoryBackend:  strings.ToLower(getEnv("HISTORY_BACKEND", "memory")),
		HistoryMaxItems: getEnvInt("HISTORY_MAX_ITEMS", domain.DefaultHistoryMaxItems),
		RedisURL:        getEnv("REDIS_URL", ""),
		MongoURI:        getEnv("MONGO_URI", ""),
		MongoDatabase:   getEnv("MONGO_DATABASE", "songfinder"),
		SQLitePath:      getEnv("SQLITE_PATH", "data/history.sqlite3"),
		CacheTTL:        time.Duration(getEnvInt("ENRICH_CACHE_TTL_HOURS", 24)) * time.Hour,
		CacheDisabled:   getEnvBool("ENRICH_CACHE_DISABLED", false),
		RateLimitRPS:    getEnvFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst:  getEnvInt("RATE_LIMIT_BURST", 10),
	}
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
