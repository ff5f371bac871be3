package app

import (
	"context"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"

	"songfinder/lyricsearch/internal/history"
	"songfinder/lyricsearch/internal/providers/common"
	"songfinder/lyricsearch/internal/providers/genius"
	"songfinder/lyricsearch/internal/providers/itunes"
	"songfinder/lyricsearch/internal/providers/lrclib"
	"songfinder/lyricsearch/internal/search"
)

// Components is everything a front end needs to resolve songs.
type Components struct {
	Service *search.Service
	History history.Store
	redis   *redis.Client
}

// Close releases the history backend and the shared Redis client.
func (c *Components) Close() {
	if c.History != nil {
		_ = c.History.Close()
	}
	if c.redis != nil {
		_ = c.redis.Close()
	}
}

// Build wires the sources, the optional enrichment cache and the history
// backend from cfg. Unreachable optional infrastructure is logged and skipped.
func Build(ctx context.Context, cfg Config, logger *slog.Logger) *Components {
	fetcher := common.NewHTTPFetcher(
		common.NewHTTPClient(cfg.SourceTimeout),
		common.WithUserAgent(cfg.UserAgent),
	)

	redisClient := connectRedis(ctx, cfg.RedisURL, logger)
	var cache common.Cache
	switch {
	case cfg.CacheDisabled:
	case redisClient != nil:
		cache = common.NewRedisCache(redisClient, common.DefaultCachePrefix)
	default:
		cache = common.NewMemoryCache(common.DefaultMemoryCacheEntries)
	}

	primary := genius.NewClient(genius.Config{
		APIKey:  cfg.GeniusAPIKey,
		BaseURL: cfg.GeniusBaseURL,
		Fetcher: fetcher,
	})
	if !primary.Enabled() {
		logger.Warn("genius api key not configured, every resolve will return no result")
	}
	snippets := lrclib.NewClient(lrclib.Config{
		BaseURL:  cfg.LRCLibBaseURL,
		Fetcher:  fetcher,
		Cache:    cache,
		CacheTTL: cfg.CacheTTL,
	})
	previews := itunes.NewClient(itunes.Config{
		BaseURL:  cfg.ITunesBaseURL,
		Fetcher:  fetcher,
		Cache:    cache,
		CacheTTL: cfg.CacheTTL,
	})

	store, err := history.Open(ctx, history.Config{
		Backend:       cfg.HistoryBackend,
		MaxItems:      cfg.HistoryMaxItems,
		Redis:         redisClient,
		MongoURI:      cfg.MongoURI,
		MongoDatabase: cfg.MongoDatabase,
		SQLitePath:    cfg.SQLitePath,
	}, logger)
	if err != nil {
		logger.Warn("history backend fallback", slog.String("error", err.Error()))
	}

	service := search.NewService(primary, snippets, previews,
		search.WithLogger(logger),
		search.WithHistory(store),
		search.WithDefaultLanguage(cfg.DefaultLanguage),
	)
	return &Components{Service: service, History: store, redis: redisClient}
}

func connectRedis(ctx context.Context, rawURL string, logger *slog.Logger) *redis.Client {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil
	}
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		logger.Warn("invalid redis url, running without redis", slog.String("error", err.Error()))
		return nil
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not reachable, running without redis", slog.String("error", err.Error()))
		_ = client.Close()
		return nil
	}
	logger.Info("redis connected", slog.String("addr", opts.Addr))
	return client
}
