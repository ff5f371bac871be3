package lrclib

import (
	"context"
	"net/url"
	"strings"
	"time"

	"songfinder/lyricsearch/internal/domain"
	"songfinder/lyricsearch/internal/providers/common"
)

const (
	defaultBaseURL  = "https://lrclib.net"
	defaultCacheTTL = 24 * time.Hour
)

// Client looks up plain lyrics on LRCLIB, which needs no API key.
type Client struct {
	baseURL  string
	fetcher  common.JSONFetcher
	cache    common.Cache
	cacheTTL time.Duration
}

type Config struct {
	BaseURL  string
	Fetcher  common.JSONFetcher
	Cache    common.Cache
	CacheTTL time.Duration
}

type track struct {
	ID           int64   `json:"id"`
	TrackName    string  `json:"trackName"`
	ArtistName   string  `json:"artistName"`
	AlbumName    string  `json:"albumName"`
	Duration     float64 `json:"duration"`
	Instrumental bool    `json:"instrumental"`
	PlainLyrics  string  `json:"plainLyrics"`
}

func NewClient(cfg Config) *Client {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	fetcher := cfg.Fetcher
	if fetcher == nil {
		fetcher = common.NewHTTPFetcher(nil)
	}
	cacheTTL := cfg.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		fetcher:  fetcher,
		cache:    cfg.Cache,
		cacheTTL: cacheTTL,
	}
}

func (c *Client) Name() string { return "lrclib" }

func (c *Client) SearchLyrics(ctx context.Context, query string) ([]domain.LyricsCandidate, error) {
	query = strings.TrimSpace(query)
	cacheKey := common.CacheKey(c.Name(), query)
	if c.cache != nil {
		var cached []domain.LyricsCandidate
		if ok, err := c.cache.Get(ctx, cacheKey, &cached); err == nil && ok {
			return cached, nil
		}
	}

	var tracks []track
	if err := c.fetcher.FetchJSON(ctx, c.baseURL+"/api/search?"+url.Values{"q": {query}}.Encode(), &tracks); err != nil {
		return nil, err
	}

	candidates := make([]domain.LyricsCandidate, 0, len(tracks))
	for _, t := range tracks {
		candidates = append(candidates, domain.LyricsCandidate{
			TrackName:   t.TrackName,
			ArtistName:  t.ArtistName,
			PlainLyrics: t.PlainLyrics,
		})
	}

	if c.cache != nil {
		_ = c.cache.Set(ctx, cacheKey, candidates, c.cacheTTL)
	}
	return candidates, nil
}
