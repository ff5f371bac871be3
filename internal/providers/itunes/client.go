package itunes

import (
	"context"
	"net/url"
	"strings"
	"time"

	"songfinder/lyricsearch/internal/domain"
	"songfinder/lyricsearch/internal/providers/common"
)

const (
	defaultBaseURL  = "https://itunes.apple.com"
	defaultCacheTTL = 24 * time.Hour
	resultLimit     = "1"
)

// Client finds 30-second previews through the iTunes Search API.
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

type searchResponse struct {
	ResultCount int `json:"resultCount"`
	Results     []struct {
		WrapperType string `json:"wrapperType"`
		TrackName   string `json:"trackName"`
		ArtistName  string `json:"artistName"`
		PreviewURL  string `json:"previewUrl"`
	} `json:"results"`
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

func (c *Client) Name() string { return "itunes" }

func (c *Client) SearchPreviews(ctx context.Context, query string) ([]domain.PreviewCandidate, error) {
	query = strings.TrimSpace(query)
	cacheKey := common.CacheKey(c.Name(), query)
	if c.cache != nil {
		var cached []domain.PreviewCandidate
		if ok, err := c.cache.Get(ctx, cacheKey, &cached); err == nil && ok {
			return cached, nil
		}
	}

	params := url.Values{
		"term":  {query},
		"media": {"music"},
		"limit": {resultLimit},
	}
	var response searchResponse
	if err := c.fetcher.FetchJSON(ctx, c.baseURL+"/search?"+params.Encode(), &response); err != nil {
		return nil, err
	}

	candidates := make([]domain.PreviewCandidate, 0, len(response.Results))
	for _, r := range response.Results {
		candidates = append(candidates, domain.PreviewCandidate{
			TrackName:  r.TrackName,
			ArtistName: r.ArtistName,
			PreviewURL: r.PreviewURL,
		})
	}

	if c.cache != nil {
		_ = c.cache.Set(ctx, cacheKey, candidates, c.cacheTTL)
	}
	return candidates, nil
}
