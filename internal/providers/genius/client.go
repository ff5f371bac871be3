package genius

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"songfinder/lyricsearch/internal/domain"
	"songfinder/lyricsearch/internal/providers/common"
)

const defaultBaseURL = "https://api.genius.com"

var ErrNotConfigured = errors.New("genius api key not configured")

type Client struct {
	apiKey  string
	baseURL string
	fetcher common.JSONFetcher
}

type Config struct {
	APIKey  string
	BaseURL string
	Fetcher common.JSONFetcher
}

type searchResponse struct {
	Response struct {
		Hits []struct {
			Type   string  `json:"type"`
			Result *result `json:"result"`
		} `json:"hits"`
	} `json:"response"`
}

type result struct {
	Title            string `json:"title"`
	TitleWithFeature string `json:"title_with_featured"`
	URL              string `json:"url"`
	SongArtImageURL  string `json:"song_art_image_url"`
	PrimaryArtist    *struct {
		Name string `json:"name"`
	} `json:"primary_artist"`
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
	return &Client{
		apiKey:  strings.TrimSpace(cfg.APIKey),
		baseURL: strings.TrimRight(baseURL, "/"),
		fetcher: fetcher,
	}
}

func (c *Client) Name() string { return "genius" }

func (c *Client) Enabled() bool { return c.apiKey != "" }

// Search queries the Genius song index. Hits keep the upstream ranking.
func (c *Client) Search(ctx context.Context, query string) ([]domain.SearchHit, error) {
	if !c.Enabled() {
		return nil, ErrNotConfigured
	}
	params := url.Values{
		"q":            {strings.TrimSpace(query)},
		"access_token": {c.apiKey},
	}

	var response searchResponse
	if err := c.fetcher.FetchJSON(ctx, c.baseURL+"/search?"+params.Encode(), &response); err != nil {
		return nil, err
	}

	hits := make([]domain.SearchHit, 0, len(response.Response.Hits))
	for _, item := range response.Response.Hits {
		if item.Result == nil || strings.TrimSpace(item.Result.Title) == "" || strings.TrimSpace(item.Result.URL) == "" {
			continue
		}
		hits = append(hits, mapResult(*item.Result))
	}
	return hits, nil
}

func mapResult(r result) domain.SearchHit {
	artist := ""
	if r.PrimaryArtist != nil {
		artist = strings.TrimSpace(r.PrimaryArtist.Name)
	}
	if artist == "" {
		artist = domain.UnknownArtist
	}
	return domain.SearchHit{
		Title:    r.Title,
		Artist:   artist,
		URL:      r.URL,
		AlbumArt: r.SongArtImageURL,
		Lyrics:   r.TitleWithFeature,
	}
}
