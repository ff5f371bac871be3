package common

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultUserAgent = "SongFinder/1.0"
	maxResponseBytes = 4 << 20
	maxErrorBody     = 1024
)

var ErrHTTPStatus = errors.New("unexpected http status")

// StatusError carries the HTTP status of a failed upstream call.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: %d", ErrHTTPStatus, e.Code)
	}
	return fmt.Sprintf("%s: %d %s", ErrHTTPStatus, e.Code, e.Body)
}

func (e *StatusError) Unwrap() error { return ErrHTTPStatus }

// JSONFetcher is the single transport capability every source depends on:
// GET a URL and decode the JSON body into out.
type JSONFetcher interface {
	FetchJSON(ctx context.Context, rawURL string, out any) error
}

// HTTPFetcher is the default JSONFetcher. Each FetchJSON sends one request
// unless WithRetry allows more. A non-200 response becomes a *StatusError
// matching ErrHTTPStatus.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	retry     RetryConfig
}

type FetcherOption func(*HTTPFetcher)

func WithUserAgent(userAgent string) FetcherOption {
	return func(f *HTTPFetcher) {
		if strings.TrimSpace(userAgent) != "" {
			f.userAgent = strings.TrimSpace(userAgent)
		}
	}
}

func WithRetry(cfg RetryConfig) FetcherOption {
	return func(f *HTTPFetcher) {
		f.retry = cfg
	}
}

func NewHTTPFetcher(client *http.Client, opts ...FetcherOption) *HTTPFetcher {
	if client == nil {
		client = NewHTTPClient(10 * time.Second)
	}
	f := &HTTPFetcher{
		client:    client,
		userAgent: DefaultUserAgent,
		retry:     RetryConfig{MaxAttempts: 1},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewHTTPClient returns a client whose transport emits OpenTelemetry spans.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

func (f *HTTPFetcher) FetchJSON(ctx context.Context, rawURL string, out any) error {
	return RetryWithBackoff(ctx, f.retry, func() error {
		return f.fetchOnce(ctx, rawURL, out)
	})
}

func (f *HTTPFetcher) fetchOnce(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return Permanent(fmt.Errorf("decode response: %w", err))
	}
	return nil
}
