package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"songfinder/lyricsearch/internal/domain"
	"songfinder/lyricsearch/internal/metrics"
)

const maxSnippetLines = 4

// Enricher fetches a lyric snippet and a preview URL for every hit. All lookups
// run at once and each one absorbs its own failure, so a broken source only
// blanks its own field.
type Enricher struct {
	snippets SnippetSource
	previews PreviewSource
	logger   *slog.Logger
}

type EnricherOption func(*Enricher)

func WithEnricherLogger(logger *slog.Logger) EnricherOption {
	return func(e *Enricher) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func NewEnricher(snippets SnippetSource, previews PreviewSource, opts ...EnricherOption) *Enricher {
	e := &Enricher{
		snippets: snippets,
		previews: previews,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enrich returns one Enrichment per hit, index-aligned with hits. It never fails.
func (e *Enricher) Enrich(ctx context.Context, hits []domain.SearchHit) []domain.Enrichment {
	out := make([]domain.Enrichment, len(hits))
	if e == nil || len(hits) == 0 {
		return out
	}

	// A plain Group: siblings are never cancelled by each other's failure.
	var g errgroup.Group
	for i, hit := range hits {
		i := i
		query := lookupQuery(hit)
		g.Go(func() error {
			out[i].Snippet = e.fetchSnippet(ctx, query)
			return nil
		})
		g.Go(func() error {
			out[i].PreviewURL = e.fetchPreview(ctx, query)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func lookupQuery(hit domain.SearchHit) string {
	return fmt.Sprintf("%s %s", hit.Title, hit.Artist)
}

func (e *Enricher) fetchSnippet(ctx context.Context, query string) (snippet string) {
	if e.snippets == nil {
		return ""
	}
	source := e.snippets.Name()
	defer func() {
		if recovered := recover(); recovered != nil {
			e.logger.Error("snippet lookup panicked", slog.String("source", source), slog.Any("error", recovered))
			metrics.EnrichmentsTotal.WithLabelValues("snippet", "error").Inc()
			snippet = ""
		}
	}()

	startedAt := time.Now()
	candidates, err := e.snippets.SearchLyrics(ctx, query)
	recordSourceResult(source, err, time.Since(startedAt))
	if err != nil {
		e.logger.Warn("snippet lookup failed",
			slog.String("source", source),
			slog.String("query", query),
			slog.String("error", err.Error()),
		)
		metrics.EnrichmentsTotal.WithLabelValues("snippet", "error").Inc()
		return ""
	}
	if len(candidates) == 0 {
		metrics.EnrichmentsTotal.WithLabelValues("snippet", "empty").Inc()
		return ""
	}

	snippet = SnippetFromLyrics(candidates[0].PlainLyrics)
	if snippet == "" {
		metrics.EnrichmentsTotal.WithLabelValues("snippet", "empty").Inc()
		return ""
	}
	metrics.EnrichmentsTotal.WithLabelValues("snippet", "ok").Inc()
	return snippet
}

func (e *Enricher) fetchPreview(ctx context.Context, query string) (previewURL string) {
	if e.previews == nil {
		return ""
	}
	source := e.previews.Name()
	defer func() {
		if recovered := recover(); recovered != nil {
			e.logger.Error("preview lookup panicked", slog.String("source", source), slog.Any("error", recovered))
			metrics.EnrichmentsTotal.WithLabelValues("preview", "error").Inc()
			previewURL = ""
		}
	}()

	startedAt := time.Now()
	candidates, err := e.previews.SearchPreviews(ctx, query)
	recordSourceResult(source, err, time.Since(startedAt))
	if err != nil {
		e.logger.Warn("preview lookup failed",
			slog.String("source", source),
			slog.String("query", query),
			slog.String("error", err.Error()),
		)
		metrics.EnrichmentsTotal.WithLabelValues("preview", "error").Inc()
		return ""
	}
	if len(candidates) == 0 || candidates[0].PreviewURL == "" {
		metrics.EnrichmentsTotal.WithLabelValues("preview", "empty").Inc()
		return ""
	}
	metrics.EnrichmentsTotal.WithLabelValues("preview", "ok").Inc()
	return candidates[0].PreviewURL
}

// SnippetFromLyrics keeps the first four non-empty lines that are not
// bracketed annotations such as "[Chorus]".
func SnippetFromLyrics(plain string) string {
	if plain == "" {
		return ""
	}
	lines := make([]string, 0, maxSnippetLines)
	for _, line := range strings.Split(plain, "\n") {
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "[") {
			continue
		}
		lines = append(lines, line)
		if len(lines) == maxSnippetLines {
			break
		}
	}
	return strings.Join(lines, "\n")
}
