package search

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"songfinder/lyricsearch/internal/domain"
	"songfinder/lyricsearch/internal/metrics"
)

const (
	MaxTranscriptLength   = 500
	defaultHistoryTimeout = 3 * time.Second
)

var (
	ErrEmptyTranscript   = errors.New("nothing recognized in transcript")
	ErrTranscriptTooLong = errors.New("transcript too long (max 500 characters)")
)

// Resolution is the full outcome of one ResolveSong call. Failure is set only
// when every attempted variant failed, so an outage is distinguishable from a
// transcript that matched nothing.
type Resolution struct {
	Query    string           `json:"query"`
	Language domain.Language  `json:"language"`
	Queries  []string         `json:"queries"`
	Variant  int              `json:"variant"`
	Results  domain.ResultSet `json:"items"`
	Failure  domain.ErrorKind `json:"failure,omitempty"`
	Elapsed  time.Duration    `json:"-"`
}

// Service is the caller-facing entry point: plan, resolve, enrich, assemble,
// then report to history.
type Service struct {
	resolver       *Resolver
	enricher       *Enricher
	history        HistoryRecorder
	historyTimeout time.Duration
	defaultLang    domain.Language
	logger         *slog.Logger
	tracer         trace.Tracer
	now            func() time.Time
	newID          func() string
}

type ServiceOption func(*Service)

func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithHistory(recorder HistoryRecorder) ServiceOption {
	return func(s *Service) {
		s.history = recorder
	}
}

func WithDefaultLanguage(lang domain.Language) ServiceOption {
	return func(s *Service) {
		if lang != "" {
			s.defaultLang = lang
		}
	}
}

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(primary PrimarySource, snippets SnippetSource, previews PreviewSource, opts ...ServiceOption) *Service {
	svc := &Service{
		historyTimeout: defaultHistoryTimeout,
		defaultLang:    domain.LanguageVietnamese,
		logger:         slog.Default(),
		tracer:         otel.Tracer("songfinder/lyricsearch/search"),
		now:            time.Now,
		newID:          uuid.NewString,
	}
	for _, opt := range opts {
		opt(svc)
	}
	svc.resolver = NewResolver(primary, WithResolverLogger(svc.logger))
	svc.enricher = NewEnricher(snippets, previews, WithEnricherLogger(svc.logger))
	return svc
}

// CheckTranscript reports whether raw contains anything searchable.
func CheckTranscript(raw string) error {
	if utf8.RuneCountInString(raw) > MaxTranscriptLength {
		return ErrTranscriptTooLong
	}
	if Normalize(raw) == "" {
		return ErrEmptyTranscript
	}
	return nil
}

// ResolveSong returns the enriched matches for raw, best first. "No match" is
// an empty, non-nil ResultSet; internal faults are absorbed the same way.
func (s *Service) ResolveSong(ctx context.Context, raw string, lang domain.Language) domain.ResultSet {
	return s.ResolveDetailed(ctx, raw, lang).Results
}

func (s *Service) ResolveDetailed(ctx context.Context, raw string, lang domain.Language) (resolution Resolution) {
	startedAt := s.now()
	lang = domain.NormalizeLanguage(string(lang), s.defaultLang)
	resolution = Resolution{
		Query:    raw,
		Language: lang,
		Results:  domain.ResultSet{},
	}

	ctx, span := s.tracer.Start(ctx, "search.ResolveSong")
	defer span.End()

	defer func() {
		if recovered := recover(); recovered != nil {
			s.logger.Error("resolve panicked",
				slog.String("query", truncate(raw, 80)),
				slog.Any("error", recovered),
			)
			metrics.ResolutionsTotal.WithLabelValues("panic").Inc()
			resolution.Results = domain.ResultSet{}
			resolution.Variant = 0
			resolution.Failure = ""
		}
	}()

	resolution.Queries = BuildQueries(raw)
	outcome := s.resolver.resolve(ctx, resolution.Queries)
	resolution.Variant = outcome.variant
	resolution.Failure = outcome.failure
	if len(outcome.hits) > 0 {
		enrichments := s.enricher.Enrich(ctx, outcome.hits)
		resolution.Results = Assemble(outcome.hits, enrichments)
	}
	resolution.Elapsed = s.now().Sub(startedAt)

	status := "ok"
	switch {
	case resolution.Failure != "":
		status = "failed"
	case len(resolution.Results) == 0:
		status = "no_result"
	}
	metrics.ResolutionsTotal.WithLabelValues(status).Inc()
	span.SetAttributes(
		attribute.Int("lyricsearch.variants", len(resolution.Queries)),
		attribute.Int("lyricsearch.variant", outcome.variant),
		attribute.Int("lyricsearch.results", len(resolution.Results)),
	)
	s.logger.Info("resolve completed",
		slog.String("query", truncate(raw, 80)),
		slog.String("language", string(lang)),
		slog.Int("variant", outcome.variant),
		slog.String("status", status),
		slog.Int("results", len(resolution.Results)),
		slog.Int64("elapsedMs", resolution.Elapsed.Milliseconds()),
	)

	s.recordHistory(ctx, raw, lang, resolution.Results)
	return resolution
}

// ResolveBest returns only the best match, without enrichment.
func (s *Service) ResolveBest(ctx context.Context, raw string) (domain.SongResult, bool) {
	hits := s.resolver.Resolve(ctx, BuildQueries(raw))
	if len(hits) == 0 {
		return domain.SongResult{}, false
	}
	return domain.ResultFromHit(hits[0]), true
}

func (s *Service) recordHistory(ctx context.Context, raw string, lang domain.Language, results domain.ResultSet) {
	if s.history == nil {
		return
	}
	entry := domain.HistoryEntry{
		ID:        s.newID(),
		Timestamp: s.now().UTC(),
		Query:     raw,
		Language:  lang,
	}
	if best, ok := results.Best(); ok {
		entry.Result = &best
	}

	// The caller may already be gone; the record should still land.
	historyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.historyTimeout)
	defer cancel()
	if err := s.history.Append(historyCtx, entry); err != nil {
		s.logger.Warn("history append failed",
			slog.String("id", entry.ID),
			slog.String("error", err.Error()),
		)
	}
}

func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 || utf8.RuneCountInString(value) <= limit {
		return value
	}
	runes := []rune(value)
	return string(runes[:limit-3]) + "..."
}
