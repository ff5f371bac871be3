package search

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"songfinder/lyricsearch/internal/domain"
	"songfinder/lyricsearch/internal/metrics"
)

const minQueryRunes = 2

// Resolver runs query variants against the primary source, one at a time and
// in order, and stops at the first variant that yields hits.
type Resolver struct {
	primary PrimarySource
	logger  *slog.Logger
}

type ResolverOption func(*Resolver)

func WithResolverLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func NewResolver(primary PrimarySource, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		primary: primary,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the top hits of the first variant that matched, or an empty
// slice when every variant came back empty or failed. It never returns nil.
func (r *Resolver) Resolve(ctx context.Context, queries []string) []domain.SearchHit {
	return r.resolve(ctx, queries).hits
}

// variantOutcome is the result of one pass over the query variants. variant is
// the 1-based index of the matching variant, 0 when none matched. failure is set
// only when every attempted variant returned an error.
type variantOutcome struct {
	hits    []domain.SearchHit
	variant int
	failure domain.ErrorKind
}

func (r *Resolver) resolve(ctx context.Context, queries []string) variantOutcome {
	if r == nil || r.primary == nil {
		return variantOutcome{hits: []domain.SearchHit{}}
	}
	source := r.primary.Name()
	attempted, failed := 0, 0
	failure := domain.ErrorNetwork

	for i, query := range queries {
		query = strings.TrimSpace(query)
		if utf8.RuneCountInString(query) < minQueryRunes {
			continue
		}

		attempted++
		startedAt := time.Now()
		hits, err := r.primary.Search(ctx, query)
		elapsed := time.Since(startedAt)
		recordSourceResult(source, err, elapsed)
		if err != nil {
			failed++
			if failureKind(err) == domain.ErrorAPI {
				failure = domain.ErrorAPI
			}
			r.logger.Warn("primary search variant failed",
				slog.String("source", source),
				slog.Int("variant", i+1),
				slog.String("query", query),
				slog.Int64("elapsedMs", elapsed.Milliseconds()),
				slog.String("error", err.Error()),
			)
			continue
		}
		if len(hits) == 0 {
			r.logger.Debug("primary search variant empty",
				slog.String("source", source),
				slog.Int("variant", i+1),
				slog.String("query", query),
			)
			continue
		}

		if len(hits) > domain.MaxResults {
			hits = hits[:domain.MaxResults]
		}
		out := make([]domain.SearchHit, len(hits))
		copy(out, hits)

		metrics.VariantMatchesTotal.WithLabelValues(strconv.Itoa(i + 1)).Inc()
		r.logger.Info("primary search matched",
			slog.String("source", source),
			slog.Int("variant", i+1),
			slog.String("query", query),
			slog.Int("hits", len(out)),
			slog.String("best", out[0].Title+" - "+out[0].Artist),
		)
		return variantOutcome{hits: out, variant: i + 1}
	}

	metrics.VariantMatchesTotal.WithLabelValues("none").Inc()
	r.logger.Info("primary search exhausted variants",
		slog.Int("variants", len(queries)),
		slog.Int("attempted", attempted),
		slog.Int("failed", failed),
	)
	result := variantOutcome{hits: []domain.SearchHit{}}
	if attempted > 0 && failed == attempted {
		result.failure = failure
	}
	return result
}

// failureKind maps a source error to what the user should be told. Transport
// failures other than timeouts are reported as network errors.
func failureKind(err error) domain.ErrorKind {
	var netErr net.Error
	if errors.As(err, &netErr) && !netErr.Timeout() {
		return domain.ErrorNetwork
	}
	return domain.ErrorAPI
}
