package search

import (
	"context"

	"songfinder/lyricsearch/internal/domain"
)

// PrimarySource is the lyrics/metadata index used to identify songs.
// Hits are returned in the source's relevance order.
type PrimarySource interface {
	Name() string
	Search(ctx context.Context, query string) ([]domain.SearchHit, error)
}

// SnippetSource looks up plain-text lyrics for "{title} {artist}".
type SnippetSource interface {
	Name() string
	SearchLyrics(ctx context.Context, query string) ([]domain.LyricsCandidate, error)
}

// PreviewSource looks up short audio previews for "{title} {artist}".
type PreviewSource interface {
	Name() string
	SearchPreviews(ctx context.Context, query string) ([]domain.PreviewCandidate, error)
}

// HistoryRecorder receives one entry per resolution. The pipeline never reads it back.
type HistoryRecorder interface {
	Append(ctx context.Context, entry domain.HistoryEntry) error
}
