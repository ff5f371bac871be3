package search

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"songfinder/lyricsearch/internal/domain"
)

var errSourceDown = errors.New("source down")

// scriptedPrimary answers each query from a map; unknown queries return no hits.
type scriptedPrimary struct {
	mu      sync.Mutex
	hits    map[string][]domain.SearchHit
	fail    map[string]error
	queries []string
	calls   atomic.Int32
}

func (p *scriptedPrimary) Name() string { return "fake-primary" }

func (p *scriptedPrimary) Search(_ context.Context, query string) ([]domain.SearchHit, error) {
	p.calls.Add(1)
	p.mu.Lock()
	p.queries = append(p.queries, query)
	p.mu.Unlock()
	if err := p.fail[query]; err != nil {
		return nil, err
	}
	return append([]domain.SearchHit(nil), p.hits[query]...), nil
}

func (p *scriptedPrimary) seen() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.queries...)
}

type panickingPrimary struct{}

func (panickingPrimary) Name() string { return "panicking" }

func (panickingPrimary) Search(context.Context, string) ([]domain.SearchHit, error) {
	panic("boom")
}

// fakeSnippets returns lyrics keyed by lookup query; queries in fail return an error.
type fakeSnippets struct {
	lyrics map[string]string
	fail   map[string]bool
	calls  atomic.Int32
}

func (f *fakeSnippets) Name() string { return "fake-lyrics" }

func (f *fakeSnippets) SearchLyrics(_ context.Context, query string) ([]domain.LyricsCandidate, error) {
	f.calls.Add(1)
	if f.fail[query] {
		return nil, errSourceDown
	}
	text, ok := f.lyrics[query]
	if !ok {
		return nil, nil
	}
	return []domain.LyricsCandidate{{PlainLyrics: text}, {PlainLyrics: "second candidate"}}, nil
}

type fakePreviews struct {
	urls  map[string]string
	fail  map[string]bool
	panic map[string]bool
	calls atomic.Int32
}

func (f *fakePreviews) Name() string { return "fake-previews" }

func (f *fakePreviews) SearchPreviews(_ context.Context, query string) ([]domain.PreviewCandidate, error) {
	f.calls.Add(1)
	if f.panic[query] {
		panic("preview source exploded")
	}
	if f.fail[query] {
		return nil, errSourceDown
	}
	u, ok := f.urls[query]
	if !ok {
		return nil, nil
	}
	return []domain.PreviewCandidate{{PreviewURL: u}, {PreviewURL: "https://example.com/other.m4a"}}, nil
}

// blockingPreviews waits until release is closed, recording that it started.
type blockingPreviews struct {
	started atomic.Int32
	release chan struct{}
}

func (b *blockingPreviews) Name() string { return "blocking" }

func (b *blockingPreviews) SearchPreviews(ctx context.Context, query string) ([]domain.PreviewCandidate, error) {
	b.started.Add(1)
	<-b.release
	return []domain.PreviewCandidate{{PreviewURL: "https://audio.example.com/" + query}}, nil
}

type recordingHistory struct {
	mu      sync.Mutex
	entries []domain.HistoryEntry
	err     error
}

func (h *recordingHistory) Append(ctx context.Context, entry domain.HistoryEntry) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, entry)
	return h.err
}

func (h *recordingHistory) all() []domain.HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]domain.HistoryEntry(nil), h.entries...)
}

func hit(title, artist string) domain.SearchHit {
	return domain.SearchHit{
		Title:  title,
		Artist: artist,
		URL:    "https://genius.com/" + title,
		Lyrics: title + " (placeholder)",
	}
}
