package search

import (
	"context"
	"testing"
	"time"

	"songfinder/lyricsearch/internal/domain"
)

func TestEnrichKeepsFailuresIsolated(t *testing.T) {
	hits := []domain.SearchHit{hit("One", "A"), hit("Two", "B")}
	snippets := &fakeSnippets{
		lyrics: map[string]string{"Two B": "line one\nline two"},
		fail:   map[string]bool{"One A": true},
	}
	previews := &fakePreviews{
		urls: map[string]string{
			"One A": "https://audio.example.com/one.m4a",
			"Two B": "https://audio.example.com/two.m4a",
		},
	}

	got := NewEnricher(snippets, previews).Enrich(context.Background(), hits)

	if len(got) != 2 {
		t.Fatalf("expected 2 enrichments, got %d", len(got))
	}
	if got[0].Snippet != "" || got[0].PreviewURL != "https://audio.example.com/one.m4a" {
		t.Fatalf("unexpected first enrichment: %#v", got[0])
	}
	if got[1].Snippet != "line one\nline two" || got[1].PreviewURL != "https://audio.example.com/two.m4a" {
		t.Fatalf("unexpected second enrichment: %#v", got[1])
	}
	if snippets.calls.Load() != 2 || previews.calls.Load() != 2 {
		t.Fatalf("expected one lookup per hit per source, got %d/%d", snippets.calls.Load(), previews.calls.Load())
	}
}

func TestEnrichRecoversFromPanickingSource(t *testing.T) {
	hits := []domain.SearchHit{hit("One", "A"), hit("Two", "B")}
	previews := &fakePreviews{
		urls:  map[string]string{"Two B": "https://audio.example.com/two.m4a"},
		panic: map[string]bool{"One A": true},
	}

	got := NewEnricher(nil, previews).Enrich(context.Background(), hits)

	if got[0].PreviewURL != "" {
		t.Fatalf("panicking lookup should yield empty preview, got %q", got[0].PreviewURL)
	}
	if got[1].PreviewURL != "https://audio.example.com/two.m4a" {
		t.Fatalf("sibling lookup lost: %#v", got[1])
	}
}

func TestEnrichRunsLookupsConcurrently(t *testing.T) {
	hits := []domain.SearchHit{hit("One", "A"), hit("Two", "B"), hit("Three", "C")}
	previews := &blockingPreviews{release: make(chan struct{})}

	done := make(chan []domain.Enrichment, 1)
	go func() {
		done <- NewEnricher(nil, previews).Enrich(context.Background(), hits)
	}()

	deadline := time.After(2 * time.Second)
	for previews.started.Load() < int32(len(hits)) {
		select {
		case <-deadline:
			t.Fatalf("only %d of %d lookups started while blocked", previews.started.Load(), len(hits))
		case <-time.After(5 * time.Millisecond):
		}
	}
	close(previews.release)

	got := <-done
	if got[2].PreviewURL != "https://audio.example.com/Three C" {
		t.Fatalf("unexpected alignment: %#v", got)
	}
}

func TestEnrichEmptyHits(t *testing.T) {
	got := NewEnricher(&fakeSnippets{}, &fakePreviews{}).Enrich(context.Background(), nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty enrichment slice, got %#v", got)
	}
}

func TestSnippetFromLyrics(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"skips annotations and blanks", "[Verse 1]\nfirst\n\n  \nsecond\n[Chorus]\nthird", "first\nsecond\nthird"},
		{"keeps four lines", "a\nb\nc\nd\ne\nf", "a\nb\nc\nd"},
		{"only annotations", "[Intro]\n[Outro]", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SnippetFromLyrics(tt.input); got != tt.want {
				t.Fatalf("SnippetFromLyrics(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
