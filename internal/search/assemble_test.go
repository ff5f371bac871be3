package search

import (
	"testing"

	"songfinder/lyricsearch/internal/domain"
)

func TestAssembleMergesByPosition(t *testing.T) {
	hits := []domain.SearchHit{hit("One", "A"), hit("Two", "B")}
	hits[1].AlbumArt = "https://images.genius.com/two.jpg"
	enrichments := []domain.Enrichment{
		{Snippet: "", PreviewURL: "https://audio.example.com/one.m4a"},
		{Snippet: "sung line", PreviewURL: ""},
	}

	got := Assemble(hits, enrichments)

	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[0].Title != "One" || got[0].Lyrics != "One (placeholder)" || got[0].PreviewURL != "https://audio.example.com/one.m4a" {
		t.Fatalf("unexpected first result: %#v", got[0])
	}
	if got[1].Lyrics != "sung line" || got[1].PreviewURL != "" || got[1].AlbumArt != "https://images.genius.com/two.jpg" {
		t.Fatalf("unexpected second result: %#v", got[1])
	}
}

func TestAssembleEmpty(t *testing.T) {
	got := Assemble(nil, nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result set, got %#v", got)
	}
}

func TestAssembleShortEnrichments(t *testing.T) {
	got := Assemble([]domain.SearchHit{hit("One", "A"), hit("Two", "B")}, []domain.Enrichment{{Snippet: "x"}})
	if len(got) != 2 || got[1].Lyrics != "Two (placeholder)" {
		t.Fatalf("unexpected result: %#v", got)
	}
}
