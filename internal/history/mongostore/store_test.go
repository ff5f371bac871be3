package mongostore

import (
	"testing"
	"time"

	"songfinder/lyricsearch/internal/domain"
)

func TestDocRoundTrip(t *testing.T) {
	ts := time.Date(2026, 1, 15, 10, 4, 5, 123456789, time.UTC)
	entry := domain.HistoryEntry{
		ID:        "7b0d",
		Timestamp: ts,
		Query:     "anh đã từng yêu em",
		Language:  domain.LanguageVietnamese,
		Result: &domain.SongResult{
			Title:      "Thật Lòng",
			Artist:     "Unknown",
			URL:        "https://genius.com/that-long",
			PreviewURL: "https://audio.example.com/that-long.m4a",
		},
	}

	doc := toDoc(entry)
	if doc.CreatedAt != ts.UnixNano() {
		t.Fatalf("createdAt: expected %d, got %d", ts.UnixNano(), doc.CreatedAt)
	}
	if doc.Result == nil || doc.Result.Title != "Thật Lòng" {
		t.Fatalf("result not mapped: %#v", doc.Result)
	}

	back := fromDoc(doc)
	if !back.Timestamp.Equal(ts) {
		t.Errorf("Timestamp: expected %v, got %v", ts, back.Timestamp)
	}
	if back.ID != entry.ID || back.Query != entry.Query || back.Language != entry.Language {
		t.Errorf("unexpected entry: %#v", back)
	}
	if back.Result == nil || *back.Result != *entry.Result {
		t.Errorf("Result: expected %#v, got %#v", entry.Result, back.Result)
	}
}

func TestDocWithoutResult(t *testing.T) {
	doc := toDoc(domain.HistoryEntry{ID: "x", Timestamp: time.Unix(0, 0)})
	if doc.Result != nil {
		t.Fatalf("expected nil result doc, got %#v", doc.Result)
	}
	if back := fromDoc(doc); back.Result != nil {
		t.Fatalf("expected nil result, got %#v", back.Result)
	}
}
