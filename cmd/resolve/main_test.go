package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"songfinder/lyricsearch/internal/domain"
	"songfinder/lyricsearch/internal/search"
)

func TestRunRejectsEmptyTranscript(t *testing.T) {
	t.Setenv("HISTORY_BACKEND", "memory")
	t.Setenv("REDIS_URL", "")
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-lang", "en", "um", "uh"}, &stdout, &stderr); code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
	if !strings.Contains(stderr.String(), domain.ErrorMessage(domain.ErrorNoSpeech, domain.LanguageEnglish)) {
		t.Fatalf("expected no-speech message, got %q", stderr.String())
	}
}

func TestRunBadFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-nope"}, &stdout, &stderr); code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
}

func TestPrintResults(t *testing.T) {
	var buf bytes.Buffer
	printResults(&buf, search.Resolution{
		Queries: []string{"closer baby"},
		Variant: 1,
		Elapsed: 120 * time.Millisecond,
		Results: domain.ResultSet{
			{Title: "Closer", Artist: "The Chainsmokers", URL: "https://genius.com/closer", PreviewURL: "https://a", Lyrics: "hey"},
			{Title: "Closer", Artist: "Ne-Yo", URL: "https://genius.com/closer-neyo"},
		},
	})
	out := buf.String()
	for _, want := range []string{"closer baby", "matched variant 1", "The Chainsmokers", "Ne-Yo", "yes", "\nhey\n"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintHistory(t *testing.T) {
	var buf bytes.Buffer
	printHistory(&buf, []domain.HistoryEntry{
		{Query: "closer baby", Language: domain.LanguageEnglish, Result: &domain.SongResult{Title: "Closer", Artist: "Duo"}},
		{Query: "xin chao", Language: domain.LanguageVietnamese},
	})
	out := buf.String()
	if !strings.Contains(out, "Closer - Duo") || !strings.Contains(out, "xin chao") {
		t.Fatalf("unexpected history output:\n%s", out)
	}
}

func useUpstream(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	t.Setenv("GENIUS_API_KEY", "test-key")
	t.Setenv("GENIUS_BASE_URL", srv.URL)
	t.Setenv("LRCLIB_BASE_URL", srv.URL)
	t.Setenv("ITUNES_BASE_URL", srv.URL)
	t.Setenv("HISTORY_BACKEND", "memory")
	t.Setenv("REDIS_URL", "")
	t.Setenv("ENRICH_CACHE_DISABLED", "true")
	t.Setenv("LOG_LEVEL", "")
}

func TestRunReportsUpstreamFailure(t *testing.T) {
	var calls atomic.Int32
	useUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-lang", "en-US", "closer", "baby"}, &stdout, &stderr); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(stdout.String(), domain.ErrorMessage(domain.ErrorAPI, domain.LanguageEnglish)) {
		t.Fatalf("expected api error message, got %q", stdout.String())
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single upstream request, got %d", calls.Load())
	}
}

func TestRunBestOnly(t *testing.T) {
	var searches atomic.Int32
	useUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" || r.URL.Query().Get("q") == "" {
			t.Errorf("unexpected upstream request %s", r.URL.String())
			http.NotFound(w, r)
			return
		}
		searches.Add(1)
		_, _ = w.Write([]byte(`{"response":{"hits":[
			{"result":{"title":"Closer","url":"https://genius.com/closer","primary_artist":{"name":"Duo"}}},
			{"result":{"title":"Closer Remix","url":"https://genius.com/closer-remix","primary_artist":{"name":"Duo"}}}
		]}}`))
	})

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-best", "closer", "baby"}, &stdout, &stderr); code != 0 {
		t.Fatalf("expected exit code 0, got %d (stderr=%s)", code, stderr.String())
	}
	if got := stdout.String(); got != "Closer - Duo\nhttps://genius.com/closer\n" {
		t.Fatalf("unexpected output %q", got)
	}
	if searches.Load() != 1 {
		t.Fatalf("expected one primary search and no enrichment, got %d requests", searches.Load())
	}
}
