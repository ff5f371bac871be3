package apihttp

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestArtProxyValidate(t *testing.T) {
	proxy := newArtProxy()
	tests := []struct {
		raw string
		ok  bool
	}{
		{"https://images.genius.com/closer.jpg", true},
		{"https://t2.genius.com/unsafe/300x300/closer.jpg", true},
		{"https://is1-ssl.mzstatic.com/image/thumb/100x100bb.jpg", true},
		{"https://evilgenius.com/x.jpg", false},
		{"ftp://images.genius.com/x.jpg", false},
		{"http://127.0.0.1/x.png", false},
		{"https:///nohost", false},
	}
	for _, tt := range tests {
		u, err := url.Parse(tt.raw)
		if err != nil {
			t.Fatalf("parse %q: %v", tt.raw, err)
		}
		if err := proxy.validate(u); (err == nil) != tt.ok {
			t.Errorf("validate(%q) = %v, want ok=%v", tt.raw, err, tt.ok)
		}
	}
}

func TestArtProxyStreamsImage(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/cover.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(pngHeader)
		case "/page.html":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html></html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer upstream.Close()

	server := NewServer(&fakeResolver{}, WithLogger(quietLogger()), WithArtHosts("127.0.0.1"))
	handler := server.Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/art?url="+url.QueryEscape(upstream.URL+"/cover.png"), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Content-Type") != "image/png" || rec.Body.Len() != len(pngHeader) {
		t.Fatalf("unexpected proxied body: type=%q len=%d", rec.Header().Get("Content-Type"), rec.Body.Len())
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/art?url="+url.QueryEscape(upstream.URL+"/page.html"), nil))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 for non-image, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/art?url="+url.QueryEscape(upstream.URL+"/missing.png"), nil))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 for upstream 404, got %d", rec.Code)
	}
}

func TestArtProxyRejectsDisallowedHost(t *testing.T) {
	server := NewServer(&fakeResolver{}, WithLogger(quietLogger()))
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/art?url="+url.QueryEscape("http://169.254.169.254/latest"), nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/art", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing url, got %d", rec.Code)
	}
}
