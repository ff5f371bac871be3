package apihttp

import (
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"songfinder/lyricsearch/internal/metrics"
)

const (
	requestIDHeader = "X-Request-ID"
	maxRequestIDLen = 64
)

// statusRecorder remembers what the handler wrote so middleware can report it.
type statusRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

// routeLabel names a request for metrics and logs. Unknown paths share one
// label so scanners cannot blow up metric cardinality.
func routeLabel(r *http.Request) string {
	switch r.URL.Path {
	case "/resolve":
		return "resolve"
	case "/history":
		if r.Method == http.MethodDelete {
			return "history.clear"
		}
		return "history.list"
	case "/art":
		return "art"
	case "/health":
		return "health"
	case "/metrics":
		return "metrics"
	default:
		return "other"
	}
}

// spendsQuota reports routes that call third-party APIs on the caller's behalf.
func spendsQuota(route string) bool {
	return route == "resolve" || route == "art"
}

// loggingMiddleware writes one line per request. Transcripts are user speech,
// so only their length and language are logged.
func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if requestID == "" || len(requestID) > maxRequestIDLen {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		rw := newStatusRecorder(w)
		next.ServeHTTP(rw, r)

		route := routeLabel(r)
		attrs := []slog.Attr{
			slog.String("requestId", requestID),
			slog.String("route", route),
			slog.Int("status", rw.status),
			slog.Int64("durationMs", time.Since(start).Milliseconds()),
			slog.String("clientIP", clientIP(r)),
		}
		query := r.URL.Query()
		switch route {
		case "resolve":
			attrs = append(attrs,
				slog.Int("transcriptRunes", utf8.RuneCountInString(query.Get("q"))),
				slog.String("lang", truncate(query.Get("lang"), 16)),
			)
		case "history.list":
			if limit := query.Get("limit"); limit != "" {
				attrs = append(attrs, slog.String("limit", truncate(limit, 16)))
			}
		case "art":
			attrs = append(attrs, slog.Int("bytes", rw.size))
		case "other":
			attrs = append(attrs, slog.String("method", r.Method), slog.String("path", truncate(r.URL.Path, 120)))
		}
		logger.LogAttrs(r.Context(), requestLogLevel(route, rw.status), "http request", attrs...)
	})
}

func requestLogLevel(route string, status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status == http.StatusTooManyRequests:
		return slog.LevelInfo
	case status >= 400:
		return slog.LevelWarn
	case route == "health" || route == "metrics":
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

func recoveryMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if recovered := recover(); recovered != nil {
				logger.Error("panic recovered",
					slog.Any("error", recovered),
					slog.String("route", routeLabel(r)),
					slog.String("requestId", w.Header().Get(requestIDHeader)),
					slog.String("stack", string(debug.Stack())),
				)
				writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := routeLabel(r)
		if route == "metrics" {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		rw := newStatusRecorder(w)
		next.ServeHTTP(rw, r)
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rw.status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// rateLimitMiddleware applies one token bucket to the routes that reach
// Genius, lrclib, iTunes or the art hosts. Over the limit they get HTTP 429.
func rateLimitMiddleware(rps float64, burst int, next http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if spendsQuota(routeLabel(r)) && !limiter.Allow() {
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if xRealIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); xRealIP != "" {
		return xRealIP
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	return strings.TrimSpace(r.RemoteAddr)
}

func truncate(value string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(value) <= limit {
		return value
	}
	runes := []rune(value)
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}
