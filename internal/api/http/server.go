package apihttp

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"songfinder/lyricsearch/internal/domain"
	"songfinder/lyricsearch/internal/search"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Resolver interface {
	ResolveDetailed(ctx context.Context, raw string, lang domain.Language) search.Resolution
}

type HistoryStore interface {
	List(ctx context.Context, limit int) ([]domain.HistoryEntry, error)
	Clear(ctx context.Context) error
}

type Server struct {
	resolver       Resolver
	history        HistoryStore
	art            *artProxy
	logger         *slog.Logger
	resolveTimeout time.Duration
	defaultLang    domain.Language
	rateRPS        float64
	rateBurst      int
}

type resolveResponse struct {
	Query     string           `json:"query"`
	Language  domain.Language  `json:"language"`
	Queries   []string         `json:"queries"`
	Items     domain.ResultSet `json:"items"`
	Status    string           `json:"status"`
	Message   string           `json:"message,omitempty"`
	ElapsedMS int64            `json:"elapsedMs"`
}

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
)

type ServerOption func(*Server)

func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

func WithHistory(history HistoryStore) ServerOption {
	return func(s *Server) {
		s.history = history
	}
}

func WithResolveTimeout(timeout time.Duration) ServerOption {
	return func(s *Server) {
		if timeout > 0 {
			s.resolveTimeout = timeout
		}
	}
}

func WithDefaultLanguage(lang domain.Language) ServerOption {
	return func(s *Server) {
		if lang != "" {
			s.defaultLang = lang
		}
	}
}

func WithRateLimit(rps float64, burst int) ServerOption {
	return func(s *Server) {
		if rps > 0 && burst > 0 {
			s.rateRPS = rps
			s.rateBurst = burst
		}
	}
}

// WithArtHosts replaces the album-art host allowlist.
func WithArtHosts(hosts ...string) ServerOption {
	return func(s *Server) {
		s.art = newArtProxy(hosts...)
	}
}

func NewServer(resolver Resolver, options ...ServerOption) *Server {
	server := &Server{
		resolver:       resolver,
		art:            newArtProxy(),
		logger:         slog.Default(),
		resolveTimeout: 20 * time.Second,
		defaultLang:    domain.LanguageVietnamese,
		rateRPS:        5,
		rateBurst:      10,
	}
	for _, option := range options {
		if option != nil {
			option(server)
		}
	}
	if server.logger == nil {
		server.logger = slog.Default()
	}
	return server
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/resolve", s.handleResolve)
	mux.HandleFunc("/history", s.handleHistory)
	mux.HandleFunc("/art", s.handleArt)
	traced := otelhttp.NewHandler(loggingMiddleware(s.logger, mux), "lyricsearch",
		otelhttp.WithFilter(func(r *http.Request) bool {
			p := r.URL.Path
			return p != "/metrics" && p != "/health"
		}),
	)
	return recoveryMiddleware(s.logger, rateLimitMiddleware(s.rateRPS, s.rateBurst, metricsMiddleware(traced)))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/resolve" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.resolver == nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "resolver is not configured")
		return
	}

	lang := domain.NormalizeLanguage(r.URL.Query().Get("lang"), s.defaultLang)
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if err := search.CheckTranscript(query); err != nil {
		switch {
		case errors.Is(err, search.ErrTranscriptTooLong):
			writeError(w, http.StatusBadRequest, string(domain.ErrorInvalidInput), err.Error())
		default:
			writeError(w, http.StatusBadRequest, "empty_transcript", domain.ErrorMessage(domain.ErrorNoSpeech, lang))
		}
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.resolveTimeout)
	defer cancel()
	resolution := s.resolver.ResolveDetailed(ctx, query, lang)

	response := resolveResponse{
		Query:     resolution.Query,
		Language:  resolution.Language,
		Queries:   resolution.Queries,
		Items:     resolution.Results,
		Status:    "ok",
		ElapsedMS: resolution.Elapsed.Milliseconds(),
	}
	if response.Items == nil {
		response.Items = domain.ResultSet{}
	}
	if response.Queries == nil {
		response.Queries = []string{}
	}
	if len(response.Items) == 0 {
		kind := domain.ErrorNoResult
		if resolution.Failure != "" {
			kind = resolution.Failure
		}
		response.Status = string(kind)
		response.Message = domain.ErrorMessage(kind, lang)
	}
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/history" {
		http.NotFound(w, r)
		return
	}
	if s.history == nil {
		writeError(w, http.StatusServiceUnavailable, "service_unavailable", "history is not configured")
		return
	}

	switch r.Method {
	case http.MethodGet:
		limit, err := parsePositiveInt(r, "limit", defaultHistoryLimit)
		if err != nil {
			writeError(w, http.StatusBadRequest, string(domain.ErrorInvalidInput), "invalid limit")
			return
		}
		if limit > maxHistoryLimit {
			limit = maxHistoryLimit
		}
		items, err := s.history.List(r.Context(), limit)
		if err != nil {
			s.logger.Warn("history list failed", slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "internal_error", "history unavailable")
			return
		}
		if items == nil {
			items = []domain.HistoryEntry{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	case http.MethodDelete:
		if err := s.history.Clear(r.Context()); err != nil {
			s.logger.Warn("history clear failed", slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "internal_error", "history unavailable")
			return
		}
		s.logger.Info("history cleared")
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func parsePositiveInt(r *http.Request, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return 0, errors.New("invalid value")
	}
	return parsed, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
