package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	apihttp "songfinder/lyricsearch/internal/api/http"
	"songfinder/lyricsearch/internal/app"
	"songfinder/lyricsearch/internal/metrics"
	"songfinder/lyricsearch/internal/telemetry"
)

func main() {
	cfg := app.LoadConfig()
	logger := app.NewLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	metrics.Register(prometheus.DefaultRegisterer)

	shutdownTracer, err := telemetry.Init(context.Background(), telemetry.ServiceName)
	if err != nil {
		logger.Warn("otel init failed", slog.String("error", err.Error()))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	logger.Info("configuration loaded",
		slog.String("service", telemetry.ServiceName),
		slog.String("httpAddr", cfg.HTTPAddr),
		slog.String("logLevel", cfg.LogLevel),
		slog.String("logFormat", cfg.LogFormat),
		slog.Duration("resolveTimeout", cfg.ResolveTimeout),
		slog.Duration("sourceTimeout", cfg.SourceTimeout),
		slog.String("defaultLanguage", string(cfg.DefaultLanguage)),
		slog.String("historyBackend", cfg.HistoryBackend),
		slog.Int("historyMaxItems", cfg.HistoryMaxItems),
		slog.Bool("hasGeniusKey", cfg.GeniusAPIKey != ""),
		slog.Bool("hasRedis", strings.TrimSpace(cfg.RedisURL) != ""),
		slog.Bool("cacheDisabled", cfg.CacheDisabled),
		slog.Duration("cacheTTL", cfg.CacheTTL),
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	buildCtx, cancelBuild := context.WithTimeout(rootCtx, 15*time.Second)
	components := app.Build(buildCtx, cfg, logger)
	cancelBuild()
	defer components.Close()

	handler := apihttp.NewServer(components.Service,
		apihttp.WithLogger(logger),
		apihttp.WithHistory(components.History),
		apihttp.WithResolveTimeout(cfg.ResolveTimeout),
		apihttp.WithDefaultLanguage(cfg.DefaultLanguage),
		apihttp.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	).Handler()
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.ResolveTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	logger.Info("lyric search service started",
		slog.String("addr", cfg.HTTPAddr),
		slog.Duration("timeout", cfg.ResolveTimeout),
	)

	select {
	case <-rootCtx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", slog.String("error", err.Error()))
			components.Close()
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown error", slog.String("error", err.Error()))
	}
	logger.Info("lyric search service stopped")
}
