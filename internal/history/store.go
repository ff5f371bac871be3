package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"

	"songfinder/lyricsearch/internal/domain"
	"songfinder/lyricsearch/internal/history/mongostore"
	"songfinder/lyricsearch/internal/history/redisstore"
	"songfinder/lyricsearch/internal/history/sqlitestore"
	"songfinder/lyricsearch/internal/metrics"
	"songfinder/lyricsearch/internal/providers/common"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendSQLite = "sqlite"
)

var ErrUnknownBackend = errors.New("unknown history backend")

// Store persists resolution history. Implementations must be safe for
// concurrent use.
type Store interface {
	Append(ctx context.Context, entry domain.HistoryEntry) error
	List(ctx context.Context, limit int) ([]domain.HistoryEntry, error)
	Clear(ctx context.Context) error
	Close() error
}

type Config struct {
	Backend       string
	MaxItems      int
	Redis         *redis.Client
	MongoURI      string
	MongoDatabase string
	SQLitePath    string
	Retry         common.RetryConfig
}

// Open builds the configured backend. If the backend cannot be reached the
// in-memory store is returned instead, together with the connection error.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = domain.DefaultHistoryMaxItems
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = common.DefaultRetryConfig()
	}

	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if backend == "" {
		backend = BackendMemory
	}

	store, err := openBackend(ctx, backend, cfg)
	if err != nil {
		logger.Warn("history backend unavailable, using memory",
			slog.String("backend", backend),
			slog.String("error", err.Error()),
		)
		return Instrument(NewMemoryStore(cfg.MaxItems), BackendMemory), err
	}
	logger.Info("history backend ready", slog.String("backend", backend), slog.Int("maxItems", cfg.MaxItems))
	return Instrument(store, backend), nil
}

func openBackend(ctx context.Context, backend string, cfg Config) (Store, error) {
	switch backend {
	case BackendMemory:
		return NewMemoryStore(cfg.MaxItems), nil
	case BackendRedis:
		if cfg.Redis == nil {
			return nil, errors.New("redis client not configured")
		}
		err := common.RetryWithBackoff(ctx, cfg.Retry, func() error {
			return cfg.Redis.Ping(ctx).Err()
		})
		if err != nil {
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		return redisstore.New(cfg.Redis, cfg.MaxItems), nil
	case BackendMongo:
		return openMongo(ctx, cfg)
	case BackendSQLite:
		return sqlitestore.Open(cfg.SQLitePath, cfg.MaxItems)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

func openMongo(ctx context.Context, cfg Config) (Store, error) {
	if strings.TrimSpace(cfg.MongoURI) == "" {
		return nil, errors.New("mongo uri not configured")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI).SetMonitor(otelmongo.NewMonitor()))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	err = common.RetryWithBackoff(ctx, cfg.Retry, func() error {
		return client.Ping(ctx, readpref.Primary())
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	store := mongostore.New(client, cfg.MongoDatabase, cfg.MaxItems)
	if err := store.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ensure indexes: %w", err)
	}
	return store, nil
}

// Instrument counts Append outcomes per backend.
func Instrument(store Store, backend string) Store {
	return &instrumented{Store: store, backend: backend}
}

type instrumented struct {
	Store
	backend string
}

func (s *instrumented) Append(ctx context.Context, entry domain.HistoryEntry) error {
	err := s.Store.Append(ctx, entry)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.HistoryWritesTotal.WithLabelValues(s.backend, status).Inc()
	return err
}
