package redisstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"songfinder/lyricsearch/internal/domain"
)

const DefaultKey = "lyricsearch:history"

// Store keeps history in a single Redis list, newest at the head.
type Store struct {
	client   *redis.Client
	key      string
	maxItems int
}

func New(client *redis.Client, maxItems int) *Store {
	if maxItems <= 0 {
		maxItems = domain.DefaultHistoryMaxItems
	}
	return &Store{client: client, key: DefaultKey, maxItems: maxItems}
}

func (s *Store) Append(ctx context.Context, entry domain.HistoryEntry) error {
	data, err := encodeEntry(entry)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, s.key, data)
		pipe.LTrim(ctx, s.key, 0, int64(s.maxItems-1))
		return nil
	})
	return err
}

func (s *Store) List(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	raw, err := s.client.LRange(ctx, s.key, 0, stop).Result()
	if err != nil {
		return nil, err
	}
	return decodeEntries(raw), nil
}

func (s *Store) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}

// Close is a no-op: the client is shared with the enrichment cache.
func (s *Store) Close() error { return nil }

func encodeEntry(entry domain.HistoryEntry) ([]byte, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("encode history entry: %w", err)
	}
	return data, nil
}

// decodeEntries skips records that no longer decode instead of failing the whole list.
func decodeEntries(raw []string) []domain.HistoryEntry {
	entries := make([]domain.HistoryEntry, 0, len(raw))
	for _, item := range raw {
		var entry domain.HistoryEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}
