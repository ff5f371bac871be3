package sqlitestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"songfinder/lyricsearch/internal/domain"
)

const DefaultPath = "data/history.sqlite3"

type entryRow struct {
	Seq        uint   `gorm:"primaryKey;autoIncrement"`
	ID         string `gorm:"type:varchar(36);uniqueIndex"`
	Query      string
	Language   string `gorm:"type:varchar(8)"`
	CreatedAt  int64  `gorm:"autoCreateTime:false;index"`
	ResultJSON string
}

func (entryRow) TableName() string { return "history_entries" }

type Store struct {
	db       *gorm.DB
	maxItems int
}

func Open(path string, maxItems int) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating db dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB from gorm: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&entryRow{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrating history schema: %w", err)
	}
	if maxItems <= 0 {
		maxItems = domain.DefaultHistoryMaxItems
	}
	return &Store{db: db, maxItems: maxItems}, nil
}

func (s *Store) Append(ctx context.Context, entry domain.HistoryEntry) error {
	row, err := toRow(entry)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		return tx.Exec(
			"DELETE FROM history_entries WHERE seq NOT IN (SELECT seq FROM history_entries ORDER BY seq DESC LIMIT ?)",
			s.maxItems,
		).Error
	})
}

func (s *Store) List(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	query := s.db.WithContext(ctx).Order("seq DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []entryRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	entries := make([]domain.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		entry, err := fromRow(row)
		if err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *Store) Clear(ctx context.Context) error {
	return s.db.WithContext(ctx).Exec("DELETE FROM history_entries").Error
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toRow(entry domain.HistoryEntry) (entryRow, error) {
	row := entryRow{
		ID:        entry.ID,
		Query:     entry.Query,
		Language:  string(entry.Language),
		CreatedAt: entry.Timestamp.UnixNano(),
	}
	if entry.Result != nil {
		data, err := json.Marshal(entry.Result)
		if err != nil {
			return entryRow{}, fmt.Errorf("encode history result: %w", err)
		}
		row.ResultJSON = string(data)
	}
	return row, nil
}

func fromRow(row entryRow) (domain.HistoryEntry, error) {
	entry := domain.HistoryEntry{
		ID:        row.ID,
		Query:     row.Query,
		Language:  domain.Language(row.Language),
		Timestamp: time.Unix(0, row.CreatedAt).UTC(),
	}
	if row.ResultJSON != "" {
		var result domain.SongResult
		if err := json.Unmarshal([]byte(row.ResultJSON), &result); err != nil {
			return domain.HistoryEntry{}, err
		}
		entry.Result = &result
	}
	return entry, nil
}
