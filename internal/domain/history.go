package domain

import "time"

// DefaultHistoryMaxItems is the retained history size when none is configured.
const DefaultHistoryMaxItems = 50

// HistoryEntry records one resolution. Result is nil when nothing matched.
type HistoryEntry struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Query     string      `json:"query"`
	Result    *SongResult `json:"result"`
	Language  Language    `json:"language"`
}
