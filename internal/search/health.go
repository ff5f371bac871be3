package search

import (
	"context"
	"errors"
	"strings"
	"time"

	"songfinder/lyricsearch/internal/metrics"
)

// recordSourceResult reports one source call to Prometheus. It holds no state
// of its own, so concurrent resolutions never share anything but the collectors.
func recordSourceResult(sourceName string, err error, latency time.Duration) {
	name := strings.ToLower(strings.TrimSpace(sourceName))
	if name == "" {
		name = "unknown"
	}
	if latency > 0 {
		metrics.SourceRequestDuration.WithLabelValues(name).Observe(latency.Seconds())
	}
	metrics.SourceRequestsTotal.WithLabelValues(name, sourceStatus(err)).Inc()
}

func sourceStatus(err error) string {
	switch {
	case err == nil:
		return "ok"
	case isTimeoutLikeError(err):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "error"
	}
}

func isTimeoutLikeError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	value := strings.ToLower(err.Error())
	return strings.Contains(value, "timeout") || strings.Contains(value, "deadline exceeded")
}
