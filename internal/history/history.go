package history

import (
	"context"
)

// maxEntries caps every sink. Oldest runs are evicted first.
const maxEntries = 200

// Entry is one gate run condensed for trend display.
type Entry struct {
	Stamp     string             `json:"stamp"`
	RunID     string             `json:"run_id"`
	SHA       string             `json:"sha,omitempty"`
	BaseURL   string             `json:"base_url"`
	P95S      float64            `json:"p95_s"`
	P99S      float64            `json:"p99_s"`
	ErrorRate float64            `json:"error_rate"`
	Pass      bool               `json:"pass"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
}

// Sink persists gate run history. Implementations enforce the entry cap.
type Sink interface {
	Append(ctx context.Context, e Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
	Close()
}
