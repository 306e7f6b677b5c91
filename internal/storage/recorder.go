// Package storage records served calculations for offline inspection. The
// engine itself is stateless; recording observes the transport edge and is
// optional. Failures here are logged by callers, never returned to clients.
package storage

import (
	"context"
	"time"
)

// Entry describes one served calculation.
type Entry struct {
	ID         int64
	Operation  string
	DurationMs int64
	Error      string
	CreatedAt  time.Time
}

// Recorder persists calculation entries.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
	Close() error
}

// Noop discards every entry. Used when no history database is configured.
type Noop struct{}

func (Noop) Record(context.Context, Entry) error { return nil }
func (Noop) Close() error                        { return nil }
