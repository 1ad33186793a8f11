package watcher

import (
	"context"

	"github.com/autoscribe-io/autoscribe/internal/media"
)

// Watcher defines the interface for file system monitoring
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// ItemHandler dispatches one discovered media item into the pipeline.
// The watcher itself decides nothing about locking or eligibility; the
// pipeline applies the same admission rule the scanner uses.
type ItemHandler func(ctx context.Context, item media.Item) error
