package processor

import (
	"context"

	"github.com/autoscribe-io/autoscribe/internal/media"
)

// Processor drives one media item through the full pipeline:
// lock → integrity check → (repair) → convert → (chunk) → transcribe →
// repetition check → transcript persistence → cleanup.
type Processor interface {
	Process(ctx context.Context, item media.Item) Result
}
