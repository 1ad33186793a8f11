package summarizer

import (
	"sync"

	"github.com/autoscribe-io/autoscribe/internal/config"
	"github.com/autoscribe-io/autoscribe/internal/logger"
)

type implSummarizer struct {
	apiKeys []string
	model   string
	logger  logger.Logger

	// mu guards currentKey: one Summarizer is shared by every worker, so
	// rotation on quota errors can happen from several pipelines at once.
	mu         sync.Mutex
	currentKey int
}

// New creates a Summarizer that rotates through the supplied Gemini API
// keys on quota errors.
func New(cfg config.SummaryConfig, log logger.Logger) Summarizer {
	return &implSummarizer{
		apiKeys: cfg.APIKeys,
		model:   cfg.Model,
		logger:  log,
	}
}
