package processor

import (
	"github.com/autoscribe-io/autoscribe/internal/config"
	"github.com/autoscribe-io/autoscribe/internal/locker"
	"github.com/autoscribe-io/autoscribe/internal/logger"
	"github.com/autoscribe-io/autoscribe/internal/probe"
	"github.com/autoscribe-io/autoscribe/internal/repetition"
	"github.com/autoscribe-io/autoscribe/internal/summarizer"
	"github.com/autoscribe-io/autoscribe/pkg/executor"
)

type implProcessor struct {
	cfg      *config.Config
	executor executor.Executor
	prober   *probe.Prober
	detector *repetition.Detector
	locks    *locker.LockManager
	summ     summarizer.Summarizer // nil when summarization is not configured
	logger   logger.Logger
}

// New creates a Processor instance. summ may be nil.
func New(
	cfg *config.Config,
	exec executor.Executor,
	prober *probe.Prober,
	detector *repetition.Detector,
	locks *locker.LockManager,
	summ summarizer.Summarizer,
	log logger.Logger,
) Processor {
	return &implProcessor{
		cfg:      cfg,
		executor: exec,
		prober:   prober,
		detector: detector,
		locks:    locks,
		summ:     summ,
		logger:   log,
	}
}
