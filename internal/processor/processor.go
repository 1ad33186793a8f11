package processor

import (
	"context"
	"os"
	"time"

	"github.com/autoscribe-io/autoscribe/internal/media"
	"github.com/autoscribe-io/autoscribe/internal/probe"
)

// Process runs the full pipeline for one item and returns its terminal
// result. The lock for the item's base name is held for the whole
// execution and released on every exit path.
func (p *implProcessor) Process(ctx context.Context, item media.Item) Result {
	startTime := time.Now()

	// Admission: the transcript-exists check is the same rule the scanner
	// applies, so backlog items and live watch events cannot drift apart.
	if item.HasTranscript() {
		p.logger.Debug(ctx, "Skipping %s: transcript already exists", item)
		return SkippedExists
	}

	ok, err := p.locks.Acquire(item.BaseName())
	if err != nil {
		p.logger.Error(ctx, "Lock acquisition failed for %s: %v", item, err)
		return SkippedLocked
	}
	if !ok {
		p.logger.Info(ctx, "Skipping %s: locked by another execution", item)
		return SkippedLocked
	}
	defer p.locks.Release(item.BaseName())

	// Re-check after winning the lock: a concurrent execution may have
	// finished between our first check and the acquire.
	if item.HasTranscript() {
		p.logger.Debug(ctx, "Skipping %s: transcript appeared before lock", item)
		return SkippedExists
	}

	workDir, err := os.MkdirTemp("", "autoscribe-*")
	if err != nil {
		p.logger.Error(ctx, "Cannot create work dir for %s: %v", item, err)
		return FailedConversion
	}
	defer os.RemoveAll(workDir)

	p.logger.Info(ctx, "Processing: %s", item)

	result := p.runStages(ctx, item, workDir)
	if result == Completed {
		p.logger.Info(ctx, "Completed %s in %s", item, time.Since(startTime).Round(time.Second))
	} else {
		p.logger.Warn(ctx, "Finished %s with result %s", item, result)
	}
	return result
}

// runStages executes integrity → (repair) → convert → (chunk) →
// transcribe → repetition check → persist. workDir holds every
// intermediate artifact and is deleted by the caller unconditionally.
func (p *implProcessor) runStages(ctx context.Context, item media.Item, workDir string) Result {
	srcPath := item.Path

	info, err := p.prober.Check(ctx, srcPath)
	if err != nil {
		p.logger.Warn(ctx, "Integrity check failed for %s, attempting repair: %v", item, err)

		repaired, rerr := p.prober.Repair(ctx, srcPath, workDir)
		if rerr != nil {
			p.logger.Error(ctx, "Repair failed for %s: %v", item, rerr)
			return FailedIntegrity
		}
		info, rerr = p.prober.Check(ctx, repaired)
		if rerr != nil {
			p.logger.Error(ctx, "Repaired copy still fails integrity check for %s: %v", item, rerr)
			return FailedIntegrity
		}

		p.logger.Info(ctx, "Repair succeeded for %s, continuing with sanitized copy", item)
		srcPath = repaired
	}

	audioPath, err := p.toAudio(ctx, srcPath, item.Ext, workDir)
	if err != nil {
		p.logger.Error(ctx, "Conversion failed for %s: %v", item, err)
		return FailedConversion
	}

	text, result := p.transcribeItem(ctx, item, info, audioPath, workDir)
	if result != Completed {
		return result
	}

	if p.detector.IsRepetitive(text) {
		p.logger.Warn(ctx, "Repetitive transcription output for %s, transcript discarded", item)
		return FailedRepetitive
	}

	if err := p.writeTranscript(item, info, text); err != nil {
		p.logger.Error(ctx, "Transcript write failed for %s: %v", item, err)
		return FailedTranscription
	}
	p.logger.Info(ctx, "Transcript written: %s", item.TranscriptPath())

	p.summarize(ctx, item)

	return Completed
}

// transcribeItem transcribes the converted audio, splitting it into
// chunks first when the probed duration exceeds the chunk threshold.
func (p *implProcessor) transcribeItem(ctx context.Context, item media.Item, info probe.Info, audioPath, workDir string) (string, Result) {
	if info.Duration <= p.cfg.Chunk.Threshold.Std() {
		text, err := p.transcribe(ctx, audioPath, workDir)
		if err != nil {
			p.logger.Error(ctx, "Transcription failed for %s: %v", item, err)
			return "", FailedTranscription
		}
		return text, Completed
	}

	chunks, chunkDir, err := p.split(ctx, audioPath, info.Duration, workDir)
	// Chunk files never outlive the transcriber pass, success or failure.
	defer p.cleanupChunks(ctx, chunkDir)
	if err != nil {
		p.logger.Error(ctx, "Chunk split failed for %s: %v", item, err)
		return "", FailedConversion
	}

	p.logger.Info(ctx, "Split %s into %d chunks of up to %s", item, len(chunks), p.cfg.Chunk.Duration)

	text, err := p.transcribeChunks(ctx, chunks, workDir)
	if err != nil {
		p.logger.Error(ctx, "Chunked transcription failed for %s: %v", item, err)
		return "", FailedTranscription
	}
	return text, Completed
}

// summarize runs the optional post-transcription summarizer. Failures are
// logged and ignored: the transcript is already persisted and summary
// generation must never fail the item.
func (p *implProcessor) summarize(ctx context.Context, item media.Item) {
	if p.summ == nil {
		return
	}
	if err := p.summ.Summarize(ctx, item.TranscriptPath()); err != nil {
		p.logger.Warn(ctx, "Summary generation failed for %s: %v", item, err)
	}
}

// cleanupChunks removes the per-item chunk directory.
func (p *implProcessor) cleanupChunks(ctx context.Context, chunkDir string) {
	if chunkDir == "" {
		return
	}
	if err := os.RemoveAll(chunkDir); err != nil {
		p.logger.Warn(ctx, "Failed to clean up chunk dir %s: %v", chunkDir, err)
	}
}
