package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// transcribe invokes the external recognition engine on one audio file
// with a hard wall-clock timeout and returns the transcript text. The
// engine writes its output into outDir; nothing is salvaged on timeout.
func (p *implProcessor) transcribe(ctx context.Context, audioPath, outDir string) (string, error) {
	args := []string{
		audioPath,
		"--model", p.cfg.Whisper.Model,
		"--output_format", "txt",
		"--output_dir", outDir,
	}
	// "auto" means let the engine detect; it is not a valid flag value.
	if p.cfg.Whisper.Language != "auto" {
		args = append(args, "--language", p.cfg.Whisper.Language)
	}

	p.logger.Debug(ctx, "Transcribing %s (timeout %s)", audioPath, p.cfg.Whisper.Timeout)

	if _, err := p.executor.ExecuteTimeout(ctx, p.cfg.Whisper.Timeout.Std(), p.cfg.Whisper.BinaryPath, args...); err != nil {
		return "", fmt.Errorf("whisper transcribe: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	outPath := filepath.Join(outDir, base+".txt")

	data, err := os.ReadFile(outPath)
	if err != nil {
		return "", fmt.Errorf("read transcription output: %w", err)
	}
	return string(data), nil
}

// transcribeChunks transcribes each chunk in index order and concatenates
// the outputs into one contiguous transcript. Any chunk failure fails the
// whole item: partial transcripts are never persisted.
func (p *implProcessor) transcribeChunks(ctx context.Context, chunks []Chunk, outDir string) (string, error) {
	parts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		text, err := p.transcribe(ctx, c.Path, outDir)
		if err != nil {
			return "", fmt.Errorf("chunk %d: %w", c.Index, err)
		}
		parts = append(parts, strings.TrimSpace(text))
	}
	return strings.Join(parts, "\n"), nil
}
