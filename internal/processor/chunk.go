package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Chunk is one bounded-duration slice of a long audio file, identified by
// its ordinal index within the parent item.
type Chunk struct {
	Index    int
	Start    time.Duration
	Duration time.Duration
	Path     string
}

// split partitions audioPath into contiguous, non-overlapping segments of
// the configured chunk duration, the last one possibly shorter. Chunks
// live in their own directory under workDir so cleanup never races with
// another item's chunks.
func (p *implProcessor) split(ctx context.Context, audioPath string, total time.Duration, workDir string) ([]Chunk, string, error) {
	chunkDir := filepath.Join(workDir, "chunks")
	if err := os.Mkdir(chunkDir, 0755); err != nil {
		return nil, "", fmt.Errorf("create chunk dir: %w", err)
	}

	chunkLen := p.cfg.Chunk.Duration.Std()
	var chunks []Chunk

	for i := 0; ; i++ {
		start := time.Duration(i) * chunkLen
		if start >= total {
			break
		}
		length := chunkLen
		if start+length > total {
			length = total - start
		}

		chunkPath := filepath.Join(chunkDir, fmt.Sprintf("chunk_%03d%s", i, canonicalAudioExt))
		args := []string{
			"-y",
			"-v", "error",
			"-ss", formatSeconds(start),
			"-t", formatSeconds(length),
			"-i", audioPath,
			"-c", "copy",
			chunkPath,
		}
		if _, err := p.executor.ExecuteTimeout(ctx, p.cfg.FFmpeg.ConvertTimeout.Std(), p.cfg.FFmpeg.BinaryPath, args...); err != nil {
			return nil, chunkDir, fmt.Errorf("extract chunk %d: %w", i, err)
		}

		chunks = append(chunks, Chunk{
			Index:    i,
			Start:    start,
			Duration: length,
			Path:     chunkPath,
		})
	}

	return chunks, chunkDir, nil
}

// formatSeconds renders a duration as fractional seconds for ffmpeg.
func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}
