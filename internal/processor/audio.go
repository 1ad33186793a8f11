package processor

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
)

// canonicalAudioExt is the single audio format every input is normalized
// into before transcription.
const canonicalAudioExt = ".mp3"

// toAudio converts srcPath into the canonical audio encoding inside
// workDir. Inputs that already carry the canonical extension are passed
// through untouched. The source file is never mutated or deleted.
func (p *implProcessor) toAudio(ctx context.Context, srcPath, srcExt, workDir string) (string, error) {
	if srcExt == canonicalAudioExt {
		return srcPath, nil
	}

	audioPath := filepath.Join(workDir, "audio"+canonicalAudioExt)

	args := []string{
		"-y",
		"-v", "error",
		"-i", srcPath,
		"-vn", // drop video streams
		"-ar", strconv.Itoa(p.cfg.FFmpeg.SampleRate),
		"-ac", strconv.Itoa(p.cfg.FFmpeg.Channels),
		"-b:a", p.cfg.FFmpeg.AudioBitrate,
		audioPath,
	}

	if _, err := p.executor.ExecuteTimeout(ctx, p.cfg.FFmpeg.ConvertTimeout.Std(), p.cfg.FFmpeg.BinaryPath, args...); err != nil {
		return "", fmt.Errorf("ffmpeg convert to audio: %w", err)
	}

	return audioPath, nil
}
