package probe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/autoscribe-io/autoscribe/internal/config"
	"github.com/autoscribe-io/autoscribe/pkg/executor"
)

// Prober validates media files with a single ffprobe JSON call and can
// attempt one repair pass on files that fail validation.
type Prober struct {
	cfg  *config.Config
	exec executor.Executor
}

// New creates a Prober.
func New(cfg *config.Config, exec executor.Executor) *Prober {
	return &Prober{cfg: cfg, exec: exec}
}

// Check probes path without decoding it. It fails with an ErrIntegrity
// error when the container cannot be parsed or the reported duration
// exceeds the configured ceiling.
func (p *Prober) Check(ctx context.Context, path string) (Info, error) {
	out, err := p.exec.ExecuteTimeout(ctx, p.cfg.FFmpeg.ProbeTimeout.Std(), p.cfg.FFmpeg.ProbePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		path,
	)
	if err != nil {
		return Info{}, fmt.Errorf("%w: probe %s: %v", ErrIntegrity, path, err)
	}

	info, err := ParseJSON([]byte(out))
	if err != nil {
		return Info{}, fmt.Errorf("%s: %w", path, err)
	}

	if max := p.cfg.MaxDuration(); info.Duration > max {
		return Info{}, fmt.Errorf("%w: duration %s exceeds ceiling %s", ErrIntegrity, info.Duration, max)
	}

	return info, nil
}

// Repair re-multiplexes path into a sanitized copy under destDir and
// returns its path. It is invoked at most once per failed check; the
// caller owns destDir and removes it when the pipeline execution ends.
// The original file is never touched.
func (p *Prober) Repair(ctx context.Context, path, destDir string) (string, error) {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(filepath.Base(path), ext)
	repaired := filepath.Join(destDir, base+"_repaired"+ext)

	_, err := p.exec.ExecuteTimeout(ctx, p.cfg.FFmpeg.RepairTimeout.Std(), p.cfg.FFmpeg.BinaryPath,
		"-y",
		"-v", "error",
		"-err_detect", "ignore_err",
		"-i", path,
		"-c", "copy",
		repaired,
	)
	if err != nil {
		os.Remove(repaired)
		return "", fmt.Errorf("%w: repair %s: %v", ErrIntegrity, path, err)
	}

	return repaired, nil
}
