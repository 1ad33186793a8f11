package locker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/autoscribe-io/autoscribe/internal/logger"
)

// LockManager provides exclusive, crash-safe advisory locks keyed by a
// media item's base name. Markers are directories because mkdir is atomic
// on every filesystem we care about: there is no window where two
// executions both observe "absent".
type LockManager struct {
	dir string
	log logger.Logger
}

// New creates a LockManager rooted at dir, creating dir if needed.
func New(dir string, log logger.Logger) (*LockManager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create lock dir %s: %w", dir, err)
	}
	return &LockManager{dir: dir, log: log}, nil
}

func (m *LockManager) markerPath(baseName string) string {
	return filepath.Join(m.dir, baseName+".lock")
}

// Acquire attempts to atomically create the lock marker for baseName.
// It returns false when the marker already exists, meaning another
// execution (possibly in another process sharing the lock dir) holds it.
func (m *LockManager) Acquire(baseName string) (bool, error) {
	err := os.Mkdir(m.markerPath(baseName), 0755)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrExist) {
		return false, nil
	}
	return false, fmt.Errorf("acquire lock %s: %w", baseName, err)
}

// Release removes the lock marker. Callers defer this immediately after a
// successful Acquire so the lock is released on every exit path.
func (m *LockManager) Release(baseName string) {
	if err := os.RemoveAll(m.markerPath(baseName)); err != nil {
		m.log.Warn(context.Background(), "Failed to release lock %s: %v", baseName, err)
	}
}

// SweepStale removes every leftover marker. No component survives a
// process restart, so any marker present at startup belongs to a previous
// unclean shutdown and would block its item forever.
func (m *LockManager) SweepStale(ctx context.Context) error {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return fmt.Errorf("read lock dir %s: %w", m.dir, err)
	}

	for _, e := range entries {
		if filepath.Ext(e.Name()) != ".lock" {
			continue
		}
		path := filepath.Join(m.dir, e.Name())
		if err := os.RemoveAll(path); err != nil {
			m.log.Warn(ctx, "Failed to remove stale lock %s: %v", path, err)
			continue
		}
		m.log.Info(ctx, "Removed stale lock: %s", e.Name())
	}
	return nil
}
