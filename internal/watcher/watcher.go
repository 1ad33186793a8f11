package watcher

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/autoscribe-io/autoscribe/internal/logger"
	"github.com/autoscribe-io/autoscribe/internal/media"
)

const (
	// settlePoll is how often a new file's size is re-checked while
	// waiting for the writer to finish.
	settlePoll = 500 * time.Millisecond
	// settleMax bounds the wait for a file that never stops growing.
	settleMax = 2 * time.Minute
)

type implWatcher struct {
	root      string
	recursive bool
	exts      media.ExtensionSet
	handler   ItemHandler
	logger    logger.Logger
	watcher   *fsnotify.Watcher
	settling  sync.WaitGroup
}

// Start consumes file-system events until ctx is cancelled. Each finished
// media file maps to exactly one handler dispatch; eligibility and
// locking are the pipeline's business, not the watcher's.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "File watcher started. Monitoring: %s (recursive: %v)", w.root, w.recursive)

	for {
		select {
		case <-ctx.Done():
			w.settling.Wait()
			w.logger.Info(ctx, "File watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			w.handleEvent(ctx, event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

func (w *implWatcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Create) {
		return
	}

	fi, err := os.Stat(event.Name)
	if err != nil {
		return // deleted or renamed away before we got to it
	}

	if fi.IsDir() {
		if w.recursive {
			if err := w.watcher.Add(event.Name); err != nil {
				w.logger.Warn(ctx, "Cannot watch new directory %s: %v", event.Name, err)
			} else {
				w.logger.Debug(ctx, "Watching new directory: %s", event.Name)
			}
		}
		return
	}

	if !w.exts.Matches(event.Name) {
		w.logger.Debug(ctx, "Ignoring non-media file: %s", event.Name)
		return
	}

	w.logger.Info(ctx, "New media file detected: %s", event.Name)

	// Settling can take minutes for a file that is still being written, so
	// it must not stall the event loop: other files and new directories
	// keep being handled while this one finishes.
	w.settling.Add(1)
	go func() {
		defer w.settling.Done()
		w.settleAndDispatch(ctx, event.Name)
	}()
}

func (w *implWatcher) settleAndDispatch(ctx context.Context, path string) {
	if err := w.waitSettled(ctx, path); err != nil {
		w.logger.Warn(ctx, "Gave up waiting for %s to finish writing: %v", path, err)
		return
	}

	item, err := media.NewItem(path)
	if err != nil {
		w.logger.Warn(ctx, "Cannot build item for %s: %v", path, err)
		return
	}

	if err := w.handler(ctx, item); err != nil {
		w.logger.Error(ctx, "Failed to dispatch %s: %v", path, err)
	}
}

// waitSettled waits until the file size stops changing, approximating a
// close event for writers that stream the file out over seconds.
func (w *implWatcher) waitSettled(ctx context.Context, path string) error {
	deadline := time.Now().Add(settleMax)
	var lastSize int64 = -1

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(settlePoll):
		}

		fi, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("stat while settling: %w", err)
		}
		if fi.Size() == lastSize {
			return nil
		}
		lastSize = fi.Size()

		if time.Now().After(deadline) {
			return fmt.Errorf("file still growing after %s", settleMax)
		}
	}
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}
