package watcher

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/autoscribe-io/autoscribe/internal/config"
	"github.com/autoscribe-io/autoscribe/internal/logger"
	"github.com/autoscribe-io/autoscribe/internal/media"
)

// New creates a Watcher subscribed to the monitored root. With recursive
// monitoring enabled, every existing subdirectory is watched too;
// directories created later are added from the event loop.
func New(cfg config.MonitorConfig, handler ItemHandler, log logger.Logger) (Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := fsw.Add(cfg.Root); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if cfg.Recursive {
		err := filepath.WalkDir(cfg.Root, func(path string, d fs.DirEntry, err error) error {
			if err != nil || !d.IsDir() || path == cfg.Root {
				return nil
			}
			return fsw.Add(path)
		})
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("add recursive watch paths: %w", err)
		}
	}

	return &implWatcher{
		root:      cfg.Root,
		recursive: cfg.Recursive,
		exts:      media.NewExtensionSet(cfg.Extensions),
		handler:   handler,
		logger:    log,
		watcher:   fsw,
	}, nil
}
