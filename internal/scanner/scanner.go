package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/autoscribe-io/autoscribe/internal/config"
	"github.com/autoscribe-io/autoscribe/internal/logger"
	"github.com/autoscribe-io/autoscribe/internal/media"
)

// Scanner enumerates the monitored tree for media files that do not have
// a completed transcript yet. Traversal is read-only.
type Scanner struct {
	root      string
	recursive bool
	exts      media.ExtensionSet
	log       logger.Logger
}

// New creates a Scanner from the monitor config.
func New(cfg config.MonitorConfig, log logger.Logger) *Scanner {
	return &Scanner{
		root:      cfg.Root,
		recursive: cfg.Recursive,
		exts:      media.NewExtensionSet(cfg.Extensions),
		log:       log,
	}
}

// Scan returns the pending backlog, newest-modified-first so operator
// visible progress favors recent captures. Unreadable subdirectories are
// skipped with a warning; only an unreadable root is fatal.
func (s *Scanner) Scan(ctx context.Context) ([]media.Item, error) {
	var items []media.Item

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == s.root {
				return fmt.Errorf("monitored root inaccessible: %w", err)
			}
			s.log.Warn(ctx, "Skipping unreadable path %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if !s.recursive && path != s.root {
				return filepath.SkipDir
			}
			return nil
		}

		if !s.exts.Matches(path) {
			return nil
		}

		item, err := media.NewItem(path)
		if err != nil {
			s.log.Warn(ctx, "Skipping %s: %v", path, err)
			return nil
		}
		if item.HasTranscript() {
			return nil
		}

		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(items, func(a, b int) bool {
		return items[a].ModTime.After(items[b].ModTime)
	})

	return items, nil
}

// LogQueue prints the pending backlog through the log sink.
func (s *Scanner) LogQueue(ctx context.Context, items []media.Item) {
	s.log.Info(ctx, "Pending files requiring transcription:")
	for _, item := range items {
		s.log.Info(ctx, " - %s", item.Path)
	}
	s.log.Info(ctx, "Total files pending: %d", len(items))
}
