package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Item identifies one media file moving through the pipeline. Identity is
// the absolute path with the extension stripped; everything else is
// metadata captured at discovery time.
type Item struct {
	Path    string // absolute path including extension
	Ext     string // original extension, lowercase, with leading dot
	Size    int64
	ModTime time.Time
}

// NewItem stats path and builds an immutable Item.
func NewItem(path string) (Item, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Item{}, fmt.Errorf("resolve path %s: %w", path, err)
	}

	fi, err := os.Stat(abs)
	if err != nil {
		return Item{}, fmt.Errorf("stat %s: %w", abs, err)
	}
	if fi.IsDir() {
		return Item{}, fmt.Errorf("%s is a directory, not a media file", abs)
	}

	return Item{
		Path:    abs,
		Ext:     strings.ToLower(filepath.Ext(abs)),
		Size:    fi.Size(),
		ModTime: fi.ModTime(),
	}, nil
}

// BasePath returns the absolute path with the extension stripped.
func (i Item) BasePath() string {
	return strings.TrimSuffix(i.Path, filepath.Ext(i.Path))
}

// BaseName returns the file name with the extension stripped. Lock markers
// are keyed by this value.
func (i Item) BaseName() string {
	return filepath.Base(i.BasePath())
}

// TranscriptPath returns the sibling .txt path where the transcript is
// persisted.
func (i Item) TranscriptPath() string {
	return i.BasePath() + ".txt"
}

// HasTranscript reports whether a completed transcript sibling already
// exists. This is the single admission rule shared by the scanner and the
// watcher: an item is pending iff neither B.txt nor B.srt exists.
func (i Item) HasTranscript() bool {
	for _, ext := range []string{".txt", ".srt"} {
		if _, err := os.Stat(i.BasePath() + ext); err == nil {
			return true
		}
	}
	return false
}

func (i Item) String() string {
	return i.Path
}
