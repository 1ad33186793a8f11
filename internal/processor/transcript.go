package processor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/autoscribe-io/autoscribe/internal/media"
	"github.com/autoscribe-io/autoscribe/internal/probe"
)

// writeTranscript persists the approved transcript beside the source file.
// The write is atomic (write-then-rename in the same directory) so a
// reader never observes a partial transcript. When the container exposed
// a creation date it is recorded as a header line.
func (p *implProcessor) writeTranscript(item media.Item, info probe.Info, text string) error {
	var b strings.Builder
	if !info.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "Recorded: %s\n\n", info.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	}
	b.WriteString(strings.TrimSpace(text))
	b.WriteString("\n")

	final := item.TranscriptPath()
	tmp := filepath.Join(filepath.Dir(final), "."+filepath.Base(final)+".tmp")

	if err := os.WriteFile(tmp, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write transcript temp file: %w", err)
	}
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename transcript into place: %w", err)
	}
	return nil
}
