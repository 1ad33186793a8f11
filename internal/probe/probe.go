package probe

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrIntegrity marks a file that cannot be parsed by the prober or whose
// reported duration is outside policy limits.
var ErrIntegrity = errors.New("media integrity check failed")

// Info is the probe result the pipeline cares about: how long the stream
// is and when it was recorded.
type Info struct {
	Duration  time.Duration
	CreatedAt time.Time // zero when the container carries no creation tag
	Format    string
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format ffprobeFormat `json:"format"`
}

type ffprobeFormat struct {
	FormatName string            `json:"format_name"`
	Duration   string            `json:"duration"`
	Tags       map[string]string `json:"tags"`
}

// ParseJSON converts raw ffprobe JSON output into an Info. Exported for
// testing without a real ffprobe binary.
func ParseJSON(data []byte) (Info, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return Info{}, fmt.Errorf("%w: parse ffprobe JSON: %v", ErrIntegrity, err)
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(raw.Format.Duration), 64)
	if err != nil || seconds <= 0 {
		return Info{}, fmt.Errorf("%w: no usable duration in probe output", ErrIntegrity)
	}

	return Info{
		Duration:  time.Duration(seconds * float64(time.Second)),
		CreatedAt: parseCreationTime(raw.Format.Tags),
		Format:    raw.Format.FormatName,
	}, nil
}

// parseCreationTime pulls the embedded creation date out of the container
// tags. ffprobe emits it in a couple of layouts depending on the muxer.
func parseCreationTime(tags map[string]string) time.Time {
	raw, ok := tags["creation_time"]
	if !ok {
		return time.Time{}
	}
	raw = strings.TrimSpace(raw)

	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
