package repetition

import (
	"strings"
	"testing"

	"github.com/autoscribe-io/autoscribe/internal/config"
)

func newTestDetector() *Detector {
	cfg := config.RepetitionConfig{}
	full := config.Config{
		Monitor:    config.MonitorConfig{Root: "/tmp"},
		Whisper:    config.WhisperConfig{BinaryPath: "whisper", Model: "tiny"},
		Repetition: cfg,
	}
	if err := full.Validate(); err != nil {
		panic(err)
	}
	return New(full.Repetition)
}

func TestIsRepetitiveLineLoop(t *testing.T) {
	d := newTestDetector()

	line := "Thanks for watching!"
	looped := strings.Repeat(line+"\n", 20)

	if !d.IsRepetitive(looped) {
		t.Error("IsRepetitive() = false for a 20x repeated line, want true")
	}
}

func TestIsRepetitiveWindowLoop(t *testing.T) {
	d := newTestDetector()

	// A ~40-word phrase repeated many times: each simhash window is nearly
	// identical to its neighbor even though no single line repeats.
	phrase := "so what we are going to do now is take a look at the numbers from the last quarter and see how the team performed against the targets we set back in january for the whole region "
	looped := strings.Repeat(phrase, 12)

	if !d.IsRepetitive(looped) {
		t.Error("IsRepetitive() = false for a looped phrase, want true")
	}
}

func TestIsRepetitiveNormalTranscript(t *testing.T) {
	d := newTestDetector()

	transcript := `Good morning everyone, thanks for joining the call.
Today we will walk through the roadmap for the next two quarters.
First, the platform team will finish the migration to the new storage backend.
Second, we are hiring three engineers for the data pipeline group.
Marketing has a campaign launching in April with a revised budget.
Let's start with questions about the migration timeline.
The rollout begins next week in the European region, then the US.
Support tickets will be triaged by the on-call rotation as usual.
Any remaining items will be covered in the follow-up session on Friday.`

	if d.IsRepetitive(transcript) {
		t.Error("IsRepetitive() = true for a normal transcript, want false")
	}
}

func TestIsRepetitiveEdgeCases(t *testing.T) {
	d := newTestDetector()

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"empty", "", false},
		{"whitespace only", "   \n\t  ", false},
		{"single short line", "ok", false},
		{"short text below window size", "this is a short recording about nothing special", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.IsRepetitive(tt.text); got != tt.want {
				t.Errorf("IsRepetitive(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestSplitWindows(t *testing.T) {
	words := strings.Fields("a b c d e f g h i j")

	windows := splitWindows(words, 4)
	if len(windows) != 2 {
		t.Fatalf("len(windows) = %d, want 2 (trailing partial dropped)", len(windows))
	}
	if strings.Join(windows[0], " ") != "a b c d" {
		t.Errorf("windows[0] = %v", windows[0])
	}
	if strings.Join(windows[1], " ") != "e f g h" {
		t.Errorf("windows[1] = %v", windows[1])
	}
}

func TestHammingDistance(t *testing.T) {
	if got := hammingDistance(0, 0); got != 0 {
		t.Errorf("hammingDistance(0,0) = %d", got)
	}
	if got := hammingDistance(0, 0xFF); got != 8 {
		t.Errorf("hammingDistance(0,0xFF) = %d, want 8", got)
	}
}
