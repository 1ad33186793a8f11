package probe

import (
	"errors"
	"testing"
	"time"
)

func TestParseJSON(t *testing.T) {
	data := []byte(`{
		"format": {
			"format_name": "mov,mp4,m4a,3gp,3g2,mj2",
			"duration": "125.500000",
			"tags": {
				"creation_time": "2024-03-15T09:30:00.000000Z"
			}
		}
	}`)

	info, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}

	if info.Duration != 125500*time.Millisecond {
		t.Errorf("Duration = %v, want 2m5.5s", info.Duration)
	}
	if info.CreatedAt.IsZero() {
		t.Error("CreatedAt is zero, want parsed creation_time")
	}
	if got := info.CreatedAt.UTC().Format("2006-01-02"); got != "2024-03-15" {
		t.Errorf("CreatedAt date = %s, want 2024-03-15", got)
	}
	if info.Format != "mov,mp4,m4a,3gp,3g2,mj2" {
		t.Errorf("Format = %q", info.Format)
	}
}

func TestParseJSONNoCreationTime(t *testing.T) {
	data := []byte(`{"format": {"format_name": "mp3", "duration": "10.0"}}`)

	info, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}
	if !info.CreatedAt.IsZero() {
		t.Errorf("CreatedAt = %v, want zero", info.CreatedAt)
	}
}

func TestParseJSONInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "ffprobe: command not found"},
		{"missing duration", `{"format": {"format_name": "mp4"}}`},
		{"zero duration", `{"format": {"duration": "0.0"}}`},
		{"negative duration", `{"format": {"duration": "-3"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJSON([]byte(tt.data))
			if err == nil {
				t.Fatal("ParseJSON() error = nil, want error")
			}
			if !errors.Is(err, ErrIntegrity) {
				t.Errorf("error %v does not wrap ErrIntegrity", err)
			}
		})
	}
}

func TestParseCreationTimeLayouts(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		zero bool
	}{
		{"rfc3339 nano", "2024-03-15T09:30:00.000000Z", false},
		{"rfc3339", "2024-03-15T09:30:00Z", false},
		{"space separated", "2024-03-15 09:30:00", false},
		{"garbage", "not a date", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseCreationTime(map[string]string{"creation_time": tt.raw})
			if got.IsZero() != tt.zero {
				t.Errorf("parseCreationTime(%q).IsZero() = %v, want %v", tt.raw, got.IsZero(), tt.zero)
			}
		})
	}
}
