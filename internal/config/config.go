package config

import (
	"fmt"
	"time"
)

type Config struct {
	Monitor    MonitorConfig    `yaml:"monitor"`
	FFmpeg     FFmpegConfig     `yaml:"ffmpeg"`
	Whisper    WhisperConfig    `yaml:"whisper"`
	Chunk      ChunkConfig      `yaml:"chunk"`
	Repetition RepetitionConfig `yaml:"repetition"`
	Locks      LocksConfig      `yaml:"locks"`
	Logging    LoggingConfig    `yaml:"logging"`
	Workers    WorkersConfig    `yaml:"workers"`
	Summary    SummaryConfig    `yaml:"summary"`
}

type MonitorConfig struct {
	Root       string   `yaml:"root"`
	Recursive  bool     `yaml:"recursive"`
	Extensions []string `yaml:"extensions"`
}

type FFmpegConfig struct {
	BinaryPath     string   `yaml:"binary_path"`
	ProbePath      string   `yaml:"probe_path"`
	SampleRate     int      `yaml:"sample_rate"`
	Channels       int      `yaml:"channels"`
	AudioBitrate   string   `yaml:"audio_bitrate"`
	ConvertTimeout Duration `yaml:"convert_timeout"`
	ProbeTimeout   Duration `yaml:"probe_timeout"`
	RepairTimeout  Duration `yaml:"repair_timeout"`
	MaxDurationHrs float64  `yaml:"max_duration_hours"`
}

type WhisperConfig struct {
	BinaryPath string   `yaml:"binary_path"`
	Model      string   `yaml:"model"`
	Language   string   `yaml:"language"`
	Timeout    Duration `yaml:"timeout"`
}

type ChunkConfig struct {
	Threshold Duration `yaml:"threshold"`
	Duration  Duration `yaml:"duration"`
}

type RepetitionConfig struct {
	WindowWords    int `yaml:"window_words"`
	HammingMax     int `yaml:"hamming_max"`
	MinSimilarRun  int `yaml:"min_similar_run"`
	MaxLineRepeats int `yaml:"max_line_repeats"`
}

type LocksConfig struct {
	Dir string `yaml:"dir"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type WorkersConfig struct {
	MaxConcurrent int      `yaml:"max_concurrent"`
	ShutdownGrace Duration `yaml:"shutdown_grace"`
}

type SummaryConfig struct {
	APIKeys []string `yaml:"api_keys"`
	Model   string   `yaml:"model"`
}

// Enabled reports whether post-transcription summarization is configured.
func (s SummaryConfig) Enabled() bool {
	return len(s.APIKeys) > 0
}

func (c *Config) Validate() error {
	if c.Monitor.Root == "" {
		return fmt.Errorf("monitor.root is required")
	}
	if c.Whisper.BinaryPath == "" {
		return fmt.Errorf("whisper.binary_path is required")
	}
	if c.Whisper.Model == "" {
		return fmt.Errorf("whisper.model is required")
	}

	if len(c.Monitor.Extensions) == 0 {
		c.Monitor.Extensions = []string{".mp4", ".m4a", ".mp3", ".mov", ".mkv", ".webm", ".wav", ".flac"}
	}
	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.FFmpeg.ProbePath == "" {
		c.FFmpeg.ProbePath = "ffprobe"
	}
	if c.FFmpeg.SampleRate == 0 {
		c.FFmpeg.SampleRate = 44100
	}
	if c.FFmpeg.Channels == 0 {
		c.FFmpeg.Channels = 2
	}
	if c.FFmpeg.AudioBitrate == "" {
		c.FFmpeg.AudioBitrate = "192k"
	}
	if c.FFmpeg.ConvertTimeout == 0 {
		c.FFmpeg.ConvertTimeout = Duration(30 * time.Minute)
	}
	if c.FFmpeg.ProbeTimeout == 0 {
		c.FFmpeg.ProbeTimeout = Duration(2 * time.Minute)
	}
	if c.FFmpeg.RepairTimeout == 0 {
		c.FFmpeg.RepairTimeout = Duration(30 * time.Minute)
	}
	if c.FFmpeg.MaxDurationHrs == 0 {
		c.FFmpeg.MaxDurationHrs = 12
	}
	if c.Whisper.Language == "" {
		c.Whisper.Language = "en"
	}
	if c.Whisper.Timeout == 0 {
		c.Whisper.Timeout = Duration(time.Hour)
	}
	if c.Chunk.Threshold == 0 {
		c.Chunk.Threshold = Duration(20 * time.Minute)
	}
	if c.Chunk.Duration == 0 {
		c.Chunk.Duration = Duration(10 * time.Minute)
	}
	if c.Chunk.Duration > c.Chunk.Threshold {
		return fmt.Errorf("chunk.duration must not exceed chunk.threshold")
	}
	if c.Repetition.WindowWords == 0 {
		c.Repetition.WindowWords = 40
	}
	if c.Repetition.HammingMax == 0 {
		c.Repetition.HammingMax = 3
	}
	if c.Repetition.MinSimilarRun == 0 {
		c.Repetition.MinSimilarRun = 4
	}
	if c.Repetition.MaxLineRepeats == 0 {
		c.Repetition.MaxLineRepeats = 8
	}
	if c.Locks.Dir == "" {
		c.Locks.Dir = "/tmp/autoscribe-locks"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.MaxSizeMB == 0 {
		c.Logging.MaxSizeMB = 50
	}
	if c.Logging.MaxBackups == 0 {
		c.Logging.MaxBackups = 5
	}
	if c.Logging.MaxAgeDays == 0 {
		c.Logging.MaxAgeDays = 30
	}
	if c.Workers.MaxConcurrent == 0 {
		c.Workers.MaxConcurrent = 2
	}
	if c.Workers.ShutdownGrace == 0 {
		c.Workers.ShutdownGrace = Duration(30 * time.Second)
	}
	if c.Summary.Model == "" {
		c.Summary.Model = "gemini-2.5-flash"
	}

	return nil
}

// MaxDuration returns the integrity ceiling as a time.Duration.
func (c *Config) MaxDuration() time.Duration {
	return time.Duration(c.FFmpeg.MaxDurationHrs * float64(time.Hour))
}
