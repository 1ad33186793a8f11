package repetition

import (
	"math/bits"
	"strings"

	"github.com/go-dedup/simhash"

	"github.com/autoscribe-io/autoscribe/internal/config"
)

// Detector flags transcripts where a contiguous span repeats itself, the
// typical failure mode of speech models fed silence or noise. Detection is
// two-layered:
//
//  1. Exact: any non-trivial line repeated MaxLineRepeats times in a row.
//  2. Fuzzy: the text is cut into fixed-size word windows and each window
//     is fingerprinted with simhash; a run of MinSimilarRun consecutive
//     windows whose pairwise Hamming distance stays within HammingMax
//     means the model is looping with minor variations.
//
// A flagged transcript is a terminal outcome: re-running the same model on
// the same audio reproduces the defect, so the caller must not retry.
type Detector struct {
	windowWords    int
	hammingMax     int
	minSimilarRun  int
	maxLineRepeats int
}

// New creates a Detector from the validated repetition config.
func New(cfg config.RepetitionConfig) *Detector {
	return &Detector{
		windowWords:    cfg.WindowWords,
		hammingMax:     cfg.HammingMax,
		minSimilarRun:  cfg.MinSimilarRun,
		maxLineRepeats: cfg.MaxLineRepeats,
	}
}

// IsRepetitive reports whether text exhibits pathological repetition.
func (d *Detector) IsRepetitive(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	return d.hasLineRepeats(text) || d.hasSimilarWindows(text)
}

// hasLineRepeats catches verbatim loops: the same line emitted over and
// over with nothing in between.
func (d *Detector) hasLineRepeats(text string) bool {
	var prev string
	run := 1

	for _, line := range strings.Split(text, "\n") {
		line = strings.ToLower(strings.TrimSpace(line))
		if len(line) < 4 {
			continue
		}
		if line == prev {
			run++
			if run >= d.maxLineRepeats {
				return true
			}
		} else {
			prev = line
			run = 1
		}
	}
	return false
}

// hasSimilarWindows catches near-verbatim loops via simhash fingerprints.
func (d *Detector) hasSimilarWindows(text string) bool {
	windows := splitWindows(strings.Fields(text), d.windowWords)
	if len(windows) < d.minSimilarRun {
		return false
	}

	sh := simhash.NewSimhash()
	prints := make([]uint64, len(windows))
	for i, w := range windows {
		prints[i] = sh.GetSimhash(windowFeatureSet{words: w})
	}

	run := 1
	for i := 1; i < len(prints); i++ {
		if hammingDistance(prints[i-1], prints[i]) <= d.hammingMax {
			run++
			if run >= d.minSimilarRun {
				return true
			}
		} else {
			run = 1
		}
	}
	return false
}

// splitWindows cuts words into consecutive windows of size wordsPerWindow.
// A short trailing window is dropped: it cannot carry enough signal and
// would otherwise compare noisily against its full-size neighbor.
func splitWindows(words []string, wordsPerWindow int) [][]string {
	var windows [][]string
	for i := 0; i+wordsPerWindow <= len(words); i += wordsPerWindow {
		windows = append(windows, words[i:i+wordsPerWindow])
	}
	return windows
}

func hammingDistance(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}

// windowFeatureSet feeds word bigrams into the simhash fingerprinter.
// Bigrams keep word order relevant, so two windows with the same
// vocabulary in a different arrangement still hash apart.
type windowFeatureSet struct {
	words []string
}

func (w windowFeatureSet) GetFeatures() []simhash.Feature {
	features := make([]simhash.Feature, 0, len(w.words))
	for i := 0; i < len(w.words)-1; i++ {
		bigram := strings.ToLower(w.words[i] + " " + w.words[i+1])
		features = append(features, simhash.NewFeature([]byte(bigram)))
	}
	if len(w.words) == 1 {
		features = append(features, simhash.NewFeature([]byte(strings.ToLower(w.words[0]))))
	}
	return features
}
