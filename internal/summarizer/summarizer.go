package summarizer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"google.golang.org/genai"
)

const summaryPrompt = `You are an expert at analyzing recorded meetings and screen captures. Based on the transcript below, write a DETAILED summary.

Requirements:
- Start with a one-sentence title describing the topic of the recording
- List ALL the main points in order of appearance
- Explain each point, including any decisions, action items, or warnings
- Keep domain-specific terminology unchanged
- Use markdown: headings, bullet points, bold for important keywords
- End with an "Action items" section if any were mentioned

Transcript:
---
%s
---`

// Summarize reads the transcript, generates a markdown summary via
// Gemini, and exports a cleaned DOCX copy of the transcript. Both files
// are written beside the transcript.
func (s *implSummarizer) Summarize(ctx context.Context, transcriptPath string) error {
	content, err := os.ReadFile(transcriptPath)
	if err != nil {
		return fmt.Errorf("read transcript: %w", err)
	}

	base := strings.TrimSuffix(transcriptPath, filepath.Ext(transcriptPath))
	name := filepath.Base(base)

	summary, err := s.callGemini(ctx, string(content))
	if err != nil {
		return fmt.Errorf("summarize %s: %w", name, err)
	}

	md := fmt.Sprintf("# %s\n\n_%s_\n\n%s\n",
		name,
		time.Now().Format("2006-01-02 15:04"),
		strings.TrimSpace(summary),
	)
	if err := os.WriteFile(base+".md", []byte(md), 0644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	if err := transcriptToDocx(name, string(content), base+".docx"); err != nil {
		return fmt.Errorf("write docx transcript: %w", err)
	}

	s.logger.Info(ctx, "Summary written: %s.md", base)
	return nil
}

// callGemini sends the transcript to Gemini and returns the summary text.
// Rotates API keys on 429 / quota errors.
func (s *implSummarizer) callGemini(ctx context.Context, transcript string) (string, error) {
	prompt := fmt.Sprintf(summaryPrompt, transcript)

	attempts := len(s.apiKeys)
	var lastErr error

	for range attempts {
		key, keyIdx := s.activeKey()

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			s.rotateKey()
			continue
		}

		result, err := client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), nil)
		if err != nil {
			errMsg := err.Error()
			if strings.Contains(errMsg, "429") || strings.Contains(errMsg, "quota") || strings.Contains(errMsg, "RESOURCE_EXHAUSTED") {
				s.logger.Warn(ctx, "Key %d rate limited, rotating...", keyIdx+1)
				s.rotateKey()
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var text string
			for _, part := range result.Candidates[0].Content.Parts {
				if part.Text != "" {
					text += part.Text
				}
			}
			return text, nil
		}

		return "", fmt.Errorf("empty response from Gemini")
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

// activeKey returns the key currently in rotation and its index.
func (s *implSummarizer) activeKey() (string, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apiKeys[s.currentKey], s.currentKey
}

func (s *implSummarizer) rotateKey() {
	s.mu.Lock()
	s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
	s.mu.Unlock()
}
