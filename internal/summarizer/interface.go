package summarizer

import "context"

// Summarizer turns a persisted transcript into an LLM-generated markdown
// summary and a styled DOCX copy of the transcript, written beside it.
type Summarizer interface {
	Summarize(ctx context.Context, transcriptPath string) error
}
