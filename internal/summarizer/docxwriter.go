package summarizer

import (
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	fontName = "Times New Roman"
	fontSize = 13
)

// transcriptToDocx converts plain transcript text into a styled docx.
// The optional "Recorded:" header line becomes a subtitle; consecutive
// duplicate lines are collapsed.
func transcriptToDocx(title, transcript, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	addStyledRun(doc.AddParagraph(""), title, true, 16)

	lines := strings.Split(transcript, "\n")
	prev := ""
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == prev {
			continue
		}
		prev = trimmed

		if strings.HasPrefix(trimmed, "Recorded:") {
			addStyledRun(doc.AddParagraph(""), trimmed, true, fontSize)
			continue
		}

		p := doc.AddParagraph("")
		p.AddText(trimmed).Font(fontName).Size(fontSize).Color("000000")
	}

	return doc.SaveTo(outputPath)
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}
