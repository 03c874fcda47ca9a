package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dgallion1/readinglist/internal/reading"
	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx files.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*reading.Source, error) {
	// go-docx needs a ReadSeeker+size, so write to temp file.
	tmp, err := os.CreateTemp("", "readinglist-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	// Headings and body paragraphs each become one block. Word's automatic
	// list numbering is not rendered, so entries need literal "N. " text.
	var blocks []string
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := docxParagraphText(doc, para)
		if text == "" {
			continue
		}
		if docxHeadingLevel(para) > 0 {
			text = strings.Join(strings.Fields(text), " ")
		}
		blocks = append(blocks, text)
	}

	return &reading.Source{
		Title: titleFromFilename(filename, ".docx"),
		Text:  joinBlocks(blocks),
	}, nil
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := para.Properties.Style.Val
	switch {
	case strings.EqualFold(style, "Heading1") || strings.EqualFold(style, "heading 1"):
		return 1
	case strings.EqualFold(style, "Heading2") || strings.EqualFold(style, "heading 2"):
		return 2
	case strings.EqualFold(style, "Heading3") || strings.EqualFold(style, "heading 3"):
		return 3
	case strings.EqualFold(style, "Heading4") || strings.EqualFold(style, "heading 4"):
		return 4
	case strings.EqualFold(style, "Heading5") || strings.EqualFold(style, "heading 5"):
		return 5
	case strings.EqualFold(style, "Heading6") || strings.EqualFold(style, "heading 6"):
		return 6
	}
	return 0
}

func docxParagraphText(doc *docx.Docx, para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		switch c := child.(type) {
		case *docx.Run:
			buf.WriteString(runText(c))
		case *docx.Hyperlink:
			buf.WriteString(hyperlinkText(doc, c))
		}
	}
	return strings.TrimSpace(buf.String())
}

func runText(run *docx.Run) string {
	var buf strings.Builder
	for _, rc := range run.Children {
		if t, ok := rc.(*docx.Text); ok {
			buf.WriteString(t.Text)
		}
	}
	return buf.String()
}

// hyperlinkText renders a link like the HTML parser does: its visible text,
// then the target when the text does not already show it. Word stores the
// text in w:t runs; go-docx writes it as instrText.
func hyperlinkText(doc *docx.Docx, h *docx.Hyperlink) string {
	text := runText(&h.Run)
	if text == "" {
		text = h.Run.InstrText
	}
	target, err := doc.ReferTarget(h.ID)
	if err != nil || target == "" || strings.Contains(text, target) {
		return text
	}
	if text == "" || strings.HasSuffix(text, " ") {
		return text + target
	}
	return text + " " + target
}
