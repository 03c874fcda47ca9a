package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/readinglist/internal/reading"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark's AST.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*reading.Source, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var blocks []string
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		blocks = append(blocks, markdownBlocks(n, src)...)
	}

	return &reading.Source{
		Title: titleFromFilename(filename, ".md", ".markdown"),
		Text:  joinBlocks(blocks),
	}, nil
}

// markdownBlocks flattens one block node into text blocks. Ordered list
// items keep their number so "3. Author (2001)..." survives rendering.
func markdownBlocks(n ast.Node, src []byte) []string {
	switch node := n.(type) {
	case *ast.List:
		var out []string
		num := node.Start
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			var parts []string
			for c := item.FirstChild(); c != nil; c = c.NextSibling() {
				parts = append(parts, markdownBlocks(c, src)...)
			}
			body := joinBlocks(parts)
			if node.IsOrdered() {
				body = fmt.Sprintf("%d. %s", num, body)
				num++
			}
			out = append(out, body)
		}
		return out
	case *ast.Blockquote:
		var out []string
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			out = append(out, markdownBlocks(c, src)...)
		}
		return out
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		var buf bytes.Buffer
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(src))
		}
		return []string{buf.String()}
	case *ast.ThematicBreak, *ast.HTMLBlock:
		return nil
	default:
		return []string{markdownInline(n, src)}
	}
}

// markdownInline renders the inline content of a block. Link destinations
// are appended after the link text so citations keep their URLs.
func markdownInline(n ast.Node, src []byte) string {
	var buf strings.Builder
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		switch node := n.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteByte('\n')
			}
			return
		case *ast.String:
			buf.Write(node.Value)
			return
		case *ast.AutoLink:
			buf.Write(node.URL(src))
			return
		case *ast.RawHTML:
			return
		case *ast.Link:
			start := buf.Len()
			for c := node.FirstChild(); c != nil; c = c.NextSibling() {
				walk(c)
			}
			dest := string(node.Destination)
			if dest != "" && !strings.Contains(buf.String()[start:], dest) {
				buf.WriteString(" " + dest)
			}
			return
		}
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			walk(c)
		}
	}
	walk(n)
	return buf.String()
}
