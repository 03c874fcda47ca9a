package parser

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dgallion1/readinglist/internal/reading"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML files.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*reading.Source, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	src := &reading.Source{Title: titleFromFilename(filename, ".html", ".htm")}
	if title := findTitle(doc); title != "" {
		src.Title = title
	}

	root := findBody(doc)
	if root == nil {
		root = doc
	}
	src.Text = renderHTML(root)
	return src, nil
}

// renderHTML flattens an element tree into blank-line separated blocks.
// Source whitespace collapses to single spaces; only block elements and
// <br> introduce line breaks. Items of an <ol> are numbered from its start
// attribute.
func renderHTML(root *html.Node) string {
	var buf strings.Builder
	counters := make(map[*html.Node]int)
	// Pending list number, written before the item's first text so nested
	// <p> elements do not separate it from the citation.
	pending := ""

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			t := collapseSpace(n.Data)
			if pending != "" && strings.TrimSpace(t) != "" {
				buf.WriteString(pending)
				pending = ""
				t = strings.TrimLeft(t, " ")
			}
			buf.WriteString(t)
			return
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "nav", "footer", "header", "template":
				return
			case "br":
				buf.WriteByte('\n')
				return
			case "ol":
				counters[n] = listStart(n)
			}
		}

		block := n.Type == html.ElementNode && isBlockElement(n.Data)
		if block {
			buf.WriteString("\n\n")
		}
		if n.Type == html.ElementNode && n.Data == "li" && n.Parent != nil && n.Parent.Data == "ol" {
			pending = strconv.Itoa(counters[n.Parent]) + ". "
			counters[n.Parent]++
		}

		start := buf.Len()
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && n.Data == "li" {
			// An item without text must not number the next block.
			pending = ""
		}
		if n.Type == html.ElementNode && n.Data == "a" {
			href := strings.TrimSpace(attr(n, "href"))
			if strings.HasPrefix(href, "http") && !strings.Contains(buf.String()[start:], href) {
				buf.WriteString(" " + href)
			}
		}
		if block {
			buf.WriteString("\n\n")
		}
	}
	walk(root)

	return tidyLines(buf.String())
}

func isBlockElement(tag string) bool {
	switch tag {
	case "p", "div", "li", "ol", "ul", "blockquote", "section", "article",
		"h1", "h2", "h3", "h4", "h5", "h6", "table", "tr", "td", "th",
		"dl", "dt", "dd", "pre", "main", "figure":
		return true
	}
	return false
}

func listStart(ol *html.Node) int {
	if v, err := strconv.Atoi(strings.TrimSpace(attr(ol, "start"))); err == nil {
		return v
	}
	return 1
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func collapseSpace(s string) string {
	var buf strings.Builder
	space := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' {
			space = true
			continue
		}
		if space {
			buf.WriteByte(' ')
			space = false
		}
		buf.WriteRune(r)
	}
	if space {
		buf.WriteByte(' ')
	}
	return buf.String()
}

// tidyLines trims every line and squeezes runs of blank lines to one.
func tidyLines(s string) string {
	var out []string
	blank := false
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			blank = true
			continue
		}
		if blank && len(out) > 0 {
			out = append(out, "")
		}
		blank = false
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(collapseSpace(buf.String()))
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
