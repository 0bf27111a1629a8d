// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/pdiddy/docparse/internal/section"
)

// HTMLToMarkdown renders the readable content of an HTML page as
// heading-annotated markdown. Content is taken from <main>, then <article>,
// then <body>. h1-h6 become "#" headings, paragraphs and list items become
// blocks, and navigation, scripts, and consent banners are dropped. When the
// content has no h1, the page <title> is emitted as the level-1 heading.
func HTMLToMarkdown(input []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(input))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	root := findFirst(doc, "main")
	if root == nil {
		root = findFirst(doc, "article")
	}
	if root == nil {
		root = findFirst(doc, "body")
	}
	if root == nil {
		return "", nil
	}

	var w mdWriter
	if findFirst(root, "h1") == nil {
		if title := pageTitle(doc); title != "" {
			w.block("# ", title)
		}
	}
	w.walk(root)
	w.flush("")
	return strings.TrimSpace(w.out.String()), nil
}

// mdWriter accumulates inline text and emits it as markdown blocks.
type mdWriter struct {
	out    strings.Builder
	inline strings.Builder
}

func (w *mdWriter) flush(prefix string) {
	text := w.inline.String()
	w.inline.Reset()
	w.block(prefix, text)
}

func (w *mdWriter) block(prefix, text string) {
	text = section.Normalize(text)
	if text == "" {
		return
	}
	w.out.WriteString(prefix)
	w.out.WriteString(text)
	w.out.WriteString("\n\n")
}

func (w *mdWriter) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.inline.WriteString(n.Data)
		return
	case html.ElementNode:
	default:
		w.children(n)
		return
	}

	if isBoilerplate(n) {
		return
	}

	name := strings.ToLower(n.Data)
	switch name {
	case "script", "style", "noscript", "nav", "footer", "aside", "iframe", "svg", "form", "button":
		return
	case "h1", "h2", "h3", "h4", "h5", "h6":
		w.flush("")
		w.children(n)
		w.flush(strings.Repeat("#", int(name[1]-'0')) + " ")
	case "li":
		w.flush("")
		w.children(n)
		w.flush("- ")
	case "blockquote":
		w.flush("")
		w.children(n)
		w.flush("> ")
	case "p", "div", "section", "header", "figcaption", "dd", "dt", "tr", "ul", "ol", "table":
		w.flush("")
		w.children(n)
		w.flush("")
	case "pre":
		w.flush("")
		var raw strings.Builder
		collectRaw(&raw, n)
		if code := strings.Trim(raw.String(), "\n"); strings.TrimSpace(code) != "" {
			w.out.WriteString("```\n" + code + "\n```\n\n")
		}
	case "br", "td", "th":
		w.inline.WriteString(" ")
		w.children(n)
		w.inline.WriteString(" ")
	default:
		w.children(n)
	}
}

func (w *mdWriter) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
}

func collectRaw(b *strings.Builder, n *html.Node) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectRaw(b, c)
	}
}

func pageTitle(doc *html.Node) string {
	head := findFirst(doc, "head")
	if head == nil {
		return ""
	}
	t := findFirst(head, "title")
	if t == nil {
		return ""
	}
	var b strings.Builder
	collectRaw(&b, t)
	return strings.TrimSpace(b.String())
}

func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && strings.EqualFold(n.Data, tag) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// isBoilerplate reports whether the element looks like a cookie or consent
// banner, judged by its id, class, role, and aria-label attributes.
func isBoilerplate(n *html.Node) bool {
	for _, attr := range n.Attr {
		switch strings.ToLower(attr.Key) {
		case "id", "class", "role", "aria-label":
		default:
			continue
		}
		val := strings.ToLower(attr.Val)
		for _, marker := range []string{"cookie", "consent", "gdpr"} {
			if strings.Contains(val, marker) {
				return true
			}
		}
	}
	return false
}
