// CLAUDE:SUMMARY Content extraction pipeline: density scoring, CSS selectors, markdown conversion.
// Package extract turns raw page HTML into clean text for model consumption.
//
// It supports multiple extraction modes:
//   - css:     extract content matching CSS selectors
//   - density: extract the DOM subtree with the best text-to-markup ratio
//   - auto:    try selectors first, fall back to density
//
// The pipeline: raw HTML → parse → select regions → clean → extract text.
// Structured extraction (tables, lists, headings, links) lives in
// structured.go; markdown conversion in markdown.go.
package extract

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Result is the output of content extraction.
type Result struct {
	Text      string // clean extracted text
	HTML      string // extracted HTML subtree
	Title     string // page title if found
	Hash      string // SHA-256 of extracted text
	Truncated bool   // true when MaxChars cut the text
}

// Options controls extraction behaviour.
type Options struct {
	Selectors  []string // CSS selectors to try before density analysis
	Mode       string   // "css", "density", "auto"
	MinTextLen int      // minimum text length to accept (default: 50)
	MaxChars   int      // truncate Text beyond this length (0 = unlimited)
}

func (o *Options) defaults() {
	if o.Mode == "" {
		o.Mode = "auto"
	}
	if o.MinTextLen <= 0 {
		o.MinTextLen = 50
	}
}

// Extract runs the extraction pipeline on raw HTML.
func Extract(rawHTML []byte, opts Options) (*Result, error) {
	opts.defaults()

	doc, err := html.Parse(bytes.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("extract: parse HTML: %w", err)
	}

	title := findTitle(doc)

	var res *Result
	switch opts.Mode {
	case "css":
		res, err = extractCSS(doc, opts.Selectors, title, opts.MinTextLen)
	case "density":
		res, err = extractDensity(doc, title, opts.MinTextLen)
	case "auto":
		if len(opts.Selectors) > 0 {
			if r, cssErr := extractCSS(doc, opts.Selectors, title, opts.MinTextLen); cssErr == nil && len(r.Text) >= opts.MinTextLen {
				res = r
				break
			}
		}
		res, err = extractDensity(doc, title, opts.MinTextLen)
	default:
		return nil, fmt.Errorf("extract: unknown mode: %q", opts.Mode)
	}
	if err != nil {
		return nil, err
	}

	if text, cut := Truncate(res.Text, opts.MaxChars); cut {
		res.Text = text + "\n\n... [content truncated]"
		res.Truncated = true
	}
	return res, nil
}

// Truncate cuts s to at most max bytes without splitting a multi-byte
// rune, so truncated output stays valid UTF-8. max <= 0 disables the cap.
func Truncate(s string, max int) (string, bool) {
	if max <= 0 || len(s) <= max {
		return s, false
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut], true
}

// findTitle extracts the page <title> text.
func findTitle(doc *html.Node) string {
	var title string
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Title {
			if n.FirstChild != nil {
				title = strings.TrimSpace(n.FirstChild.Data)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(doc)
	return title
}

// hashText returns the SHA-256 hex digest of text.
func hashText(text string) string {
	h := sha256.Sum256([]byte(text))
	return fmt.Sprintf("%x", h)
}

// renderNode serialises an HTML node subtree back to a string.
func renderNode(n *html.Node) string {
	var buf bytes.Buffer
	html.Render(&buf, n)
	return buf.String()
}

// collectText extracts all visible text from a node subtree.
func collectText(n *html.Node) string {
	var sb strings.Builder
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(text)
			}
		}
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript:
				return
			}
			if hasHiddenStyle(n) {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
	return sb.String()
}

// isContentTag returns true for tags likely to contain main content.
func isContentTag(a atom.Atom) bool {
	switch a {
	case atom.Main, atom.Article, atom.Section, atom.Div, atom.P,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Blockquote, atom.Pre, atom.Ul, atom.Ol, atom.Li,
		atom.Table, atom.Td, atom.Th, atom.Dl, atom.Dd, atom.Dt,
		atom.Figure, atom.Figcaption, atom.Details, atom.Summary:
		return true
	}
	return false
}

// isBoilerplate checks if a node is likely boilerplate (nav, footer, etc).
func isBoilerplate(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.Nav, atom.Footer, atom.Header, atom.Aside:
		return true
	}
	for _, attr := range n.Attr {
		if attr.Key == "class" || attr.Key == "id" {
			lower := strings.ToLower(attr.Val)
			for _, pattern := range boilerplatePatterns {
				if strings.Contains(lower, pattern) {
					return true
				}
			}
		}
		if attr.Key == "role" {
			switch attr.Val {
			case "navigation", "banner", "contentinfo", "complementary":
				return true
			}
		}
	}
	return false
}

var boilerplatePatterns = []string{
	"sidebar", "footer", "header", "nav", "menu", "breadcrumb",
	"cookie", "banner", "advert", "social", "share", "comment",
	"related", "widget", "popup", "modal",
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return true
		}
	}
	return false
}
