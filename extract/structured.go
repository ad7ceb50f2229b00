// CLAUDE:SUMMARY Structured data extraction: tables, lists, headings, links from page HTML.
package extract

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	maxTableRows = 50
	maxLinks     = 50
	maxListItems = 50
)

// Table is one extracted HTML table.
type Table struct {
	Headers []string   `json:"headers,omitempty"`
	Rows    [][]string `json:"rows"`
}

// Heading is one h1-h4 element with its level.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// Link is an anchor with visible text and resolved href.
type Link struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// Structured holds the machine-readable skeleton of a page.
type Structured struct {
	Title    string     `json:"title,omitempty"`
	Headings []Heading  `json:"headings,omitempty"`
	Tables   []Table    `json:"tables,omitempty"`
	Lists    [][]string `json:"lists,omitempty"`
	Links    []Link     `json:"links,omitempty"`
}

// Empty reports whether nothing structured was found.
func (s *Structured) Empty() bool {
	return len(s.Headings) == 0 && len(s.Tables) == 0 && len(s.Lists) == 0 && len(s.Links) == 0
}

// ExtractStructured pulls tables, lists, headings (h1-h4) and links out of
// raw HTML. Row and link counts are capped so a data-heavy page cannot
// flood the caller.
func ExtractStructured(rawHTML []byte) (*Structured, error) {
	doc, err := html.Parse(bytes.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("extract: parse HTML: %w", err)
	}

	out := &Structured{Title: findTitle(doc)}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript:
				return
			}
			if hasHiddenStyle(n) {
				return
			}
			switch n.DataAtom {
			case atom.H1, atom.H2, atom.H3, atom.H4:
				if text := collectText(n); text != "" {
					out.Headings = append(out.Headings, Heading{
						Level: int(n.Data[1] - '0'),
						Text:  text,
					})
				}
				return
			case atom.Table:
				if t := extractTable(n); len(t.Rows) > 0 || len(t.Headers) > 0 {
					out.Tables = append(out.Tables, t)
				}
				return
			case atom.Ul, atom.Ol:
				if items := extractListItems(n); len(items) > 0 {
					out.Lists = append(out.Lists, items)
				}
				return
			case atom.A:
				if len(out.Links) < maxLinks {
					text := collectText(n)
					href := getAttr(n, "href")
					if text != "" && href != "" && !strings.HasPrefix(href, "javascript:") {
						out.Links = append(out.Links, Link{Text: text, Href: href})
					}
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return out, nil
}

// extractTable reads <th> cells as headers and <td> rows as data,
// stopping at maxTableRows.
func extractTable(table *html.Node) Table {
	var t Table
	for _, tr := range findAllByTag(table, atom.Tr) {
		var cells []string
		isHeader := false
		for c := tr.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Th:
				isHeader = true
				cells = append(cells, collectText(c))
			case atom.Td:
				cells = append(cells, collectText(c))
			}
		}
		if len(cells) == 0 {
			continue
		}
		if isHeader && t.Headers == nil {
			t.Headers = cells
			continue
		}
		if len(t.Rows) >= maxTableRows {
			break
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

// extractListItems reads direct and nested <li> text from a list element.
func extractListItems(list *html.Node) []string {
	var items []string
	for _, li := range findAllByTag(list, atom.Li) {
		if len(items) >= maxListItems {
			break
		}
		if text := collectText(li); text != "" {
			items = append(items, text)
		}
	}
	return items
}
