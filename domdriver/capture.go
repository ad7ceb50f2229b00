// CLAUDE:SUMMARY Engine capture commands: text/data extraction, screenshot, PDF, page info, journal tail.
package domdriver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-rod/rod/lib/proto"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/hazyhaar/chrd/extract"
	"github.com/hazyhaar/chrd/idgen"
)

var newFileID = idgen.Timestamped(idgen.NanoID(6))

// ExtractText pulls the readable content of the active page as markdown.
// selectors narrow extraction to a CSS subset (tag, #id, .class,
// descendant combinator); with none given, landmark-then-density scoring
// finds the main content. Output is capped at the configured character
// budget.
func (e *Engine) ExtractText(ctx context.Context, selectors []string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	page, err := e.sess.ActivePage()
	if err != nil {
		return "", fmt.Errorf("extract_text: %w", err)
	}
	rawHTML, err := page.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("extract_text: read page html: %w", err)
	}

	res, err := extract.Extract([]byte(rawHTML), extract.Options{
		Selectors: selectors,
		Mode:      "auto",
		MaxChars:  e.cfg.Extract.MaxChars,
	})
	if err != nil {
		return "", fmt.Errorf("extract_text: %w", err)
	}

	info, _ := page.Info()
	sourceURL := ""
	if info != nil {
		sourceURL = info.URL
	}
	md := extract.ToMarkdown(res.HTML, sourceURL, res.Text)
	if text, cut := extract.Truncate(md, e.cfg.Extract.MaxChars); cut {
		md = text + "\n\n... [content truncated]"
	}

	var sb strings.Builder
	if res.Title != "" {
		fmt.Fprintf(&sb, "# %s\n\n", res.Title)
	}
	sb.WriteString(md)
	return sb.String(), nil
}

// ExtractData pulls structured content from the active page: tables,
// lists, headings and links, as JSON. kind filters to one shape; "auto"
// returns everything found.
func (e *Engine) ExtractData(ctx context.Context, kind string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	page, err := e.sess.ActivePage()
	if err != nil {
		return "", fmt.Errorf("extract_data: %w", err)
	}
	rawHTML, err := page.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("extract_data: read page html: %w", err)
	}

	st, err := extract.ExtractStructured([]byte(rawHTML))
	if err != nil {
		return "", fmt.Errorf("extract_data: %w", err)
	}

	var payload any
	switch kind {
	case "", "auto":
		payload = st
	case "tables":
		payload = map[string]any{"title": st.Title, "tables": st.Tables}
	case "lists":
		payload = map[string]any{"title": st.Title, "lists": st.Lists}
	case "headings":
		payload = map[string]any{"title": st.Title, "headings": st.Headings}
	case "links":
		payload = map[string]any{"title": st.Title, "links": st.Links}
	default:
		return "", fmt.Errorf("extract_data: unknown kind %q (use auto, tables, lists, headings or links)", kind)
	}
	if st.Empty() {
		return "No structured content (tables, lists, headings, links) found on this page.", nil
	}

	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("extract_data: encode: %w", err)
	}
	return string(out), nil
}

// Screenshot captures the visible viewport (or the full page) as PNG and
// writes it under the configured screenshot directory.
func (e *Engine) Screenshot(ctx context.Context, fullPage bool) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	page, err := e.sess.ActiveTab()
	if err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}
	data, err := page.Context(ctx).Screenshot(fullPage, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return "", fmt.Errorf("screenshot: capture: %w", err)
	}

	if err := os.MkdirAll(e.cfg.ScreenshotDir, 0o755); err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}
	path := filepath.Join(e.cfg.ScreenshotDir, newFileID()+".png")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("screenshot: write %s: %w", path, err)
	}
	e.log.Info("domdriver: screenshot saved", "path", path, "bytes", len(data), "full_page", fullPage)
	return fmt.Sprintf("Screenshot saved to %s (%d bytes).", path, len(data)), nil
}

// SavePDF prints the active page to a PDF file under the screenshot
// directory and reports its page count.
func (e *Engine) SavePDF(ctx context.Context) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	page, err := e.sess.ActiveTab()
	if err != nil {
		return "", fmt.Errorf("save_pdf: %w", err)
	}
	r, err := page.Context(ctx).PDF(&proto.PagePrintToPDF{})
	if err != nil {
		return "", fmt.Errorf("save_pdf: print: %w", err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("save_pdf: read stream: %w", err)
	}

	if err := os.MkdirAll(e.cfg.ScreenshotDir, 0o755); err != nil {
		return "", fmt.Errorf("save_pdf: %w", err)
	}
	path := filepath.Join(e.cfg.ScreenshotDir, newFileID()+".pdf")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("save_pdf: write %s: %w", path, err)
	}

	pages, err := api.PageCountFile(path)
	if err != nil {
		e.log.Warn("save_pdf: page count failed", "path", path, "error", err)
		return fmt.Sprintf("PDF saved to %s (%d bytes).", path, len(data)), nil
	}
	return fmt.Sprintf("PDF saved to %s (%d pages, %d bytes).", path, pages, len(data)), nil
}

// pageInfoJS reads the scroll position and document extent.
const pageInfoJS = `() => JSON.stringify({
	scroll_y: Math.round(window.scrollY),
	view_h: window.innerHeight,
	doc_h: Math.max(document.body ? document.body.scrollHeight : 0,
		document.documentElement ? document.documentElement.scrollHeight : 0),
})`

// PageInfo reports the active page's URL, title, tab count and scroll
// position.
func (e *Engine) PageInfo(ctx context.Context) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	page, err := e.sess.ActiveTab()
	if err != nil {
		return "", fmt.Errorf("page_info: %w", err)
	}
	pages, err := e.sess.Pages()
	if err != nil {
		return "", fmt.Errorf("page_info: %w", err)
	}
	info, err := page.Context(ctx).Info()
	if err != nil {
		return "", fmt.Errorf("page_info: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "URL: %s\nTitle: %q\nOpen pages: %d\n", info.URL, info.Title, len(pages))

	var pos struct {
		ScrollY int `json:"scroll_y"`
		ViewH   int `json:"view_h"`
		DocH    int `json:"doc_h"`
	}
	obj, err := page.Context(ctx).Eval(pageInfoJS)
	if err == nil && json.Unmarshal([]byte(obj.Value.Str()), &pos) == nil && pos.DocH > 0 {
		fmt.Fprintf(&sb, "Scroll: %d of %d px (viewport %d px)\n", pos.ScrollY, pos.DocH, pos.ViewH)
	}
	if d := e.sess.PendingDialog(); d != nil {
		fmt.Fprintf(&sb, "Pending dialog: %s %q\n", d.Type, d.Message)
	}
	return sb.String(), nil
}

// DialogInfo reports a pending JavaScript dialog without consuming it.
func (e *Engine) DialogInfo(ctx context.Context) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.sess.Opened() {
		return "", fmt.Errorf("dialog_info: %w", ErrSessionNotOpen)
	}
	d := e.sess.PendingDialog()
	if d == nil {
		return "No dialog is pending.", nil
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Pending %s dialog: %q", d.Type, d.Message)
	if d.Type == "prompt" {
		fmt.Fprintf(&sb, " (default answer %q)", d.DefaultPrompt)
	}
	sb.WriteString("\nUse handle_dialog to accept or dismiss it.")
	return sb.String(), nil
}

// JournalTail returns the most recent journal entries, newest first.
func (e *Engine) JournalTail(ctx context.Context, limit int) (string, error) {
	if e.journal == nil {
		return "Journaling is disabled.", nil
	}
	entries, err := e.journal.Tail(ctx, limit)
	if err != nil {
		return "", fmt.Errorf("journal_tail: %w", err)
	}
	if len(entries) == 0 {
		return "The journal is empty.", nil
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Last %d commands (newest first):\n", len(entries))
	for _, en := range entries {
		ts := time.UnixMilli(en.Timestamp).UTC().Format(time.RFC3339)
		fmt.Fprintf(&sb, "%s %-12s %-5s %dms", ts, en.Command, en.Outcome, en.TookMs)
		if en.Detail != "" {
			fmt.Fprintf(&sb, " %s", en.Detail)
		}
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}
