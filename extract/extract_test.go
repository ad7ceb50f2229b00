package extract

import (
	"strings"
	"testing"
	"unicode/utf8"
)

var testHTML = []byte(`<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
<nav><a href="/">Home</a> <a href="/about">About</a></nav>
<main>
<article>
<h1>Important Article</h1>
<p>This is the main content of the article. It contains important information
that should be extracted by the content extraction engine. The text is long
enough to pass the minimum length threshold for extraction.</p>
<p>Second paragraph with more relevant content about the topic being discussed.</p>
</article>
</main>
<aside>
<div class="sidebar">Related links and advertisements</div>
</aside>
<footer>Copyright 2024</footer>
</body>
</html>`)

func TestExtract_Auto(t *testing.T) {
	result, err := Extract(testHTML, Options{Mode: "auto"})
	if err != nil {
		t.Fatalf("extract auto: %v", err)
	}
	if result.Title != "Test Page" {
		t.Errorf("Title: got %q, want %q", result.Title, "Test Page")
	}
	if !strings.Contains(result.Text, "Important Article") {
		t.Errorf("Text should contain article title, got: %s", result.Text[:min(len(result.Text), 200)])
	}
	if !strings.Contains(result.Text, "main content") {
		t.Errorf("Text should contain main content, got: %s", result.Text[:min(len(result.Text), 200)])
	}
	if result.Hash == "" {
		t.Error("Hash should not be empty")
	}
}

func TestExtract_CSS(t *testing.T) {
	result, err := Extract(testHTML, Options{
		Mode:      "css",
		Selectors: []string{"article"},
	})
	if err != nil {
		t.Fatalf("extract css: %v", err)
	}
	if !strings.Contains(result.Text, "Important Article") {
		t.Errorf("CSS extraction should find article content")
	}
	// Should NOT contain nav or footer.
	if strings.Contains(result.Text, "Copyright") {
		t.Error("CSS extraction should not include footer")
	}
}

func TestExtract_Density(t *testing.T) {
	result, err := Extract(testHTML, Options{Mode: "density"})
	if err != nil {
		t.Fatalf("extract density: %v", err)
	}
	if !strings.Contains(result.Text, "main content") {
		t.Errorf("Density extraction should find main content")
	}
}

func TestExtract_CSSClassSelector(t *testing.T) {
	html := []byte(`<html><body>
<div class="content main-text">
<p>This is the actual content that needs to be extracted from the page. It has enough text to meet the threshold.</p>
</div>
<div class="sidebar">sidebar stuff</div>
</body></html>`)

	result, err := Extract(html, Options{
		Mode:      "css",
		Selectors: []string{"div.content"},
	})
	if err != nil {
		t.Fatalf("extract css class: %v", err)
	}
	if !strings.Contains(result.Text, "actual content") {
		t.Errorf("CSS class selector should match, got: %s", result.Text)
	}
}

func TestExtract_MaxChars(t *testing.T) {
	result, err := Extract(testHTML, Options{Mode: "auto", MaxChars: 80})
	if err != nil {
		t.Fatalf("extract truncated: %v", err)
	}
	if !result.Truncated {
		t.Error("Truncated should be true")
	}
	if !strings.HasSuffix(result.Text, "[content truncated]") {
		t.Errorf("truncated text should carry marker, got tail: %q", result.Text[max(0, len(result.Text)-40):])
	}
}

func TestExtract_HiddenStyleIgnored(t *testing.T) {
	html := []byte(`<html><body>
<main>
<p>Visible content that is long enough to pass the minimum length threshold for extraction here.</p>
<p style="display:none">hidden honeypot text that must never appear</p>
</main>
</body></html>`)

	result, err := Extract(html, Options{Mode: "auto"})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if strings.Contains(result.Text, "honeypot") {
		t.Error("hidden text should be excluded")
	}
	if !strings.Contains(result.Text, "Visible content") {
		t.Error("visible text should be included")
	}
}

func TestExtract_TooShort(t *testing.T) {
	result, err := Extract([]byte(`<html><body><p>tiny</p></body></html>`), Options{Mode: "density"})
	if err != nil {
		t.Fatalf("extract short: %v", err)
	}
	if result.Text != "" {
		t.Errorf("below-threshold page should yield empty text, got %q", result.Text)
	}
}

func TestExtract_UnknownMode(t *testing.T) {
	if _, err := Extract(testHTML, Options{Mode: "regex"}); err == nil {
		t.Fatal("unknown mode should error")
	}
}

func TestTruncate_RuneBoundary(t *testing.T) {
	// "héllo" — the é spans bytes 1..2; cutting at 2 would split it.
	s := "héllo"
	got, cut := Truncate(s, 2)
	if !cut {
		t.Fatal("expected truncation")
	}
	if got != "h" {
		t.Errorf("Truncate = %q, want %q", got, "h")
	}
	if !utf8.ValidString(got) {
		t.Errorf("truncated string %q is not valid UTF-8", got)
	}
}

func TestTruncate_NoCut(t *testing.T) {
	for _, max := range []int{0, -1, len("héllo"), 100} {
		got, cut := Truncate("héllo", max)
		if cut || got != "héllo" {
			t.Errorf("max=%d: got %q cut=%v, want untouched", max, got, cut)
		}
	}
}

func TestExtract_MaxCharsKeepsValidUTF8(t *testing.T) {
	page := []byte(`<html><body><main><p>` + strings.Repeat("département ", 40) + `</p></main></body></html>`)
	result, err := Extract(page, Options{Mode: "density", MaxChars: 101})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !result.Truncated {
		t.Fatal("expected truncation")
	}
	if !utf8.ValidString(result.Text) {
		t.Error("truncated text is not valid UTF-8")
	}
}
