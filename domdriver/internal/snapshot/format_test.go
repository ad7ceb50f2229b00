package snapshot

import (
	"strings"
	"testing"
)

func TestFormat_Sections(t *testing.T) {
	r := &Result{
		ID:    3,
		URL:   "https://example.test/search",
		Title: "Search",
		Elements: []Element{
			{UID: "e1", Role: "searchbox", Name: "Search"},
			{UID: "e2", Role: "link", Name: "First video", Href: "https://example.test/watch?v=1"},
			{UID: "e3", Role: "button", Name: "Submit"},
		},
	}
	out := Format(r)

	if !strings.HasPrefix(out, "Snapshot 3: https://example.test/search") {
		t.Errorf("header: %q", strings.SplitN(out, "\n", 2)[0])
	}
	typIdx := strings.Index(out, "Typable fields:")
	linkIdx := strings.Index(out, "Content links:")
	allIdx := strings.Index(out, "All elements (3):")
	if typIdx < 0 || linkIdx < 0 || allIdx < 0 {
		t.Fatalf("missing sections:\n%s", out)
	}
	if !(typIdx < linkIdx && linkIdx < allIdx) {
		t.Errorf("section order wrong:\n%s", out)
	}
	if !strings.Contains(out, `[e1] <searchbox> "Search"`) {
		t.Errorf("element line:\n%s", out)
	}
	if !strings.Contains(out, "href=https://example.test/watch?v=1") {
		t.Errorf("href annotation:\n%s", out)
	}
}

func TestFormat_Loading(t *testing.T) {
	out := Format(&Result{ID: 1, URL: "https://slow.test/", Loading: true})
	if !strings.Contains(out, "still loading") {
		t.Errorf("loading notice missing:\n%s", out)
	}
	if strings.Contains(out, "All elements") {
		t.Errorf("loading snapshot should have no element sections:\n%s", out)
	}
}

func TestFormat_Truncated(t *testing.T) {
	r := &Result{
		ID:        2,
		URL:       "https://big.test/",
		Elements:  []Element{{UID: "e1", Role: "button", Name: "Go"}},
		Truncated: 12,
	}
	out := Format(r)
	if !strings.Contains(out, "(12 more elements not shown)") {
		t.Errorf("truncation note missing:\n%s", out)
	}
}

func TestFormatElement_Flags(t *testing.T) {
	e := &Element{UID: "e7", Role: "checkbox", Name: "Agree", Checked: true, Disabled: true}
	line := FormatElement(e)
	if !strings.Contains(line, "checked=true") || !strings.Contains(line, "disabled=true") {
		t.Errorf("flags: %q", line)
	}
}

func TestFormatElement_Options(t *testing.T) {
	e := &Element{UID: "e2", Role: "combobox", Name: "Country", Options: []string{"France", "Germany"}}
	line := FormatElement(e)
	if !strings.Contains(line, "options=[France; Germany]") {
		t.Errorf("options: %q", line)
	}
}

func TestResult_Index(t *testing.T) {
	r := &Result{Elements: []Element{{UID: "e1"}, {UID: "e2", Href: "https://x.test/"}}}
	idx := r.Index()
	if len(idx) != 2 {
		t.Fatalf("index size: %d", len(idx))
	}
	if idx["e2"].Href != "https://x.test/" {
		t.Errorf("lookup: %+v", idx["e2"])
	}
}
