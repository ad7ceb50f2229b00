package snapshot

import "testing"

func TestClassify_AriaRoleWins(t *testing.T) {
	e := &Element{Tag: "div", AriaRole: "tab"}
	if got := Classify(e); got != "tab" {
		t.Errorf("aria tab: got %q", got)
	}
	e = &Element{Tag: "a", AriaRole: "button", Href: "https://x.test/"}
	if got := Classify(e); got != "button" {
		t.Errorf("aria button on anchor: got %q", got)
	}
}

func TestClassify_TagHeuristics(t *testing.T) {
	cases := []struct {
		tag, typ, want string
	}{
		{"a", "", "link"},
		{"button", "", "button"},
		{"summary", "", "button"},
		{"select", "", "combobox"},
		{"textarea", "", "textbox"},
		{"input", "", "textbox"},
		{"input", "text", "textbox"},
		{"input", "checkbox", "checkbox"},
		{"input", "radio", "radio"},
		{"input", "range", "slider"},
		{"input", "search", "searchbox"},
		{"input", "submit", "button"},
		{"input", "file", "filepicker"},
		{"div", "", "generic"},
	}
	for _, c := range cases {
		got := Classify(&Element{Tag: c.tag, Type: c.typ})
		if got != c.want {
			t.Errorf("Classify(%s type=%s): got %q, want %q", c.tag, c.typ, got, c.want)
		}
	}
}

func TestClassify_ContentEditable(t *testing.T) {
	e := &Element{Tag: "div", Editable: true}
	if got := Classify(e); got != "textbox" {
		t.Errorf("contenteditable: got %q", got)
	}
}

func TestClassify_UnknownAriaFallsThrough(t *testing.T) {
	e := &Element{Tag: "input", Type: "checkbox", AriaRole: "presentation"}
	if got := Classify(e); got != "checkbox" {
		t.Errorf("unknown aria role should fall to heuristics: got %q", got)
	}
}

func TestContentLink(t *testing.T) {
	yes := &Element{Role: "link", Href: "https://site.test/watch?v=abc"}
	if !ContentLink(yes) {
		t.Error("watch link should be a content link")
	}
	no := &Element{Role: "link", Href: "https://site.test/about"}
	if ContentLink(no) {
		t.Error("about link should not be a content link")
	}
	if ContentLink(&Element{Role: "button", Href: "https://site.test/watch"}) {
		t.Error("non-link role should never be a content link")
	}
}

func TestPrioritize_NoCapNeeded(t *testing.T) {
	els := []Element{
		{UID: "e1", Role: "link"},
		{UID: "e2", Role: "textbox"},
	}
	got, dropped := Prioritize(els, 150)
	if dropped != 0 || len(got) != 2 {
		t.Fatalf("got %d dropped=%d", len(got), dropped)
	}
	// Document order preserved when under the cap.
	if got[0].UID != "e1" {
		t.Errorf("order changed: %v", got)
	}
}

func TestPrioritize_TypableFirst(t *testing.T) {
	els := []Element{
		{UID: "e1", Role: "link", Href: "https://x.test/about"},
		{UID: "e2", Role: "link", Href: "https://x.test/watch?v=1"},
		{UID: "e3", Role: "textbox"},
		{UID: "e4", Role: "button"},
	}
	got, dropped := Prioritize(els, 2)
	if dropped != 2 {
		t.Fatalf("dropped: got %d, want 2", dropped)
	}
	if got[0].UID != "e3" {
		t.Errorf("typable should come first, got %v", got)
	}
	if got[1].UID != "e2" {
		t.Errorf("content link should come second, got %v", got)
	}
}

func TestPrioritize_OrderWithinGroup(t *testing.T) {
	els := []Element{
		{UID: "e1", Role: "searchbox"},
		{UID: "e2", Role: "button"},
		{UID: "e3", Role: "textbox"},
	}
	got, _ := Prioritize(els, 2)
	if got[0].UID != "e1" || got[1].UID != "e3" {
		t.Errorf("document order within typable group lost: %v", got)
	}
}
