package domdriver

import (
	"context"
	"strings"
	"testing"

	"github.com/hazyhaar/chrd/domdriver/internal/input"
)

func TestParseModifiers(t *testing.T) {
	tests := []struct {
		names []string
		want  int
	}{
		{nil, 0},
		{[]string{}, 0},
		{[]string{"ctrl"}, input.ModCtrl},
		{[]string{"control"}, input.ModCtrl},
		{[]string{"alt"}, input.ModAlt},
		{[]string{"shift"}, input.ModShift},
		{[]string{"meta"}, input.ModMeta},
		{[]string{"cmd"}, input.ModMeta},
		{[]string{"Ctrl", "SHIFT"}, input.ModCtrl | input.ModShift},
		{[]string{" ctrl ", "alt"}, input.ModCtrl | input.ModAlt},
		{[]string{""}, 0},
	}
	for _, tt := range tests {
		got, err := parseModifiers(tt.names)
		if err != nil {
			t.Errorf("parseModifiers(%v): %v", tt.names, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseModifiers(%v) = %d, want %d", tt.names, got, tt.want)
		}
	}
}

func TestParseModifiers_Unknown(t *testing.T) {
	_, err := parseModifiers([]string{"hyper"})
	if err == nil {
		t.Fatal("expected error for unknown modifier")
	}
	if !strings.Contains(err.Error(), "hyper") {
		t.Errorf("error %q should name the bad modifier", err)
	}
}

// Every interaction command must refuse cleanly without a session.
func TestInteract_RequireSession(t *testing.T) {
	eng := New(Config{}, nil, testLogger())
	ctx := context.Background()

	calls := map[string]func() (string, error){
		"click":       func() (string, error) { return eng.Click(ctx, "e1", false) },
		"hover":       func() (string, error) { return eng.Hover(ctx, "e1") },
		"type_text":   func() (string, error) { return eng.TypeText(ctx, "e1", "x") },
		"fill":        func() (string, error) { return eng.Fill(ctx, "e1", "x") },
		"press_key":   func() (string, error) { return eng.PressKey(ctx, "enter", nil) },
		"drag":        func() (string, error) { return eng.Drag(ctx, "e1", "e2") },
		"upload_file": func() (string, error) { return eng.UploadFile(ctx, "e1", []string{"/tmp/f"}) },
		"scroll":      func() (string, error) { return eng.Scroll(ctx, "down") },
		"scroll_to":   func() (string, error) { return eng.ScrollTo(ctx, "e1") },
		"navigate":    func() (string, error) { return eng.Navigate(ctx, "https://example.org") },
		"back":        func() (string, error) { return eng.Back(ctx) },
		"forward":     func() (string, error) { return eng.Forward(ctx) },
		"snapshot":    func() (string, error) { return eng.Snapshot(ctx) },
		"submit_form": func() (string, error) { return eng.SubmitForm(ctx, "") },
		"wait_for_element": func() (string, error) {
			return eng.WaitForElement(ctx, "#main", 0)
		},
		"wait_for_navigation": func() (string, error) { return eng.WaitForNavigation(ctx) },
		"switch_frame":        func() (string, error) { return eng.SwitchFrame(ctx, "iframe") },
		"switch_to_main":      func() (string, error) { return eng.SwitchToMain(ctx) },
	}
	for name, call := range calls {
		if _, err := call(); err == nil {
			t.Errorf("%s: expected error without a session", name)
		} else if !strings.Contains(err.Error(), "open_browser") {
			t.Errorf("%s: error %q should point at open_browser", name, err)
		}
	}
}

func TestUploadFile_NoPaths(t *testing.T) {
	eng := New(Config{}, nil, testLogger())
	_, err := eng.UploadFile(context.Background(), "e1", nil)
	if err == nil || !strings.Contains(err.Error(), "no file paths") {
		t.Fatalf("expected no-paths error, got %v", err)
	}
}

func TestEngine_SessionIDEmptyUntilOpen(t *testing.T) {
	eng := New(Config{}, nil, testLogger())
	if id := eng.SessionID(); id != "" {
		t.Errorf("session id before open = %q", id)
	}
}
