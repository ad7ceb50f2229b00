package domdriver

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig_Defaults(t *testing.T) {
	var cfg Config
	cfg.defaults()

	if cfg.Browser.NavTimeout != 30*time.Second {
		t.Errorf("NavTimeout = %v", cfg.Browser.NavTimeout)
	}
	if cfg.Browser.SettleDelay != 2*time.Second {
		t.Errorf("SettleDelay = %v", cfg.Browser.SettleDelay)
	}
	if cfg.Browser.ElementTimeout != 5*time.Second {
		t.Errorf("ElementTimeout = %v", cfg.Browser.ElementTimeout)
	}
	if cfg.Browser.Headful {
		t.Error("headless must be the default")
	}
	if cfg.Snapshot.MaxElements != 150 {
		t.Errorf("MaxElements = %d", cfg.Snapshot.MaxElements)
	}
	if cfg.Input.TypeDelay != 50*time.Millisecond {
		t.Errorf("TypeDelay = %v", cfg.Input.TypeDelay)
	}
	if cfg.Extract.MaxChars != 3000 {
		t.Errorf("MaxChars = %d", cfg.Extract.MaxChars)
	}
	if cfg.ScreenshotDir != "screenshots" {
		t.Errorf("ScreenshotDir = %q", cfg.ScreenshotDir)
	}
}

func TestConfig_DefaultsKeepExplicitValues(t *testing.T) {
	cfg := Config{
		Browser:  BrowserConfig{NavTimeout: 10 * time.Second},
		Snapshot: SnapshotConfig{MaxElements: 40},
	}
	cfg.defaults()

	if cfg.Browser.NavTimeout != 10*time.Second {
		t.Errorf("NavTimeout overwritten: %v", cfg.Browser.NavTimeout)
	}
	if cfg.Snapshot.MaxElements != 40 {
		t.Errorf("MaxElements overwritten: %d", cfg.Snapshot.MaxElements)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
browser:
  headful: true
  user_agent: "test-agent"
snapshot:
  max_elements: 80
input:
  jitter_px: 5
screenshot_dir: /tmp/shots
journal_path: /tmp/journal.db
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.Browser.Headful {
		t.Error("headful not parsed")
	}
	if cfg.Browser.UserAgent != "test-agent" {
		t.Errorf("user_agent = %q", cfg.Browser.UserAgent)
	}
	if cfg.Snapshot.MaxElements != 80 {
		t.Errorf("max_elements = %d", cfg.Snapshot.MaxElements)
	}
	if cfg.Input.JitterPx != 5 {
		t.Errorf("jitter_px = %v", cfg.Input.JitterPx)
	}
	if cfg.ScreenshotDir != "/tmp/shots" {
		t.Errorf("screenshot_dir = %q", cfg.ScreenshotDir)
	}
	if cfg.JournalPath != "/tmp/journal.db" {
		t.Errorf("journal_path = %q", cfg.JournalPath)
	}
}

func TestLoadConfigFile_Missing(t *testing.T) {
	if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
