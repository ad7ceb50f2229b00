// CLAUDE:SUMMARY Engine configuration structs and YAML loader.
package domdriver

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all engine configuration. Every delay the engine applies
// is a named value here, tunable per deployment.
type Config struct {
	Browser       BrowserConfig  `yaml:"browser"`
	Snapshot      SnapshotConfig `yaml:"snapshot"`
	Input         InputConfig    `yaml:"input"`
	Extract       ExtractConfig  `yaml:"extract"`
	ScreenshotDir string         `yaml:"screenshot_dir"`
	JournalPath   string         `yaml:"journal_path"`
}

// BrowserConfig controls the Chrome process and navigation.
type BrowserConfig struct {
	RemoteURL   string        `yaml:"remote_url"` // external Chrome WebSocket URL; empty = launch locally
	Headful     bool          `yaml:"headful"`    // headless is the default
	UserAgent   string        `yaml:"user_agent"`
	NavTimeout  time.Duration `yaml:"nav_timeout"`
	SettleDelay time.Duration `yaml:"settle_delay"`
	// ElementTimeout bounds uid resolution and other per-element waits.
	ElementTimeout time.Duration `yaml:"element_timeout"`
}

// SnapshotConfig controls element capture.
type SnapshotConfig struct {
	MaxElements int           `yaml:"max_elements"`
	Retries     int           `yaml:"retries"`
	RetryDelay  time.Duration `yaml:"retry_delay"`
}

// InputConfig controls event synthesis timing.
type InputConfig struct {
	TypeDelay  time.Duration `yaml:"type_delay"`
	ClickDelay time.Duration `yaml:"click_delay"`
	JitterPx   float64       `yaml:"jitter_px"`
}

// ExtractConfig controls page content extraction.
type ExtractConfig struct {
	MaxChars int `yaml:"max_chars"`
}

func (c *Config) defaults() {
	if c.Browser.NavTimeout <= 0 {
		c.Browser.NavTimeout = 30 * time.Second
	}
	if c.Browser.SettleDelay <= 0 {
		c.Browser.SettleDelay = 2 * time.Second
	}
	if c.Browser.ElementTimeout <= 0 {
		c.Browser.ElementTimeout = 5 * time.Second
	}
	if c.Snapshot.MaxElements <= 0 {
		c.Snapshot.MaxElements = 150
	}
	if c.Snapshot.Retries <= 0 {
		c.Snapshot.Retries = 2
	}
	if c.Snapshot.RetryDelay <= 0 {
		c.Snapshot.RetryDelay = 1500 * time.Millisecond
	}
	if c.Input.TypeDelay <= 0 {
		c.Input.TypeDelay = 50 * time.Millisecond
	}
	if c.Input.ClickDelay <= 0 {
		c.Input.ClickDelay = 60 * time.Millisecond
	}
	if c.Input.JitterPx <= 0 {
		c.Input.JitterPx = 3
	}
	if c.Extract.MaxChars <= 0 {
		c.Extract.MaxChars = 3000
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = "screenshots"
	}
}

// LoadConfigFile reads a YAML config file.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
