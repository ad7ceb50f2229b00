// CLAUDE:SUMMARY Snapshot engine: uid-stable interactive element capture via injected JS.
// Package snapshot builds bounded, uid-tagged descriptions of a page's
// interactive elements.
//
// Element identity is the central concern: the injected JS tags each
// untagged node with a data-chrd-uid attribute and reuses the tag on
// later passes, so a uid issued in snapshot N resolves in snapshot N+1
// for as long as the node lives. New uids are allocated from a
// session-scoped high-water counter held on the Go side, which means
// uids are never recycled even after a navigation wipes page state.
package snapshot

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
)

//go:embed snapshot.js
var snapshotJS string

// Element is one discovered interactive element.
type Element struct {
	UID      string   `json:"uid"`
	Tag      string   `json:"tag"`
	AriaRole string   `json:"aria_role"`
	Role     string   `json:"-"` // classified role, filled by Capture
	Type     string   `json:"type"`
	Name     string   `json:"name"`
	Value    string   `json:"value"`
	Checked  bool     `json:"checked"`
	Disabled bool     `json:"disabled"`
	Href     string   `json:"href"`
	Editable bool     `json:"editable"`
	Options  []string `json:"options,omitempty"`
}

// Result is one snapshot pass over the active page.
type Result struct {
	ID         int
	URL        string
	Title      string
	Elements   []Element
	Truncated  int // elements dropped by the cap, 0 if none
	HighWater  int // uid counter after this pass
	CapturedAt time.Time
	Loading    bool // true when every retry came back empty
}

// Options controls a capture pass.
type Options struct {
	HighWater   int // current session uid counter
	MaxElements int // cap on returned elements (default 150)
	Retries     int // extra attempts when the first pass is empty (default 2)
	RetryDelay  time.Duration
	Logger      *slog.Logger

	// pass runs one capture against the page; replaced in tests.
	pass passFunc
}

type passFunc func(ctx context.Context, page *rod.Page, highWater int) (*pageResult, error)

func (o *Options) defaults() {
	if o.MaxElements <= 0 {
		o.MaxElements = 150
	}
	if o.Retries <= 0 {
		o.Retries = 2
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = 1500 * time.Millisecond
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.pass == nil {
		o.pass = capturePass
	}
}

// pageResult mirrors the object returned by snapshot.js.
type pageResult struct {
	HW       int       `json:"hw"`
	Elements []Element `json:"elements"`
	URL      string    `json:"url"`
	Title    string    `json:"title"`
}

// Capture runs the snapshot pass with empty-result retries. Client-rendered
// pages often mount content after the load event fires; an empty first pass
// is retried a bounded number of times before giving up with Loading=true.
func Capture(ctx context.Context, page *rod.Page, id int, opts Options) (*Result, error) {
	opts.defaults()

	var pr *pageResult
	attempts := 1 + opts.Retries
	for attempt := 1; attempt <= attempts; attempt++ {
		var err error
		pr, err = opts.pass(ctx, page, opts.HighWater)
		if err != nil {
			return nil, err
		}
		if len(pr.Elements) > 0 {
			break
		}
		if attempt < attempts {
			opts.Logger.Debug("snapshot: empty pass, retrying",
				"attempt", attempt, "delay", opts.RetryDelay)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(opts.RetryDelay):
			}
		}
	}

	res := &Result{
		ID:         id,
		URL:        pr.URL,
		Title:      pr.Title,
		HighWater:  pr.HW,
		CapturedAt: time.Now(),
		Loading:    len(pr.Elements) == 0,
	}

	for i := range pr.Elements {
		pr.Elements[i].Role = Classify(&pr.Elements[i])
	}
	res.Elements, res.Truncated = Prioritize(pr.Elements, opts.MaxElements)
	return res, nil
}

func capturePass(ctx context.Context, page *rod.Page, highWater int) (*pageResult, error) {
	obj, err := page.Context(ctx).Eval(snapshotJS, highWater)
	if err != nil {
		return nil, fmt.Errorf("snapshot: eval: %w", err)
	}
	var pr pageResult
	if err := json.Unmarshal([]byte(obj.Value.Str()), &pr); err != nil {
		return nil, fmt.Errorf("snapshot: decode: %w", err)
	}
	return &pr, nil
}

// Index returns the elements keyed by uid.
func (r *Result) Index() map[string]Element {
	m := make(map[string]Element, len(r.Elements))
	for _, e := range r.Elements {
		m[e.UID] = e
	}
	return m
}
