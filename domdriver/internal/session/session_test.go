package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-rod/rod"
	"github.com/hazyhaar/chrd/domdriver/internal/snapshot"
)

func TestConfig_Defaults(t *testing.T) {
	var c Config
	c.defaults()
	if c.NavTimeout != 30*time.Second {
		t.Errorf("NavTimeout: got %v", c.NavTimeout)
	}
	if c.SettleDelay != 2*time.Second {
		t.Errorf("SettleDelay: got %v", c.SettleDelay)
	}
	if c.Logger == nil {
		t.Error("Logger should default")
	}
}

func TestNotOpen(t *testing.T) {
	s := New(Config{})

	if _, err := s.ActivePage(); !errors.Is(err, ErrNotOpen) {
		t.Errorf("ActivePage: got %v", err)
	}
	if err := s.NewPage(context.Background(), "https://x.test/"); !errors.Is(err, ErrNotOpen) {
		t.Errorf("NewPage: got %v", err)
	}
	if _, err := s.Pages(); !errors.Is(err, ErrNotOpen) {
		t.Errorf("Pages: got %v", err)
	}
	if err := s.SelectPage(0); !errors.Is(err, ErrNotOpen) {
		t.Errorf("SelectPage: got %v", err)
	}
	if err := s.ClosePage(0); !errors.Is(err, ErrNotOpen) {
		t.Errorf("ClosePage: got %v", err)
	}
	if s.Opened() {
		t.Error("Opened should be false")
	}
}

func TestNextActive(t *testing.T) {
	cases := []struct {
		active, closed, want int
	}{
		{2, 0, 1}, // closing before active shifts down
		{2, 1, 1},
		{1, 1, 0}, // closing the active tab falls back to the first
		{0, 2, 0}, // closing after active changes nothing
		{1, 3, 1},
	}
	for _, c := range cases {
		if got := nextActive(c.active, c.closed); got != c.want {
			t.Errorf("nextActive(%d, %d): got %d, want %d", c.active, c.closed, got, c.want)
		}
	}
}

func TestHighWater_Monotonic(t *testing.T) {
	s := New(Config{})
	s.SetHighWater(7)
	if got := s.HighWater(); got != 7 {
		t.Fatalf("HighWater: got %d", got)
	}
	// A stale page value must never rewind the counter.
	s.SetHighWater(3)
	if got := s.HighWater(); got != 7 {
		t.Errorf("HighWater rewound: got %d", got)
	}
	s.SetHighWater(12)
	if got := s.HighWater(); got != 12 {
		t.Errorf("HighWater: got %d", got)
	}
}

func TestNextSnapshotID(t *testing.T) {
	s := New(Config{})
	if id := s.NextSnapshotID(); id != 1 {
		t.Errorf("first id: got %d", id)
	}
	if id := s.NextSnapshotID(); id != 2 {
		t.Errorf("second id: got %d", id)
	}
}

func TestCachedElement(t *testing.T) {
	s := New(Config{})
	if _, ok := s.CachedElement("e1"); ok {
		t.Error("empty cache should miss")
	}

	s.CacheElements([]snapshot.Element{
		{UID: "e1", Role: "link", Href: "https://x.test/watch"},
		{UID: "e2", Role: "button"},
	})
	e, ok := s.CachedElement("e1")
	if !ok || e.Href != "https://x.test/watch" {
		t.Errorf("lookup: ok=%t e=%+v", ok, e)
	}

	// Replacing the cache drops prior records.
	s.CacheElements([]snapshot.Element{{UID: "e3"}})
	if _, ok := s.CachedElement("e1"); ok {
		t.Error("replaced cache should miss old uid")
	}
}

func TestCacheElements_EmptyPassKeepsCache(t *testing.T) {
	s := New(Config{})
	s.CacheElements([]snapshot.Element{
		{UID: "e1", Role: "link", Href: "https://x.test/watch"},
	})

	// A mid-transition snapshot comes back with no elements. The records
	// issued before the transition must stay referenceable so the href
	// fallback can still act on them.
	s.CacheElements(nil)
	e, ok := s.CachedElement("e1")
	if !ok || e.Href != "https://x.test/watch" {
		t.Errorf("after nil pass: ok=%t e=%+v", ok, e)
	}

	s.CacheElements([]snapshot.Element{})
	if _, ok := s.CachedElement("e1"); !ok {
		t.Error("after empty pass: cache was dropped")
	}
}

func TestClosePage_LastPage(t *testing.T) {
	s := New(Config{})
	s.browser = &rod.Browser{}
	s.pages = []*rod.Page{{}}

	if err := s.ClosePage(0); !errors.Is(err, ErrLastPage) {
		t.Fatalf("ClosePage: got %v, want ErrLastPage", err)
	}
	// The refusal must leave the session untouched.
	if !s.Opened() {
		t.Error("session closed by a refused ClosePage")
	}
	if len(s.pages) != 1 {
		t.Errorf("pages: got %d, want 1", len(s.pages))
	}
	if err := s.ClosePage(3); !errors.Is(err, ErrNoPage) {
		t.Errorf("out of range: got %v, want ErrNoPage", err)
	}
}

func TestFrameScope(t *testing.T) {
	s := New(Config{})
	s.browser = &rod.Browser{}
	tab := &rod.Page{}
	s.pages = []*rod.Page{tab}

	if s.ExitFrame() {
		t.Error("ExitFrame with no frame should report false")
	}
	if p, err := s.ActivePage(); err != nil || p != tab {
		t.Fatalf("ActivePage: p=%p err=%v", p, err)
	}

	frame := &rod.Page{}
	s.frame = frame
	if p, _ := s.ActivePage(); p != frame {
		t.Error("ActivePage should return the frame while scoped")
	}
	if p, err := s.ActiveTab(); err != nil || p != tab {
		t.Errorf("ActiveTab must ignore frame scope: p=%p err=%v", p, err)
	}

	if !s.ExitFrame() {
		t.Error("ExitFrame should report the frame was active")
	}
	if p, _ := s.ActivePage(); p != tab {
		t.Error("ActivePage should return the tab after ExitFrame")
	}
}

func TestSettle_ContextCancel(t *testing.T) {
	s := New(Config{SettleDelay: time.Minute})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Settle(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Settle: got %v", err)
	}
}

func TestPendingDialog_None(t *testing.T) {
	s := New(Config{})
	if d := s.PendingDialog(); d != nil {
		t.Errorf("pending: got %+v", d)
	}
	if _, err := s.HandleDialog(context.Background(), true, ""); err == nil {
		t.Error("HandleDialog with none pending should error")
	}
}
