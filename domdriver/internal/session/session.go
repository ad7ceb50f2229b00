// CLAUDE:SUMMARY Browser session lifecycle: Chrome launch, tab list, uid counter, snapshot cache.
// Package session owns one live Chrome process and its tabs. All other
// engine components sit on top of it: the snapshot engine reads the uid
// high-water mark it keeps, the recovery policy reads its element cache,
// the input driver acts on its active page.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"

	"github.com/hazyhaar/chrd/domdriver/internal/snapshot"
)

var (
	// ErrNotOpen is returned when a command needs a live session and none exists.
	ErrNotOpen = errors.New("session: not open, call open_browser first")
	// ErrLaunchBusy is returned when a second open races an in-flight launch.
	ErrLaunchBusy = errors.New("session: a browser launch is already in progress")
	// ErrLastPage is returned when closing the sole remaining page.
	ErrLastPage = errors.New("session: cannot close the last page, close the browser instead")
	// ErrNoPage is returned for an out-of-range page index.
	ErrNoPage = errors.New("session: no page at that index")
)

// Config configures the session.
type Config struct {
	// RemoteURL is the WebSocket URL of an external Chrome instance.
	// Empty = launch a local Chrome via launcher.
	RemoteURL string

	// Headless controls local launches. Default: true.
	Headless bool

	// UserAgent overrides the browser user agent when non-empty.
	UserAgent string

	// NavTimeout bounds navigation. Default: 30s.
	NavTimeout time.Duration

	// SettleDelay is applied after load so client-side frameworks that
	// mutate the DOM after the ready signal get a chance to finish.
	// Default: 2s.
	SettleDelay time.Duration

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.NavTimeout <= 0 {
		c.NavTimeout = 30 * time.Second
	}
	if c.SettleDelay <= 0 {
		c.SettleDelay = 2 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// PageInfo describes one tab for list_pages output.
type PageInfo struct {
	Index  int
	Title  string
	URL    string
	Active bool
}

// Session is one live browser process with its tabs and snapshot state.
// Callers serialize access externally (the engine's command mutex); the
// internal mutex only guards against the dialog listener goroutine.
type Session struct {
	cfg       Config
	launching atomic.Bool

	mu      sync.Mutex
	browser *rod.Browser
	lnch    *launcher.Launcher
	pages   []*rod.Page
	active  int
	frame   *rod.Page // non-nil while scoped into an iframe of the active tab

	snapCounter  int
	uidHighWater int
	lastElements map[string]snapshot.Element

	pendingDialog *Dialog
}

// New creates a Session. No browser is launched until Open.
func New(cfg Config) *Session {
	cfg.defaults()
	return &Session{cfg: cfg}
}

// Open launches Chrome (closing any prior session first), creates the
// first page and navigates it. A concurrent Open while a launch is in
// flight returns ErrLaunchBusy instead of racing.
func (s *Session) Open(ctx context.Context, url string) error {
	if !s.launching.CompareAndSwap(false, true) {
		return ErrLaunchBusy
	}
	defer s.launching.Store(false)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browser != nil {
		s.closeLocked()
	}

	b, err := s.launch()
	if err != nil {
		return err
	}
	s.browser = b

	page, err := s.openPageLocked(ctx, url)
	if err != nil {
		s.closeLocked()
		return err
	}
	s.pages = []*rod.Page{page}
	s.active = 0
	return nil
}

// Opened reports whether a browser is live.
func (s *Session) Opened() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.browser != nil
}

// Close tears down all pages and the process, and resets all
// session-scoped state: snapshot counter, uid high-water mark, cache.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
}

func (s *Session) closeLocked() {
	if s.browser != nil {
		s.browser.Close()
		s.browser = nil
	}
	if s.lnch != nil {
		s.lnch.Cleanup()
		s.lnch = nil
	}
	s.pages = nil
	s.active = 0
	s.frame = nil
	s.snapCounter = 0
	s.uidHighWater = 0
	s.lastElements = nil
	s.pendingDialog = nil
}

func (s *Session) launch() (*rod.Browser, error) {
	log := s.cfg.Logger

	var wsURL string
	if s.cfg.RemoteURL != "" {
		wsURL = s.cfg.RemoteURL
		log.Info("session: connecting to remote browser", "url", wsURL)
	} else {
		l := launcher.New().Headless(s.cfg.Headless)

		// Anti-detection flags.
		l = l.Set("disable-blink-features", "AutomationControlled")
		if s.cfg.UserAgent != "" {
			l = l.Set("user-agent", s.cfg.UserAgent)
		}

		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("session: launch: %w", err)
		}
		wsURL = u
		s.lnch = l
		log.Info("session: launched local chrome", "headless", s.cfg.Headless)
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("session: connect: %w", err)
	}
	if err := b.IgnoreCertErrors(true); err != nil {
		log.Warn("session: ignore cert errors failed", "error", err)
	}
	return b, nil
}

// openPageLocked creates a stealth page, navigates it and waits for load.
// A load timeout is non-fatal: the snapshot engine's empty-result retry
// compensates for pages that never fire the load event cleanly.
func (s *Session) openPageLocked(ctx context.Context, url string) (*rod.Page, error) {
	page, err := stealth.Page(s.browser)
	if err != nil {
		return nil, fmt.Errorf("session: create page: %w", err)
	}

	if err := s.navigatePage(ctx, page, url); err != nil {
		page.Close()
		return nil, err
	}
	s.watchDialogs(page)
	return page, nil
}

func (s *Session) navigatePage(ctx context.Context, page *rod.Page, url string) error {
	navCtx, cancel := context.WithTimeout(ctx, s.cfg.NavTimeout)
	defer cancel()

	if err := page.Context(navCtx).Navigate(url); err != nil {
		return fmt.Errorf("session: navigate %s: %w", url, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		s.cfg.Logger.Warn("session: wait load timeout, continuing", "url", url, "error", err)
	}
	return s.Settle(ctx)
}

// Settle waits the configured settle delay, honouring context cancellation.
func (s *Session) Settle(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.cfg.SettleDelay):
		return nil
	}
}

// ActivePage returns the current document scope: the selected iframe when
// one has been entered, otherwise the active tab. Snapshot, input and
// extraction all operate on this scope.
func (s *Session) ActivePage() (*rod.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.browser == nil {
		return nil, ErrNotOpen
	}
	if s.frame != nil {
		return s.frame, nil
	}
	if s.active < 0 || s.active >= len(s.pages) {
		return nil, ErrNoPage
	}
	return s.pages[s.active], nil
}

// ActiveTab returns the active top-level tab regardless of frame scope.
// Navigation, history and page-level capture go through the tab.
func (s *Session) ActiveTab() (*rod.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.browser == nil {
		return nil, ErrNotOpen
	}
	if s.active < 0 || s.active >= len(s.pages) {
		return nil, ErrNoPage
	}
	return s.pages[s.active], nil
}

// EnterFrame scopes subsequent commands to the iframe matched by selector
// on the active tab. The wait for the iframe to appear is bounded by ctx.
func (s *Session) EnterFrame(ctx context.Context, selector string) error {
	tab, err := s.ActiveTab()
	if err != nil {
		return err
	}
	el, err := tab.Context(ctx).Element(selector)
	if err != nil {
		return fmt.Errorf("session: no frame matching %q: %w", selector, err)
	}
	frame, err := el.Frame()
	if err != nil {
		return fmt.Errorf("session: enter frame %q: %w", selector, err)
	}
	s.mu.Lock()
	s.frame = frame
	s.mu.Unlock()
	s.cfg.Logger.Info("session: entered frame", "selector", selector)
	return nil
}

// ExitFrame returns command scope to the main document. Reports whether a
// frame was actually active.
func (s *Session) ExitFrame() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	was := s.frame != nil
	s.frame = nil
	return was
}

// NewPage opens a new tab, navigates it and makes it active.
func (s *Session) NewPage(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.browser == nil {
		return ErrNotOpen
	}
	page, err := s.openPageLocked(ctx, url)
	if err != nil {
		return err
	}
	s.pages = append(s.pages, page)
	s.active = len(s.pages) - 1
	s.frame = nil
	return nil
}

// Pages lists all tabs with title and URL.
func (s *Session) Pages() ([]PageInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.browser == nil {
		return nil, ErrNotOpen
	}
	out := make([]PageInfo, 0, len(s.pages))
	for i, p := range s.pages {
		pi := PageInfo{Index: i, Active: i == s.active}
		if info, err := p.Info(); err == nil {
			pi.Title = info.Title
			pi.URL = info.URL
		}
		out = append(out, pi)
	}
	return out, nil
}

// SelectPage makes the tab at index active.
func (s *Session) SelectPage(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.browser == nil {
		return ErrNotOpen
	}
	if index < 0 || index >= len(s.pages) {
		return fmt.Errorf("%w: %d (have %d pages)", ErrNoPage, index, len(s.pages))
	}
	s.active = index
	s.frame = nil
	if _, err := s.pages[index].Activate(); err != nil {
		s.cfg.Logger.Warn("session: activate page failed", "index", index, "error", err)
	}
	return nil
}

// ClosePage closes the tab at index. The last remaining tab cannot be
// closed. Closing a non-active tab keeps the active index pointing at the
// same logical page.
func (s *Session) ClosePage(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.browser == nil {
		return ErrNotOpen
	}
	if index < 0 || index >= len(s.pages) {
		return fmt.Errorf("%w: %d (have %d pages)", ErrNoPage, index, len(s.pages))
	}
	if len(s.pages) == 1 {
		return ErrLastPage
	}

	if err := s.pages[index].Close(); err != nil {
		s.cfg.Logger.Warn("session: close page failed", "index", index, "error", err)
	}
	s.pages = append(s.pages[:index], s.pages[index+1:]...)
	s.active = nextActive(s.active, index)
	s.frame = nil
	return nil
}

// nextActive computes the active index after removing the page at closed.
// Closing a tab before the active one shifts the index down; closing the
// active tab falls back to the first page; closing a later tab changes
// nothing.
func nextActive(active, closed int) int {
	switch {
	case closed < active:
		return active - 1
	case closed == active:
		return 0
	default:
		return active
	}
}

// Navigate drives the active tab to a URL, leaving any frame scope.
func (s *Session) Navigate(ctx context.Context, url string) error {
	tab, err := s.ActiveTab()
	if err != nil {
		return err
	}
	s.ExitFrame()
	return s.navigatePage(ctx, tab, url)
}

// Back goes one step back in the active page's history.
func (s *Session) Back(ctx context.Context) error {
	return s.history(ctx, -1)
}

// Forward goes one step forward in the active page's history.
func (s *Session) Forward(ctx context.Context) error {
	return s.history(ctx, 1)
}

func (s *Session) history(ctx context.Context, delta int) error {
	page, err := s.ActiveTab()
	if err != nil {
		return err
	}
	s.ExitFrame()
	navCtx, cancel := context.WithTimeout(ctx, s.cfg.NavTimeout)
	defer cancel()

	p := page.Context(navCtx)
	if delta < 0 {
		err = p.NavigateBack()
	} else {
		err = p.NavigateForward()
	}
	if err != nil {
		return fmt.Errorf("session: history navigation: %w", err)
	}
	if err := p.WaitLoad(); err != nil {
		s.cfg.Logger.Warn("session: wait load after history, continuing", "error", err)
	}
	return s.Settle(ctx)
}

// NextSnapshotID increments and returns the session snapshot counter.
func (s *Session) NextSnapshotID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapCounter++
	return s.snapCounter
}

// HighWater returns the current uid counter.
func (s *Session) HighWater() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uidHighWater
}

// SetHighWater records the uid counter after a snapshot pass. It never
// moves backwards: uids are additive for the session's lifetime.
func (s *Session) SetHighWater(hw int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if hw > s.uidHighWater {
		s.uidHighWater = hw
	}
}

// CacheElements replaces the last-snapshot element cache. An empty pass
// (page still loading mid-transition) keeps the previous cache: records
// issued before the transition must stay referenceable so the href
// fallback can still complete a click on a node the rerender discarded.
func (s *Session) CacheElements(elements []snapshot.Element) {
	if len(elements) == 0 {
		return
	}
	m := make(map[string]snapshot.Element, len(elements))
	for _, e := range elements {
		m[e.UID] = e
	}
	s.mu.Lock()
	s.lastElements = m
	s.mu.Unlock()
}

// CachedElement looks up an element record from the last snapshot.
func (s *Session) CachedElement(uid string) (snapshot.Element, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.lastElements[uid]
	return e, ok
}
