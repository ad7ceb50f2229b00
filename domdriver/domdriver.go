// CLAUDE:SUMMARY Engine: serialized browser command surface over session/snapshot/input/recovery.
// Package domdriver is the browser interaction engine. It keeps one live
// Chrome session, builds uid-stable snapshots of interactive elements,
// and executes interaction primitives through low-level CDP input
// synthesis.
//
// Every command returns a human-readable result string: the consumer is
// an LLM planner reasoning over natural-language tool output, and
// failures must be readable in-band. Commands on one engine run strictly
// one at a time, in the order issued; each command's precondition is the
// DOM state left by the previous one.
package domdriver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"

	"github.com/hazyhaar/chrd/domdriver/internal/input"
	"github.com/hazyhaar/chrd/domdriver/internal/recovery"
	"github.com/hazyhaar/chrd/domdriver/internal/session"
	"github.com/hazyhaar/chrd/domdriver/internal/snapshot"
	"github.com/hazyhaar/chrd/idgen"
	"github.com/hazyhaar/chrd/journal"
)

var newSessionID = idgen.Prefixed("sess_", idgen.UUIDv7())

// Engine drives one browser session. All commands funnel through one
// mutex: no reordering, no overlap, no speculative execution.
type Engine struct {
	cfg     Config
	log     *slog.Logger
	journal *journal.Store // optional

	mu        sync.Mutex
	sess      *session.Session
	driver    *input.Driver
	sessionID string
}

// New creates an Engine. jstore may be nil to disable journaling.
func New(cfg Config, jstore *journal.Store, logger *slog.Logger) *Engine {
	cfg.defaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		cfg:     cfg,
		log:     logger,
		journal: jstore,
		sess: session.New(session.Config{
			RemoteURL:   cfg.Browser.RemoteURL,
			Headless:    !cfg.Browser.Headful,
			UserAgent:   cfg.Browser.UserAgent,
			NavTimeout:  cfg.Browser.NavTimeout,
			SettleDelay: cfg.Browser.SettleDelay,
			Logger:      logger,
		}),
		driver: input.NewDriver(input.Config{
			TypeDelay:  cfg.Input.TypeDelay,
			ClickDelay: cfg.Input.ClickDelay,
			JitterPx:   cfg.Input.JitterPx,
			Logger:     logger,
		}),
	}
}

// SessionID identifies the current browser session for journaling.
// Empty when no session is open.
func (e *Engine) SessionID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sessionID
}

// Close tears down the browser and the journal store.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sess.Close()
	e.sessionID = ""
	if e.journal != nil {
		e.journal.Close()
	}
}

// elementCtx bounds a per-element operation.
func (e *Engine) elementCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, e.cfg.Browser.ElementTimeout)
}

// takeSnapshot captures and formats a snapshot of the active page, and
// updates the session's uid high-water mark and element cache. Callers
// hold e.mu.
func (e *Engine) takeSnapshot(ctx context.Context) (string, error) {
	page, err := e.sess.ActivePage()
	if err != nil {
		return "", err
	}
	res, err := snapshot.Capture(ctx, page, e.sess.NextSnapshotID(), snapshot.Options{
		HighWater:   e.sess.HighWater(),
		MaxElements: e.cfg.Snapshot.MaxElements,
		Retries:     e.cfg.Snapshot.Retries,
		RetryDelay:  e.cfg.Snapshot.RetryDelay,
		Logger:      e.log,
	})
	if err != nil {
		return "", err
	}
	e.sess.SetHighWater(res.HighWater)
	e.sess.CacheElements(res.Elements)
	e.log.Info("domdriver: snapshot taken",
		"id", res.ID, "url", res.URL, "elements", len(res.Elements), "loading", res.Loading)
	return snapshot.Format(res), nil
}

// recoveryPolicy builds the stale-uid policy bound to the active page.
// Callers hold e.mu.
func (e *Engine) recoveryPolicy(page *rod.Page) *recovery.Policy {
	return recovery.New(
		recovery.ResolverFunc(func(ctx context.Context, uid string) (*input.Target, error) {
			rctx, cancel := e.elementCtx(ctx)
			defer cancel()
			return input.Resolve(rctx, page, uid)
		}),
		e.sess,
		recovery.NavigatorFunc(e.sess.Navigate),
		e.log,
	)
}

// OpenBrowser launches the browser (closing any prior session), navigates
// to url and returns the first snapshot. The returned identifiers are
// valid immediately; callers need not re-snapshot.
func (e *Engine) OpenBrowser(ctx context.Context, url string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.sess.Open(ctx, url); err != nil {
		return "", fmt.Errorf("open_browser %s: %w", url, err)
	}
	e.sessionID = newSessionID()
	e.log.Info("domdriver: session opened", "session_id", e.sessionID, "url", url)

	snap, err := e.takeSnapshot(ctx)
	if err != nil {
		return "", fmt.Errorf("open_browser %s: initial snapshot: %w", url, err)
	}
	return "Browser opened.\n\n" + snap, nil
}

// CloseBrowser tears down the session and resets all session state.
func (e *Engine) CloseBrowser(ctx context.Context) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.sess.Opened() {
		return "No browser session was open.", nil
	}
	e.sess.Close()
	e.log.Info("domdriver: session closed", "session_id", e.sessionID)
	e.sessionID = ""
	return "Browser closed.", nil
}

// NewPage opens a new tab, navigates it, makes it active and returns a
// snapshot of it.
func (e *Engine) NewPage(ctx context.Context, url string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.sess.NewPage(ctx, url); err != nil {
		return "", fmt.Errorf("new_page %s: %w", url, err)
	}
	snap, err := e.takeSnapshot(ctx)
	if err != nil {
		return "", fmt.Errorf("new_page %s: snapshot: %w", url, err)
	}
	return "New page opened.\n\n" + snap, nil
}

// ListPages lists all tabs.
func (e *Engine) ListPages(ctx context.Context) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	pages, err := e.sess.Pages()
	if err != nil {
		return "", fmt.Errorf("list_pages: %w", err)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Open pages (%d):\n", len(pages))
	for _, p := range pages {
		marker := " "
		if p.Active {
			marker = "*"
		}
		fmt.Fprintf(&sb, "%s [%d] %q %s\n", marker, p.Index, p.Title, p.URL)
	}
	return sb.String(), nil
}

// SelectPage makes the tab at index active.
func (e *Engine) SelectPage(ctx context.Context, index int) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.sess.SelectPage(index); err != nil {
		return "", fmt.Errorf("select_page %d: %w", index, err)
	}
	return fmt.Sprintf("Switched to page %d. Run snapshot to see its elements.", index), nil
}

// ClosePage closes the tab at index. The last remaining tab cannot be
// closed; close the browser instead.
func (e *Engine) ClosePage(ctx context.Context, index int) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.sess.ClosePage(index); err != nil {
		return "", fmt.Errorf("close_page %d: %w", index, err)
	}
	return fmt.Sprintf("Closed page %d.", index), nil
}

// Snapshot captures the active page's interactive elements.
func (e *Engine) Snapshot(ctx context.Context) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap, err := e.takeSnapshot(ctx)
	if err != nil {
		return "", fmt.Errorf("snapshot: %w", err)
	}
	return snap, nil
}

// Navigate drives the active page to url and returns a fresh snapshot.
func (e *Engine) Navigate(ctx context.Context, url string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.sess.Navigate(ctx, url); err != nil {
		return "", fmt.Errorf("navigate %s: %w", url, err)
	}
	snap, err := e.takeSnapshot(ctx)
	if err != nil {
		return "", fmt.Errorf("navigate %s: snapshot: %w", url, err)
	}
	return "Navigated.\n\n" + snap, nil
}

// Back goes one step back in history.
func (e *Engine) Back(ctx context.Context) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.sess.Back(ctx); err != nil {
		return "", fmt.Errorf("back: %w", err)
	}
	return "Went back one page. Run snapshot to see the elements.", nil
}

// Forward goes one step forward in history.
func (e *Engine) Forward(ctx context.Context) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.sess.Forward(ctx); err != nil {
		return "", fmt.Errorf("forward: %w", err)
	}
	return "Went forward one page. Run snapshot to see the elements.", nil
}

// SwitchFrame scopes subsequent commands to the iframe matched by a CSS
// selector. Elements inside an iframe live in a separate document that
// the top-level snapshot walk cannot reach.
func (e *Engine) SwitchFrame(ctx context.Context, selector string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	fctx, cancel := e.elementCtx(ctx)
	defer cancel()
	if err := e.sess.EnterFrame(fctx, selector); err != nil {
		return "", fmt.Errorf("switch_frame %q: %w", selector, err)
	}
	snap, err := e.takeSnapshot(ctx)
	if err != nil {
		return "", fmt.Errorf("switch_frame %q: snapshot: %w", selector, err)
	}
	return fmt.Sprintf("Switched into frame %q.\n\n%s", selector, snap), nil
}

// SwitchToMain returns command scope to the main document.
func (e *Engine) SwitchToMain(ctx context.Context) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.sess.Opened() {
		return "", fmt.Errorf("switch_to_main: %w", session.ErrNotOpen)
	}
	if !e.sess.ExitFrame() {
		return "Already in the main document.", nil
	}
	return "Back in the main document. Run snapshot to see its elements.", nil
}

// WaitForElement blocks until an element matching selector appears in the
// current document scope, bounded by timeout (element timeout default).
func (e *Engine) WaitForElement(ctx context.Context, selector string, timeout time.Duration) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	page, err := e.sess.ActivePage()
	if err != nil {
		return "", fmt.Errorf("wait_for_element %q: %w", selector, err)
	}
	if timeout <= 0 {
		timeout = e.cfg.Browser.ElementTimeout
	}
	wctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if _, err := page.Context(wctx).Element(selector); err != nil {
		return "", fmt.Errorf("wait_for_element %q: not present after %s: %w", selector, timeout, err)
	}
	return fmt.Sprintf("Element matching %q is present. Run snapshot to get its uid.", selector), nil
}

// WaitForNavigation waits for an in-flight page load to finish, settles
// and returns a fresh snapshot.
func (e *Engine) WaitForNavigation(ctx context.Context) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	tab, err := e.sess.ActiveTab()
	if err != nil {
		return "", fmt.Errorf("wait_for_navigation: %w", err)
	}
	nctx, cancel := context.WithTimeout(ctx, e.cfg.Browser.NavTimeout)
	defer cancel()
	if err := tab.Context(nctx).WaitLoad(); err != nil {
		e.log.Warn("domdriver: wait load, continuing", "error", err)
	}
	if err := e.sess.Settle(ctx); err != nil {
		return "", fmt.Errorf("wait_for_navigation: %w", err)
	}
	snap, err := e.takeSnapshot(ctx)
	if err != nil {
		return "", fmt.Errorf("wait_for_navigation: snapshot: %w", err)
	}
	return "Navigation finished.\n\n" + snap, nil
}
