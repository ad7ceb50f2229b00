// CLAUDE:SUMMARY Engine interaction commands: click, type, fill, keys, drag, upload, scroll.
package domdriver

import (
	"context"
	"fmt"
	"strings"

	"github.com/hazyhaar/chrd/domdriver/internal/input"
)

// Click clicks the element with the given uid. When the uid has gone
// stale but the cached record carries an href, the click degrades to a
// direct navigation and the result says so. Returns a fresh snapshot
// when the page navigated.
func (e *Engine) Click(ctx context.Context, uid string, double bool) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	page, err := e.sess.ActivePage()
	if err != nil {
		return "", fmt.Errorf("click %s: %w", uid, err)
	}

	out, err := e.recoveryPolicy(page).ResolveOrRecover(ctx, uid)
	if err != nil {
		return "", fmt.Errorf("click %s: %w", uid, err)
	}
	if out.FellBack {
		snap, err := e.takeSnapshot(ctx)
		if err != nil {
			return "", fmt.Errorf("click %s: snapshot after fallback: %w", uid, err)
		}
		return fmt.Sprintf("Element %s was gone from the page; navigated directly to its link target %s instead of clicking.\n\n%s",
			uid, out.URL, snap), nil
	}

	if err := e.driver.ClickAt(ctx, page, out.Target.X, out.Target.Y, double); err != nil {
		return "", fmt.Errorf("click %s: %w", uid, err)
	}
	if err := e.sess.Settle(ctx); err != nil {
		return "", fmt.Errorf("click %s: %w", uid, err)
	}

	verb := "Clicked"
	if double {
		verb = "Double-clicked"
	}
	return fmt.Sprintf("%s element %s. Run snapshot if the page changed.", verb, uid), nil
}

// Hover moves the pointer over the element without pressing.
func (e *Engine) Hover(ctx context.Context, uid string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	page, err := e.sess.ActivePage()
	if err != nil {
		return "", fmt.Errorf("hover %s: %w", uid, err)
	}
	rctx, cancel := e.elementCtx(ctx)
	defer cancel()
	if _, err := e.driver.Hover(rctx, page, uid); err != nil {
		return "", fmt.Errorf("hover %s: %w", uid, err)
	}
	return fmt.Sprintf("Hovering over element %s.", uid), nil
}

// TypeText clears the field with uid, focuses it and types text
// keystroke by keystroke. With no uid the keystrokes go to whatever
// element currently holds focus.
func (e *Engine) TypeText(ctx context.Context, uid, text string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	target := "the focused element"
	if uid != "" {
		target = "element " + uid
	}
	page, err := e.sess.ActivePage()
	if err != nil {
		return "", fmt.Errorf("type_text %s: %w", target, err)
	}
	if err := e.driver.TypeText(ctx, page, uid, text); err != nil {
		return "", fmt.Errorf("type_text %s: %w", target, err)
	}
	return fmt.Sprintf("Typed %d characters into %s.", len([]rune(text)), target), nil
}

// SubmitForm submits the form around a field: focuses uid when given,
// then sends Enter, settles and returns a fresh snapshot.
func (e *Engine) SubmitForm(ctx context.Context, uid string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	page, err := e.sess.ActivePage()
	if err != nil {
		return "", fmt.Errorf("submit_form: %w", err)
	}
	if uid != "" {
		if _, err := e.driver.Click(ctx, page, uid, false); err != nil {
			return "", fmt.Errorf("submit_form %s: %w", uid, err)
		}
	}
	if err := e.driver.PressKey(ctx, page, "enter", 0); err != nil {
		return "", fmt.Errorf("submit_form: %w", err)
	}
	if err := e.sess.Settle(ctx); err != nil {
		return "", fmt.Errorf("submit_form: %w", err)
	}
	snap, err := e.takeSnapshot(ctx)
	if err != nil {
		return "", fmt.Errorf("submit_form: snapshot: %w", err)
	}
	return "Form submitted.\n\n" + snap, nil
}

// Fill sets the value of a form control. Dropdowns get an option
// selection by label or value; everything else gets keystrokes.
func (e *Engine) Fill(ctx context.Context, uid, value string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	page, err := e.sess.ActivePage()
	if err != nil {
		return "", fmt.Errorf("fill %s: %w", uid, err)
	}

	if cached, ok := e.sess.CachedElement(uid); ok && cached.Tag == "select" {
		res, err := e.driver.SelectOption(ctx, page, uid, value)
		if err != nil {
			return "", fmt.Errorf("fill %s: %w", uid, err)
		}
		if !res.OK {
			return "", fmt.Errorf("fill %s: no option matching %q (%s); run snapshot to see the available options", uid, value, res.Reason)
		}
		return fmt.Sprintf("Selected option %q in element %s.", res.Label, uid), nil
	}

	if err := e.driver.TypeText(ctx, page, uid, value); err != nil {
		return "", fmt.Errorf("fill %s: %w", uid, err)
	}
	return fmt.Sprintf("Filled element %s.", uid), nil
}

// PressKey sends a key chord to the focused element. Key names follow
// the usual lowercase convention ("enter", "tab", "escape", "a");
// modifiers are any of "ctrl", "alt", "shift", "meta".
func (e *Engine) PressKey(ctx context.Context, key string, modifiers []string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	page, err := e.sess.ActivePage()
	if err != nil {
		return "", fmt.Errorf("press_key %s: %w", key, err)
	}
	mods, err := parseModifiers(modifiers)
	if err != nil {
		return "", fmt.Errorf("press_key %s: %w", key, err)
	}
	if err := e.driver.PressKey(ctx, page, key, mods); err != nil {
		return "", fmt.Errorf("press_key %s: %w", key, err)
	}
	if len(modifiers) > 0 {
		return fmt.Sprintf("Pressed %s+%s.", strings.Join(modifiers, "+"), key), nil
	}
	return fmt.Sprintf("Pressed %s.", key), nil
}

func parseModifiers(names []string) (int, error) {
	mods := 0
	for _, n := range names {
		switch strings.ToLower(strings.TrimSpace(n)) {
		case "alt":
			mods |= input.ModAlt
		case "ctrl", "control":
			mods |= input.ModCtrl
		case "meta", "cmd":
			mods |= input.ModMeta
		case "shift":
			mods |= input.ModShift
		case "":
		default:
			return 0, fmt.Errorf("unknown modifier %q (use ctrl, alt, shift or meta)", n)
		}
	}
	return mods, nil
}

// Drag presses on one element, moves the pointer to another and
// releases.
func (e *Engine) Drag(ctx context.Context, fromUID, toUID string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	page, err := e.sess.ActivePage()
	if err != nil {
		return "", fmt.Errorf("drag %s -> %s: %w", fromUID, toUID, err)
	}
	if err := e.driver.Drag(ctx, page, fromUID, toUID); err != nil {
		return "", fmt.Errorf("drag %s -> %s: %w", fromUID, toUID, err)
	}
	return fmt.Sprintf("Dragged element %s onto element %s.", fromUID, toUID), nil
}

// UploadFile attaches local files to a file input.
func (e *Engine) UploadFile(ctx context.Context, uid string, paths []string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(paths) == 0 {
		return "", fmt.Errorf("upload_file %s: no file paths given", uid)
	}
	page, err := e.sess.ActivePage()
	if err != nil {
		return "", fmt.Errorf("upload_file %s: %w", uid, err)
	}
	if err := e.driver.UploadFile(ctx, page, uid, paths...); err != nil {
		return "", fmt.Errorf("upload_file %s: %w", uid, err)
	}
	return fmt.Sprintf("Attached %d file(s) to element %s.", len(paths), uid), nil
}

// Scroll moves the viewport: "up", "down", "top" or "bottom".
func (e *Engine) Scroll(ctx context.Context, direction string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	page, err := e.sess.ActivePage()
	if err != nil {
		return "", fmt.Errorf("scroll %s: %w", direction, err)
	}
	if err := e.driver.Scroll(ctx, page, direction); err != nil {
		return "", fmt.Errorf("scroll %s: %w", direction, err)
	}
	return fmt.Sprintf("Scrolled %s. Run snapshot to see newly visible elements.", direction), nil
}

// ScrollTo brings the element with uid into view.
func (e *Engine) ScrollTo(ctx context.Context, uid string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	page, err := e.sess.ActivePage()
	if err != nil {
		return "", fmt.Errorf("scroll_to %s: %w", uid, err)
	}
	rctx, cancel := e.elementCtx(ctx)
	defer cancel()
	if _, err := e.driver.ScrollTo(rctx, page, uid); err != nil {
		return "", fmt.Errorf("scroll_to %s: %w", uid, err)
	}
	return fmt.Sprintf("Scrolled element %s into view.", uid), nil
}

// HandleDialog answers a pending JavaScript dialog (alert, confirm,
// prompt). accept dismisses or confirms; promptText fills a prompt.
func (e *Engine) HandleDialog(ctx context.Context, accept bool, promptText string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.sess.Opened() {
		return "", fmt.Errorf("handle_dialog: %w", ErrSessionNotOpen)
	}
	if e.sess.PendingDialog() == nil {
		return "No dialog is pending.", nil
	}
	d, err := e.sess.HandleDialog(ctx, accept, promptText)
	if err != nil {
		return "", fmt.Errorf("handle_dialog: %w", err)
	}
	verb := "Dismissed"
	if accept {
		verb = "Accepted"
	}
	return fmt.Sprintf("%s %s dialog (%q).", verb, d.Type, d.Message), nil
}
