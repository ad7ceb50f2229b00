// CLAUDE:SUMMARY Pointer and keyboard synthesis through CDP Input events with jitter.
// Package input drives page elements through low-level CDP input events.
//
// Everything here dispatches real mousePressed/keyDown events instead of
// mutating the DOM. State-managed front-end frameworks mirror input state
// through event listeners; a programmatic value assignment is invisible to
// them, so the raw DOM shows the text while the framework state stays
// empty. Per-character key event triples are the only reliable path.
package input

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Config tunes the driver.
type Config struct {
	// TypeDelay is the base inter-keystroke delay, jittered per key.
	// Default: 50ms.
	TypeDelay time.Duration

	// ClickDelay separates pointer-down from pointer-up. Default: 60ms.
	ClickDelay time.Duration

	// JitterPx bounds the random offset applied to pointer coordinates.
	// Default: 3.
	JitterPx float64

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.TypeDelay <= 0 {
		c.TypeDelay = 50 * time.Millisecond
	}
	if c.ClickDelay <= 0 {
		c.ClickDelay = 60 * time.Millisecond
	}
	if c.JitterPx <= 0 {
		c.JitterPx = 3
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Driver synthesizes input events against a page.
type Driver struct {
	cfg Config
}

// NewDriver creates a Driver.
func NewDriver(cfg Config) *Driver {
	cfg.defaults()
	return &Driver{cfg: cfg}
}

// Click resolves uid and dispatches a pointer press/release pair at its
// centre. double sends the pair twice with click counts 1 and 2.
func (d *Driver) Click(ctx context.Context, page *rod.Page, uid string, double bool) (*Target, error) {
	t, err := Resolve(ctx, page, uid)
	if err != nil {
		return nil, err
	}
	if err := d.ClickAt(ctx, page, t.X, t.Y, double); err != nil {
		return t, err
	}
	return t, nil
}

// ClickAt dispatches a pointer press/release pair at already-resolved
// coordinates.
func (d *Driver) ClickAt(ctx context.Context, page *rod.Page, x, y float64, double bool) error {
	x = jitterPx(x, d.cfg.JitterPx)
	y = jitterPx(y, d.cfg.JitterPx)
	p := page.Context(ctx)

	if err := d.moveTo(ctx, p, x, y); err != nil {
		return err
	}

	clicks := 1
	if double {
		clicks = 2
	}
	for count := 1; count <= clicks; count++ {
		down := proto.InputDispatchMouseEvent{
			Type:       proto.InputDispatchMouseEventTypeMousePressed,
			X:          x,
			Y:          y,
			Button:     proto.InputMouseButtonLeft,
			ClickCount: count,
		}
		if err := down.Call(p); err != nil {
			return fmt.Errorf("input: mouse down: %w", err)
		}
		if err := sleepJitter(ctx, d.cfg.ClickDelay); err != nil {
			return err
		}
		up := down
		up.Type = proto.InputDispatchMouseEventTypeMouseReleased
		if err := up.Call(p); err != nil {
			return fmt.Errorf("input: mouse up: %w", err)
		}
		if count < clicks {
			if err := sleepJitter(ctx, d.cfg.ClickDelay); err != nil {
				return err
			}
		}
	}
	return nil
}

// Hover resolves uid and moves the pointer onto it, firing the page's
// enter/over handlers.
func (d *Driver) Hover(ctx context.Context, page *rod.Page, uid string) (*Target, error) {
	t, err := Resolve(ctx, page, uid)
	if err != nil {
		return nil, err
	}
	x := jitterPx(t.X, d.cfg.JitterPx)
	y := jitterPx(t.Y, d.cfg.JitterPx)
	if err := d.moveTo(ctx, page.Context(ctx), x, y); err != nil {
		return t, err
	}
	return t, nil
}

// moveTo walks the pointer to (x, y) in a few jittered steps rather than
// teleporting it there.
func (d *Driver) moveTo(ctx context.Context, p *rod.Page, x, y float64) error {
	const steps = 4
	for i := 1; i <= steps; i++ {
		frac := float64(i) / steps
		mv := proto.InputDispatchMouseEvent{
			Type: proto.InputDispatchMouseEventTypeMouseMoved,
			X:    jitterPx(x*frac, d.cfg.JitterPx),
			Y:    jitterPx(y*frac, d.cfg.JitterPx),
		}
		if i == steps {
			mv.X, mv.Y = x, y
		}
		if err := mv.Call(p); err != nil {
			return fmt.Errorf("input: mouse move: %w", err)
		}
		if err := sleepJitter(ctx, 10*time.Millisecond); err != nil {
			return err
		}
	}
	return nil
}

// TypeText types text one key event triple per character. When uid is
// non-empty the element is first clicked to acquire pointer-originated
// focus (programmatic focus alone is ignored by frameworks that gate
// state updates on it), and its current content cleared with
// select-all + delete.
func (d *Driver) TypeText(ctx context.Context, page *rod.Page, uid, text string) error {
	if uid != "" {
		if _, err := d.Click(ctx, page, uid, false); err != nil {
			return err
		}
		if err := sleepJitter(ctx, d.cfg.ClickDelay); err != nil {
			return err
		}
		if err := d.clearField(ctx, page); err != nil {
			return err
		}
	}

	p := page.Context(ctx)
	for _, r := range text {
		if err := d.keyTriple(p, charKey(r), 0); err != nil {
			return err
		}
		if err := sleepJitter(ctx, d.cfg.TypeDelay); err != nil {
			return err
		}
	}
	return nil
}

// clearField wipes the focused element with Ctrl+A then Delete.
func (d *Driver) clearField(ctx context.Context, page *rod.Page) error {
	p := page.Context(ctx)
	selectAll, _ := LookupKey("a")
	if err := d.keyTriple(p, selectAll, ModCtrl); err != nil {
		return err
	}
	if err := sleepJitter(ctx, d.cfg.TypeDelay); err != nil {
		return err
	}
	del, _ := LookupKey("delete")
	if err := d.keyTriple(p, del, 0); err != nil {
		return err
	}
	return sleepJitter(ctx, d.cfg.TypeDelay)
}

// PressKey dispatches a key event triple for a named key or literal
// character, with a modifier bitmask (ModAlt|ModCtrl|ModMeta|ModShift).
func (d *Driver) PressKey(ctx context.Context, page *rod.Page, name string, modifiers int) error {
	def, ok := LookupKey(name)
	if !ok {
		return fmt.Errorf("input: unknown key %q", name)
	}
	return d.keyTriple(page.Context(ctx), def, modifiers)
}

// keyTriple sends keyDown, char (for printing keys without modifiers that
// suppress text) and keyUp.
func (d *Driver) keyTriple(p *rod.Page, def keyDef, modifiers int) error {
	down := proto.InputDispatchKeyEvent{
		Type:                  proto.InputDispatchKeyEventTypeKeyDown,
		Modifiers:             modifiers,
		Key:                   def.Key,
		Code:                  def.Code,
		WindowsVirtualKeyCode: def.VK,
	}
	if err := down.Call(p); err != nil {
		return fmt.Errorf("input: key down %q: %w", def.Key, err)
	}

	// Ctrl/Alt/Meta chords do not emit text.
	if def.Text != "" && modifiers&(ModCtrl|ModAlt|ModMeta) == 0 {
		ch := proto.InputDispatchKeyEvent{
			Type:      proto.InputDispatchKeyEventTypeChar,
			Modifiers: modifiers,
			Text:      def.Text,
			Key:       def.Key,
		}
		if err := ch.Call(p); err != nil {
			return fmt.Errorf("input: char %q: %w", def.Text, err)
		}
	}

	up := proto.InputDispatchKeyEvent{
		Type:                  proto.InputDispatchKeyEventTypeKeyUp,
		Modifiers:             modifiers,
		Key:                   def.Key,
		Code:                  def.Code,
		WindowsVirtualKeyCode: def.VK,
	}
	if err := up.Call(p); err != nil {
		return fmt.Errorf("input: key up %q: %w", def.Key, err)
	}
	return nil
}

// Drag presses at from, walks the pointer to to, and releases.
func (d *Driver) Drag(ctx context.Context, page *rod.Page, fromUID, toUID string) error {
	from, err := Resolve(ctx, page, fromUID)
	if err != nil {
		return err
	}
	to, err := Resolve(ctx, page, toUID)
	if err != nil {
		return err
	}

	p := page.Context(ctx)
	if err := d.moveTo(ctx, p, from.X, from.Y); err != nil {
		return err
	}
	down := proto.InputDispatchMouseEvent{
		Type:       proto.InputDispatchMouseEventTypeMousePressed,
		X:          from.X,
		Y:          from.Y,
		Button:     proto.InputMouseButtonLeft,
		ClickCount: 1,
	}
	if err := down.Call(p); err != nil {
		return fmt.Errorf("input: drag press: %w", err)
	}

	const steps = 8
	for i := 1; i <= steps; i++ {
		frac := float64(i) / steps
		mv := proto.InputDispatchMouseEvent{
			Type:   proto.InputDispatchMouseEventTypeMouseMoved,
			X:      jitterPx(from.X+(to.X-from.X)*frac, d.cfg.JitterPx),
			Y:      jitterPx(from.Y+(to.Y-from.Y)*frac, d.cfg.JitterPx),
			Button: proto.InputMouseButtonLeft,
		}
		if err := mv.Call(p); err != nil {
			return fmt.Errorf("input: drag move: %w", err)
		}
		if err := sleepJitter(ctx, 20*time.Millisecond); err != nil {
			return err
		}
	}

	up := proto.InputDispatchMouseEvent{
		Type:       proto.InputDispatchMouseEventTypeMouseReleased,
		X:          to.X,
		Y:          to.Y,
		Button:     proto.InputMouseButtonLeft,
		ClickCount: 1,
	}
	if err := up.Call(p); err != nil {
		return fmt.Errorf("input: drag release: %w", err)
	}
	return nil
}

// UploadFile attaches local files to the input element tagged with uid.
func (d *Driver) UploadFile(ctx context.Context, page *rod.Page, uid string, paths ...string) error {
	if _, err := Resolve(ctx, page, uid); err != nil {
		return err
	}
	el, err := page.Context(ctx).Element(fmt.Sprintf(`[data-chrd-uid=%q]`, uid))
	if err != nil {
		return fmt.Errorf("input: locate %s: %w", uid, err)
	}
	if err := el.SetFiles(paths); err != nil {
		return fmt.Errorf("input: set files on %s: %w", uid, err)
	}
	return nil
}

// Scroll moves the viewport: "down"/"up" by two screens, "top"/"bottom"
// to the document edges.
func (d *Driver) Scroll(ctx context.Context, page *rod.Page, direction string) error {
	var js string
	switch direction {
	case "down":
		js = `() => window.scrollBy(0, window.innerHeight * 2)`
	case "up":
		js = `() => window.scrollBy(0, -window.innerHeight * 2)`
	case "top":
		js = `() => window.scrollTo(0, 0)`
	case "bottom":
		js = `() => window.scrollTo(0, document.body.scrollHeight)`
	default:
		return fmt.Errorf("input: unknown scroll direction %q (want down/up/top/bottom)", direction)
	}
	if _, err := page.Context(ctx).Eval(js); err != nil {
		return fmt.Errorf("input: scroll: %w", err)
	}
	return nil
}

// ScrollTo brings the element tagged with uid into view.
func (d *Driver) ScrollTo(ctx context.Context, page *rod.Page, uid string) (*Target, error) {
	// Resolve scrolls the element into view as a side effect.
	return Resolve(ctx, page, uid)
}

const selectOptionJS = `(uid, value) => {
	const el = document.querySelector('[data-chrd-uid="' + uid + '"]');
	if (!el) return JSON.stringify({ ok: false, reason: 'gone' });
	if (el.tagName !== 'SELECT') return JSON.stringify({ ok: false, reason: 'not-select' });

	const needle = value.toLowerCase();
	let idx = -1;
	for (let i = 0; i < el.options.length; i++) {
		if (el.options[i].text.toLowerCase().includes(needle)) { idx = i; break; }
	}
	if (idx < 0) {
		for (let i = 0; i < el.options.length; i++) {
			if (el.options[i].value === value) { idx = i; break; }
		}
	}
	if (idx < 0) return JSON.stringify({ ok: false, reason: 'no-match' });

	el.selectedIndex = idx;
	el.dispatchEvent(new Event('input', { bubbles: true }));
	el.dispatchEvent(new Event('change', { bubbles: true }));
	return JSON.stringify({ ok: true, label: el.options[idx].text.trim() });
}`

// SelectResult reports what SelectOption did.
type SelectResult struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason"`
	Label  string `json:"label"`
}

// SelectOption sets a <select> element's option by visible text
// (case-insensitive substring, then exact value fallback) and dispatches
// input+change so framework listeners see it. Returns ErrNotFound when the
// uid is stale so the caller can route to recovery.
func (d *Driver) SelectOption(ctx context.Context, page *rod.Page, uid, value string) (*SelectResult, error) {
	obj, err := page.Context(ctx).Eval(selectOptionJS, uid, value)
	if err != nil {
		return nil, fmt.Errorf("input: select option: %w", err)
	}
	var res SelectResult
	if err := json.Unmarshal([]byte(obj.Value.Str()), &res); err != nil {
		return nil, fmt.Errorf("input: decode select result: %w", err)
	}
	if !res.OK && res.Reason == "gone" {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, uid)
	}
	return &res, nil
}
