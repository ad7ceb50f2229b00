// CLAUDE:SUMMARY Resolves a uid to on-screen coordinates and interactability state.
package input

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-rod/rod"
)

var (
	// ErrNotFound is returned when a uid no longer resolves to a live node.
	// The recovery policy keys on this error.
	ErrNotFound = errors.New("input: element not found")
	// ErrNotInteractable is returned when the node exists but cannot
	// receive input (hidden, zero-sized or disabled).
	ErrNotInteractable = errors.New("input: element not interactable")
)

// Target is a resolved element: centre point plus the state needed to
// decide how to act on it.
type Target struct {
	X, Y     float64
	Width    float64
	Height   float64
	Tag      string
	Href     string
	Disabled bool
}

const resolveJS = `(uid) => {
	const el = document.querySelector('[data-chrd-uid="' + uid + '"]');
	if (!el) return JSON.stringify({ found: false });
	el.scrollIntoView({ block: 'center', inline: 'center' });
	const rect = el.getBoundingClientRect();
	const style = window.getComputedStyle(el);
	const visible = rect.width > 0 && rect.height > 0 &&
		style.display !== 'none' && style.visibility !== 'hidden';
	return JSON.stringify({
		found: true,
		visible: visible,
		x: rect.x + rect.width / 2,
		y: rect.y + rect.height / 2,
		w: rect.width,
		h: rect.height,
		tag: el.tagName.toLowerCase(),
		href: el.href || '',
		disabled: !!el.disabled,
	});
}`

// Resolve locates the element tagged with uid, scrolls it into view and
// returns its centre point. ErrNotFound means the node is gone (stale uid);
// ErrNotInteractable means it exists but cannot take input.
func Resolve(ctx context.Context, page *rod.Page, uid string) (*Target, error) {
	obj, err := page.Context(ctx).Eval(resolveJS, uid)
	if err != nil {
		return nil, fmt.Errorf("input: resolve %s: %w", uid, err)
	}

	var raw struct {
		Found    bool    `json:"found"`
		Visible  bool    `json:"visible"`
		X        float64 `json:"x"`
		Y        float64 `json:"y"`
		W        float64 `json:"w"`
		H        float64 `json:"h"`
		Tag      string  `json:"tag"`
		Href     string  `json:"href"`
		Disabled bool    `json:"disabled"`
	}
	if err := json.Unmarshal([]byte(obj.Value.Str()), &raw); err != nil {
		return nil, fmt.Errorf("input: decode resolve result: %w", err)
	}

	if !raw.Found {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, uid)
	}
	if !raw.Visible || raw.Disabled {
		return nil, fmt.Errorf("%w: %s (visible=%t disabled=%t)", ErrNotInteractable, uid, raw.Visible, raw.Disabled)
	}
	return &Target{
		X: raw.X, Y: raw.Y,
		Width: raw.W, Height: raw.H,
		Tag: raw.Tag, Href: raw.Href,
		Disabled: raw.Disabled,
	}, nil
}
