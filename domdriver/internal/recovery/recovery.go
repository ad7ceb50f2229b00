// CLAUDE:SUMMARY Stale-uid recovery: href fallback navigation, explicit error otherwise.
// Package recovery wraps element resolution with the stale-uid fallback.
//
// Frameworks discard and rebuild subtrees on state changes that never
// trigger a full page load, which strands uids issued by earlier
// snapshots. For link-like elements the semantic target (the destination
// URL) survives in the last snapshot's cache, so the intended click can
// be completed as a direct navigation. Anything else fails with an
// explicit stale error instead of guessing.
package recovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hazyhaar/chrd/domdriver/internal/input"
	"github.com/hazyhaar/chrd/domdriver/internal/snapshot"
)

// ErrStale is returned when a uid is gone and no fallback applies.
var ErrStale = errors.New("recovery: stale identifier, re-run snapshot to get fresh identifiers")

// Resolver locates a uid in the live DOM.
type Resolver interface {
	Resolve(ctx context.Context, uid string) (*input.Target, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, uid string) (*input.Target, error)

func (f ResolverFunc) Resolve(ctx context.Context, uid string) (*input.Target, error) {
	return f(ctx, uid)
}

// Navigator drives the active page to a URL.
type Navigator interface {
	Navigate(ctx context.Context, url string) error
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, url string) error

func (f NavigatorFunc) Navigate(ctx context.Context, url string) error {
	return f(ctx, url)
}

// Cache looks up element records from the last snapshot.
type Cache interface {
	CachedElement(uid string) (snapshot.Element, bool)
}

// Outcome reports how a uid was resolved. FellBack is always surfaced to
// the caller: a fallback navigation is never presented as a normal click.
type Outcome struct {
	Target   *input.Target // set when the uid resolved normally
	FellBack bool          // true when the href fallback navigated instead
	URL      string        // fallback destination, when FellBack
}

// Policy wires resolution, the snapshot cache and navigation together.
type Policy struct {
	resolver Resolver
	cache    Cache
	nav      Navigator
	logger   *slog.Logger
}

// New creates a Policy.
func New(resolver Resolver, cache Cache, nav Navigator, logger *slog.Logger) *Policy {
	if logger == nil {
		logger = slog.Default()
	}
	return &Policy{resolver: resolver, cache: cache, nav: nav, logger: logger}
}

// ResolveOrRecover resolves uid in the live DOM. When the node is gone it
// consults the cached record: with an href it navigates there and reports
// the fallback, without one it returns ErrStale. Resolution failures other
// than not-found (e.g. not-interactable) pass through unchanged.
func (p *Policy) ResolveOrRecover(ctx context.Context, uid string) (*Outcome, error) {
	t, err := p.resolver.Resolve(ctx, uid)
	if err == nil {
		return &Outcome{Target: t}, nil
	}
	if !errors.Is(err, input.ErrNotFound) {
		return nil, err
	}

	cached, ok := p.cache.CachedElement(uid)
	if !ok || cached.Href == "" {
		return nil, fmt.Errorf("%w (uid %s)", ErrStale, uid)
	}

	p.logger.Info("recovery: stale uid, falling back to href navigation",
		"uid", uid, "href", cached.Href)
	if err := p.nav.Navigate(ctx, cached.Href); err != nil {
		return nil, fmt.Errorf("recovery: fallback navigation to %s: %w", cached.Href, err)
	}
	return &Outcome{FellBack: true, URL: cached.Href}, nil
}
