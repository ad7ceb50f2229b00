// CLAUDE:SUMMARY Sentinel errors re-exported from the internal packages.
package domdriver

import (
	"github.com/hazyhaar/chrd/domdriver/internal/input"
	"github.com/hazyhaar/chrd/domdriver/internal/recovery"
	"github.com/hazyhaar/chrd/domdriver/internal/session"
)

// Sentinel errors callers can test with errors.Is. Each maps to one entry
// of the engine's failure taxonomy; every one carries caller-readable
// guidance when rendered.
var (
	ErrSessionNotOpen  = session.ErrNotOpen
	ErrLaunchBusy      = session.ErrLaunchBusy
	ErrLastPage        = session.ErrLastPage
	ErrNoPage          = session.ErrNoPage
	ErrStaleElement    = recovery.ErrStale
	ErrNotInteractable = input.ErrNotInteractable
)
