// CLAUDE:SUMMARY Pending JS dialog state: captured on open, consumed explicitly by the caller.
package session

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Dialog is a JS dialog (alert/confirm/prompt/beforeunload) waiting for a
// decision. Dialogs are surfaced as explicit pending state the caller
// queries and consumes, never auto-handled by an installed callback.
type Dialog struct {
	Type          string // "alert", "confirm", "prompt", "beforeunload"
	Message       string
	DefaultPrompt string
	page          *rod.Page
}

// watchDialogs records dialog-opening events on a page as pending state.
func (s *Session) watchDialogs(page *rod.Page) {
	go page.EachEvent(func(e *proto.PageJavascriptDialogOpening) {
		s.mu.Lock()
		s.pendingDialog = &Dialog{
			Type:          string(e.Type),
			Message:       e.Message,
			DefaultPrompt: e.DefaultPrompt,
			page:          page,
		}
		s.mu.Unlock()
		s.cfg.Logger.Info("session: dialog opened", "type", e.Type, "message", e.Message)
	})()
}

// PendingDialog returns the waiting dialog, if any, without consuming it.
func (s *Session) PendingDialog() *Dialog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingDialog
}

// HandleDialog accepts or dismisses the pending dialog, consuming it.
// promptText is sent only when accepting a prompt dialog.
func (s *Session) HandleDialog(ctx context.Context, accept bool, promptText string) (*Dialog, error) {
	s.mu.Lock()
	d := s.pendingDialog
	s.pendingDialog = nil
	s.mu.Unlock()

	if d == nil {
		return nil, fmt.Errorf("session: no pending dialog")
	}
	err := proto.PageHandleJavaScriptDialog{
		Accept:     accept,
		PromptText: promptText,
	}.Call(d.page.Context(ctx))
	if err != nil {
		return d, fmt.Errorf("session: handle dialog: %w", err)
	}
	return d, nil
}
