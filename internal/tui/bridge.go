// ABOUTME: Connects a running bubbletea program to the App's asynchronous events.
// ABOUTME: Forwards state changes and the desktop permission prompt into the event loop.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/2389-research/wupy/internal/app"
	"github.com/2389-research/wupy/internal/desktop"
)

// Sender delivers messages into a running program. *tea.Program implements it.
type Sender interface {
	Send(msg tea.Msg)
}

// refreshMsg tells the feed model to re-read the App state.
type refreshMsg struct{}

// permissionRequestMsg asks the user to allow desktop notifications.
type permissionRequestMsg struct {
	reply chan<- bool
}

// Watch forwards every committed App change to s until unsubscribed.
func Watch(a *app.App, s Sender) (unsubscribe func()) {
	return a.Subscribe(func(app.Snapshot) {
		// Subscribers may run inside Update; never block the event loop.
		go s.Send(refreshMsg{})
	})
}

// PermissionPrompter asks for desktop notification permission through the UI.
// It blocks until the user answers or ctx is done.
func PermissionPrompter(s Sender) desktop.Prompter {
	return func(ctx context.Context) (bool, error) {
		reply := make(chan bool, 1)
		s.Send(permissionRequestMsg{reply: reply})
		select {
		case granted := <-reply:
			return granted, nil
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
}
