// ABOUTME: Tab navigation state for the feed client.
// ABOUTME: Real tabs switch the base view; pseudo-tabs only open overlays.
package router

import (
	"fmt"
	"strings"
)

// Tab is a navigation destination.
type Tab string

const (
	TabHome          Tab = "home"
	TabSearch        Tab = "search"
	TabProfile       Tab = "profile"
	TabCreate        Tab = "create"        // opens the composer
	TabNotifications Tab = "notifications" // toggles the notification panel
)

// Tabs lists every selectable tab in sidebar order.
var Tabs = []Tab{TabHome, TabSearch, TabCreate, TabNotifications, TabProfile}

// IsView reports whether the tab is a base view rather than a pseudo-tab.
func (t Tab) IsView() bool {
	return t == TabHome || t == TabSearch || t == TabProfile
}

// ParseTab validates a tab name.
func ParseTab(name string) (Tab, error) {
	tab := Tab(strings.ToLower(strings.TrimSpace(name)))
	for _, t := range Tabs {
		if t == tab {
			return tab, nil
		}
	}
	return "", fmt.Errorf("unknown tab %q", name)
}

// Effect tells the caller what a selection requires beyond router state.
type Effect int

const (
	EffectNone Effect = iota
	EffectViewChanged
	EffectOpenComposer
	EffectToggleNotifications
)

// Router holds the active base view and the overlay flags it owns.
type Router struct {
	active       Tab
	composerOpen bool
	drawerOpen   bool
}

// New returns a router showing the home feed.
func New() *Router {
	return &Router{active: TabHome}
}

// Active returns the current base view.
func (r *Router) Active() Tab {
	return r.active
}

// ComposerOpen reports whether the post composer is shown.
func (r *Router) ComposerOpen() bool {
	return r.composerOpen
}

// DrawerOpen reports whether the navigation drawer is shown.
func (r *Router) DrawerOpen() bool {
	return r.drawerOpen
}

// Select applies a tab selection. Pseudo-tabs never change the active view;
// real tabs set it and close the drawer. Unknown tabs are ignored.
func (r *Router) Select(tab Tab) Effect {
	switch {
	case tab == TabCreate:
		r.composerOpen = true
		return EffectOpenComposer
	case tab == TabNotifications:
		return EffectToggleNotifications
	case tab.IsView():
		r.active = tab
		r.drawerOpen = false
		return EffectViewChanged
	default:
		return EffectNone
	}
}

// CloseComposer hides the post composer.
func (r *Router) CloseComposer() {
	r.composerOpen = false
}

// ToggleDrawer opens or closes the navigation drawer.
func (r *Router) ToggleDrawer() {
	r.drawerOpen = !r.drawerOpen
}
