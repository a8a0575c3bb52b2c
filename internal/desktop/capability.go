// ABOUTME: Permission-gated desktop notification capability.
// ABOUTME: Requests a decision once in the background and only delivers when granted.
package desktop

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/gen2brain/beeep"
	"go.uber.org/atomic"
)

// Permission is the host's decision about desktop notifications.
type Permission int32

const (
	Unsupported Permission = iota
	Default                // not yet decided
	Granted
	Denied
)

// String returns the persisted name of the permission.
func (p Permission) String() string {
	switch p {
	case Unsupported:
		return "unsupported"
	case Granted:
		return "granted"
	case Denied:
		return "denied"
	default:
		return "default"
	}
}

// ParsePermission maps a persisted name back to a Permission. Unknown names are undecided.
func ParsePermission(s string) Permission {
	switch s {
	case "unsupported":
		return Unsupported
	case "granted":
		return Granted
	case "denied":
		return Denied
	default:
		return Default
	}
}

// Backend delivers a notification to the desktop.
type Backend func(title, body string) error

// Prompter asks the user for permission and reports whether it was granted.
type Prompter func(ctx context.Context) (bool, error)

// Beeep returns a Backend that uses the OS notification service.
func Beeep() Backend {
	return func(title, body string) error {
		return beeep.Notify(title, body, "")
	}
}

// Capability tracks permission state and dispatches desktop notifications.
type Capability struct {
	state     *atomic.Int32
	requested *atomic.Bool
	backend   Backend
	prompter  Prompter
	onDecide  func(Permission)
	logger    *log.Logger
}

// Option configures a Capability.
type Option func(*Capability)

// WithBackend sets the delivery backend.
func WithBackend(b Backend) Option {
	return func(c *Capability) {
		c.backend = b
	}
}

// WithPrompter sets the function used to ask for permission.
func WithPrompter(p Prompter) Option {
	return func(c *Capability) {
		c.prompter = p
	}
}

// WithDecisionHook registers a callback run once a permission decision is made.
func WithDecisionHook(fn func(Permission)) Option {
	return func(c *Capability) {
		c.onDecide = fn
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Capability) {
		c.logger = l
	}
}

// New creates a capability starting in the given permission state.
func New(initial Permission, opts ...Option) *Capability {
	c := &Capability{
		state:     atomic.NewInt32(int32(initial)),
		requested: atomic.NewBool(false),
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.backend == nil {
		c.state.Store(int32(Unsupported))
	}
	return c
}

// Permission returns the current permission state.
func (c *Capability) Permission() Permission {
	return Permission(c.state.Load())
}

// SetPrompter replaces the prompter. It must be called before RequestPermission.
func (c *Capability) SetPrompter(p Prompter) {
	c.prompter = p
}

// RequestPermission asks for a decision in the background when none has been made.
// Only the first call prompts. The returned channel yields the resulting state and
// may be ignored.
func (c *Capability) RequestPermission(ctx context.Context) <-chan Permission {
	result := make(chan Permission, 1)

	if c.Permission() != Default || c.prompter == nil || !c.requested.CompareAndSwap(false, true) {
		result <- c.Permission()
		close(result)
		return result
	}

	go func() {
		defer close(result)

		granted, err := c.prompter(ctx)
		if err != nil {
			c.logger.Warn("notification permission request failed", "err", err)
			result <- c.Permission()
			return
		}

		decision := Denied
		if granted {
			decision = Granted
		}
		if c.state.CompareAndSwap(int32(Default), int32(decision)) && c.onDecide != nil {
			c.onDecide(decision)
		}
		c.logger.Info("notification permission decided", "permission", decision)
		result <- c.Permission()
	}()

	return result
}

// Show delivers a desktop notification in the background when permission is granted.
// It reports whether delivery was attempted.
func (c *Capability) Show(title, body string) bool {
	if c.Permission() != Granted {
		return false
	}
	backend := c.backend
	go func() {
		if err := backend(title, body); err != nil {
			c.logger.Warn("desktop notification failed", "err", err)
		}
	}()
	return true
}
