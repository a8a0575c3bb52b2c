// ABOUTME: Session-scoped notification list with derived unread count.
// ABOUTME: Prepends new records, flips read flags, and tracks panel visibility.
package notify

import (
	"time"

	"github.com/google/uuid"

	"github.com/2389-research/wupy/internal/models"
)

// Desktop delivers a notification outside the app. Implementations must not block.
type Desktop interface {
	Show(title, body string) bool
}

// Manager holds the notifications raised during this session.
// It is not safe for concurrent use; callers serialize access.
type Manager struct {
	notifications []models.Notification // most recent first
	visible       bool
	desktop       Desktop
	now           func() time.Time
}

// NewManager creates an empty manager. desktop may be nil.
func NewManager(desktop Desktop, now func() time.Time) *Manager {
	if now == nil {
		now = time.Now
	}
	return &Manager{
		notifications: []models.Notification{},
		desktop:       desktop,
		now:           now,
	}
}

// Add records n as a new unread notification and forwards it to the desktop.
// ID, Timestamp and Read are always assigned here.
func (m *Manager) Add(n models.Notification) models.Notification {
	n.ID = uuid.NewString()
	n.Timestamp = m.now()
	n.Read = false

	next := make([]models.Notification, 0, len(m.notifications)+1)
	next = append(next, n)
	m.notifications = append(next, m.notifications...)

	if m.desktop != nil {
		m.desktop.Show(n.FromUsername, n.Message)
	}
	return n
}

// MarkAsRead marks the notification with id as read. It reports whether it was found.
func (m *Manager) MarkAsRead(id string) bool {
	for i, n := range m.notifications {
		if n.ID != id {
			continue
		}
		next := append([]models.Notification{}, m.notifications...)
		next[i].Read = true
		m.notifications = next
		return true
	}
	return false
}

// MarkMatchingRead marks the newest unread notification of kind about postID
// sent by fromUserID as read. It reports whether one was found.
func (m *Manager) MarkMatchingRead(kind models.NotificationKind, postID, fromUserID string) bool {
	for i, n := range m.notifications {
		if n.Read || n.Type != kind || n.PostID != postID || n.FromUserID != fromUserID {
			continue
		}
		return m.MarkAsRead(m.notifications[i].ID)
	}
	return false
}

// MarkAllAsRead marks every notification as read.
func (m *Manager) MarkAllAsRead() {
	next := make([]models.Notification, len(m.notifications))
	for i, n := range m.notifications {
		n.Read = true
		next[i] = n
	}
	m.notifications = next
}

// UnreadCount returns the number of unread notifications.
func (m *Manager) UnreadCount() int {
	count := 0
	for _, n := range m.notifications {
		if !n.Read {
			count++
		}
	}
	return count
}

// UnreadCountFor returns the number of unread notifications addressed to userID.
func (m *Manager) UnreadCountFor(userID string) int {
	count := 0
	for _, n := range m.notifications {
		if !n.Read && n.UserID == userID {
			count++
		}
	}
	return count
}

// Notifications returns a copy of the records, most recent first.
func (m *Manager) Notifications() []models.Notification {
	return append([]models.Notification{}, m.notifications...)
}

// Visible reports whether the notification panel is shown.
func (m *Manager) Visible() bool {
	return m.visible
}

// ToggleVisibility flips the panel visibility.
func (m *Manager) ToggleVisibility() {
	m.visible = !m.visible
}

// SetVisibility shows or hides the panel.
func (m *Manager) SetVisibility(visible bool) {
	m.visible = visible
}
