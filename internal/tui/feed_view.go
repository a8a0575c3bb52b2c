// ABOUTME: Rendering for the feed client model.
// ABOUTME: Draws the tab bar, post cards, overlays, and the permission banner with lipgloss.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/2389-research/wupy/internal/desktop"
	"github.com/2389-research/wupy/internal/models"
	"github.com/2389-research/wupy/internal/router"
)

var (
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("245"))
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("212")).Underline(true)
	badgeStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("196")).Padding(0, 1)
	cardStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1)
	selectedCard   = cardStyle.BorderForeground(lipgloss.Color("212"))
	authorStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	likedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("204"))
	overlayStyle   = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("99")).Padding(1, 2)
	bannerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("214")).Padding(0, 1)
	unreadStyle    = lipgloss.NewStyle().Bold(true)
)

var tabLabels = map[router.Tab]string{
	router.TabHome:          "Home",
	router.TabSearch:        "Search",
	router.TabCreate:        "New post",
	router.TabNotifications: "Notifications",
	router.TabProfile:       "Profile",
}

// View implements tea.Model.
func (m FeedModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.viewTabs())
	b.WriteString("\n")

	if m.permission != nil {
		b.WriteString(bannerStyle.Render("Allow desktop notifications? [y]es / [n]o"))
		b.WriteString("\n")
	}

	body := m.viewBody()
	if m.snap.DrawerOpen {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.viewDrawer(), " ", body)
	}
	if m.snap.NotificationsOpen {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, " ", m.viewPanel())
	}
	b.WriteString(body)
	b.WriteString("\n")

	if m.snap.ComposerOpen {
		b.WriteString(m.viewComposer())
		b.WriteString("\n")
	}
	if m.mode == modeComment {
		b.WriteString(m.commentInput.View())
		b.WriteString("\n")
	}

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render("✗ " + m.err.Error()))
		b.WriteString("\n")
	case m.status != "":
		b.WriteString(successStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(mutedStyle.Render(m.helpLine()))
	return b.String()
}

func (m FeedModel) viewTabs() string {
	var tabs []string
	for i, tab := range router.Tabs {
		label := fmt.Sprintf("%d %s", i+1, tabLabels[tab])
		style := tabStyle
		if tab == m.snap.Active || (tab == router.TabNotifications && m.snap.NotificationsOpen) {
			style = activeTabStyle
		}
		rendered := style.Render(label)
		if tab == router.TabNotifications && m.snap.UnreadCount > 0 {
			rendered += badgeStyle.Render(fmt.Sprintf("%d", m.snap.UnreadCount))
		}
		tabs = append(tabs, rendered)
	}
	return brandStyle.Render("wupy") + "  " + strings.Join(tabs, " ")
}

func (m FeedModel) viewBody() string {
	var b strings.Builder

	switch m.snap.Active {
	case router.TabSearch:
		b.WriteString(m.searchInput.View())
		b.WriteString("\n\n")
		if len(m.people) > 0 {
			names := make([]string, len(m.people))
			for i, p := range m.people {
				names[i] = authorStyle.Render("@" + p.Name)
			}
			b.WriteString(mutedStyle.Render("People: ") + strings.Join(names, " "))
			b.WriteString("\n\n")
		}
		if strings.TrimSpace(m.searchInput.Value()) != "" && len(m.results) == 0 {
			b.WriteString(mutedStyle.Render("No posts match your search."))
			b.WriteString("\n")
		}
	case router.TabProfile:
		u := m.snap.User
		b.WriteString(authorStyle.Render("@" + u.Name))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%d posts · %d likes · %d comments · %d shares",
			m.stats.Posts, m.stats.Likes, m.stats.Comments, m.stats.Shares)))
		b.WriteString("\n\n")
	}

	posts := m.visiblePosts()
	if len(posts) == 0 && m.snap.Active != router.TabSearch {
		b.WriteString(mutedStyle.Render("Nothing here yet. Press n to write a post."))
		b.WriteString("\n")
	}
	for i, p := range posts {
		b.WriteString(m.viewPost(p, i == m.cursor))
		b.WriteString("\n")
	}
	return b.String()
}

func (m FeedModel) viewPost(p models.Post, selected bool) string {
	var b strings.Builder
	b.WriteString(authorStyle.Render("@" + p.Username))
	b.WriteString(mutedStyle.Render(" · " + ago(m.now(), p.Timestamp)))
	b.WriteString("\n")
	b.WriteString(p.Content)
	b.WriteString("\n")
	if p.Image != "" {
		b.WriteString(mutedStyle.Render("🖼  " + p.Image))
		b.WriteString("\n")
	}

	heart := "♡"
	if p.LikedByUser(m.snap.User.ID) {
		heart = likedStyle.Render("♥")
	}
	b.WriteString(fmt.Sprintf("%s %d   💬 %d   ↗ %d", heart, p.Likes, len(p.Comments), p.Shares))

	if selected {
		for i, c := range p.Comments {
			b.WriteString("\n")
			marker := "  "
			if i == m.commentCursor {
				marker = "› "
			}
			cHeart := "♡"
			if c.LikedByUser(m.snap.User.ID) {
				cHeart = likedStyle.Render("♥")
			}
			b.WriteString(fmt.Sprintf("%s%s %s %s",
				marker, authorStyle.Render("@"+c.Username), c.Content,
				mutedStyle.Render(fmt.Sprintf("%s %d · %s", cHeart, c.Likes, ago(m.now(), c.Timestamp)))))
		}
	}

	style := cardStyle
	if selected {
		style = selectedCard
	}
	return style.Width(max(m.width-4, 20)).Render(b.String())
}

func (m FeedModel) viewDrawer() string {
	var b strings.Builder
	b.WriteString(authorStyle.Render(m.snap.User.Name))
	b.WriteString("\n\n")
	for i, tab := range router.Tabs {
		b.WriteString(fmt.Sprintf("%d  %s\n", i+1, tabLabels[tab]))
	}
	return overlayStyle.Render(b.String())
}

func (m FeedModel) viewPanel() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Notifications (%d unread)", m.snap.UnreadCount)))
	b.WriteString("\n\n")
	if len(m.snap.Notifications) == 0 {
		b.WriteString(mutedStyle.Render("No notifications yet."))
	}
	for i, n := range m.snap.Notifications {
		marker := "  "
		if i == m.notifCursor {
			marker = "› "
		}
		line := fmt.Sprintf("%s@%s %s · %s", marker, n.FromUsername, n.Message, ago(m.now(), n.Timestamp))
		if !n.Read {
			line = unreadStyle.Render(line + " •")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("enter read · a read all · esc close"))
	if m.snap.Permission == desktop.Denied {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("desktop alerts blocked"))
	}
	return overlayStyle.Render(b.String())
}

func (m FeedModel) viewComposer() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("New post"))
	b.WriteString("\n\n")
	b.WriteString(m.composer[0].View())
	b.WriteString("\n")
	b.WriteString(m.composer[1].View())
	b.WriteString("\n\n")
	b.WriteString(promptStyle.Render("enter publish · tab switch field · esc cancel"))
	return overlayStyle.Render(b.String())
}

func (m FeedModel) helpLine() string {
	switch {
	case m.snap.ComposerOpen, m.mode != modeBrowse:
		return "enter confirm · esc cancel"
	default:
		return "1-5 tabs · j/k move · l like · c comment · [ ] pick comment · L like comment · / search · m menu · q quit"
	}
}

// ago renders the time since t in short form.
func ago(now, t time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
