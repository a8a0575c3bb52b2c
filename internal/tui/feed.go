// ABOUTME: Bubbletea model for the feed client: home, search, and profile views.
// ABOUTME: Handles the composer overlay, comments, the notification panel, and the drawer.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/2389-research/wupy/internal/app"
	"github.com/2389-research/wupy/internal/feed"
	"github.com/2389-research/wupy/internal/models"
	"github.com/2389-research/wupy/internal/router"
	"github.com/2389-research/wupy/internal/search"
)

// inputMode is the text field currently receiving keys, if any.
type inputMode int

const (
	modeBrowse inputMode = iota
	modeSearch
	modeComment
)

// startedMsg reports the result of loading the feed.
type startedMsg struct {
	err error
}

// intentDoneMsg reports the result of an engagement intent.
type intentDoneMsg struct {
	status string
	err    error
}

// FeedModel is the bubbletea model for the feed client.
type FeedModel struct {
	ctx context.Context
	app *app.App
	now func() time.Time

	snap    app.Snapshot
	results []search.Result
	people  []models.Author
	profile []models.Post
	stats   feed.Stats

	mode          inputMode
	cursor        int
	commentCursor int
	notifCursor   int

	searchInput  textinput.Model
	commentInput textinput.Model
	composer     [2]textinput.Model
	composerIdx  int

	permission chan<- bool
	status     string
	err        error
	width      int
	quitting   bool
}

// NewFeedModel creates the feed client for a.
func NewFeedModel(ctx context.Context, a *app.App) FeedModel {
	searchInput := textinput.New()
	searchInput.Placeholder = "Search posts and people"
	searchInput.Width = 40

	commentInput := textinput.New()
	commentInput.Placeholder = "Write a comment..."
	commentInput.Width = 50

	content := textinput.New()
	content.Placeholder = "What's on your mind?"
	content.Width = 50
	content.CharLimit = 500

	image := textinput.New()
	image.Placeholder = "Image URL (optional)"
	image.Width = 50

	m := FeedModel{
		ctx:          ctx,
		app:          a,
		now:          time.Now,
		searchInput:  searchInput,
		commentInput: commentInput,
		composer:     [2]textinput.Model{content, image},
		width:        80,
	}
	return m.refresh()
}

// Init implements tea.Model. It loads the feed, seeding it on first run.
func (m FeedModel) Init() tea.Cmd {
	a, ctx := m.app, m.ctx
	return func() tea.Msg {
		return startedMsg{err: a.Start(ctx)}
	}
}

// Update implements tea.Model.
func (m FeedModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case startedMsg:
		m.err = msg.err
		return m.refresh(), nil

	case refreshMsg:
		return m.refresh(), nil

	case intentDoneMsg:
		m.status, m.err = msg.status, msg.err
		return m.refresh(), nil

	case permissionRequestMsg:
		m.permission = msg.reply
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	return m, nil
}

func (m FeedModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	// Text inputs keep their letters; the prompt is answered from the feed.
	if m.permission != nil && msg.Type == tea.KeyRunes && m.mode == modeBrowse && !m.snap.ComposerOpen {
		switch msg.String() {
		case "y", "n":
			m.permission <- msg.String() == "y"
			m.permission = nil
			return m, nil
		}
	}

	switch {
	case m.snap.ComposerOpen:
		return m.updateComposer(msg)
	case m.mode == modeComment:
		return m.updateComment(msg)
	case m.mode == modeSearch:
		return m.updateSearch(msg)
	case m.snap.NotificationsOpen:
		if next, cmd, handled := m.updatePanel(msg); handled {
			return next, cmd
		}
	}
	return m.updateBrowse(msg)
}

func (m FeedModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "1", "2", "3", "4", "5":
		return m.selectTab(router.Tabs[int(msg.String()[0]-'1')])
	case "n":
		return m.selectTab(router.TabCreate)
	case "b":
		return m.selectTab(router.TabNotifications)
	case "m":
		m.app.ToggleDrawer()
		return m.refresh(), nil
	case "/":
		if m.snap.Active != router.TabSearch {
			m.app.SelectTab(router.TabSearch)
			m = m.refresh()
		}
		m.mode = modeSearch
		cmd := m.searchInput.Focus()
		return m, cmd
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.commentCursor = 0
		}
		return m, nil
	case "down", "j":
		if m.cursor < len(m.visiblePosts())-1 {
			m.cursor++
			m.commentCursor = 0
		}
		return m, nil
	case "[":
		if m.commentCursor > 0 {
			m.commentCursor--
		}
		return m, nil
	case "]":
		if p, ok := m.selectedPost(); ok && m.commentCursor < len(p.Comments)-1 {
			m.commentCursor++
		}
		return m, nil
	case "l":
		p, ok := m.selectedPost()
		if !ok {
			return m, nil
		}
		return m, m.run(func(ctx context.Context, a *app.App) (string, error) {
			out, err := a.ToggleLike(ctx, p.ID)
			return likeStatus(out.Found, out.Post.LikedByUser(a.User().ID), "post"), err
		})
	case "L":
		p, ok := m.selectedPost()
		if !ok || m.commentCursor >= len(p.Comments) {
			return m, nil
		}
		commentID := p.Comments[m.commentCursor].ID
		return m, m.run(func(ctx context.Context, a *app.App) (string, error) {
			out, err := a.ToggleCommentLike(ctx, p.ID, commentID)
			liked := false
			for _, c := range out.Post.Comments {
				if c.ID == commentID {
					liked = c.LikedByUser(a.User().ID)
				}
			}
			return likeStatus(out.Found, liked, "comment"), err
		})
	case "c":
		if _, ok := m.selectedPost(); !ok {
			return m, nil
		}
		m.mode = modeComment
		m.commentInput.Reset()
		cmd := m.commentInput.Focus()
		return m, cmd
	}
	return m, nil
}

func (m FeedModel) selectTab(tab router.Tab) (tea.Model, tea.Cmd) {
	before := m.snap.Active
	m.app.SelectTab(tab)
	m = m.refresh()
	if m.snap.Active != before {
		m.cursor, m.commentCursor = 0, 0
	}
	if m.snap.ComposerOpen {
		cmd := m.focusComposer(0)
		return m, cmd
	}
	return m, nil
}

func (m FeedModel) updateComposer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.app.CloseComposer()
		m.resetComposer()
		return m.refresh(), nil
	case tea.KeyTab, tea.KeyShiftTab:
		cmd := m.focusComposer(1 - m.composerIdx)
		return m, cmd
	case tea.KeyEnter:
		content := m.composer[0].Value()
		image := m.composer[1].Value()
		if strings.TrimSpace(content) == "" {
			m.err = app.ErrEmptyContent
			return m, nil
		}
		m.resetComposer()
		return m, m.run(func(ctx context.Context, a *app.App) (string, error) {
			post, err := a.CreatePost(ctx, content, image)
			if post.ID == "" {
				return "", err
			}
			return "Post published", err
		})
	}

	var cmd tea.Cmd
	m.composer[m.composerIdx], cmd = m.composer[m.composerIdx].Update(msg)
	return m, cmd
}

func (m *FeedModel) focusComposer(idx int) tea.Cmd {
	m.composer[m.composerIdx].Blur()
	m.composerIdx = idx
	return m.composer[idx].Focus()
}

func (m *FeedModel) resetComposer() {
	for i := range m.composer {
		m.composer[i].Reset()
		m.composer[i].Blur()
	}
	m.composerIdx = 0
}

func (m FeedModel) updateComment(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.mode = modeBrowse
		m.commentInput.Blur()
		return m, nil
	case tea.KeyEnter:
		p, ok := m.selectedPost()
		content := m.commentInput.Value()
		m.mode = modeBrowse
		m.commentInput.Blur()
		m.commentInput.Reset()
		if !ok || strings.TrimSpace(content) == "" {
			return m, nil
		}
		return m, m.run(func(ctx context.Context, a *app.App) (string, error) {
			out, err := a.AddComment(ctx, p.ID, content)
			if !out.Found {
				return "", err
			}
			return "Comment added", err
		})
	}

	var cmd tea.Cmd
	m.commentInput, cmd = m.commentInput.Update(msg)
	return m, cmd
}

func (m FeedModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape, tea.KeyEnter:
		m.mode = modeBrowse
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.cursor, m.commentCursor = 0, 0
	return m.refresh(), cmd
}

// updatePanel handles keys aimed at the open notification panel.
func (m FeedModel) updatePanel(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "esc":
		m.app.SetNotificationsVisible(false)
		return m.refresh(), nil, true
	case "up", "k":
		if m.notifCursor > 0 {
			m.notifCursor--
		}
		return m, nil, true
	case "down", "j":
		if m.notifCursor < len(m.snap.Notifications)-1 {
			m.notifCursor++
		}
		return m, nil, true
	case "enter":
		if m.notifCursor < len(m.snap.Notifications) {
			m.app.MarkNotificationRead(m.snap.Notifications[m.notifCursor].ID)
		}
		return m.refresh(), nil, true
	case "a":
		m.app.MarkAllNotificationsRead()
		return m.refresh(), nil, true
	}
	return m, nil, false
}

// run performs an App intent off the event loop.
func (m FeedModel) run(fn func(context.Context, *app.App) (string, error)) tea.Cmd {
	ctx, a := m.ctx, m.app
	return func() tea.Msg {
		status, err := fn(ctx, a)
		return intentDoneMsg{status: status, err: err}
	}
}

// refresh re-reads App state and clamps the cursors.
func (m FeedModel) refresh() FeedModel {
	m.snap = m.app.Snapshot()
	m.results = m.app.Search(m.searchInput.Value(), search.Options{Comments: true})
	m.people = m.app.SearchAuthors(m.searchInput.Value())
	m.profile, m.stats = m.app.Profile()

	if n := len(m.visiblePosts()); m.cursor >= n {
		m.cursor = max(n-1, 0)
		m.commentCursor = 0
	}
	if p, ok := m.selectedPost(); ok && m.commentCursor >= len(p.Comments) {
		m.commentCursor = max(len(p.Comments)-1, 0)
	}
	if m.snap.ComposerOpen && !m.composer[0].Focused() && !m.composer[1].Focused() {
		m.composer[m.composerIdx].Focus()
	}
	if m.notifCursor >= len(m.snap.Notifications) {
		m.notifCursor = max(len(m.snap.Notifications)-1, 0)
	}
	return m
}

// visiblePosts returns the posts listed by the active view.
func (m FeedModel) visiblePosts() []models.Post {
	switch m.snap.Active {
	case router.TabSearch:
		posts := make([]models.Post, len(m.results))
		for i, r := range m.results {
			posts[i] = r.Post
		}
		return posts
	case router.TabProfile:
		return m.profile
	default:
		return m.snap.Posts
	}
}

func (m FeedModel) selectedPost() (models.Post, bool) {
	posts := m.visiblePosts()
	if m.cursor < 0 || m.cursor >= len(posts) {
		return models.Post{}, false
	}
	return posts[m.cursor], true
}

// Err returns the last error reported by an intent.
func (m FeedModel) Err() error {
	return m.err
}

func likeStatus(found, liked bool, what string) string {
	switch {
	case !found:
		return fmt.Sprintf("That %s no longer exists", what)
	case liked:
		return fmt.Sprintf("Liked %s", what)
	default:
		return fmt.Sprintf("Removed like from %s", what)
	}
}
