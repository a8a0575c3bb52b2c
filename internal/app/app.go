// ABOUTME: Composition root: the single state container behind every view.
// ABOUTME: Routes named intents to the feed mutators and notification manager, persists, and publishes.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/2389-research/wupy/internal/desktop"
	"github.com/2389-research/wupy/internal/feed"
	"github.com/2389-research/wupy/internal/models"
	"github.com/2389-research/wupy/internal/notify"
	"github.com/2389-research/wupy/internal/router"
	"github.com/2389-research/wupy/internal/search"
	"github.com/2389-research/wupy/internal/storage"
)

// Storage keys.
const (
	PostsKey      = "wupy-posts"
	SeededKey     = "wupy-seeded"
	PermissionKey = "wupy-notification-permission"
)

// ErrEmptyContent is returned when a post or comment has no text.
var ErrEmptyContent = errors.New("content is required")

// Snapshot is a copy of the application state at one point in time.
type Snapshot struct {
	User              models.Author
	Posts             []models.Post
	Active            router.Tab
	ComposerOpen      bool
	DrawerOpen        bool
	NotificationsOpen bool
	Notifications     []models.Notification
	UnreadCount       int
	OwnUnreadCount    int // unread notifications addressed to User
	Permission        desktop.Permission
}

// Outcome describes the effect of an engagement intent.
type Outcome struct {
	Found        bool                 // false when the target did not exist
	Post         models.Post          // the post after the change
	Notification *models.Notification // raised for another user's content, if any
}

type subscriber struct {
	id int
	fn func(Snapshot)
}

// App owns the post list, navigation state, and session notifications.
// All methods are safe for concurrent use.
type App struct {
	mu sync.Mutex

	user   models.Author
	posts  []models.Post
	router *router.Router
	notes  *notify.Manager

	postsSlot  *storage.Slot[[]models.Post]
	seededSlot *storage.Slot[bool]
	permSlot   *storage.Slot[string]

	desktop  *desktop.Capability
	backend  desktop.Backend
	prompter desktop.Prompter

	subs    []subscriber
	nextSub int
	started bool

	logger *log.Logger
	now    func() time.Time
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}

// WithDesktop enables desktop notifications through backend.
func WithDesktop(backend desktop.Backend) Option {
	return func(a *App) {
		a.backend = backend
	}
}

// WithPrompter sets how the permission request asks the user.
func WithPrompter(p desktop.Prompter) Option {
	return func(a *App) {
		a.prompter = p
	}
}

// lazyDesktop lets the notification manager exist before Start builds the capability.
type lazyDesktop struct {
	app *App
}

func (d lazyDesktop) Show(title, body string) bool {
	if d.app.desktop == nil {
		return false
	}
	return d.app.desktop.Show(title, body)
}

// New creates an App persisting to store and acting as user. Call Start before use.
func New(store storage.BlobStore, user models.Author, opts ...Option) *App {
	a := &App{
		user:   user,
		posts:  []models.Post{},
		router: router.New(),
		logger: log.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}

	a.notes = notify.NewManager(lazyDesktop{app: a}, a.now)
	a.postsSlot = storage.NewSlot[[]models.Post](store, PostsKey, a.logger)
	a.seededSlot = storage.NewSlot[bool](store, SeededKey, a.logger)
	a.permSlot = storage.NewSlot[string](store, PermissionKey, a.logger)
	return a
}

// SetPrompter replaces the permission prompter. It has no effect after Start.
func (a *App) SetPrompter(p desktop.Prompter) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.prompter = p
}

// Start loads the persisted feed, seeds example posts on the very first run,
// and asks for desktop notification permission if it was never decided.
// Calling Start again is a no-op.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	if a.started {
		a.mu.Unlock()
		return nil
	}
	a.started = true

	initial := desktop.Unsupported
	if a.backend != nil {
		initial = desktop.ParsePermission(a.permSlot.Read(ctx, desktop.Default.String()))
	}
	a.desktop = desktop.New(initial,
		desktop.WithBackend(a.backend),
		desktop.WithPrompter(a.prompter),
		desktop.WithDecisionHook(a.savePermission),
		desktop.WithLogger(a.logger),
	)

	posts := models.NormalizePosts(a.postsSlot.Read(ctx, []models.Post{}))
	seeded := a.seededSlot.Read(ctx, false)

	var err error
	switch {
	case !seeded && len(posts) == 0:
		posts = feed.Seed(a.now())
		a.logger.Info("seeding example feed", "posts", len(posts))
		if err = a.postsSlot.Write(ctx, posts); err == nil {
			err = a.seededSlot.Write(ctx, true)
		}
	case !seeded:
		err = a.seededSlot.Write(ctx, true)
	}
	a.posts = posts
	a.unlockAndPublish()

	a.desktop.RequestPermission(ctx)

	if err != nil {
		a.logger.Error("failed to persist initial feed", "err", err)
		return fmt.Errorf("failed to persist initial feed: %w", err)
	}
	return nil
}

func (a *App) savePermission(p desktop.Permission) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a.mu.Lock()
	if err := a.permSlot.Write(ctx, p.String()); err != nil {
		a.logger.Warn("failed to persist notification permission", "err", err)
	}
	a.unlockAndPublish()
}

// User returns the acting user.
func (a *App) User() models.Author {
	return a.user
}

// CreatePost prepends a new post by the current user and closes the composer.
func (a *App) CreatePost(ctx context.Context, content, image string) (models.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Post{}, ErrEmptyContent
	}

	a.mu.Lock()
	post := feed.NewPost(content, strings.TrimSpace(image), a.user, a.now())
	a.posts = feed.Prepend(a.posts, post)
	a.router.CloseComposer()
	err := a.persistLocked(ctx)
	a.unlockAndPublish()

	a.logger.Info("post created", "id", post.ID)
	return post.Clone(), err
}

// ToggleLike likes or unlikes a post as the current user.
func (a *App) ToggleLike(ctx context.Context, postID string) (Outcome, error) {
	return a.engage(ctx, postID, func(posts []models.Post) ([]models.Post, *feed.Intent) {
		return feed.ToggleLike(posts, postID, a.user)
	})
}

// AddComment appends a comment by the current user.
func (a *App) AddComment(ctx context.Context, postID, content string) (Outcome, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Outcome{}, ErrEmptyContent
	}
	return a.engage(ctx, postID, func(posts []models.Post) ([]models.Post, *feed.Intent) {
		return feed.AddComment(posts, postID, content, a.user, a.now())
	})
}

// ToggleCommentLike likes or unlikes a comment as the current user.
func (a *App) ToggleCommentLike(ctx context.Context, postID, commentID string) (Outcome, error) {
	return a.engage(ctx, postID, func(posts []models.Post) ([]models.Post, *feed.Intent) {
		return feed.ToggleCommentLike(posts, postID, commentID, a.user)
	})
}

func (a *App) engage(ctx context.Context, postID string, mutate func([]models.Post) ([]models.Post, *feed.Intent)) (Outcome, error) {
	a.mu.Lock()
	next, intent := mutate(a.posts)
	// Mutators hand back their input unchanged when the target is missing.
	if sameList(next, a.posts) {
		a.mu.Unlock()
		a.logger.Debug("engagement target not found", "post", postID)
		return Outcome{}, nil
	}
	a.posts = next

	out := Outcome{Found: true}
	if p, ok := feed.Find(next, postID); ok {
		out.Post = p.Clone()
	}
	switch {
	case intent == nil:
	case intent.Retract:
		if a.notes.MarkMatchingRead(intent.Kind, intent.PostID, intent.From.ID) {
			a.logger.Debug("notification retracted", "post", postID, "kind", intent.Kind)
		}
	default:
		n := a.notes.Add(intent.Notification())
		out.Notification = &n
	}
	err := a.persistLocked(ctx)
	a.unlockAndPublish()
	return out, err
}

// SelectTab applies a navigation selection.
func (a *App) SelectTab(tab router.Tab) {
	a.mu.Lock()
	switch a.router.Select(tab) {
	case router.EffectNone:
		a.mu.Unlock()
		return
	case router.EffectToggleNotifications:
		a.notes.ToggleVisibility()
	}
	a.unlockAndPublish()
}

// ToggleDrawer opens or closes the navigation drawer.
func (a *App) ToggleDrawer() {
	a.mu.Lock()
	a.router.ToggleDrawer()
	a.unlockAndPublish()
}

// CloseComposer hides the post composer without creating a post.
func (a *App) CloseComposer() {
	a.mu.Lock()
	a.router.CloseComposer()
	a.unlockAndPublish()
}

// ToggleNotifications flips the notification panel.
func (a *App) ToggleNotifications() {
	a.mu.Lock()
	a.notes.ToggleVisibility()
	a.unlockAndPublish()
}

// SetNotificationsVisible shows or hides the notification panel.
func (a *App) SetNotificationsVisible(visible bool) {
	a.mu.Lock()
	a.notes.SetVisibility(visible)
	a.unlockAndPublish()
}

// MarkNotificationRead marks one notification read. Unknown IDs are ignored.
func (a *App) MarkNotificationRead(id string) bool {
	a.mu.Lock()
	if !a.notes.MarkAsRead(id) {
		a.mu.Unlock()
		return false
	}
	a.unlockAndPublish()
	return true
}

// MarkAllNotificationsRead marks every notification read.
func (a *App) MarkAllNotificationsRead() {
	a.mu.Lock()
	a.notes.MarkAllAsRead()
	a.unlockAndPublish()
}

// Search finds posts matching query.
func (a *App) Search(query string, opts search.Options) []search.Result {
	a.mu.Lock()
	defer a.mu.Unlock()
	results := search.Posts(a.posts, query, opts)
	for i := range results {
		results[i].Post = results[i].Post.Clone()
	}
	return results
}

// SearchAuthors returns the post and comment authors whose name matches query.
func (a *App) SearchAuthors(query string) []models.Author {
	a.mu.Lock()
	defer a.mu.Unlock()
	return search.Authors(a.posts, query)
}

// Profile returns the current user's posts and their engagement totals.
func (a *App) Profile() ([]models.Post, feed.Stats) {
	a.mu.Lock()
	defer a.mu.Unlock()
	mine := feed.ByAuthor(a.posts, a.user.ID)
	out := make([]models.Post, len(mine))
	for i, p := range mine {
		out[i] = p.Clone()
	}
	return out, feed.Summarize(mine)
}

// Snapshot returns a copy of the current state.
func (a *App) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

// Subscribe registers fn to run after every committed change.
// fn runs outside the App lock and may call back into the App.
func (a *App) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.nextSub++
	id := a.nextSub
	a.subs = append(a.subs, subscriber{id: id, fn: fn})

	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		for i, s := range a.subs {
			if s.id == id {
				a.subs = append(a.subs[:i:i], a.subs[i+1:]...)
				return
			}
		}
	}
}

func (a *App) persistLocked(ctx context.Context) error {
	if err := a.postsSlot.Write(ctx, a.posts); err != nil {
		a.logger.Error("failed to persist posts", "err", err)
		return fmt.Errorf("failed to persist posts: %w", err)
	}
	return nil
}

func (a *App) snapshotLocked() Snapshot {
	posts := make([]models.Post, len(a.posts))
	for i, p := range a.posts {
		posts[i] = p.Clone()
	}
	perm := desktop.Unsupported
	if a.desktop != nil {
		perm = a.desktop.Permission()
	}
	return Snapshot{
		User:              a.user,
		Posts:             posts,
		Active:            a.router.Active(),
		ComposerOpen:      a.router.ComposerOpen(),
		DrawerOpen:        a.router.DrawerOpen(),
		NotificationsOpen: a.notes.Visible(),
		Notifications:     a.notes.Notifications(),
		UnreadCount:       a.notes.UnreadCount(),
		OwnUnreadCount:    a.notes.UnreadCountFor(a.user.ID),
		Permission:        perm,
	}
}

// unlockAndPublish releases the lock, then hands the committed state to subscribers.
func (a *App) unlockAndPublish() {
	snap := a.snapshotLocked()
	subs := append([]subscriber{}, a.subs...)
	a.mu.Unlock()

	for _, s := range subs {
		s.fn(snap)
	}
}

func sameList(a, b []models.Post) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}
