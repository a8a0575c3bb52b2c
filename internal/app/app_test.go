// ABOUTME: Tests for the composition root: seeding, intents, persistence, and subscriptions.
// ABOUTME: Uses a file-backed store in a temp dir and a fixed clock.
package app

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/2389-research/wupy/internal/desktop"
	"github.com/2389-research/wupy/internal/feed"
	"github.com/2389-research/wupy/internal/models"
	"github.com/2389-research/wupy/internal/router"
	"github.com/2389-research/wupy/internal/search"
	"github.com/2389-research/wupy/internal/storage"
)

var me = models.Author{ID: "current-user", Name: "Tu Usuario", Avatar: "https://example.com/me.jpg"}

func clock() time.Time {
	return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
}

func newStore(t *testing.T) storage.BlobStore {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	return store
}

func newApp(t *testing.T, store storage.BlobStore, user models.Author, opts ...Option) *App {
	t.Helper()
	opts = append([]Option{WithLogger(log.New(io.Discard)), WithClock(clock)}, opts...)
	a := New(store, user, opts...)
	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	return a
}

func TestStartSeedsEmptyStore(t *testing.T) {
	a := newApp(t, newStore(t), me)
	snap := a.Snapshot()

	if len(snap.Posts) != 2 {
		t.Fatalf("expected 2 seeded posts, got %d", len(snap.Posts))
	}
	if len(snap.Posts[0].Comments) != 1 || len(snap.Posts[1].Comments) != 0 {
		t.Errorf("comment counts = %d, %d; want 1, 0", len(snap.Posts[0].Comments), len(snap.Posts[1].Comments))
	}
	if snap.Active != router.TabHome {
		t.Errorf("Active = %s, want home", snap.Active)
	}
}

func TestStartSeedsOnlyOnce(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	newApp(t, store, me)

	// Simulate the user ending up with an empty feed.
	if err := storage.NewSlot[[]models.Post](store, PostsKey, nil).Write(ctx, []models.Post{}); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	again := newApp(t, store, me)
	if got := len(again.Snapshot().Posts); got != 0 {
		t.Errorf("expected no reseed, got %d posts", got)
	}
}

func TestStartKeepsExistingPosts(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	existing := []models.Post{feed.NewPost("from before", "", me, clock())}
	if err := storage.NewSlot[[]models.Post](store, PostsKey, nil).Write(ctx, existing); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	a := newApp(t, store, me)
	snap := a.Snapshot()
	if len(snap.Posts) != 1 || snap.Posts[0].Content != "from before" {
		t.Errorf("expected existing post only, got %+v", snap.Posts)
	}
	if !storage.NewSlot[bool](store, SeededKey, nil).Read(ctx, false) {
		t.Error("expected seeded flag to be recorded")
	}
}

func TestStartRecoversFromCorruptBlob(t *testing.T) {
	store := newStore(t)
	if err := store.Set(context.Background(), PostsKey, []byte("{{{")); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	a := newApp(t, store, me)
	if got := len(a.Snapshot().Posts); got != 2 {
		t.Errorf("expected seeded feed after corrupt blob, got %d posts", got)
	}
}

func TestStartIsIdempotent(t *testing.T) {
	a := newApp(t, newStore(t), me)
	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("second Start error: %v", err)
	}
	if got := len(a.Snapshot().Posts); got != 2 {
		t.Errorf("expected 2 posts, got %d", got)
	}
}

func TestCreatePostPersistsAndPrepends(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	a := newApp(t, store, me)
	a.SelectTab(router.TabCreate)

	post, err := a.CreatePost(ctx, "  hola mundo  ", " https://example.com/p.jpg ")
	if err != nil {
		t.Fatalf("CreatePost error: %v", err)
	}
	if post.Content != "hola mundo" || post.Image != "https://example.com/p.jpg" {
		t.Errorf("expected trimmed fields, got %+v", post)
	}

	snap := a.Snapshot()
	if snap.Posts[0].ID != post.ID {
		t.Errorf("expected new post first, got %s", snap.Posts[0].ID)
	}
	if snap.ComposerOpen {
		t.Error("expected composer closed after submit")
	}

	reloaded := newApp(t, store, me)
	got := reloaded.Snapshot().Posts
	if len(got) != 3 || got[0].ID != post.ID {
		t.Fatalf("expected persisted post first after reload, got %d posts", len(got))
	}
	if !got[0].Timestamp.Equal(clock()) {
		t.Errorf("timestamp = %v, want %v", got[0].Timestamp, clock())
	}
}

func TestCreatePostRequiresContent(t *testing.T) {
	a := newApp(t, newStore(t), me)
	if _, err := a.CreatePost(context.Background(), "   ", ""); !errors.Is(err, ErrEmptyContent) {
		t.Errorf("error = %v, want ErrEmptyContent", err)
	}
	if got := len(a.Snapshot().Posts); got != 2 {
		t.Errorf("expected no new post, got %d posts", got)
	}
}

func TestLikeScenario(t *testing.T) {
	ctx := context.Background()
	a := newApp(t, newStore(t), me)

	out, err := a.ToggleLike(ctx, "2")
	if err != nil {
		t.Fatalf("ToggleLike error: %v", err)
	}
	if !out.Found || out.Notification == nil {
		t.Fatalf("expected found post and a notification, got %+v", out)
	}

	snap := a.Snapshot()
	if snap.UnreadCount != 1 || len(snap.Notifications) != 1 {
		t.Fatalf("expected exactly one unread notification, got %d", snap.UnreadCount)
	}
	if snap.OwnUnreadCount != 0 {
		t.Errorf("OwnUnreadCount = %d, want 0 for a like on someone else's post", snap.OwnUnreadCount)
	}
	n := snap.Notifications[0]
	if n.UserID != feed.TravelBlogger.ID || n.Type != models.KindLike || n.PostID != "2" || n.Read {
		t.Errorf("unexpected notification %+v", n)
	}

	out, err = a.ToggleLike(ctx, "2")
	if err != nil {
		t.Fatalf("second ToggleLike error: %v", err)
	}
	if out.Notification != nil {
		t.Error("unlike must not raise a notification")
	}
	if out.Post.LikedByUser(me.ID) {
		t.Error("expected current user removed from liker set")
	}
	if out.Post.Likes != len(out.Post.LikedBy) {
		t.Errorf("Likes = %d, len(LikedBy) = %d", out.Post.Likes, len(out.Post.LikedBy))
	}
	if got := a.Snapshot().UnreadCount; got != 0 {
		t.Errorf("UnreadCount = %d after unlike, want prior value 0", got)
	}
}

func TestOwnContentRaisesNoNotification(t *testing.T) {
	ctx := context.Background()
	a := newApp(t, newStore(t), me)

	post, err := a.CreatePost(ctx, "mine", "")
	if err != nil {
		t.Fatalf("CreatePost error: %v", err)
	}
	if _, err := a.ToggleLike(ctx, post.ID); err != nil {
		t.Fatalf("ToggleLike error: %v", err)
	}
	out, err := a.AddComment(ctx, post.ID, "self reply")
	if err != nil {
		t.Fatalf("AddComment error: %v", err)
	}
	if len(out.Post.Comments) != 1 {
		t.Errorf("expected 1 comment, got %d", len(out.Post.Comments))
	}
	if got := len(a.Snapshot().Notifications); got != 0 {
		t.Errorf("expected no notifications, got %d", got)
	}
}

func TestCommentAndCommentLike(t *testing.T) {
	ctx := context.Background()
	a := newApp(t, newStore(t), me)

	out, err := a.AddComment(ctx, "1", "qué bonito")
	if err != nil {
		t.Fatalf("AddComment error: %v", err)
	}
	if out.Notification == nil || out.Notification.Type != models.KindComment {
		t.Errorf("expected comment notification, got %+v", out.Notification)
	}

	out, err = a.ToggleCommentLike(ctx, "1", "c1")
	if err != nil {
		t.Fatalf("ToggleCommentLike error: %v", err)
	}
	if out.Notification == nil || out.Notification.UserID != feed.TravelBlogger.ID {
		t.Errorf("expected comment_like notification to comment author, got %+v", out.Notification)
	}
	if got := a.Snapshot().UnreadCount; got != 2 {
		t.Errorf("UnreadCount = %d, want 2", got)
	}

	out, err = a.ToggleCommentLike(ctx, "1", "c1")
	if err != nil {
		t.Fatalf("comment unlike error: %v", err)
	}
	if out.Notification != nil {
		t.Errorf("comment unlike raised %+v", out.Notification)
	}
	if got := a.Snapshot().UnreadCount; got != 1 {
		t.Errorf("UnreadCount = %d after comment unlike, want 1", got)
	}

	if _, err := a.AddComment(ctx, "1", ""); !errors.Is(err, ErrEmptyContent) {
		t.Errorf("error = %v, want ErrEmptyContent", err)
	}
}

func TestMissingTargetsAreNoops(t *testing.T) {
	ctx := context.Background()
	a := newApp(t, newStore(t), me)

	calls := 0
	a.Subscribe(func(Snapshot) { calls++ })

	for name, fn := range map[string]func() (Outcome, error){
		"like":         func() (Outcome, error) { return a.ToggleLike(ctx, "missing") },
		"comment":      func() (Outcome, error) { return a.AddComment(ctx, "missing", "hi") },
		"comment like": func() (Outcome, error) { return a.ToggleCommentLike(ctx, "1", "missing") },
	} {
		out, err := fn()
		if err != nil || out.Found {
			t.Errorf("%s: got %+v, %v; want silent no-op", name, out, err)
		}
	}
	if a.MarkNotificationRead("missing") {
		t.Error("MarkNotificationRead returned true for missing id")
	}
	if calls != 0 {
		t.Errorf("subscribers called %d times for no-ops", calls)
	}
}

func TestNotificationReadFlags(t *testing.T) {
	ctx := context.Background()
	a := newApp(t, newStore(t), me)
	_, _ = a.ToggleLike(ctx, "1")
	_, _ = a.ToggleLike(ctx, "2")

	snap := a.Snapshot()
	if snap.UnreadCount != 2 {
		t.Fatalf("UnreadCount = %d, want 2", snap.UnreadCount)
	}

	target := snap.Notifications[1].ID
	if !a.MarkNotificationRead(target) {
		t.Fatal("MarkNotificationRead returned false")
	}
	snap = a.Snapshot()
	for _, n := range snap.Notifications {
		if n.Read != (n.ID == target) {
			t.Errorf("notification %s Read = %v", n.ID, n.Read)
		}
	}

	a.MarkAllNotificationsRead()
	if got := a.Snapshot().UnreadCount; got != 0 {
		t.Errorf("UnreadCount = %d, want 0", got)
	}
}

func TestSelectTab(t *testing.T) {
	a := newApp(t, newStore(t), me)

	a.SelectTab(router.TabSearch)
	a.ToggleDrawer()
	a.SelectTab(router.TabCreate)
	a.SelectTab(router.TabNotifications)

	snap := a.Snapshot()
	if snap.Active != router.TabSearch {
		t.Errorf("Active = %s, want search", snap.Active)
	}
	if !snap.ComposerOpen || !snap.NotificationsOpen || !snap.DrawerOpen {
		t.Errorf("expected composer, panel, drawer open: %+v", snap)
	}

	a.SelectTab(router.TabNotifications)
	if a.Snapshot().NotificationsOpen {
		t.Error("expected second notifications selection to close the panel")
	}

	a.CloseComposer()
	a.SelectTab(router.TabProfile)
	snap = a.Snapshot()
	if snap.Active != router.TabProfile || snap.DrawerOpen || snap.ComposerOpen {
		t.Errorf("unexpected state after selecting profile: %+v", snap)
	}

	a.ToggleNotifications()
	a.SetNotificationsVisible(false)
	if a.Snapshot().NotificationsOpen {
		t.Error("expected panel hidden")
	}
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	a := newApp(t, newStore(t), me)

	var got []Snapshot
	unsubscribe := a.Subscribe(func(s Snapshot) { got = append(got, s) })

	_, _ = a.ToggleLike(ctx, "2")
	a.SelectTab(router.TabProfile)

	if len(got) != 2 {
		t.Fatalf("expected 2 notifications to subscriber, got %d", len(got))
	}
	if got[0].UnreadCount != 1 {
		t.Errorf("first snapshot UnreadCount = %d, want 1", got[0].UnreadCount)
	}
	if got[1].Active != router.TabProfile {
		t.Errorf("second snapshot Active = %s", got[1].Active)
	}

	unsubscribe()
	a.SelectTab(router.TabHome)
	if len(got) != 2 {
		t.Errorf("subscriber called after unsubscribe")
	}
}

func TestSubscriberMayCallBack(t *testing.T) {
	a := newApp(t, newStore(t), me)

	done := make(chan Snapshot, 1)
	a.Subscribe(func(Snapshot) {
		select {
		case done <- a.Snapshot():
		default:
		}
	})
	a.ToggleDrawer()

	select {
	case s := <-done:
		if !s.DrawerOpen {
			t.Error("expected drawer open in re-entrant snapshot")
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber deadlocked")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	a := newApp(t, newStore(t), me)

	snap := a.Snapshot()
	snap.Posts[0].LikedBy[0] = "tampered"
	snap.Posts[0].Comments[0].Content = "tampered"

	fresh := a.Snapshot()
	if fresh.Posts[0].LikedBy[0] == "tampered" || fresh.Posts[0].Comments[0].Content == "tampered" {
		t.Error("snapshot shares memory with app state")
	}
}

func TestSearchAndProfile(t *testing.T) {
	ctx := context.Background()
	a := newApp(t, newStore(t), me)
	_, _ = a.CreatePost(ctx, "atardecer en la playa", "")

	results := a.Search("atardecer", search.Options{})
	if len(results) != 2 {
		t.Errorf("expected 2 search results, got %d", len(results))
	}

	people := a.SearchAuthors("TRAVEL")
	if len(people) != 1 || people[0].ID != feed.TravelBlogger.ID {
		t.Errorf("SearchAuthors(TRAVEL) = %+v, want travel_blogger", people)
	}
	if people := a.SearchAuthors("nadie"); len(people) != 0 {
		t.Errorf("expected no authors, got %+v", people)
	}

	posts, stats := a.Profile()
	if len(posts) != 1 || stats.Posts != 1 {
		t.Errorf("expected 1 profile post, got %d (%+v)", len(posts), stats)
	}
}

func TestPermissionRequestedOnceAndPersisted(t *testing.T) {
	store := newStore(t)

	var mu sync.Mutex
	var shown []string
	backend := func(title, body string) error {
		mu.Lock()
		defer mu.Unlock()
		shown = append(shown, title+": "+body)
		return nil
	}

	decided := make(chan struct{})
	prompts := 0
	prompter := func(context.Context) (bool, error) {
		prompts++
		return true, nil
	}

	a := New(store, me,
		WithLogger(log.New(io.Discard)),
		WithClock(clock),
		WithDesktop(backend),
		WithPrompter(prompter),
	)
	a.Subscribe(func(s Snapshot) {
		if s.Permission == desktop.Granted {
			select {
			case <-decided:
			default:
				close(decided)
			}
		}
	})
	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("Start error: %v", err)
	}

	select {
	case <-decided:
	case <-time.After(2 * time.Second):
		t.Fatal("permission was never decided")
	}

	got := storage.NewSlot[string](store, PermissionKey, nil).Read(context.Background(), "")
	if got != "granted" {
		t.Errorf("persisted permission = %q, want granted", got)
	}

	// A second session starts granted and does not prompt again.
	second := newApp(t, store, me, WithDesktop(backend), WithPrompter(prompter))
	if second.Snapshot().Permission != desktop.Granted {
		t.Errorf("Permission = %v, want granted", second.Snapshot().Permission)
	}
	if prompts != 1 {
		t.Errorf("prompted %d times, want 1", prompts)
	}
}

func TestWithoutDesktopIsUnsupported(t *testing.T) {
	a := newApp(t, newStore(t), me)
	if got := a.Snapshot().Permission; got != desktop.Unsupported {
		t.Errorf("Permission = %v, want unsupported", got)
	}
	// Notifications still work in-app.
	if _, err := a.ToggleLike(context.Background(), "2"); err != nil {
		t.Fatalf("ToggleLike error: %v", err)
	}
	if a.Snapshot().UnreadCount != 1 {
		t.Error("expected in-app notification without desktop support")
	}
}

type flakyStore struct {
	storage.BlobStore
	failWrites bool
}

func (f *flakyStore) Set(ctx context.Context, key string, value []byte) error {
	if f.failWrites {
		return errors.New("disk full")
	}
	return f.BlobStore.Set(ctx, key, value)
}

func TestWriteFailureKeepsStateAndReportsError(t *testing.T) {
	store := &flakyStore{BlobStore: newStore(t)}
	a := newApp(t, store, me)
	store.failWrites = true

	post, err := a.CreatePost(context.Background(), "unsaved", "")
	if err == nil {
		t.Fatal("expected persistence error")
	}
	if got := a.Snapshot().Posts[0].ID; got != post.ID {
		t.Errorf("expected in-memory post kept, first post is %s", got)
	}
}
