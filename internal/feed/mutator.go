// ABOUTME: Pure post-list transformations for creating posts, liking, and commenting.
// ABOUTME: Each mutation returns a new list plus an optional notification intent.
package feed

import (
	"time"

	"github.com/google/uuid"

	"github.com/2389-research/wupy/internal/models"
)

// Notification messages attached to intents.
const (
	MessageLike        = "liked your post"
	MessageComment     = "commented on your post"
	MessageCommentLike = "liked your comment"
)

// Intent describes a notification the caller should forward to the notification manager.
type Intent struct {
	Kind      models.NotificationKind
	Recipient string // user ID of the content owner
	PostID    string
	Message   string
	From      models.Author
	// Retract marks an earlier notification of this kind as read instead of raising one.
	Retract bool
}

// Notification converts the intent into an unsaved notification record.
func (i Intent) Notification() models.Notification {
	return models.Notification{
		UserID:         i.Recipient,
		Type:           i.Kind,
		Message:        i.Message,
		PostID:         i.PostID,
		FromUserID:     i.From.ID,
		FromUsername:   i.From.Name,
		FromUserAvatar: i.From.Avatar,
	}
}

// NewID returns a fresh time-ordered identifier.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// NewPost builds a post by author with zeroed engagement.
func NewPost(content, image string, author models.Author, now time.Time) models.Post {
	return models.Post{
		ID:         NewID(),
		UserID:     author.ID,
		Username:   author.Name,
		UserAvatar: author.Avatar,
		Content:    content,
		Image:      image,
		Timestamp:  now,
		LikedBy:    []string{},
		Comments:   []models.Comment{},
	}
}

// Prepend returns a new list with post first.
func Prepend(posts []models.Post, post models.Post) []models.Post {
	out := make([]models.Post, 0, len(posts)+1)
	out = append(out, post)
	return append(out, posts...)
}

// ToggleLike adds actor to the post's liker set, or removes them if present.
// An intent is returned only for another user's post; unliking yields a retraction.
func ToggleLike(posts []models.Post, postID string, actor models.Author) ([]models.Post, *Intent) {
	idx := indexOf(posts, postID)
	if idx < 0 {
		return posts, nil
	}

	post := posts[idx].Clone()
	likedBy, added := models.ToggleID(post.LikedBy, actor.ID)
	post.LikedBy = likedBy
	post.Likes = len(likedBy)

	var intent *Intent
	if post.UserID != actor.ID {
		intent = &Intent{
			Kind:      models.KindLike,
			Recipient: post.UserID,
			PostID:    post.ID,
			Message:   MessageLike,
			From:      actor,
			Retract:   !added,
		}
	}
	return replaceAt(posts, idx, post), intent
}

// AddComment appends a comment by author to the post.
// An intent is returned when the post belongs to another user.
func AddComment(posts []models.Post, postID, content string, author models.Author, now time.Time) ([]models.Post, *Intent) {
	idx := indexOf(posts, postID)
	if idx < 0 {
		return posts, nil
	}

	post := posts[idx].Clone()
	post.Comments = append(post.Comments, models.Comment{
		ID:         NewID(),
		UserID:     author.ID,
		Username:   author.Name,
		UserAvatar: author.Avatar,
		Content:    content,
		Timestamp:  now,
		LikedBy:    []string{},
	})

	var intent *Intent
	if post.UserID != author.ID {
		intent = &Intent{
			Kind:      models.KindComment,
			Recipient: post.UserID,
			PostID:    post.ID,
			Message:   MessageComment,
			From:      author,
		}
	}
	return replaceAt(posts, idx, post), intent
}

// ToggleCommentLike toggles actor in a comment's liker set.
// An intent is returned only for another user's comment; unliking yields a retraction.
func ToggleCommentLike(posts []models.Post, postID, commentID string, actor models.Author) ([]models.Post, *Intent) {
	idx := indexOf(posts, postID)
	if idx < 0 {
		return posts, nil
	}
	cidx := -1
	for i, c := range posts[idx].Comments {
		if c.ID == commentID {
			cidx = i
			break
		}
	}
	if cidx < 0 {
		return posts, nil
	}

	post := posts[idx].Clone()
	comment := post.Comments[cidx]
	likedBy, added := models.ToggleID(comment.LikedBy, actor.ID)
	comment.LikedBy = likedBy
	comment.Likes = len(likedBy)
	post.Comments[cidx] = comment

	var intent *Intent
	if comment.UserID != actor.ID {
		intent = &Intent{
			Kind:      models.KindCommentLike,
			Recipient: comment.UserID,
			PostID:    post.ID,
			Message:   MessageCommentLike,
			From:      actor,
			Retract:   !added,
		}
	}
	return replaceAt(posts, idx, post), intent
}

// Find returns the post with the given ID.
func Find(posts []models.Post, postID string) (models.Post, bool) {
	idx := indexOf(posts, postID)
	if idx < 0 {
		return models.Post{}, false
	}
	return posts[idx], true
}

// ByAuthor returns the posts written by userID, preserving feed order.
func ByAuthor(posts []models.Post, userID string) []models.Post {
	var out []models.Post
	for _, p := range posts {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out
}

// Stats summarizes engagement on a set of posts.
type Stats struct {
	Posts    int
	Likes    int
	Comments int
	Shares   int
}

// Summarize totals the engagement of posts.
func Summarize(posts []models.Post) Stats {
	var s Stats
	for _, p := range posts {
		s.Posts++
		s.Likes += p.Likes
		s.Comments += len(p.Comments)
		s.Shares += p.Shares
	}
	return s
}

func indexOf(posts []models.Post, postID string) int {
	for i, p := range posts {
		if p.ID == postID {
			return i
		}
	}
	return -1
}

func replaceAt(posts []models.Post, idx int, post models.Post) []models.Post {
	out := make([]models.Post, len(posts))
	copy(out, posts)
	out[idx] = post
	return out
}
