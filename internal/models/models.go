// ABOUTME: Core data models for feed posts, comments, and notifications.
// ABOUTME: Provides JSON layouts for the persisted post list and liker-set helpers.
package models

import (
	"time"
)

// Author identifies the user performing an action or owning content.
type Author struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Avatar string `json:"avatar" yaml:"avatar"`
}

// Comment is a reply attached to a post.
type Comment struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Username   string    `json:"username"`
	UserAvatar string    `json:"userAvatar"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
	Likes      int       `json:"likes"`
	LikedBy    []string  `json:"likedBy"`
}

// Post is a feed item with its engagement data.
type Post struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Username   string    `json:"username"`
	UserAvatar string    `json:"userAvatar"`
	Content    string    `json:"content"`
	Image      string    `json:"image,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	Likes      int       `json:"likes"`
	LikedBy    []string  `json:"likedBy"`
	Comments   []Comment `json:"comments"`
	Shares     int       `json:"shares"`
}

// LikedByUser reports whether userID is in the post's liker set.
func (p Post) LikedByUser(userID string) bool {
	return containsID(p.LikedBy, userID)
}

// LikedByUser reports whether userID is in the comment's liker set.
func (c Comment) LikedByUser(userID string) bool {
	return containsID(c.LikedBy, userID)
}

// Clone returns a deep copy of the post.
func (p Post) Clone() Post {
	out := p
	out.LikedBy = append([]string{}, p.LikedBy...)
	out.Comments = make([]Comment, len(p.Comments))
	for i, c := range p.Comments {
		c.LikedBy = append([]string{}, c.LikedBy...)
		out.Comments[i] = c
	}
	return out
}

// NotificationKind enumerates the reasons a notification is raised.
type NotificationKind string

const (
	KindLike        NotificationKind = "like"
	KindComment     NotificationKind = "comment"
	KindCommentLike NotificationKind = "comment_like"
)

// Notification is an in-app alert about activity on a user's content.
type Notification struct {
	ID             string           `json:"id"`
	UserID         string           `json:"userId"` // recipient
	Type           NotificationKind `json:"type"`
	Message        string           `json:"message"`
	PostID         string           `json:"postId"`
	FromUserID     string           `json:"fromUserId"`
	FromUsername   string           `json:"fromUsername"`
	FromUserAvatar string           `json:"fromUserAvatar"`
	Timestamp      time.Time        `json:"timestamp"`
	Read           bool             `json:"read"`
}

// ToggleID returns a copy of ids with id removed if present, or appended if absent.
func ToggleID(ids []string, id string) (out []string, added bool) {
	out = make([]string, 0, len(ids)+1)
	for _, existing := range ids {
		if existing == id {
			continue
		}
		out = append(out, existing)
	}
	if len(out) == len(ids) {
		out = append(out, id)
		return out, true
	}
	return out, false
}

// NormalizePosts repairs loaded posts so every liker set is unique and every
// like count matches its liker set.
func NormalizePosts(posts []Post) []Post {
	if posts == nil {
		return []Post{}
	}
	out := make([]Post, len(posts))
	for i, p := range posts {
		p = p.Clone()
		p.LikedBy = uniqueIDs(p.LikedBy)
		p.Likes = len(p.LikedBy)
		for j := range p.Comments {
			p.Comments[j].LikedBy = uniqueIDs(p.Comments[j].LikedBy)
			p.Comments[j].Likes = len(p.Comments[j].LikedBy)
		}
		out[i] = p
	}
	return out
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func containsID(ids []string, id string) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}
