// ABOUTME: Tests for model helpers: liker-set toggling, cloning, normalization.
// ABOUTME: Verifies the like-count invariant is restored on loaded data.
package models

import (
	"testing"
)

func TestToggleID(t *testing.T) {
	tests := []struct {
		name      string
		ids       []string
		id        string
		want      []string
		wantAdded bool
	}{
		{"add to empty", nil, "a", []string{"a"}, true},
		{"add to existing", []string{"a"}, "b", []string{"a", "b"}, true},
		{"remove", []string{"a", "b"}, "a", []string{"b"}, false},
		{"remove last", []string{"a"}, "a", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, added := ToggleID(tt.ids, tt.id)
			if added != tt.wantAdded {
				t.Errorf("added = %v, want %v", added, tt.wantAdded)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ToggleID(%v, %q) = %v, want %v", tt.ids, tt.id, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ToggleID(%v, %q) = %v, want %v", tt.ids, tt.id, got, tt.want)
				}
			}
		})
	}
}

func TestToggleIDDoesNotMutateInput(t *testing.T) {
	ids := []string{"a", "b"}
	_, _ = ToggleID(ids, "a")
	if ids[0] != "a" || ids[1] != "b" {
		t.Errorf("input mutated: %v", ids)
	}
}

func TestCloneIsDeep(t *testing.T) {
	p := Post{
		ID:      "1",
		LikedBy: []string{"u1"},
		Comments: []Comment{
			{ID: "c1", LikedBy: []string{"u2"}},
		},
	}
	c := p.Clone()
	c.LikedBy[0] = "changed"
	c.Comments[0].LikedBy[0] = "changed"
	c.Comments[0].Content = "changed"

	if p.LikedBy[0] != "u1" {
		t.Error("clone shares post liker set")
	}
	if p.Comments[0].LikedBy[0] != "u2" {
		t.Error("clone shares comment liker set")
	}
	if p.Comments[0].Content != "" {
		t.Error("clone shares comment slice")
	}
}

func TestNormalizePosts(t *testing.T) {
	posts := []Post{
		{
			ID:      "1",
			Likes:   24,
			LikedBy: []string{"u2", "u3", "u2"},
			Comments: []Comment{
				{ID: "c1", Likes: 3, LikedBy: []string{"u1"}},
			},
		},
	}

	got := NormalizePosts(posts)
	if got[0].Likes != 2 || len(got[0].LikedBy) != 2 {
		t.Errorf("post likes = %d, likedBy = %v; want 2 unique likers", got[0].Likes, got[0].LikedBy)
	}
	if got[0].Comments[0].Likes != 1 {
		t.Errorf("comment likes = %d, want 1", got[0].Comments[0].Likes)
	}
	if posts[0].Likes != 24 {
		t.Error("NormalizePosts mutated its input")
	}
}

func TestNormalizePostsNil(t *testing.T) {
	got := NormalizePosts(nil)
	if got == nil || len(got) != 0 {
		t.Errorf("NormalizePosts(nil) = %v, want empty non-nil slice", got)
	}
}

func TestLikedByUser(t *testing.T) {
	p := Post{LikedBy: []string{"u1"}}
	if !p.LikedByUser("u1") {
		t.Error("expected u1 to have liked the post")
	}
	if p.LikedByUser("u2") {
		t.Error("expected u2 not to have liked the post")
	}
}
