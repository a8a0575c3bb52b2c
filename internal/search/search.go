// ABOUTME: Substring search over the post list for the search view.
// ABOUTME: Ranks matching posts by hit count, then recency; also finds matching authors.
package search

import (
	"sort"
	"strings"

	"github.com/2389-research/wupy/internal/models"
)

// Result pairs a post with its relevance score.
type Result struct {
	Post  models.Post
	Score int
}

// Options configures a search.
type Options struct {
	Limit    int  // 0 means 10
	Comments bool // also match comment text
}

// Posts returns posts whose content or author matches query, case-insensitively.
func Posts(posts []models.Post, query string, opts Options) []Result {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var results []Result
	for _, p := range posts {
		score := strings.Count(strings.ToLower(p.Content), q)
		score += strings.Count(strings.ToLower(p.Username), q)
		if opts.Comments {
			for _, c := range p.Comments {
				score += strings.Count(strings.ToLower(c.Content), q)
			}
		}
		if score == 0 {
			continue
		}
		results = append(results, Result{Post: p, Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Post.Timestamp.After(results[j].Post.Timestamp)
	})

	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}
	if limit > len(results) {
		limit = len(results)
	}
	return results[:limit]
}

// Authors returns the distinct post and comment authors whose name matches query.
func Authors(posts []models.Post, query string) []models.Author {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	seen := make(map[string]bool)
	var out []models.Author
	add := func(a models.Author) {
		if seen[a.ID] || !strings.Contains(strings.ToLower(a.Name), q) {
			return
		}
		seen[a.ID] = true
		out = append(out, a)
	}

	for _, p := range posts {
		add(models.Author{ID: p.UserID, Name: p.Username, Avatar: p.UserAvatar})
		for _, c := range p.Comments {
			add(models.Author{ID: c.UserID, Name: c.Username, Avatar: c.UserAvatar})
		}
	}
	return out
}
