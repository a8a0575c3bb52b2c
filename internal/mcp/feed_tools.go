// ABOUTME: MCP tool implementations for feed operations.
// ABOUTME: Registers read_feed, create_post, like/comment tools, select_tab, and search_posts.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/wupy/internal/app"
	"github.com/2389-research/wupy/internal/models"
	"github.com/2389-research/wupy/internal/router"
	"github.com/2389-research/wupy/internal/search"
)

const timeLayout = "2006-01-02 15:04:05"

func (s *Server) registerFeedTools() {
	s.mcp.AddTool(&gomcp.Tool{
		Name:        "read_feed",
		Description: "Read the feed, most recent first, with comments.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"limit": {"type": "number", "description": "Maximum number of posts to return (default 10)"},
				"author": {"type": "string", "description": "Only posts by this username"}
			}
		}`),
	}, s.handleReadFeed)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "create_post",
		Description: "Publish a new post as the current user. It appears at the top of the feed.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"content": {"type": "string", "description": "The text of the post.", "minLength": 1},
				"image": {"type": "string", "description": "Optional image URL"}
			},
			"required": ["content"]
		}`),
	}, s.handleCreatePost)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "toggle_like",
		Description: "Like a post, or remove your like if you already liked it.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"post_id": {"type": "string", "description": "ID of the post", "minLength": 1}
			},
			"required": ["post_id"]
		}`),
	}, s.handleToggleLike)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "add_comment",
		Description: "Comment on a post as the current user.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"post_id": {"type": "string", "description": "ID of the post", "minLength": 1},
				"content": {"type": "string", "description": "The comment text", "minLength": 1}
			},
			"required": ["post_id", "content"]
		}`),
	}, s.handleAddComment)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "toggle_comment_like",
		Description: "Like a comment, or remove your like if you already liked it.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"post_id": {"type": "string", "description": "ID of the post holding the comment", "minLength": 1},
				"comment_id": {"type": "string", "description": "ID of the comment", "minLength": 1}
			},
			"required": ["post_id", "comment_id"]
		}`),
	}, s.handleToggleCommentLike)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "select_tab",
		Description: "Navigate the client: home, search, profile, create (opens the composer) or notifications (toggles the panel).",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"tab": {"type": "string", "enum": ["home", "search", "create", "notifications", "profile"]}
			},
			"required": ["tab"]
		}`),
	}, s.handleSelectTab)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "search_posts",
		Description: "Find people and posts whose text or author matches a query, best matches first.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"query": {"type": "string", "description": "Text to look for", "minLength": 1},
				"limit": {"type": "number", "description": "Maximum number of results (default 10)"},
				"include_comments": {"type": "boolean", "description": "Also match comment text"}
			},
			"required": ["query"]
		}`),
	}, s.handleSearchPosts)
}

func (s *Server) handleReadFeed(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Limit  int    `json:"limit"`
		Author string `json:"author"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	if args.Limit <= 0 {
		args.Limit = 10
	}

	var posts []models.Post
	for _, p := range s.app.Snapshot().Posts {
		if args.Author != "" && !strings.EqualFold(p.Username, args.Author) {
			continue
		}
		posts = append(posts, p)
		if len(posts) == args.Limit {
			break
		}
	}

	if len(posts) == 0 {
		return toolText("No posts found."), nil
	}

	var sb strings.Builder
	for _, p := range posts {
		writePost(&sb, p, s.app.User().ID)
	}
	return toolText("%s", sb.String()), nil
}

func (s *Server) handleCreatePost(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Content string `json:"content"`
		Image   string `json:"image"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}

	post, err := s.app.CreatePost(ctx, args.Content, args.Image)
	if errors.Is(err, app.ErrEmptyContent) {
		return toolError("content is required"), nil
	}
	if err != nil {
		return toolText("Post created (ID: %s) but could not be saved: %v", post.ID, err), nil
	}
	return toolText("Post created (ID: %s)", post.ID), nil
}

func (s *Server) handleToggleLike(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		PostID string `json:"post_id"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	if args.PostID == "" {
		return toolError("post_id is required"), nil
	}

	out, err := s.app.ToggleLike(ctx, args.PostID)
	if !out.Found {
		return toolError("post %s not found", args.PostID), nil
	}

	verb := "Unliked"
	if out.Post.LikedByUser(s.app.User().ID) {
		verb = "Liked"
	}
	return engagementResult(fmt.Sprintf("%s post %s (%d likes)", verb, args.PostID, out.Post.Likes), out, err), nil
}

func (s *Server) handleAddComment(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		PostID  string `json:"post_id"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	if args.PostID == "" {
		return toolError("post_id is required"), nil
	}

	out, err := s.app.AddComment(ctx, args.PostID, args.Content)
	if errors.Is(err, app.ErrEmptyContent) {
		return toolError("content is required"), nil
	}
	if !out.Found {
		return toolError("post %s not found", args.PostID), nil
	}

	c := out.Post.Comments[len(out.Post.Comments)-1]
	return engagementResult(fmt.Sprintf("Comment added (ID: %s)", c.ID), out, err), nil
}

func (s *Server) handleToggleCommentLike(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		PostID    string `json:"post_id"`
		CommentID string `json:"comment_id"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	if args.PostID == "" || args.CommentID == "" {
		return toolError("post_id and comment_id are required"), nil
	}

	out, err := s.app.ToggleCommentLike(ctx, args.PostID, args.CommentID)
	if !out.Found {
		return toolError("comment %s on post %s not found", args.CommentID, args.PostID), nil
	}

	likes := 0
	liked := false
	for _, c := range out.Post.Comments {
		if c.ID == args.CommentID {
			likes = c.Likes
			liked = c.LikedByUser(s.app.User().ID)
		}
	}
	verb := "Unliked"
	if liked {
		verb = "Liked"
	}
	return engagementResult(fmt.Sprintf("%s comment %s (%d likes)", verb, args.CommentID, likes), out, err), nil
}

func (s *Server) handleSelectTab(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Tab string `json:"tab"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}

	tab, err := router.ParseTab(args.Tab)
	if err != nil {
		return toolError("%v", err), nil
	}

	s.app.SelectTab(tab)
	snap := s.app.Snapshot()
	return toolText("View: %s (composer open: %t, notifications open: %t)",
		snap.Active, snap.ComposerOpen, snap.NotificationsOpen), nil
}

func (s *Server) handleSearchPosts(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Query           string `json:"query"`
		Limit           int    `json:"limit"`
		IncludeComments bool   `json:"include_comments"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	if strings.TrimSpace(args.Query) == "" {
		return toolError("query is required"), nil
	}

	results := s.app.Search(args.Query, search.Options{Limit: args.Limit, Comments: args.IncludeComments})
	people := s.app.SearchAuthors(args.Query)
	if len(results) == 0 && len(people) == 0 {
		return toolText("No posts match %q.", args.Query), nil
	}

	var sb strings.Builder
	if len(people) > 0 {
		sb.WriteString("People: " + handles(people) + "\n")
	}
	for _, r := range results {
		sb.WriteString(fmt.Sprintf("(score %d) ", r.Score))
		writePost(&sb, r.Post, s.app.User().ID)
	}
	return toolText("%s", sb.String()), nil
}

func handles(people []models.Author) string {
	names := make([]string, len(people))
	for i, p := range people {
		names[i] = "@" + p.Name
	}
	return strings.Join(names, ", ")
}

// engagementResult reports a committed change, noting any raised notification
// and a failed save.
func engagementResult(msg string, out app.Outcome, saveErr error) *gomcp.CallToolResult {
	if out.Notification != nil {
		msg += fmt.Sprintf("; notified @%s", recipientName(out))
	}
	if saveErr != nil {
		msg += fmt.Sprintf("; could not be saved: %v", saveErr)
	}
	return toolText("%s", msg)
}

func recipientName(out app.Outcome) string {
	n := out.Notification
	if n.UserID == out.Post.UserID {
		return out.Post.Username
	}
	for _, c := range out.Post.Comments {
		if c.UserID == n.UserID {
			return c.Username
		}
	}
	return n.UserID
}

func writePost(sb *strings.Builder, p models.Post, userID string) {
	heart := "♡"
	if p.LikedByUser(userID) {
		heart = "♥"
	}
	sb.WriteString(fmt.Sprintf("---\n[%s] @%s %s  %s %d  comments %d  shares %d\n%s\n",
		p.ID, p.Username, p.Timestamp.Format(timeLayout), heart, p.Likes, len(p.Comments), p.Shares, p.Content))
	if p.Image != "" {
		sb.WriteString(fmt.Sprintf("image: %s\n", p.Image))
	}
	for _, c := range p.Comments {
		sb.WriteString(fmt.Sprintf("  [%s] @%s: %s (%d likes)\n", c.ID, c.Username, c.Content, c.Likes))
	}
}
