// ABOUTME: CLI commands for feed operations.
// ABOUTME: Provides feed, post, like, comment, comment-like, search, and profile subcommands.
package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/2389-research/wupy/internal/app"
	"github.com/2389-research/wupy/internal/models"
	"github.com/2389-research/wupy/internal/search"
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Read the feed",
	Long:  "List posts, most recent first, with their comments.",
	Args:  cobra.NoArgs,
	RunE:  runFeed,
}

var postCmd = &cobra.Command{
	Use:   "post <content>",
	Short: "Publish a post",
	Long:  "Create a new post at the top of the feed, optionally with an image URL.",
	Args:  cobra.ExactArgs(1),
	RunE:  runPost,
}

var likeCmd = &cobra.Command{
	Use:   "like <post-id>",
	Short: "Like or unlike a post",
	Args:  cobra.ExactArgs(1),
	RunE:  runLike,
}

var commentCmd = &cobra.Command{
	Use:   "comment <post-id> <content>",
	Short: "Comment on a post",
	Args:  cobra.ExactArgs(2),
	RunE:  runComment,
}

var commentLikeCmd = &cobra.Command{
	Use:   "comment-like <post-id> <comment-id>",
	Short: "Like or unlike a comment",
	Args:  cobra.ExactArgs(2),
	RunE:  runCommentLike,
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search people and posts",
	Long:  "Find people whose name matches the query, then posts whose text or author matches it, best matches first.",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show your posts and totals",
	Args:  cobra.NoArgs,
	RunE:  runProfile,
}

// Flags
var (
	feedLimit      int
	feedAuthor     string
	postImage      string
	searchLimit    int
	searchComments bool
)

func init() {
	rootCmd.AddCommand(feedCmd, postCmd, likeCmd, commentCmd, commentLikeCmd, searchCmd, profileCmd)

	feedCmd.Flags().IntVar(&feedLimit, "limit", 10, "Maximum number of posts to show")
	feedCmd.Flags().StringVar(&feedAuthor, "author", "", "Only posts by this username")

	postCmd.Flags().StringVar(&postImage, "image", "", "Image URL to attach")

	searchCmd.Flags().IntVar(&searchLimit, "limit", 10, "Maximum number of results")
	searchCmd.Flags().BoolVar(&searchComments, "comments", false, "Also match comment text")
}

func runFeed(cmd *cobra.Command, args []string) error {
	var shown int
	for _, post := range globalApp.Snapshot().Posts {
		if feedAuthor != "" && !strings.EqualFold(post.Username, feedAuthor) {
			continue
		}
		printPost(post)
		shown++
		if shown == feedLimit {
			break
		}
	}
	if shown == 0 {
		fmt.Println("No posts found.")
	}
	return nil
}

func runPost(cmd *cobra.Command, args []string) error {
	post, err := globalApp.CreatePost(cmd.Context(), args[0], postImage)
	if errors.Is(err, app.ErrEmptyContent) {
		return err
	}
	if err != nil {
		return fmt.Errorf("post %s created but not saved: %w", post.ID, err)
	}
	fmt.Printf("Post created (ID: %s)\n", post.ID)
	return nil
}

func runLike(cmd *cobra.Command, args []string) error {
	out, err := globalApp.ToggleLike(cmd.Context(), args[0])
	if !out.Found {
		return fmt.Errorf("post %s not found", args[0])
	}
	if err != nil {
		return err
	}

	if out.Post.LikedByUser(globalApp.User().ID) {
		fmt.Printf("Liked post %s (%d likes)\n", args[0], out.Post.Likes)
	} else {
		fmt.Printf("Unliked post %s (%d likes)\n", args[0], out.Post.Likes)
	}
	return nil
}

func runComment(cmd *cobra.Command, args []string) error {
	out, err := globalApp.AddComment(cmd.Context(), args[0], args[1])
	if errors.Is(err, app.ErrEmptyContent) {
		return err
	}
	if !out.Found {
		return fmt.Errorf("post %s not found", args[0])
	}
	if err != nil {
		return err
	}
	fmt.Printf("Comment added (ID: %s)\n", out.Post.Comments[len(out.Post.Comments)-1].ID)
	return nil
}

func runCommentLike(cmd *cobra.Command, args []string) error {
	postID, commentID := args[0], args[1]
	out, err := globalApp.ToggleCommentLike(cmd.Context(), postID, commentID)
	if !out.Found {
		return fmt.Errorf("comment %s on post %s not found", commentID, postID)
	}
	if err != nil {
		return err
	}

	for _, c := range out.Post.Comments {
		if c.ID != commentID {
			continue
		}
		verb := "Unliked"
		if c.LikedByUser(globalApp.User().ID) {
			verb = "Liked"
		}
		fmt.Printf("%s comment %s (%d likes)\n", verb, commentID, c.Likes)
	}
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	results := globalApp.Search(args[0], search.Options{Limit: searchLimit, Comments: searchComments})
	people := globalApp.SearchAuthors(args[0])
	if len(results) == 0 && len(people) == 0 {
		fmt.Printf("No posts match %q.\n", args[0])
		return nil
	}
	for _, p := range people {
		fmt.Printf("@%s (%s)\n", p.Name, p.ID)
	}
	if len(people) > 0 {
		fmt.Println()
	}
	for _, r := range results {
		printPost(r.Post)
	}
	return nil
}

func runProfile(cmd *cobra.Command, args []string) error {
	user := globalApp.User()
	posts, stats := globalApp.Profile()

	fmt.Printf("@%s (%s)\n", user.Name, user.ID)
	fmt.Printf("%d posts, %d likes, %d comments, %d shares\n\n", stats.Posts, stats.Likes, stats.Comments, stats.Shares)
	for _, post := range posts {
		printPost(post)
	}
	return nil
}

func printPost(post models.Post) {
	fmt.Printf("--- [%s] @%s [%s]\n", post.ID, post.Username, post.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Printf("%s\n", post.Content)
	if post.Image != "" {
		fmt.Printf("image: %s\n", post.Image)
	}
	fmt.Printf("♥ %d  comments %d  shares %d\n", post.Likes, len(post.Comments), post.Shares)
	for _, c := range post.Comments {
		fmt.Printf("  [%s] @%s: %s (♥ %d)\n", c.ID, c.Username, c.Content, c.Likes)
	}
	fmt.Println()
}
