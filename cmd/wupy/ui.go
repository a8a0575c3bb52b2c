// ABOUTME: Cobra command launching the interactive feed client.
// ABOUTME: Wires the permission prompt and state updates into the bubbletea program.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/2389-research/wupy/internal/tui"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive feed",
	Long: `Browse the feed, publish posts, like and comment, search, and read
notifications in a full-screen terminal client.`,
	RunE: runUI,
}

func init() {
	rootCmd.AddCommand(uiCmd)
}

func runUI(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	model := tui.NewFeedModel(ctx, globalApp)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	globalApp.SetPrompter(tui.PermissionPrompter(p))
	unsubscribe := tui.Watch(globalApp, p)
	defer unsubscribe()

	result, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	if final, ok := result.(tui.FeedModel); ok && final.Err() != nil {
		globalLogger.Warn("last action failed", "err", final.Err())
	}
	return nil
}
