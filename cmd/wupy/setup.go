// ABOUTME: Cobra command for interactive identity and storage setup.
// ABOUTME: Launches a bubbletea TUI wizard to collect and validate settings.
package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/2389-research/wupy/internal/config"
	"github.com/2389-research/wupy/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Choose your name and where your feed is stored",
	Long:  "Interactive wizard to configure your display name, avatar, and storage backend.",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	model := tui.NewSetupModel(
		cfg.User.Name,
		cfg.User.Avatar,
		cfg.Storage.Backend,
		cfg.Storage.DSN,
	)

	p := tea.NewProgram(model)
	result, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	final := result.(tui.SetupModel)
	if !final.ShouldSave() {
		fmt.Println("Setup cancelled.")
		return nil
	}

	name, avatar, backend, dsn := final.Result()
	cfg.User.Name = name
	cfg.User.Avatar = avatar
	cfg.Storage.Backend = backend
	cfg.Storage.DSN = dsn

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	configPath, err := config.GetConfigPath()
	if err != nil {
		fmt.Println("Config saved successfully.")
	} else {
		fmt.Printf("Config saved to %s\n", configPath)
	}
	return nil
}
