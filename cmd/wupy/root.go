// ABOUTME: Root Cobra command and global state for the wupy CLI.
// ABOUTME: Sets up lifecycle hooks for config, logging, storage, and the App.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/2389-research/wupy/internal/app"
	"github.com/2389-research/wupy/internal/config"
	"github.com/2389-research/wupy/internal/desktop"
	"github.com/2389-research/wupy/internal/logging"
	"github.com/2389-research/wupy/internal/storage"
)

var globalConfig *config.Config
var globalLogger *log.Logger
var globalStore storage.BlobStore
var globalApp *app.App
var globalLogCloser io.Closer

var rootCmd = &cobra.Command{
	Use:   "wupy",
	Short: "A small social feed for your terminal",
	Long: `
██╗    ██╗██╗   ██╗██████╗ ██╗   ██╗
██║    ██║██║   ██║██╔══██╗╚██╗ ██╔╝
██║ █╗ ██║██║   ██║██████╔╝ ╚████╔╝
██║███╗██║██║   ██║██╔═══╝   ╚██╔╝
╚███╔███╔╝╚██████╔╝██║        ██║
 ╚══╝╚══╝  ╚═════╝ ╚═╝        ╚═╝

Post, like and comment from the terminal, a script, or an agent.
Your feed is kept locally, or in SQLite, Redis or Postgres.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" || cmd.Name() == "setup" {
			return nil
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		globalConfig = cfg

		// The UI owns the terminal, so it logs to a file.
		if cmd.Name() == "ui" {
			path, err := cfg.LogFile()
			if err != nil {
				return fmt.Errorf("failed to resolve log file: %w", err)
			}
			globalLogger, globalLogCloser, err = logging.NewFile(path, cfg.LogLevel())
			if err != nil {
				return err
			}
		} else {
			globalLogger, err = logging.New(os.Stderr, cfg.LogLevel())
			if err != nil {
				return err
			}
		}

		dsn, err := cfg.StorageDSN()
		if err != nil {
			return fmt.Errorf("failed to resolve storage dsn: %w", err)
		}
		dataDir, err := config.DataDir()
		if err != nil {
			return err
		}
		store, err := storage.Open(cmd.Context(), storage.Options{
			Backend: cfg.StorageBackend(),
			DSN:     dsn,
			DataDir: dataDir,
		})
		if err != nil {
			return fmt.Errorf("failed to open %s storage: %w", cfg.StorageBackend(), err)
		}
		globalStore = store

		opts := []app.Option{app.WithLogger(globalLogger)}
		if cfg.DesktopEnabled() {
			opts = append(opts, app.WithDesktop(desktop.Beeep()))
		}
		globalApp = app.New(store, cfg.Author(), opts...)

		// The UI starts the App itself once its permission prompt is wired.
		if cmd.Name() == "ui" {
			return nil
		}
		if err := globalApp.Start(cmd.Context()); err != nil {
			globalLogger.Warn("continuing with unsaved feed", "err", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if globalStore != nil {
			_ = globalStore.Close()
			globalStore = nil
		}
		if globalLogCloser != nil {
			_ = globalLogCloser.Close()
			globalLogCloser = nil
		}
		return nil
	},
}
