package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/codebooklabs/codebook/pkg/codebook"
	"github.com/codebooklabs/codebook/pkg/config"
	"github.com/codebooklabs/codebook/pkg/ignore"
	"github.com/codebooklabs/codebook/pkg/logger"
	"github.com/codebooklabs/codebook/pkg/presenter"
)

// WatchConfig holds configuration for the watch command
type WatchConfig struct {
	DebounceTime int
	Quiet        bool
}

// NewWatchConfig creates a new WatchConfig with default values
func NewWatchConfig() *WatchConfig {
	return &WatchConfig{
		DebounceTime: 2000,
		Quiet:        false,
	}
}

// Validate validates the WatchConfig and returns an error if invalid
func (c *WatchConfig) Validate() error {
	if c.DebounceTime < 0 {
		return errors.Errorf("debounce time cannot be negative: %d", c.DebounceTime)
	}
	return nil
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate the codebook whenever the repository changes",
	Long: `Continuously monitors the repository and regenerates the codebook
snapshot after file changes settle. Changes under ignored directories and
to the codebook's own artifacts are not treated as triggers.

Each regeneration bumps the patch version, so long watch sessions on a
churning repository produce a monotonically increasing version history.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		watchConfig := getWatchConfigFromFlags(cmd)
		presenter.SetQuiet(watchConfig.Quiet)

		if err := watchConfig.Validate(); err != nil {
			presenter.Error(err, "Invalid configuration")
			os.Exit(1)
		}

		root, err := resolveRepoRoot(cmd)
		if err != nil {
			presenter.Error(err, "Failed to resolve repository root")
			os.Exit(1)
		}

		runWatchMode(ctx, root, watchConfig)
	},
}

func init() {
	defaults := NewWatchConfig()
	watchCmd.Flags().IntP("debounce", "d", defaults.DebounceTime, "Debounce time in milliseconds before regenerating")
	watchCmd.Flags().BoolP("quiet", "q", defaults.Quiet, "Suppress per-change output")
}

// getWatchConfigFromFlags extracts watch configuration from command flags
func getWatchConfigFromFlags(cmd *cobra.Command) *WatchConfig {
	watchConfig := NewWatchConfig()

	if debounceTime, err := cmd.Flags().GetInt("debounce"); err == nil {
		watchConfig.DebounceTime = debounceTime
	}
	if quiet, err := cmd.Flags().GetBool("quiet"); err == nil {
		watchConfig.Quiet = quiet
	}

	return watchConfig
}

func runWatchMode(ctx context.Context, root string, watchConfig *WatchConfig) {
	cfg, err := config.Load(config.Path(root))
	if err != nil {
		presenter.Error(err, "Failed to load codebook configuration")
		os.Exit(1)
	}

	matcher, err := ignore.NewMatcher(cfg.IgnoreGlobsExtra)
	if err != nil {
		presenter.Error(err, "Failed to compile ignore patterns")
		os.Exit(1)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		presenter.Error(err, "Failed to create file watcher")
		logger.G(ctx).WithError(err).Fatal("Failed to create file watcher")
	}
	defer watcher.Close()

	if err := addWatchDirs(ctx, watcher, root, root, matcher); err != nil {
		presenter.Error(err, "Failed to watch directories")
		logger.G(ctx).WithError(err).Fatal("Failed to watch directories")
	}

	triggers := make(chan string, 1)
	go debounceTriggers(ctx, watcher, root, matcher, triggers, time.Duration(watchConfig.DebounceTime)*time.Millisecond)

	presenter.Info("Watching for file changes... Press Ctrl+C to stop")
	logger.G(ctx).WithField("root", root).Info("File watcher initialized")

	for {
		select {
		case path, ok := <-triggers:
			if !ok {
				return
			}
			presenter.Info(fmt.Sprintf("Change detected: %s", path))
			regenerate(ctx, root)
		case <-ctx.Done():
			return
		}
	}
}

// addWatchDirs registers start and every non-ignored subdirectory with the
// watcher. Ignore checks are relative to the repository root.
func addWatchDirs(ctx context.Context, watcher *fsnotify.Watcher, root, start string, matcher *ignore.Matcher) error {
	return filepath.WalkDir(start, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, matching generation behavior.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr == nil && rel != "." && matcher.Ignored(filepath.ToSlash(rel)) {
			logger.G(ctx).WithField("directory", rel).Debug("Skipping ignored directory")
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// debounceTriggers collapses watcher events into a single regeneration
// trigger once the repository has been quiet for the delay. Newly created
// directories are added to the watcher as they appear.
func debounceTriggers(ctx context.Context, watcher *fsnotify.Watcher, root string, matcher *ignore.Matcher, triggers chan<- string, delay time.Duration) {
	var timer *time.Timer
	defer close(triggers)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			rel, err := filepath.Rel(root, event.Name)
			if err != nil {
				continue
			}
			rel = filepath.ToSlash(rel)
			if matcher.Ignored(rel) {
				continue
			}

			if event.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					if err := addWatchDirs(ctx, watcher, root, event.Name, matcher); err != nil {
						logger.G(ctx).WithError(err).WithField("directory", rel).Warn("Failed to watch new directory")
					}
				}
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			if timer != nil {
				timer.Stop()
			}
			path := rel
			timer = time.AfterFunc(delay, func() {
				select {
				case triggers <- path:
				case <-ctx.Done():
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			presenter.Error(err, "File watcher error")
			logger.G(ctx).WithError(err).Error("Error watching files")
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// regenerate reloads the configuration and runs a single generation. The
// reload keeps the persisted version monotonic across runs.
func regenerate(ctx context.Context, root string) {
	cfg, err := config.Load(config.Path(root))
	if err != nil {
		presenter.Error(err, "Failed to reload configuration")
		return
	}

	result, _, err := codebook.Generate(ctx, cfg, codebook.Options{Root: root})
	if err != nil {
		presenter.Error(err, "Regeneration failed")
		return
	}

	presenter.Success(fmt.Sprintf("Codebook v%s regenerated", result.Version))
}
