package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/codebooklabs/codebook/pkg/config"
	"github.com/codebooklabs/codebook/pkg/presenter"
)

var ignoreCmd = &cobra.Command{
	Use:   "ignore",
	Short: "Manage persisted ignore patterns",
	Long: `Manage the extra ignore globs persisted in the codebook configuration.
These apply on top of git ignore semantics and the built-in excludes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
		os.Exit(1)
	},
}

var ignoreAddCmd = &cobra.Command{
	Use:   "add <pattern>...",
	Short: "Add ignore patterns to the configuration",
	Long: `Add one or more ignore patterns to the persisted configuration.
Bare directory names are expanded to exclude the directory and all of its
descendants.

Example:
  codebook ignore add out 'dist/**' '*.log'`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		root, cfg := loadForMutation(cmd)

		added := cfg.AddIgnore(root, args...)
		if len(added) == 0 {
			presenter.Info("All patterns already present")
			return
		}

		if err := config.Save(config.Path(root), cfg); err != nil {
			presenter.Error(err, "Failed to save configuration")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("Added: %s", strings.Join(added, ", ")))
	},
}

var ignoreRemoveCmd = &cobra.Command{
	Use:   "remove <pattern>...",
	Short: "Remove ignore patterns from the configuration",
	Long: `Remove one or more ignore patterns from the persisted configuration.
Removing a directory name also removes its descendant form.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		root, cfg := loadForMutation(cmd)

		removed := cfg.RemoveIgnore(args...)
		if len(removed) == 0 {
			presenter.Info("No matching patterns in the configuration")
			return
		}

		if err := config.Save(config.Path(root), cfg); err != nil {
			presenter.Error(err, "Failed to save configuration")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("Removed: %s", strings.Join(removed, ", ")))
	},
}

var ignoreListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the persisted ignore patterns",
	Run: func(cmd *cobra.Command, args []string) {
		_, cfg := loadForMutation(cmd)

		if len(cfg.IgnoreGlobsExtra) == 0 {
			presenter.Info("No extra ignore patterns configured")
			return
		}
		for _, pat := range cfg.IgnoreGlobsExtra {
			fmt.Println(pat)
		}
	},
}

func init() {
	ignoreCmd.AddCommand(ignoreAddCmd)
	ignoreCmd.AddCommand(ignoreRemoveCmd)
	ignoreCmd.AddCommand(ignoreListCmd)
}

// loadForMutation resolves the repository root and loads its configuration,
// exiting on failure.
func loadForMutation(cmd *cobra.Command) (string, config.Config) {
	root, err := resolveRepoRoot(cmd)
	if err != nil {
		presenter.Error(err, "Failed to resolve repository root")
		os.Exit(1)
	}

	cfg, err := config.Load(config.Path(root))
	if err != nil {
		presenter.Error(err, "Failed to load codebook configuration")
		os.Exit(1)
	}
	return root, cfg
}
