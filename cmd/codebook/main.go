package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/codebooklabs/codebook/pkg/logger"
	"github.com/codebooklabs/codebook/pkg/presenter"
)

func init() {
	// Environment variables
	viper.SetEnvPrefix("CODEBOOK")
	viper.AutomaticEnv()
}

var rootCmd = &cobra.Command{
	Use:   "codebook",
	Short: "Generate a single-file markdown snapshot of a repository",
	Long: `Codebook renders a repository into one deterministic markdown document:
project metadata, a file tree, per-file descriptions, and the full text of
every included file. Each generation bumps a semantic version persisted in
docs/artifacts/repo_codebook.config.json.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if level, err := cmd.Flags().GetString("log-level"); err == nil && level != "" {
			if err := logger.SetLogLevel(level); err != nil {
				presenter.Warning(fmt.Sprintf("Invalid log level %q, keeping default", level))
			}
		}
		if format, err := cmd.Flags().GetString("log-format"); err == nil && format != "" {
			logger.SetLogFormat(format)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
		os.Exit(1)
	},
}

// resolveRepoRoot determines the repository root: the --repo-root flag wins,
// then CODEBOOK_REPO_ROOT, then the working directory.
func resolveRepoRoot(cmd *cobra.Command) (string, error) {
	root, _ := cmd.Flags().GetString("repo-root")
	if root == "" {
		root = viper.GetString("repo_root")
	}
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		root = wd
	}
	return filepath.Abs(root)
}

func main() {
	rootCmd.PersistentFlags().String("repo-root", "", "Repository root to operate on (defaults to $CODEBOOK_REPO_ROOT or the working directory)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")

	viper.BindPFlag("repo_root", rootCmd.PersistentFlags().Lookup("repo-root"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(ignoreCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
