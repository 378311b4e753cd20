package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/codebooklabs/codebook/pkg/codebook"
	"github.com/codebooklabs/codebook/pkg/config"
	"github.com/codebooklabs/codebook/pkg/enumerate"
	"github.com/codebooklabs/codebook/pkg/ignore"
	"github.com/codebooklabs/codebook/pkg/logger"
	"github.com/codebooklabs/codebook/pkg/presenter"
	"github.com/codebooklabs/codebook/pkg/semver"
	"github.com/codebooklabs/codebook/pkg/utils"
)

// GenerateConfig holds configuration for the generate command
type GenerateConfig struct {
	AddIgnore        []string
	RemoveIgnore     []string
	MaxTextFileBytes int64
	SkipEmptyFiles   bool
	ConfigOnly       bool
	NonInteractive   bool
	Bump             string
	ShowDiff         bool
}

// NewGenerateConfig creates a new GenerateConfig with default values
func NewGenerateConfig() *GenerateConfig {
	return &GenerateConfig{
		MaxTextFileBytes: config.DefaultMaxTextFileBytes,
		SkipEmptyFiles:   true,
		Bump:             "patch",
	}
}

// Validate validates the GenerateConfig and returns an error if invalid
func (c *GenerateConfig) Validate() error {
	if c.MaxTextFileBytes < 0 {
		return errors.Errorf("max-text-file-bytes cannot be negative: %d", c.MaxTextFileBytes)
	}
	if _, err := semver.ParseBump(c.Bump); err != nil {
		return err
	}
	return nil
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the repository codebook snapshot",
	Long: `Generate docs/artifacts/repo_codebook.md for the repository.

The run enumerates files with git when available (falling back to a
filesystem walk), applies the layered ignore policy, classifies each file,
and writes the snapshot together with an updated config. Unless
--non-interactive is set and stdin is a terminal, the run first shows the
effective ignore layers and offers to add more patterns.

Example:
  codebook generate
  codebook generate --add-ignore 'out/**' --bump minor
  codebook generate --config-only --add-ignore docs/build`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		genConfig := getGenerateConfigFromFlags(cmd)

		if err := genConfig.Validate(); err != nil {
			presenter.Error(err, "Invalid configuration")
			os.Exit(1)
		}

		root, err := resolveRepoRoot(cmd)
		if err != nil {
			presenter.Error(err, "Failed to resolve repository root")
			os.Exit(1)
		}

		runGenerate(ctx, cmd, root, genConfig)
	},
}

func init() {
	defaults := NewGenerateConfig()
	generateCmd.Flags().StringSlice("add-ignore", nil, "Ignore patterns to persist before generating")
	generateCmd.Flags().StringSlice("remove-ignore", nil, "Ignore patterns to remove before generating")
	generateCmd.Flags().Int64("max-text-file-bytes", defaults.MaxTextFileBytes, "Maximum size of a file to embed in the snapshot")
	generateCmd.Flags().Bool("skip-empty-files", defaults.SkipEmptyFiles, "Skip empty and whitespace-only files")
	generateCmd.Flags().Bool("config-only", false, "Apply configuration changes without generating a snapshot")
	generateCmd.Flags().Bool("non-interactive", false, "Disable the interactive ignore review")
	generateCmd.Flags().String("bump", defaults.Bump, "Version component to bump (patch, minor, major)")
	generateCmd.Flags().Bool("show-diff", false, "Print a unified diff against the previous snapshot")
}

// getGenerateConfigFromFlags extracts generate configuration from command flags
func getGenerateConfigFromFlags(cmd *cobra.Command) *GenerateConfig {
	genConfig := NewGenerateConfig()

	if addIgnore, err := cmd.Flags().GetStringSlice("add-ignore"); err == nil {
		genConfig.AddIgnore = addIgnore
	}
	if removeIgnore, err := cmd.Flags().GetStringSlice("remove-ignore"); err == nil {
		genConfig.RemoveIgnore = removeIgnore
	}
	if maxBytes, err := cmd.Flags().GetInt64("max-text-file-bytes"); err == nil {
		genConfig.MaxTextFileBytes = maxBytes
	}
	if skipEmpty, err := cmd.Flags().GetBool("skip-empty-files"); err == nil {
		genConfig.SkipEmptyFiles = skipEmpty
	}
	if configOnly, err := cmd.Flags().GetBool("config-only"); err == nil {
		genConfig.ConfigOnly = configOnly
	}
	if nonInteractive, err := cmd.Flags().GetBool("non-interactive"); err == nil {
		genConfig.NonInteractive = nonInteractive
	}
	if bump, err := cmd.Flags().GetString("bump"); err == nil {
		genConfig.Bump = bump
	}
	if showDiff, err := cmd.Flags().GetBool("show-diff"); err == nil {
		genConfig.ShowDiff = showDiff
	}

	return genConfig
}

func runGenerate(ctx context.Context, cmd *cobra.Command, root string, genConfig *GenerateConfig) {
	cfg, err := config.Load(config.Path(root))
	if err != nil {
		presenter.Error(err, "Failed to load codebook configuration")
		if errors.Is(err, config.ErrCorrupt) {
			presenter.Info(fmt.Sprintf("Fix or remove %s and run again", config.Path(root)))
		}
		os.Exit(1)
	}

	changed := applyConfigFlags(cmd, root, &cfg, genConfig)

	if genConfig.ConfigOnly {
		if changed {
			if err := config.Save(config.Path(root), cfg); err != nil {
				presenter.Error(err, "Failed to save configuration")
				os.Exit(1)
			}
			presenter.Success(fmt.Sprintf("Configuration updated at %s", config.Path(root)))
		} else {
			presenter.Info("Configuration unchanged")
		}
		return
	}

	if !genConfig.NonInteractive && utils.StdinIsTerminal() {
		proceed := reviewIgnores(root, &cfg, &changed)
		if !proceed {
			if changed {
				if err := config.Save(config.Path(root), cfg); err != nil {
					presenter.Error(err, "Failed to save configuration")
					os.Exit(1)
				}
			}
			presenter.Info("Generation skipped")
			return
		}
	}

	if changed {
		if err := config.Save(config.Path(root), cfg); err != nil {
			presenter.Error(err, "Failed to save configuration")
			os.Exit(1)
		}
		logger.G(ctx).Debug("persisted configuration changes before generation")
	}

	bump, err := semver.ParseBump(genConfig.Bump)
	if err != nil {
		presenter.Error(err, "Invalid bump")
		os.Exit(1)
	}

	result, _, err := codebook.Generate(ctx, cfg, codebook.Options{
		Root:     root,
		Bump:     bump,
		ShowDiff: genConfig.ShowDiff,
	})
	if err != nil {
		presenter.Error(err, "Generation failed")
		os.Exit(1)
	}

	presentResult(result)
}

// applyConfigFlags folds the command flags into the loaded configuration and
// reports whether anything changed. Size and skip-empty overrides only apply
// when the flag was set explicitly, so persisted values survive plain runs.
func applyConfigFlags(cmd *cobra.Command, root string, cfg *config.Config, genConfig *GenerateConfig) bool {
	changed := false

	if added := cfg.AddIgnore(root, genConfig.AddIgnore...); len(added) > 0 {
		for _, pat := range added {
			presenter.Info(fmt.Sprintf("Added ignore pattern: %s", pat))
		}
		changed = true
	}
	if removed := cfg.RemoveIgnore(genConfig.RemoveIgnore...); len(removed) > 0 {
		for _, pat := range removed {
			presenter.Info(fmt.Sprintf("Removed ignore pattern: %s", pat))
		}
		changed = true
	}

	if cmd.Flags().Changed("max-text-file-bytes") && cfg.MaxTextFileBytes != genConfig.MaxTextFileBytes {
		cfg.MaxTextFileBytes = genConfig.MaxTextFileBytes
		changed = true
	}
	if cmd.Flags().Changed("skip-empty-files") && cfg.SkipEmptyFiles != genConfig.SkipEmptyFiles {
		cfg.SkipEmptyFiles = genConfig.SkipEmptyFiles
		changed = true
	}

	return changed
}

// reviewIgnores shows the effective ignore layers and lets the user add
// patterns before generation. It returns false when the user chose not to
// generate.
func reviewIgnores(root string, cfg *config.Config, changed *bool) bool {
	presenter.Section("Ignore policy")
	presenter.Info("Git ignore semantics apply first when git is available.")
	presenter.Info(fmt.Sprintf("Built-in directory excludes: %s", strings.Join(ignore.BuiltinExcludeComponents, ", ")))
	presenter.Info(fmt.Sprintf("Built-in glob excludes: %s", strings.Join(ignore.BuiltinExcludeGlobs, ", ")))
	if len(cfg.IgnoreGlobsExtra) > 0 {
		presenter.Info(fmt.Sprintf("Extra globs from config: %s", strings.Join(cfg.IgnoreGlobsExtra, ", ")))
	} else {
		presenter.Info("Extra globs from config: (none)")
	}
	presenter.Separator()

	for {
		entry := strings.TrimSpace(presenter.Prompt("Add an ignore pattern (blank to continue)"))
		if entry == "" {
			break
		}
		if added := cfg.AddIgnore(root, entry); len(added) > 0 {
			presenter.Success(fmt.Sprintf("Added: %s", strings.Join(added, ", ")))
			*changed = true
		} else {
			presenter.Warning(fmt.Sprintf("Already present: %s", entry))
		}
	}

	answer := strings.ToLower(strings.TrimSpace(presenter.Prompt("Generate the codebook now?", "Y", "n")))
	return answer != "n" && answer != "no"
}

func presentResult(result *codebook.Result) {
	presenter.Success(fmt.Sprintf("Codebook v%s written to %s", result.Version, result.SnapshotPath))
	presenter.Info(fmt.Sprintf("Files: %d included, %d skipped empty, %d skipped binary or too large",
		result.Included, result.SkippedEmpty, result.SkippedBinary))

	if result.Fidelity == enumerate.FidelityReduced {
		presenter.Warning("git unavailable; .gitignore rules may be incompletely honored")
	}

	if result.Warnings != nil {
		presenter.Warning(fmt.Sprintf("Some files could not be read:\n%v", result.Warnings))
	}

	if result.Diff != "" {
		presenter.Section("Snapshot diff")
		fmt.Println(result.Diff)
	}
}
