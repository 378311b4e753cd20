// Package codebook orchestrates snapshot generation: ignore resolution,
// enumeration, classification, document assembly, version bump, and the
// final artifact writes.
package codebook

import (
	"context"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/codebooklabs/codebook/pkg/classify"
	"github.com/codebooklabs/codebook/pkg/config"
	"github.com/codebooklabs/codebook/pkg/enumerate"
	"github.com/codebooklabs/codebook/pkg/ignore"
	"github.com/codebooklabs/codebook/pkg/logger"
	"github.com/codebooklabs/codebook/pkg/semver"
	"github.com/codebooklabs/codebook/pkg/utils"
)

// Options controls a single generation run.
type Options struct {
	Root     string
	Bump     semver.Bump
	ShowDiff bool
}

// Result summarizes a completed generation run.
type Result struct {
	Version       string
	SnapshotPath  string
	Fidelity      enumerate.Fidelity
	Entries       []classify.Entry
	Included      int
	SkippedEmpty  int
	SkippedBinary int
	Diff          string
	// Warnings aggregates non-fatal per-file problems (unreadable files).
	Warnings error
}

// Generate runs one generation against root with the given configuration.
// It writes the snapshot and the updated configuration atomically and
// returns the updated configuration. Per-file read problems are recorded in
// Result.Warnings; only config and output-write failures are fatal.
func Generate(ctx context.Context, cfg config.Config, opts Options) (*Result, config.Config, error) {
	log := logger.G(ctx)

	matcher, err := ignore.NewMatcher(cfg.IgnoreGlobsExtra)
	if err != nil {
		return nil, cfg, errors.Wrap(err, "failed to compile ignore patterns")
	}

	enumerator := enumerate.Detect(ctx, opts.Root)
	log.WithField("strategy", enumerator.Name()).Debug("selected tree enumerator")

	files, err := enumerator.Enumerate(ctx, opts.Root, matcher)
	if err != nil {
		return nil, cfg, errors.Wrap(err, "failed to enumerate files")
	}

	next, err := nextVersion(cfg, opts)
	if err != nil {
		return nil, cfg, err
	}

	classifier := classify.New(opts.Root, cfg.MaxTextFileBytes, cfg.SkipEmptyFiles)

	var warnings *multierror.Error
	result := &Result{
		Version:      next.String(),
		SnapshotPath: config.SnapshotPath(opts.Root),
	}
	if enumerator.Fidelity() == enumerate.FidelityReduced {
		result.Fidelity = enumerate.FidelityReduced
	}

	for _, rel := range files {
		entry := classifier.Classify(rel)
		result.Entries = append(result.Entries, entry)

		switch entry.Status {
		case classify.Included:
			result.Included++
		case classify.SkippedEmpty:
			result.SkippedEmpty++
		case classify.SkippedBinary:
			result.SkippedBinary++
			if strings.Contains(entry.Reason, "failed") {
				warnings = multierror.Append(warnings, errors.Errorf("%s: %s", rel, entry.Reason))
			}
		}
	}
	result.Warnings = warnings.ErrorOrNil()

	doc := &Document{
		Project: DescribeProject(opts.Root),
		Version: result.Version,
		Tree:    RenderTree(files),
		Entries: result.Entries,
	}
	if result.Fidelity == enumerate.FidelityReduced {
		doc.Fidelity = "reduced"
	}

	rendered, err := doc.Render()
	if err != nil {
		return nil, cfg, err
	}

	if opts.ShowDiff {
		previous, _ := os.ReadFile(result.SnapshotPath)
		result.Diff = DiffSnapshot(string(previous), rendered)
	}

	if err := utils.WriteFileAtomic(result.SnapshotPath, []byte(rendered), 0o644); err != nil {
		return nil, cfg, errors.Wrap(err, "failed to write snapshot")
	}

	cfg.CodebookVersion = result.Version
	if err := config.Save(config.Path(opts.Root), cfg); err != nil {
		return nil, cfg, err
	}

	log.WithFields(map[string]any{
		"version":  result.Version,
		"files":    len(files),
		"included": result.Included,
	}).Info("codebook generated")

	return result, cfg, nil
}

// nextVersion resolves the semantic version of this generation. The
// persisted config is authoritative; the frontmatter of an existing
// document is consulted only when the config predates version persistence.
// A malformed persisted version is configuration corruption, never a reset.
func nextVersion(cfg config.Config, opts Options) (semver.Version, error) {
	prior := cfg.CodebookVersion
	if prior == "" {
		prior = PriorVersion(config.SnapshotPath(opts.Root))
	}
	if prior == "" {
		return semver.Initial(), nil
	}

	parsed, err := semver.Parse(prior)
	if err != nil {
		return semver.Version{}, errors.Wrapf(config.ErrCorrupt, "%v", err)
	}
	return parsed.Next(opts.Bump), nil
}
