package enumerate

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"

	"github.com/codebooklabs/codebook/pkg/ignore"
)

// WalkEnumerator is the best-effort fallback used when git is unavailable.
// It applies the built-in and persisted ignore layers but cannot honor
// .gitignore rules, so its output is marked reduced fidelity.
type WalkEnumerator struct{}

// Name returns the strategy name.
func (e *WalkEnumerator) Name() string {
	return "walk"
}

// Fidelity reports reduced ignore fidelity.
func (e *WalkEnumerator) Fidelity() Fidelity {
	return FidelityReduced
}

// Enumerate walks the tree rooted at root. Ignored directories are pruned
// before descending; unreadable entries are skipped rather than failing the
// run.
func (e *WalkEnumerator) Enumerate(ctx context.Context, root string, m *ignore.Matcher) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if walkErr != nil {
			// Unreadable subtree: skip it, do not abort the run.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if m.Ignored(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if !m.Ignored(rel) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to walk %s", root)
	}

	sort.Strings(files)
	return files, nil
}
