package enumerate

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/codebooklabs/codebook/pkg/ignore"
)

// GitEnumerator lists tracked and untracked-but-not-ignored files via git,
// which makes it the authoritative source for layer-one ignore semantics.
type GitEnumerator struct{}

// Name returns the strategy name.
func (e *GitEnumerator) Name() string {
	return "git"
}

// Fidelity reports full gitignore fidelity.
func (e *GitEnumerator) Fidelity() Fidelity {
	return FidelityFull
}

// Enumerate runs `git ls-files -co --exclude-standard` and filters the
// result through the compiled ignore matcher. Paths that vanished since git
// last looked (racing deletions) are dropped.
func (e *GitEnumerator) Enumerate(ctx context.Context, root string, m *ignore.Matcher) ([]string, error) {
	cmd := exec.CommandContext(ctx, "git", "-C", root, "ls-files", "-co", "--exclude-standard")
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, errors.Errorf("git ls-files failed: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, errors.Wrap(err, "git ls-files failed")
	}

	var files []string
	for _, line := range strings.Split(string(out), "\n") {
		rel := strings.TrimSpace(line)
		if rel == "" || m.Ignored(rel) {
			continue
		}

		info, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, rel)
	}

	sort.Strings(files)
	return files, nil
}
