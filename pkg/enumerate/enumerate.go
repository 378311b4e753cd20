// Package enumerate lists the candidate files of a repository. Two
// strategies exist: a git-backed enumerator that honors full gitignore
// semantics, and a plain filesystem walk used when git is unavailable. The
// strategy is selected once at startup by Detect, and both apply the same
// compiled ignore matcher so every consumer sees an identical file set.
package enumerate

import (
	"context"
	"os/exec"
	"strings"

	"github.com/codebooklabs/codebook/pkg/ignore"
)

// Fidelity describes how faithfully an enumerator honors ignore-file
// semantics.
type Fidelity int

const (
	// FidelityFull means gitignore semantics are fully honored.
	FidelityFull Fidelity = iota
	// FidelityReduced means only the built-in and persisted ignore layers
	// were applied; .gitignore rules may be incompletely honored.
	FidelityReduced
)

func (f Fidelity) String() string {
	if f == FidelityReduced {
		return "reduced"
	}
	return "full"
}

// Enumerator lists repository-relative file paths, sorted, with the ignore
// matcher already applied.
type Enumerator interface {
	Name() string
	Fidelity() Fidelity
	Enumerate(ctx context.Context, root string, m *ignore.Matcher) ([]string, error)
}

// Detect probes the environment once and selects the best available
// enumerator for root. Unavailable git tooling degrades to the walk
// strategy; it never fails.
func Detect(ctx context.Context, root string) Enumerator {
	if _, err := exec.LookPath("git"); err != nil {
		return &WalkEnumerator{}
	}
	if !insideWorkTree(ctx, root) {
		return &WalkEnumerator{}
	}
	return &GitEnumerator{}
}

func insideWorkTree(ctx context.Context, root string) bool {
	cmd := exec.CommandContext(ctx, "git", "-C", root, "rev-parse", "--is-inside-work-tree")
	out, err := cmd.Output()
	return err == nil && strings.TrimSpace(string(out)) == "true"
}
