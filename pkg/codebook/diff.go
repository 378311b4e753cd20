package codebook

import (
	udiff "github.com/aymanbagabas/go-udiff"
)

// DiffSnapshot returns a unified diff between the previous and the freshly
// rendered snapshot text, or the empty string when nothing changed. The
// version bump alone always produces at least a small hunk, so callers
// should treat the diff as informational.
func DiffSnapshot(previous, current string) string {
	if previous == current {
		return ""
	}
	return udiff.Unified("repo_codebook.md (previous)", "repo_codebook.md", previous, current)
}
