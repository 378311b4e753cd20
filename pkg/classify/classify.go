// Package classify decides, for each enumerated file, whether its content
// belongs in the codebook. Classification never mutates the source tree and
// never aborts a run: unreadable files are recorded and skipped.
package classify

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Status is the per-file classification outcome.
type Status int

const (
	// Included files appear in the code section with full content.
	Included Status = iota
	// SkippedEmpty marks empty or whitespace-only files omitted by policy.
	SkippedEmpty
	// SkippedBinary marks files that are binary, oversized, or unreadable.
	SkippedBinary
)

func (s Status) String() string {
	switch s {
	case SkippedEmpty:
		return "skipped-empty"
	case SkippedBinary:
		return "skipped-binary-or-too-large"
	default:
		return "included"
	}
}

// Skip descriptions are a fixed formatting contract in the document.
const (
	descSkippedEmpty  = "skipped (empty file)"
	descSkippedBinary = "skipped (binary or too large)"
	descEmptyIncluded = "Empty file."

	maxDescriptionRunes = 140
)

// Entry is a classified file.
type Entry struct {
	Path        string
	Status      Status
	Reason      string
	Content     string
	Description string
}

// Classifier applies the configured classification policy.
type Classifier struct {
	root      string
	maxBytes  int64
	skipEmpty bool
}

// New creates a Classifier for files under root.
func New(root string, maxBytes int64, skipEmpty bool) *Classifier {
	return &Classifier{root: root, maxBytes: maxBytes, skipEmpty: skipEmpty}
}

// Classify inspects the repository-relative path and returns its entry.
// Rules apply in order: size threshold, binary detection, emptiness. The
// size rule wins regardless of content.
func (c *Classifier) Classify(rel string) Entry {
	abs := filepath.Join(c.root, filepath.FromSlash(rel))

	info, err := os.Stat(abs)
	if err != nil {
		return skippedBinary(rel, fmt.Sprintf("stat failed: %v", err))
	}

	if info.Size() > c.maxBytes {
		return skippedBinary(rel, fmt.Sprintf("size %d exceeds limit %d", info.Size(), c.maxBytes))
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return skippedBinary(rel, fmt.Sprintf("read failed: %v", err))
	}

	if bytes.IndexByte(data, 0) >= 0 || !utf8.Valid(data) {
		return skippedBinary(rel, "binary content")
	}

	content := string(data)
	if strings.TrimSpace(content) == "" {
		if c.skipEmpty {
			return Entry{
				Path:        rel,
				Status:      SkippedEmpty,
				Reason:      "empty or whitespace-only",
				Description: descSkippedEmpty,
			}
		}
		return Entry{
			Path:        rel,
			Status:      Included,
			Content:     content,
			Description: descEmptyIncluded,
		}
	}

	return Entry{
		Path:        rel,
		Status:      Included,
		Content:     content,
		Description: describe(content),
	}
}

func skippedBinary(rel, reason string) Entry {
	return Entry{
		Path:        rel,
		Status:      SkippedBinary,
		Reason:      reason,
		Description: descSkippedBinary,
	}
}

// describe extracts a single-line description: the first non-blank line that
// is not a docstring delimiter, hard-capped at 140 runes. The one-line cap
// is a formatting contract, not a heuristic.
func describe(content string) string {
	for _, line := range strings.Split(content, "\n") {
		s := strings.TrimSpace(line)
		if s == "" || strings.HasPrefix(s, `"""`) || strings.HasPrefix(s, "'''") {
			continue
		}
		return truncateRunes(s, maxDescriptionRunes)
	}
	return descEmptyIncluded
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
