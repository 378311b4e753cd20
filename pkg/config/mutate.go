package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Glob meta characters recognized for shell-style matching.
const globMeta = "*?["

// NormalizeGlob trims whitespace and a leading "./" from a pattern.
func NormalizeGlob(pat string) string {
	pat = strings.TrimSpace(pat)
	return strings.TrimPrefix(pat, "./")
}

// HasGlobMeta reports whether the pattern contains shell glob metacharacters.
func HasGlobMeta(pat string) bool {
	return strings.ContainsAny(pat, globMeta)
}

// CanonicalizeIgnoreEntry converts a user-supplied ignore entry into its
// persisted form:
//   - patterns with glob metacharacters are kept as-is (normalized)
//   - entries with a trailing slash, or that exist as directories under
//     root, are stored as "dir/**"
//   - everything else is stored as a literal path
//
// The empty string is returned for entries that normalize to nothing.
func CanonicalizeIgnoreEntry(root, raw string) string {
	p := NormalizeGlob(raw)
	if p == "" {
		return ""
	}

	if HasGlobMeta(p) {
		return p
	}

	if strings.HasSuffix(p, "/") {
		base := strings.TrimRight(p, "/")
		if base == "" {
			return ""
		}
		return base + "/**"
	}

	if info, err := os.Stat(filepath.Join(root, filepath.FromSlash(p))); err == nil && info.IsDir() {
		return strings.TrimRight(p, "/") + "/**"
	}

	return p
}

// AddIgnore canonicalizes and appends entries to the persistent ignore list,
// skipping duplicates. It returns the entries that were actually added.
func (c *Config) AddIgnore(root string, entries ...string) []string {
	var added []string
	for _, raw := range entries {
		canon := CanonicalizeIgnoreEntry(root, raw)
		if canon == "" || contains(c.IgnoreGlobsExtra, canon) {
			continue
		}
		c.IgnoreGlobsExtra = append(c.IgnoreGlobsExtra, canon)
		added = append(added, canon)
	}
	return added
}

// RemoveIgnore removes entries from the persistent ignore list. Removing
// "dir" also removes "dir/**" and vice versa, so users do not need to know
// the canonical stored form. It returns the entries that were removed.
func (c *Config) RemoveIgnore(entries ...string) []string {
	remove := make(map[string]struct{})
	for _, raw := range entries {
		p := NormalizeGlob(raw)
		if p == "" {
			continue
		}
		remove[p] = struct{}{}
		if strings.HasSuffix(p, "/**") {
			remove[strings.TrimRight(strings.TrimSuffix(p, "/**"), "/")] = struct{}{}
		} else {
			remove[strings.TrimRight(p, "/")+"/**"] = struct{}{}
		}
	}

	var kept, removed []string
	for _, existing := range c.IgnoreGlobsExtra {
		if _, drop := remove[NormalizeGlob(existing)]; drop {
			removed = append(removed, existing)
			continue
		}
		kept = append(kept, existing)
	}
	c.IgnoreGlobsExtra = kept
	return removed
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
