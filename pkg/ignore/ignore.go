// Package ignore resolves the three-layer exclusion policy for codebook
// generation: git ignore semantics (applied by the enumerator), built-in
// hygiene excludes, and user-persisted extra globs. The last two layers are
// compiled into a single Matcher so that tree rendering and file enumeration
// agree exactly on what is excluded.
package ignore

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gobwas/glob"
	"github.com/pkg/errors"

	"github.com/codebooklabs/codebook/pkg/config"
)

// BuiltinExcludeComponents are path components that exclude a path wherever
// they appear.
var BuiltinExcludeComponents = []string{
	".git",
	"__pycache__",
	".venv",
	".mypy_cache",
	".ruff_cache",
	".pytest_cache",
	"htmlcov",
	"tests",
}

// BuiltinExcludeGlobs are hygiene globs applied in addition to git ignore
// semantics. The tool's own artifacts are excluded so a codebook never
// embeds itself.
var BuiltinExcludeGlobs = []string{
	"*.pyc",
	"*.egg-info",
	".env",
	".env.*",
	".coverage",
	"uv.lock",
	".python-version",
	".dockerignore",
	".gitignore",
	config.ArtifactsDir,
	config.ArtifactsDir + "/**",
}

// ExpandPattern expands a single ignore pattern into its effective rules.
// Directory-shaped patterns exclude both the directory itself (needed for
// walk pruning) and every descendant (needed for file filtering):
//
//	"data"    -> ["data", "data/**"]
//	"data/"   -> ["data", "data/**"]
//	"data/**" -> ["data", "data/**"]
//	"data/*"  -> ["data", "data/*"]
//	"*.pdf"   -> ["*.pdf"]
//
// A literal with no wildcard and no trailing slash is ambiguous between a
// file and a directory, so it is expanded defensively as both.
func ExpandPattern(pat string) []string {
	p := config.NormalizeGlob(pat)
	if p == "" {
		return nil
	}

	if strings.HasSuffix(p, "/**") {
		base := strings.TrimRight(strings.TrimSuffix(p, "/**"), "/")
		if base == "" {
			return []string{p}
		}
		return []string{base, p}
	}

	if strings.HasSuffix(p, "/*") {
		base := strings.TrimRight(strings.TrimSuffix(p, "/*"), "/")
		if base == "" {
			return []string{p}
		}
		return []string{base, p}
	}

	if strings.HasSuffix(p, "/") {
		base := strings.TrimRight(p, "/")
		if base == "" {
			return nil
		}
		return []string{base, base + "/**"}
	}

	if !config.HasGlobMeta(p) {
		return []string{p, p + "/**"}
	}

	return []string{p}
}

// Matcher is the compiled exclusion predicate over the built-in and
// user-persisted layers.
type Matcher struct {
	components map[string]struct{}
	// Patterns without a path separator match anywhere in the tree,
	// fnmatch-style, and are compiled once.
	flat []glob.Glob
	// Patterns with a path separator are matched against the full relative
	// path with doublestar semantics.
	paths []string
}

// NewMatcher compiles the built-in excludes plus the user-persisted extra
// globs into a single predicate.
func NewMatcher(extraGlobs []string) (*Matcher, error) {
	m := &Matcher{components: make(map[string]struct{})}
	for _, c := range BuiltinExcludeComponents {
		m.components[c] = struct{}{}
	}

	patterns := make([]string, 0, len(BuiltinExcludeGlobs)+len(extraGlobs))
	patterns = append(patterns, BuiltinExcludeGlobs...)
	for _, raw := range extraGlobs {
		patterns = append(patterns, ExpandPattern(raw)...)
	}

	for _, pat := range patterns {
		if pat == "" {
			continue
		}
		if strings.Contains(pat, "/") {
			if !doublestar.ValidatePattern(pat) {
				return nil, errors.Errorf("invalid ignore pattern %q", pat)
			}
			m.paths = append(m.paths, pat)
			continue
		}
		compiled, err := glob.Compile(pat)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid ignore pattern %q", pat)
		}
		m.flat = append(m.flat, compiled)
	}

	return m, nil
}

// Ignored reports whether the slash-separated repository-relative path is
// excluded. It applies equally to files and directories, so walkers can use
// it to prune before descending.
func (m *Matcher) Ignored(rel string) bool {
	rel = path.Clean(strings.TrimPrefix(rel, "./"))
	if rel == "." || rel == "" {
		return false
	}

	for _, part := range strings.Split(rel, "/") {
		if _, found := m.components[part]; found {
			return true
		}
	}

	for _, g := range m.flat {
		if g.Match(rel) {
			return true
		}
	}

	for _, pat := range m.paths {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return true
		}
	}

	return false
}

// Filter returns the paths not excluded by the matcher, preserving order.
func (m *Matcher) Filter(rels []string) []string {
	kept := make([]string, 0, len(rels))
	for _, rel := range rels {
		if !m.Ignored(rel) {
			kept = append(kept, rel)
		}
	}
	return kept
}
