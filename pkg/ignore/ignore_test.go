package ignore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPattern(t *testing.T) {
	tests := []struct {
		name string
		pat  string
		want []string
	}{
		{name: "recursive glob keeps base", pat: "data/**", want: []string{"data", "data/**"}},
		{name: "single level glob keeps base", pat: "data/*", want: []string{"data", "data/*"}},
		{name: "trailing slash", pat: "data/", want: []string{"data", "data/**"}},
		{name: "ambiguous literal expands defensively", pat: "data", want: []string{"data", "data/**"}},
		{name: "wildcard kept as-is", pat: "*.pdf", want: []string{"*.pdf"}},
		{name: "dot-slash stripped", pat: "./out/**", want: []string{"out", "out/**"}},
		{name: "empty", pat: "   ", want: nil},
		{name: "bare slash", pat: "/", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPattern(tt.pat))
		})
	}
}

func TestMatcherBuiltinComponents(t *testing.T) {
	m, err := NewMatcher(nil)
	require.NoError(t, err)

	assert.True(t, m.Ignored(".git/config"))
	assert.True(t, m.Ignored("src/__pycache__/mod.cpython-312.pyc"))
	assert.True(t, m.Ignored(".venv"))
	assert.True(t, m.Ignored("tests/test_app.py"))
	assert.False(t, m.Ignored("src/app.py"))
}

func TestMatcherBuiltinGlobs(t *testing.T) {
	m, err := NewMatcher(nil)
	require.NoError(t, err)

	// Flat globs match anywhere in the tree, fnmatch-style.
	assert.True(t, m.Ignored("pkg/deep/module.pyc"))
	assert.True(t, m.Ignored(".env"))
	assert.True(t, m.Ignored(".env.local"))
	assert.True(t, m.Ignored("uv.lock"))
	assert.False(t, m.Ignored("src/env.py"))
}

func TestMatcherExcludesOwnArtifacts(t *testing.T) {
	m, err := NewMatcher(nil)
	require.NoError(t, err)

	assert.True(t, m.Ignored("docs/artifacts"))
	assert.True(t, m.Ignored("docs/artifacts/repo_codebook.md"))
	assert.True(t, m.Ignored("docs/artifacts/nested/deep.bin"))
	assert.False(t, m.Ignored("docs/readme.md"))
}

func TestMatcherDescendantExclusionCompleteness(t *testing.T) {
	m, err := NewMatcher([]string{"out/**"})
	require.NoError(t, err)

	// No path under the directory may survive, at any depth.
	for _, rel := range []string{"out", "out/a.txt", "out/a/b.txt", "out/a/b/c/d.bin"} {
		assert.True(t, m.Ignored(rel), rel)
	}
	assert.False(t, m.Ignored("output/a.txt"))
	assert.False(t, m.Ignored("src/out.go"))
}

func TestMatcherAmbiguousLiteralCoversDescendants(t *testing.T) {
	m, err := NewMatcher([]string{"build"})
	require.NoError(t, err)

	assert.True(t, m.Ignored("build"))
	assert.True(t, m.Ignored("build/artifact.tar"))
	assert.True(t, m.Ignored("build/nested/obj.o"))
	assert.False(t, m.Ignored("builder/main.go"))
}

func TestMatcherExtraWildcards(t *testing.T) {
	m, err := NewMatcher([]string{"*.pdf", "data/*"})
	require.NoError(t, err)

	assert.True(t, m.Ignored("docs/manual.pdf"))
	assert.True(t, m.Ignored("data"))
	assert.True(t, m.Ignored("data/seed.csv"))
	assert.False(t, m.Ignored("src/data_loader.py"))
}

func TestMatcherInvalidPattern(t *testing.T) {
	_, err := NewMatcher([]string{"foo/[unclosed"})
	assert.Error(t, err)
}

func TestFilter(t *testing.T) {
	m, err := NewMatcher([]string{"out/**"})
	require.NoError(t, err)

	got := m.Filter([]string{"src/app.py", "out/gen.py", "README.md"})
	assert.Equal(t, []string{"src/app.py", "README.md"}, got)
}
