package classify

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMaxBytes = 512 * 1024

func writeFile(t *testing.T, root, rel string, data []byte) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestClassifyIncluded(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/app.py", []byte("import os\n\nprint(os.getcwd())\n"))

	entry := New(root, testMaxBytes, true).Classify("src/app.py")

	assert.Equal(t, Included, entry.Status)
	assert.Equal(t, "import os\n\nprint(os.getcwd())\n", entry.Content)
	assert.Equal(t, "import os", entry.Description)
}

func TestClassifyTooLargeRegardlessOfContent(t *testing.T) {
	root := t.TempDir()
	// Perfectly valid text, but over the threshold.
	writeFile(t, root, "big.txt", []byte(strings.Repeat("plain text line\n", 40_000)))

	entry := New(root, testMaxBytes, true).Classify("big.txt")

	assert.Equal(t, SkippedBinary, entry.Status)
	assert.Contains(t, entry.Reason, "exceeds limit")
	assert.Equal(t, "skipped (binary or too large)", entry.Description)
}

func TestClassifyBinaryContent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "data/cache.bin", []byte{0x00, 0x01, 0xff, 0x42})

	entry := New(root, testMaxBytes, true).Classify("data/cache.bin")

	assert.Equal(t, SkippedBinary, entry.Status)
	assert.Equal(t, "binary content", entry.Reason)
}

func TestClassifyInvalidUTF8(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "latin1.txt", []byte{'c', 'a', 'f', 0xe9})

	entry := New(root, testMaxBytes, true).Classify("latin1.txt")
	assert.Equal(t, SkippedBinary, entry.Status)
}

func TestClassifyEmptyFilePolicy(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/__init__.py", nil)
	writeFile(t, root, "blank.txt", []byte("  \n\t\n"))

	skipper := New(root, testMaxBytes, true)
	assert.Equal(t, SkippedEmpty, skipper.Classify("src/__init__.py").Status)
	assert.Equal(t, SkippedEmpty, skipper.Classify("blank.txt").Status)
	assert.Equal(t, "skipped (empty file)", skipper.Classify("blank.txt").Description)

	keeper := New(root, testMaxBytes, false)
	entry := keeper.Classify("src/__init__.py")
	assert.Equal(t, Included, entry.Status)
	assert.Equal(t, "", entry.Content)
	assert.Equal(t, "Empty file.", entry.Description)
}

func TestClassifyMissingFile(t *testing.T) {
	root := t.TempDir()

	entry := New(root, testMaxBytes, true).Classify("gone.txt")

	assert.Equal(t, SkippedBinary, entry.Status)
	assert.Contains(t, entry.Reason, "stat failed")
}

func TestDescribeSkipsDocstringDelimiters(t *testing.T) {
	content := "\n\"\"\"Module docstring.\"\"\"\nimport sys\n"
	assert.Equal(t, "import sys", describe(content))
}

func TestDescribeIsSingleLineCapped(t *testing.T) {
	long := strings.Repeat("x", 500)
	desc := describe(long + "\nsecond line\n")

	assert.Len(t, []rune(desc), 140)
	assert.NotContains(t, desc, "\n")
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "included", Included.String())
	assert.Equal(t, "skipped-empty", SkippedEmpty.String())
	assert.Equal(t, "skipped-binary-or-too-large", SkippedBinary.String())
}
