package codebook

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
	"gopkg.in/yaml.v3"

	"github.com/codebooklabs/codebook/pkg/classify"
	"github.com/codebooklabs/codebook/pkg/semver"
)

// Document holds every input of the rendered codebook. Rendering is
// deterministic: identical inputs produce byte-identical output; version and
// fidelity are explicit inputs, not hidden state.
type Document struct {
	Project  ProjectInfo
	Version  string
	Fidelity string // "reduced" when gitignore semantics were degraded
	Tree     string
	Entries  []classify.Entry
}

type frontmatter struct {
	Name            string `yaml:"name"`
	CodebookVersion string `yaml:"codebook_version"`
	Fidelity        string `yaml:"fidelity,omitempty"`
}

// Render assembles the final document text in the fixed section order:
// metadata, tree, per-file description list, code blocks.
func (d *Document) Render() (string, error) {
	fm, err := yaml.Marshal(frontmatter{
		Name:            d.Project.Name,
		CodebookVersion: d.Version,
		Fidelity:        d.Fidelity,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal document frontmatter")
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(fm)
	b.WriteString("---\n\n")

	fmt.Fprintf(&b, "# %s repo codebook\n\n", d.Project.Name)
	fmt.Fprintf(&b, "- codebook_version: %s\n", d.Version)
	for _, bullet := range d.Project.Bullets {
		fmt.Fprintf(&b, "- %s\n", bullet)
	}
	b.WriteString("\n")

	b.WriteString("## Repository tree\n\n")
	if d.Fidelity == "reduced" {
		b.WriteString("Note: generated without git; .gitignore rules may be incompletely honored.\n\n")
	}
	b.WriteString("```\n")
	b.WriteString(d.Tree)
	b.WriteString("\n```\n\n")

	b.WriteString("## File descriptions\n\n")
	for _, entry := range d.Entries {
		fmt.Fprintf(&b, "- `%s`: %s\n", entry.Path, entry.Description)
	}
	b.WriteString("\n")

	b.WriteString("## Code\n\n")
	for _, entry := range d.Entries {
		switch entry.Status {
		case classify.Included:
			fmt.Fprintf(&b, "```%s\n%s\n```\n\n", entry.Path, strings.TrimRight(entry.Content, "\n"))
		case classify.SkippedBinary:
			fmt.Fprintf(&b, "- `%s`: %s\n\n", entry.Path, entry.Description)
		case classify.SkippedEmpty:
			// Omitted from the code section by policy.
		}
	}

	return strings.TrimRight(b.String(), "\n") + "\n", nil
}

// Legacy documents carried the version only as a bullet line.
var legacyVersionRe = regexp.MustCompile(`(?m)^- codebook_version:\s*([0-9]+\.[0-9]+\.[0-9]+)\s*$`)

// PriorVersion extracts the codebook version from an existing document,
// preferring YAML frontmatter and falling back to the legacy bullet line.
// It returns the empty string when no usable version is present; it is only
// a migration fallback for configs that predate version persistence.
func PriorVersion(path string) string {
	source, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	md := goldmark.New(goldmark.WithExtensions(meta.Meta))
	pctx := parser.NewContext()
	var discard strings.Builder
	if err := md.Convert(source, &discard, parser.WithContext(pctx)); err == nil {
		if data := meta.Get(pctx); data != nil {
			if v, ok := data["codebook_version"].(string); ok && semver.IsValid(v) {
				return v
			}
		}
	}

	if m := legacyVersionRe.FindSubmatch(source); m != nil {
		return string(m[1])
	}
	return ""
}
