package codebook

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const (
	maxProjectBullets   = 3
	maxBulletLength     = 120
	fallbackDescription = "Repository codebase (generated codebook)."
)

// ProjectInfo is the metadata block at the top of a codebook document.
type ProjectInfo struct {
	Name    string
	Bullets []string
}

// DescribeProject derives the project name from the root directory and up to
// three description bullets from the leading prose of README.md. Headings
// and code blocks are skipped; missing or empty READMEs fall back to a
// generic bullet.
func DescribeProject(root string) ProjectInfo {
	info := ProjectInfo{Name: filepath.Base(root)}

	if abs, err := filepath.Abs(root); err == nil {
		info.Name = filepath.Base(abs)
	}

	source, err := os.ReadFile(filepath.Join(root, "README.md"))
	if err == nil {
		info.Bullets = readmeBullets(source)
	}

	if len(info.Bullets) == 0 {
		info.Bullets = []string{fallbackDescription}
	}
	return info
}

// readmeBullets walks the markdown AST and collects the first few paragraph
// texts, flattened to single lines.
func readmeBullets(source []byte) []string {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var bullets []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || len(bullets) >= maxProjectBullets {
			return ast.WalkContinue, nil
		}

		para, ok := n.(*ast.Paragraph)
		if !ok {
			return ast.WalkContinue, nil
		}

		var parts []string
		lines := para.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			parts = append(parts, strings.TrimSpace(string(seg.Value(source))))
		}

		flat := strings.TrimSpace(strings.Join(parts, " "))
		if flat != "" {
			if runes := []rune(flat); len(runes) > maxBulletLength {
				flat = string(runes[:maxBulletLength])
			}
			bullets = append(bullets, flat)
		}
		return ast.WalkSkipChildren, nil
	})

	return bullets
}
