package codebook

import (
	"sort"
	"strings"
)

// RenderTree renders a deterministic tree of the enumerated files. Because
// the input is the already-filtered file list, the rendering and the file
// enumeration can never disagree about what is excluded.
func RenderTree(paths []string) string {
	root := newTreeNode()
	for _, p := range paths {
		root.insert(strings.Split(p, "/"))
	}

	var b strings.Builder
	b.WriteString("./\n")
	root.render(&b, "")
	return strings.TrimRight(b.String(), "\n")
}

type treeNode struct {
	children map[string]*treeNode
}

func newTreeNode() *treeNode {
	return &treeNode{children: make(map[string]*treeNode)}
}

func (n *treeNode) insert(segments []string) {
	if len(segments) == 0 {
		return
	}
	child, ok := n.children[segments[0]]
	if !ok {
		child = newTreeNode()
		n.children[segments[0]] = child
	}
	child.insert(segments[1:])
}

func (n *treeNode) render(b *strings.Builder, prefix string) {
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	sort.Strings(names)

	for i, name := range names {
		connector, childPrefix := "├── ", prefix+"│   "
		if i == len(names)-1 {
			connector, childPrefix = "└── ", prefix+"    "
		}

		child := n.children[name]
		label := name
		if len(child.children) > 0 {
			label += "/"
		}

		b.WriteString(prefix + connector + label + "\n")
		child.render(b, childPrefix)
	}
}
