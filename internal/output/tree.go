package output

import (
	"path"
	"sort"
	"strings"
)

const (
	treeEdge  = "├── "
	treeLast  = "└── "
	treeVert  = "│   "
	treeSpace = "    "

	// descriptionColumn is where file descriptions start.
	descriptionColumn = 36
)

// treeNode is a directory or file of a rendered tree.
type treeNode struct {
	name        string
	description string
	children    map[string]*treeNode
}

func (n *treeNode) isDir() bool {
	return n.children != nil
}

// sorted returns the children, directories first, then by name.
func (n *treeNode) sorted() []*treeNode {
	nodes := make([]*treeNode, 0, len(n.children))
	for _, c := range n.children {
		nodes = append(nodes, c)
	}
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].isDir() != nodes[j].isDir() {
			return nodes[i].isDir()
		}
		return nodes[i].name < nodes[j].name
	})
	return nodes
}

// RenderFileTree renders slash-separated paths under a root directory
// name, with each file's description aligned in a column.
func RenderFileTree(rootName string, files map[string]string) string {
	if len(files) == 0 {
		return ""
	}

	root := &treeNode{name: rootName, children: map[string]*treeNode{}}
	for p, desc := range files {
		dir, file := path.Split(path.Clean(p))
		parent := root
		for _, part := range strings.Split(strings.Trim(dir, "/"), "/") {
			if part == "" {
				continue
			}
			child, ok := parent.children[part]
			if !ok {
				child = &treeNode{name: part, children: map[string]*treeNode{}}
				parent.children[part] = child
			}
			parent = child
		}
		parent.children[file] = &treeNode{name: file, description: desc}
	}

	var sb strings.Builder
	sb.WriteString(render(StyleSummary, rootName+"/"))
	sb.WriteString("\n")
	writeTree(&sb, root, "")
	return sb.String()
}

func writeTree(sb *strings.Builder, node *treeNode, prefix string) {
	children := node.sorted()
	for i, child := range children {
		last := i == len(children)-1
		connector, next := treeEdge, treeVert
		if last {
			connector, next = treeLast, treeSpace
		}

		line := prefix + connector + child.name
		if child.isDir() {
			line += "/"
		}
		if child.description != "" {
			// Box-drawing runes are one column wide but three bytes long.
			width := len([]rune(line))
			line += strings.Repeat(" ", max(2, descriptionColumn-width))
			line += render(StyleDim, child.description)
		}
		sb.WriteString(line)
		sb.WriteString("\n")

		if child.isDir() {
			writeTree(sb, child, prefix+next)
		}
	}
}
