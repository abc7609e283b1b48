package btree

import (
	"fmt"
	"strings"
)

// DebugTree renders the tree in a stable format suitable for tests: a leaf
// prints "leaf (size N)" followed by N "  - KEY" lines; an
// internal node prints "internal (size C)" (C = number of children)
// followed by each child's subtree indented two further spaces per depth
// level.
func (t *Tree) DebugTree() (string, error) {
	var b strings.Builder
	if err := t.writeNode(&b, RootPage, 0); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (t *Tree) writeNode(b *strings.Builder, page uint32, depth int) error {
	n, err := t.load(page)
	if err != nil {
		return err
	}
	indent := strings.Repeat("  ", depth)

	if n.IsLeaf {
		fmt.Fprintf(b, "%sleaf (size %d)\n", indent, len(n.Cells))
		for _, c := range n.Cells {
			fmt.Fprintf(b, "%s  - %d\n", indent, c.Key)
		}
		return nil
	}

	fmt.Fprintf(b, "%sinternal (size %d)\n", indent, n.NumChildren())
	for _, c := range n.Children {
		if err := t.writeNode(b, c.Page, depth+1); err != nil {
			return err
		}
	}
	return t.writeNode(b, n.Right, depth+1)
}

// ConstantsDump formats the stable constants lines printed by
// `.constants`.
func ConstantsDump() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ROW_SIZE: %d\n", RowSize)
	fmt.Fprintf(&b, "LEAF_NODE_HEADER_SIZE: %d\n", LeafHeaderSize)
	fmt.Fprintf(&b, "LEAF_NODE_SPACE_FOR_CELLS: %d\n", LeafSpaceForCells)
	fmt.Fprintf(&b, "LEAF_NODE_MAX_CELLS: %d\n", LeafMaxCells)
	return b.String()
}
