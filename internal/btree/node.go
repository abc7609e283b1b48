package btree

// Cell is one (key, row) pair inside a leaf, kept in ascending key order.
type Cell struct {
	Key uint32
	Row [RowSize]byte
}

// Child is one (bound key, child page) entry inside an internal node. The
// rightmost child of a node is stored separately (Node.Right) because its
// key bound is implicit (+infinity).
type Child struct {
	Bound uint32
	Page  uint32
}

// Node is the in-memory form of one page: a tagged variant of leaf and
// internal. Exactly one field set is meaningful, selected by IsLeaf.
//
// Parent, NextLeaf and every Child.Page are page numbers, never in-memory
// pointers — this is what keeps the ownership graph acyclic (see
// DESIGN.md). A parent of 0 means "no parent" only when IsRoot is set; for
// every other node it names page 0, the root. Only the root (always at
// page 0) has no parent, so IsRoot is enough to tell the two apart.
type Node struct {
	Page     uint32
	IsLeaf   bool
	IsRoot   bool
	Parent   uint32
	HasNext  bool // leaf only: whether NextLeaf is meaningful
	NextLeaf uint32

	Cells    []Cell  // leaf only, len <= LeafMaxCells, strictly increasing keys
	Children []Child // internal only, len == NumKeys, strictly increasing bounds
	Right    uint32  // internal only: page of the rightmost (+inf bound) child
}

// MaxKey returns the last cell's key for a leaf (0 if it is empty). For an
// internal node it returns the bound of the last explicit Children entry,
// which is not the maximum key under the rightmost child: that would
// require recursing into the rightmost child, which MaxKey does not do.
// Internal callers instead track bounds explicitly during traversal/split;
// MaxKey is provided for leaves, where the split/propagation logic needs it
// directly.
func (n *Node) MaxKey() uint32 {
	if n.IsLeaf {
		if len(n.Cells) == 0 {
			return 0
		}
		return n.Cells[len(n.Cells)-1].Key
	}
	if len(n.Children) == 0 {
		return 0
	}
	return n.Children[len(n.Children)-1].Bound
}

// NumChildren returns the number of children of an internal node,
// including the implicit rightmost one.
func (n *Node) NumChildren() int {
	return len(n.Children) + 1
}
