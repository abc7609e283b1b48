// Package btree implements the disk-backed B+ tree: node search, split-
// driven insert, and ordered traversal. A Tree never deletes a page once
// allocated and never merges nodes; the only structural change it ever
// makes is a split.
package btree

import (
	"errors"
	"fmt"
	"sort"

	"github.com/l4zy9uy/bptreedb/internal/pager"
	"go.uber.org/zap"
)

// RootPage is the page number reserved for the tree's root, forever.
const RootPage = 0

// Tree ties a pager to the invariant that page 0 always holds the root.
type Tree struct {
	pager *pager.Pager
	log   *zap.SugaredLogger
}

// Open returns a Tree over p. If p has no pages yet, page 0 is allocated
// as a fresh, empty leaf root.
func Open(p *pager.Pager, log *zap.SugaredLogger) (*Tree, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	t := &Tree{pager: p, log: log}
	if p.NumPages() == 0 {
		pageNum, err := p.AllocatePage()
		if err != nil {
			return nil, fmt.Errorf("btree: open: %w", err)
		}
		if pageNum != RootPage {
			return nil, fmt.Errorf("btree: open: expected root at page %d, allocated %d", RootPage, pageNum)
		}
		root := &Node{Page: RootPage, IsLeaf: true, IsRoot: true}
		if err := t.store(root); err != nil {
			return nil, fmt.Errorf("btree: open: %w", err)
		}
	}
	return t, nil
}

func (t *Tree) load(pageNum uint32) (*Node, error) {
	page, err := t.pager.Get(pageNum)
	if err != nil {
		return nil, err
	}
	return Decode(page, pageNum)
}

func (t *Tree) store(n *Node) error {
	page, err := t.pager.GetMut(n.Page)
	if err != nil {
		return err
	}
	return Encode(n, page)
}

// FindLeaf descends from the root to the leaf that does, or would, hold
// key. It is a pure read: no node is mutated.
func (t *Tree) FindLeaf(key uint32) (uint32, error) {
	pageNum := uint32(RootPage)
	for {
		n, err := t.load(pageNum)
		if err != nil {
			return 0, err
		}
		if n.IsLeaf {
			return pageNum, nil
		}
		pageNum = childForKey(n, key)
	}
}

// childForKey picks the smallest-bound child of an internal node whose
// bound is >= key, falling back to the rightmost child.
func childForKey(n *Node, key uint32) uint32 {
	i := sort.Search(len(n.Children), func(i int) bool { return n.Children[i].Bound >= key })
	if i < len(n.Children) {
		return n.Children[i].Page
	}
	return n.Right
}

// findSlot binary-searches a leaf's cells for the smallest index whose key
// is >= key. The second return reports whether that index is an exact
// (duplicate) match.
func findSlot(n *Node, key uint32) (idx int, duplicate bool) {
	idx = sort.Search(len(n.Cells), func(i int) bool { return n.Cells[i].Key >= key })
	duplicate = idx < len(n.Cells) && n.Cells[idx].Key == key
	return idx, duplicate
}

// Insert adds key/row to the tree. It fails with ErrDuplicateKey if key is
// already present, or ErrTableFull if a required page allocation exceeds
// MAX_PAGES.
func (t *Tree) Insert(key uint32, row [RowSize]byte) error {
	leafPage, err := t.FindLeaf(key)
	if err != nil {
		return err
	}
	leaf, err := t.load(leafPage)
	if err != nil {
		return err
	}
	idx, duplicate := findSlot(leaf, key)
	if duplicate {
		return ErrDuplicateKey
	}

	if len(leaf.Cells) < LeafMaxCells {
		leaf.Cells = insertCell(leaf.Cells, idx, Cell{Key: key, Row: row})
		return t.store(leaf)
	}

	return t.splitLeafAndInsert(leaf, idx, Cell{Key: key, Row: row})
}

func insertCell(cells []Cell, idx int, c Cell) []Cell {
	cells = append(cells, Cell{})
	copy(cells[idx+1:], cells[idx:])
	cells[idx] = c
	return cells
}

func insertChild(children []Child, idx int, c Child) []Child {
	children = append(children, Child{})
	copy(children[idx+1:], children[idx:])
	children[idx] = c
	return children
}

// splitLeafAndInsert handles an overfull leaf: it is split with the new
// cell landing on whichever side its index dictates,
// the leaf chain is relinked, and the split is propagated to the parent.
func (t *Tree) splitLeafAndInsert(leaf *Node, idx int, newCell Cell) error {
	all := insertCell(leaf.Cells, idx, newCell) // len == LeafMaxCells+1

	newPage, err := t.pager.AllocatePage()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTableFull, err)
	}

	right := &Node{
		Page:     newPage,
		IsLeaf:   true,
		Parent:   leaf.Parent,
		Cells:    append([]Cell(nil), all[LeafSplitIndex:]...),
		HasNext:  leaf.HasNext,
		NextLeaf: leaf.NextLeaf,
	}
	leaf.Cells = append([]Cell(nil), all[:LeafSplitIndex]...)
	leaf.HasNext = true
	leaf.NextLeaf = newPage

	if err := t.store(leaf); err != nil {
		return err
	}
	if err := t.store(right); err != nil {
		return err
	}

	return t.propagateSplit(leaf, right, leaf.MaxKey())
}

// propagateSplit installs right as a new sibling of left in left's parent,
// splitting the parent (recursively) if it overflows, or creating a new
// root if left had none. promoteBound is the key that now separates left
// from right (the new, smaller maximum of left after the split).
func (t *Tree) propagateSplit(left, right *Node, promoteBound uint32) error {
	if left.IsRoot {
		return t.handleRootSplit(left, right, promoteBound)
	}

	parent, err := t.load(left.Parent)
	if err != nil {
		return fmt.Errorf("btree: propagate split: load parent %d: %w", left.Parent, err)
	}

	if parent.Right == left.Page {
		parent.Children = append(parent.Children, Child{Bound: promoteBound, Page: left.Page})
		parent.Right = right.Page
	} else {
		i, ok := childIndex(parent, left.Page)
		if !ok {
			return fmt.Errorf("%w: page %d not found among children of parent %d", ErrNodeType, left.Page, parent.Page)
		}
		inheritedBound := parent.Children[i].Bound
		parent.Children[i].Bound = promoteBound
		parent.Children = insertChild(parent.Children, i+1, Child{Bound: inheritedBound, Page: right.Page})
	}
	right.Parent = parent.Page

	if err := t.store(left); err != nil {
		return err
	}
	if err := t.store(right); err != nil {
		return err
	}

	if parent.NumChildren() <= InternalMaxChildren {
		return t.store(parent)
	}
	return t.splitInternal(parent)
}

func childIndex(parent *Node, page uint32) (int, bool) {
	for i, c := range parent.Children {
		if c.Page == page {
			return i, true
		}
	}
	return 0, false
}

// splitInternal handles an overfull internal node: the median
// child's bound is promoted to the grandparent, the median's own child
// becomes the left half's new rightmost (implicit +infinity) child, and
// the right half inherits the original rightmost child.
func (t *Tree) splitInternal(n *Node) error {
	mid := len(n.Children) / 2
	median := n.Children[mid]

	newPage, err := t.pager.AllocatePage()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTableFull, err)
	}

	right := &Node{
		Page:     newPage,
		IsLeaf:   false,
		Parent:   n.Parent,
		Children: append([]Child(nil), n.Children[mid+1:]...),
		Right:    n.Right,
	}
	left := n
	left.Children = append([]Child(nil), n.Children[:mid]...)
	left.Right = median.Page

	if err := t.reparentChildren(left); err != nil {
		return err
	}
	if err := t.reparentChildren(right); err != nil {
		return err
	}
	if err := t.store(left); err != nil {
		return err
	}
	if err := t.store(right); err != nil {
		return err
	}

	return t.propagateSplit(left, right, median.Bound)
}

// reparentChildren stamps node.Page onto every direct child of node (its
// Children entries plus its rightmost child) and persists the change.
// Needed whenever a node's set of children changes identity, which only
// happens on an internal split.
func (t *Tree) reparentChildren(node *Node) error {
	if node.IsLeaf {
		return nil
	}
	set := func(page uint32) error {
		child, err := t.load(page)
		if err != nil {
			return err
		}
		if child.Parent == node.Page {
			return nil
		}
		child.Parent = node.Page
		return t.store(child)
	}
	for _, c := range node.Children {
		if err := set(c.Page); err != nil {
			return err
		}
	}
	return set(node.Right)
}

// handleRootSplit handles the case where the root itself overflows: its content is relocated
// to a fresh page (oldRoot, demoted), the sibling produced by the split
// keeps its own fresh page, and page 0 is rewritten as a brand-new
// internal root pointing at both.
func (t *Tree) handleRootSplit(oldRoot, sibling *Node, promoteBound uint32) error {
	leftPage, err := t.pager.AllocatePage()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTableFull, err)
	}

	left := *oldRoot
	left.Page = leftPage
	left.IsRoot = false
	left.Parent = RootPage
	if err := t.reparentChildren(&left); err != nil {
		return err
	}
	if err := t.store(&left); err != nil {
		return err
	}

	sibling.IsRoot = false
	sibling.Parent = RootPage
	if err := t.store(sibling); err != nil {
		return err
	}

	newRoot := &Node{
		Page:     RootPage,
		IsLeaf:   false,
		IsRoot:   true,
		Children: []Child{{Bound: promoteBound, Page: leftPage}},
		Right:    sibling.Page,
	}
	t.log.Debugw("root split", "left_page", leftPage, "right_page", sibling.Page, "bound", promoteBound)
	return t.store(newRoot)
}

// firstLeafPage walks child 0 from the root until it reaches a leaf.
func (t *Tree) firstLeafPage() (uint32, error) {
	pageNum := uint32(RootPage)
	for {
		n, err := t.load(pageNum)
		if err != nil {
			return 0, err
		}
		if n.IsLeaf {
			return pageNum, nil
		}
		if len(n.Children) > 0 {
			pageNum = n.Children[0].Page
		} else {
			pageNum = n.Right
		}
	}
}

// Close flushes the underlying pager.
func (t *Tree) Close() error {
	return t.pager.Close()
}

var errNotFound = errors.New("btree: key not found")
