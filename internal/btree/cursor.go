package btree

// Cursor is a positional iterator over the leaf chain: (leaf page, cell
// index), plus a flag for whether that position currently holds a row.
// Any mutating Tree operation invalidates every outstanding cursor — the
// caller is responsible for not reusing one across an Insert.
type Cursor struct {
	tree  *Tree
	page  uint32
	idx   int
	valid bool
}

// Start returns a cursor positioned at the first cell of the leftmost
// leaf. If the tree is empty, the cursor is immediately invalid.
func (t *Tree) Start() (*Cursor, error) {
	page, err := t.firstLeafPage()
	if err != nil {
		return nil, err
	}
	leaf, err := t.load(page)
	if err != nil {
		return nil, err
	}
	return &Cursor{tree: t, page: page, idx: 0, valid: len(leaf.Cells) > 0}, nil
}

// Find returns a cursor positioned via FindLeaf + findSlot: at the
// insertion slot for key, whether or not key is actually present. Valid()
// on a by-key cursor reports only whether the slot currently holds a row
// (e.g. for update/overwrite checks); it carries no meaning for iteration,
// callers that want to scan from here should not rely
// on Valid() alone without checking Key() == key first.
func (t *Tree) Find(key uint32) (*Cursor, error) {
	page, err := t.FindLeaf(key)
	if err != nil {
		return nil, err
	}
	leaf, err := t.load(page)
	if err != nil {
		return nil, err
	}
	idx, _ := findSlot(leaf, key)
	return &Cursor{tree: t, page: page, idx: idx, valid: idx < len(leaf.Cells)}, nil
}

// Valid reports whether the cursor is currently positioned on a cell.
func (c *Cursor) Valid() bool { return c.valid }

// Key returns the key at the cursor's current position. Only call this
// when Valid() is true.
func (c *Cursor) Key() (uint32, error) {
	leaf, err := c.leaf()
	if err != nil {
		return 0, err
	}
	return leaf.Cells[c.idx].Key, nil
}

// ReadRow copies the row payload at the cursor's current position into a
// fresh [RowSize]byte.
func (c *Cursor) ReadRow() ([RowSize]byte, error) {
	leaf, err := c.leaf()
	if err != nil {
		return [RowSize]byte{}, err
	}
	if !c.valid || c.idx >= len(leaf.Cells) {
		return [RowSize]byte{}, errNotFound
	}
	return leaf.Cells[c.idx].Row, nil
}

func (c *Cursor) leaf() (*Node, error) {
	return c.tree.load(c.page)
}

// Advance moves the cursor to the next cell in ascending key order,
// crossing into the next leaf via its next_leaf pointer when the current
// leaf is exhausted. If there is no next leaf, the cursor becomes invalid
// (end of table).
func (c *Cursor) Advance() error {
	leaf, err := c.leaf()
	if err != nil {
		return err
	}
	c.idx++
	if c.idx < len(leaf.Cells) {
		return nil
	}
	if !leaf.HasNext {
		c.valid = false
		return nil
	}
	next, err := c.tree.load(leaf.NextLeaf)
	if err != nil {
		return err
	}
	c.page = leaf.NextLeaf
	c.idx = 0
	c.valid = len(next.Cells) > 0
	return nil
}
