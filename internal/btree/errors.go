package btree

import "errors"

// ErrDuplicateKey is returned by Insert when the key already exists in the
// target leaf.
var ErrDuplicateKey = errors.New("btree: duplicate key")

// ErrTableFull is returned when an insert needs to allocate a page but the
// pager has already reached MAX_PAGES.
var ErrTableFull = errors.New("btree: table full")

// ErrNodeType indicates the tree found a page that does not fit where the
// caller expected it (a split node missing from its parent's children) —
// a bug in the tree rather than a user error.
var ErrNodeType = errors.New("btree: unexpected node type")
