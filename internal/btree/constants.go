package btree

import "github.com/l4zy9uy/bptreedb/internal/pager"

const (
	// RowSize is the width, in bytes, of the opaque payload the engine
	// stores alongside each key. It is kept equal to internal/row.Size
	// by the engine/row roundtrip test in internal/table.
	RowSize = 291

	// PageSize mirrors pager.PageSize so node-capacity arithmetic reads
	// naturally in this package.
	PageSize = pager.PageSize

	nodeTypeLeaf     = 1
	nodeTypeInternal = 0

	// Common header: is_leaf(1) + is_root(1) + parent(4).
	commonHeaderSize = 1 + 1 + 4

	// Leaf header adds next_leaf(4) + num_cells(4).
	LeafHeaderSize = commonHeaderSize + 4 + 4

	leafKeySize  = 4
	leafCellSize = leafKeySize + RowSize

	// LeafSpaceForCells is the number of bytes in a page left over for
	// cells once the leaf header is accounted for.
	LeafSpaceForCells = PageSize - LeafHeaderSize

	// LeafMaxCells is the maximum number of (key, row) cells a leaf page
	// can hold.
	LeafMaxCells = LeafSpaceForCells / leafCellSize

	// LeafSplitIndex is where a full leaf plus one virtual insert is cut:
	// indices [0, LeafSplitIndex) stay left, [LeafSplitIndex, LeafMaxCells]
	// move right.
	LeafSplitIndex = LeafMaxCells/2 + 1

	// Internal header adds num_keys(4) + rightmost child page(4).
	internalHeaderSize = commonHeaderSize + 4 + 4
	internalChildSize  = 4 + 4 // child page + bound key

	// InternalSpaceForChildren is the header-adjusted remainder of a page.
	InternalSpaceForChildren = PageSize - internalHeaderSize

	// InternalMaxChildren is a cap on children per internal node.
	// spec.md §3 only offers "~340" as an illustrative, byte-packed upper
	// bound; it does not mandate one, and "internal node full" is a
	// recoverable, split-triggering condition rather than a hard
	// geometric limit. Kept small on purpose so that a real three-level
	// tree (internal root -> internal -> leaf) forms from ordinary
	// Insert calls well inside MAX_PAGES, instead of requiring hundreds
	// of live child pages that the pager could never allocate.
	InternalMaxChildren = 4
)
