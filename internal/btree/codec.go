package btree

import (
	"encoding/binary"
	"fmt"

	"github.com/l4zy9uy/bptreedb/internal/pager"
)

// Encode writes n into page, which must be exactly PageSize bytes (i.e. a
// *pager.Page's Data). Trailing bytes are zero-padded. Encode fails if n
// violates a capacity invariant; a node built by this package never does,
// but a node reconstructed from external or corrupted data might.
func Encode(n *Node, page *pager.Page) error {
	buf := page.Data[:]
	for i := range buf {
		buf[i] = 0
	}

	buf[0] = boolToLeafByte(n.IsLeaf)
	buf[1] = boolToByte(n.IsRoot)
	binary.BigEndian.PutUint32(buf[2:6], n.Parent)

	if n.IsLeaf {
		if len(n.Cells) > LeafMaxCells {
			return fmt.Errorf("btree: encode leaf: %d cells exceeds max %d", len(n.Cells), LeafMaxCells)
		}
		next := uint32(0)
		if n.HasNext {
			next = n.NextLeaf
		}
		binary.BigEndian.PutUint32(buf[6:10], next)
		binary.BigEndian.PutUint32(buf[10:14], uint32(len(n.Cells)))

		off := LeafHeaderSize
		for _, c := range n.Cells {
			binary.BigEndian.PutUint32(buf[off:off+4], c.Key)
			off += 4
			copy(buf[off:off+RowSize], c.Row[:])
			off += RowSize
		}
		return nil
	}

	numKeys := len(n.Children)
	if numKeys+1 > InternalMaxChildren {
		return fmt.Errorf("btree: encode internal: %d children exceeds max %d", numKeys+1, InternalMaxChildren)
	}
	binary.BigEndian.PutUint32(buf[6:10], uint32(numKeys))
	binary.BigEndian.PutUint32(buf[10:14], n.Right)

	off := internalHeaderSize
	for _, c := range n.Children {
		binary.BigEndian.PutUint32(buf[off:off+4], c.Page)
		binary.BigEndian.PutUint32(buf[off+4:off+8], c.Bound)
		off += internalChildSize
	}
	return nil
}

// Decode reconstructs a Node from page's bytes. pageNum is stamped onto
// the result since the page itself carries no self-referential number.
func Decode(page *pager.Page, pageNum uint32) (*Node, error) {
	buf := page.Data[:]
	n := &Node{Page: pageNum}

	switch buf[0] {
	case nodeTypeLeaf:
		n.IsLeaf = true
	case nodeTypeInternal:
		n.IsLeaf = false
	default:
		return nil, fmt.Errorf("btree: decode page %d: unknown node type byte %d", pageNum, buf[0])
	}
	n.IsRoot = buf[1] != 0
	n.Parent = binary.BigEndian.Uint32(buf[2:6])

	if n.IsLeaf {
		next := binary.BigEndian.Uint32(buf[6:10])
		numCells := binary.BigEndian.Uint32(buf[10:14])
		if int(numCells) > LeafMaxCells {
			return nil, fmt.Errorf("btree: decode page %d: num_cells %d exceeds max %d", pageNum, numCells, LeafMaxCells)
		}
		n.HasNext = next != 0
		n.NextLeaf = next
		n.Cells = make([]Cell, numCells)
		off := LeafHeaderSize
		for i := range n.Cells {
			n.Cells[i].Key = binary.BigEndian.Uint32(buf[off : off+4])
			off += 4
			copy(n.Cells[i].Row[:], buf[off:off+RowSize])
			off += RowSize
		}
		return n, nil
	}

	numKeys := binary.BigEndian.Uint32(buf[6:10])
	if int(numKeys)+1 > InternalMaxChildren {
		return nil, fmt.Errorf("btree: decode page %d: num_keys %d exceeds max %d", pageNum, numKeys, InternalMaxChildren-1)
	}
	n.Right = binary.BigEndian.Uint32(buf[10:14])
	n.Children = make([]Child, numKeys)
	off := internalHeaderSize
	for i := range n.Children {
		n.Children[i].Page = binary.BigEndian.Uint32(buf[off : off+4])
		n.Children[i].Bound = binary.BigEndian.Uint32(buf[off+4 : off+8])
		off += internalChildSize
	}
	return n, nil
}

func boolToLeafByte(isLeaf bool) byte {
	if isLeaf {
		return nodeTypeLeaf
	}
	return nodeTypeInternal
}

func boolToByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
