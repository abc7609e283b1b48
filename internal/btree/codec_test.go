package btree

import (
	"testing"

	"github.com/l4zy9uy/bptreedb/internal/pager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeafRoundTrip(t *testing.T) {
	n := &Node{
		Page:     3,
		IsLeaf:   true,
		IsRoot:   false,
		Parent:   1,
		HasNext:  true,
		NextLeaf: 9,
	}
	for i := uint32(0); i < 5; i++ {
		var row [RowSize]byte
		row[0] = byte(i)
		n.Cells = append(n.Cells, Cell{Key: i * 10, Row: row})
	}

	var page pager.Page
	require.NoError(t, Encode(n, &page))

	got, err := Decode(&page, 3)
	require.NoError(t, err)
	assert.Equal(t, n, got)
}

func TestInternalRoundTrip(t *testing.T) {
	n := &Node{
		Page:   1,
		IsLeaf: false,
		IsRoot: true,
		Children: []Child{
			{Bound: 10, Page: 2},
			{Bound: 20, Page: 3},
		},
		Right: 4,
	}

	var page pager.Page
	require.NoError(t, Encode(n, &page))

	got, err := Decode(&page, 1)
	require.NoError(t, err)
	assert.True(t, got.IsRoot)
	assert.False(t, got.IsLeaf)
	assert.Equal(t, n.Children, got.Children)
	assert.Equal(t, n.Right, got.Right)
}

func TestEncodeRejectsOverflowingLeaf(t *testing.T) {
	n := &Node{IsLeaf: true, Cells: make([]Cell, LeafMaxCells+1)}
	var page pager.Page
	assert.Error(t, Encode(n, &page))
}

func TestDecodeRejectsUnknownNodeType(t *testing.T) {
	var page pager.Page
	page.Data[0] = 7
	_, err := Decode(&page, 0)
	assert.Error(t, err)
}

func TestLeafConstantsMatchSpec(t *testing.T) {
	assert.Equal(t, uint32(14), uint32(LeafHeaderSize))
	assert.Equal(t, uint32(13), uint32(LeafMaxCells))
	assert.Equal(t, uint32(7), uint32(LeafSplitIndex))
}
