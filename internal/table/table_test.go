package table

import (
	"fmt"
	"testing"

	"github.com/l4zy9uy/bptreedb/internal/btree"
	"github.com/l4zy9uy/bptreedb/internal/row"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTable(t *testing.T, fs afero.Fs, path string) *Table {
	t.Helper()
	tb, err := Open(fs, path, nil)
	require.NoError(t, err)
	return tb
}

func scanAll(t *testing.T, tb *Table) []row.Row {
	t.Helper()
	cur, err := tb.Scan()
	require.NoError(t, err)
	var got []row.Row
	for cur.Valid() {
		r, err := cur.Row()
		require.NoError(t, err)
		got = append(got, r)
		require.NoError(t, cur.Next())
	}
	return got
}

func TestInsertAndScanSingleRow(t *testing.T) {
	fs := afero.NewMemMapFs()
	tb := openTable(t, fs, "test.db")
	defer tb.Close()

	r := row.Row{ID: 1, Name: "user1", Email: "person1@example.com"}
	require.NoError(t, tb.Insert(r))

	got := scanAll(t, tb)
	require.Len(t, got, 1)
	assert.Equal(t, r, got[0])
}

func TestInsertDuplicateKeyFails(t *testing.T) {
	fs := afero.NewMemMapFs()
	tb := openTable(t, fs, "test.db")
	defer tb.Close()

	r := row.Row{ID: 1, Name: "user1", Email: "person1@example.com"}
	require.NoError(t, tb.Insert(r))
	err := tb.Insert(r)
	assert.ErrorIs(t, err, btree.ErrDuplicateKey)
}

func TestScanReturnsRowsInKeyOrder(t *testing.T) {
	fs := afero.NewMemMapFs()
	tb := openTable(t, fs, "test.db")
	defer tb.Close()

	order := []uint32{5, 1, 4, 2, 3}
	for _, id := range order {
		r := row.Row{ID: id, Name: fmt.Sprintf("user%d", id), Email: fmt.Sprintf("user%d@example.com", id)}
		require.NoError(t, tb.Insert(r))
	}

	got := scanAll(t, tb)
	require.Len(t, got, 5)
	for i, r := range got {
		assert.Equal(t, uint32(i+1), r.ID)
	}
}

func TestFindLocatesExistingKey(t *testing.T) {
	fs := afero.NewMemMapFs()
	tb := openTable(t, fs, "test.db")
	defer tb.Close()

	r := row.Row{ID: 42, Name: "answer", Email: "answer@example.com"}
	require.NoError(t, tb.Insert(r))

	cur, err := tb.Find(42)
	require.NoError(t, err)
	require.True(t, cur.Valid())
	got, err := cur.Row()
	require.NoError(t, err)
	assert.Equal(t, r, got)
}

func TestDebugTreeReflectsInsertedRows(t *testing.T) {
	fs := afero.NewMemMapFs()
	tb := openTable(t, fs, "test.db")
	defer tb.Close()

	for _, id := range []uint32{3, 1, 2} {
		require.NoError(t, tb.Insert(row.Row{ID: id, Name: "n", Email: "e@example.com"}))
	}

	out, err := tb.DebugTree()
	require.NoError(t, err)
	assert.Equal(t, "leaf (size 3)\n  - 1\n  - 2\n  - 3\n", out)
}

func TestPersistenceAcrossCloseReopen(t *testing.T) {
	fs := afero.NewMemMapFs()
	tb := openTable(t, fs, "test.db")

	for i := uint32(0); i <= 20; i++ {
		require.NoError(t, tb.Insert(row.Row{ID: i, Name: "n", Email: "e@example.com"}))
	}
	before := scanAll(t, tb)
	require.NoError(t, tb.Close())

	reopened := openTable(t, fs, "test.db")
	defer reopened.Close()
	after := scanAll(t, reopened)

	assert.Equal(t, before, after)
}
