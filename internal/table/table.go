// Package table is the public facade: it owns a
// pager and the tree built on top of it, and translates between the
// engine's opaque [RowSize]byte cells and the driver's row.Row values.
package table

import (
	"fmt"

	"github.com/l4zy9uy/bptreedb/internal/btree"
	"github.com/l4zy9uy/bptreedb/internal/pager"
	"github.com/l4zy9uy/bptreedb/internal/row"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Table is the top-level handle a driver opens once per database file.
type Table struct {
	pager *pager.Pager
	tree  *btree.Tree
	log   *zap.SugaredLogger
}

// Open opens (creating if necessary) the database file at path through fs
// and prepares its B+ tree, allocating an empty root leaf if the file was
// new.
func Open(fs afero.Fs, path string, log *zap.SugaredLogger) (*Table, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	p, err := pager.Open(fs, path, log)
	if err != nil {
		return nil, err
	}
	tr, err := btree.Open(p, log)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	return &Table{pager: p, tree: tr, log: log}, nil
}

// Close flushes every dirty page and releases the file handle.
func (t *Table) Close() error {
	return t.tree.Close()
}

// Insert adds r to the table, keyed by r.ID.
func (t *Table) Insert(r row.Row) error {
	var buf [btree.RowSize]byte
	if err := row.Serialize(r, buf[:]); err != nil {
		return fmt.Errorf("table: insert: %w", err)
	}
	return t.tree.Insert(r.ID, buf)
}

// Cursor is a read-only, ordered view over the table's rows.
type Cursor struct {
	inner *btree.Cursor
}

// Scan returns a cursor positioned at the first row in key order.
func (t *Table) Scan() (*Cursor, error) {
	c, err := t.tree.Start()
	if err != nil {
		return nil, err
	}
	return &Cursor{inner: c}, nil
}

// Find returns a cursor positioned at key's slot (present or not).
func (t *Table) Find(key uint32) (*Cursor, error) {
	c, err := t.tree.Find(key)
	if err != nil {
		return nil, err
	}
	return &Cursor{inner: c}, nil
}

// Valid reports whether the cursor is positioned on a row.
func (c *Cursor) Valid() bool { return c.inner.Valid() }

// Row decodes the row at the cursor's current position.
func (c *Cursor) Row() (row.Row, error) {
	buf, err := c.inner.ReadRow()
	if err != nil {
		return row.Row{}, err
	}
	return row.Deserialize(buf[:])
}

// Next advances the cursor in ascending key order.
func (c *Cursor) Next() error { return c.inner.Advance() }

// DebugTree renders the tree's structure for `.btree`.
func (t *Table) DebugTree() (string, error) {
	return t.tree.DebugTree()
}
