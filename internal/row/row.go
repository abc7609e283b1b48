// Package row packs and unpacks the fixed user row the driver understands:
// an id, a username, and an email. The storage engine never looks inside
// this payload — it only ever sees ROW_SIZE opaque bytes — so this package
// has no callers outside internal/parser and internal/table.
package row

import (
	"encoding/binary"
	"fmt"
	"strings"
)

const (
	IDSize    = 4
	NameSize  = 32
	EmailSize = 255

	// Size is the fixed width of a serialized row. The engine's ROW_SIZE
	// constant (internal/btree) must equal this.
	Size = IDSize + NameSize + EmailSize

	idOffset    = 0
	nameOffset  = idOffset + IDSize
	emailOffset = nameOffset + NameSize
)

// Row is the decoded form of one user record.
type Row struct {
	ID    uint32
	Name  string
	Email string
}

// Serialize packs r into dst, which must be exactly Size bytes long.
func Serialize(r Row, dst []byte) error {
	if len(dst) != Size {
		return fmt.Errorf("row.Serialize: dst length %d, want %d", len(dst), Size)
	}
	if len(r.Name) > NameSize {
		return fmt.Errorf("row.Serialize: name %q exceeds %d bytes", r.Name, NameSize)
	}
	if len(r.Email) > EmailSize {
		return fmt.Errorf("row.Serialize: email %q exceeds %d bytes", r.Email, EmailSize)
	}

	for i := range dst {
		dst[i] = 0
	}
	binary.BigEndian.PutUint32(dst[idOffset:idOffset+IDSize], r.ID)
	copy(dst[nameOffset:nameOffset+NameSize], r.Name)
	copy(dst[emailOffset:emailOffset+EmailSize], r.Email)
	return nil
}

// Deserialize unpacks src, which must be exactly Size bytes long.
func Deserialize(src []byte) (Row, error) {
	if len(src) != Size {
		return Row{}, fmt.Errorf("row.Deserialize: src length %d, want %d", len(src), Size)
	}
	id := binary.BigEndian.Uint32(src[idOffset : idOffset+IDSize])
	name := strings.TrimRight(string(src[nameOffset:nameOffset+NameSize]), "\x00")
	email := strings.TrimRight(string(src[emailOffset:emailOffset+EmailSize]), "\x00")
	return Row{ID: id, Name: name, Email: email}, nil
}

// String formats a row the way the REPL prints it from `select`.
func (r Row) String() string {
	return fmt.Sprintf("(%d, %q, %q)", r.ID, r.Name, r.Email)
}
