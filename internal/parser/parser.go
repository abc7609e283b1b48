// Package parser implements the driver's fixed two-statement grammar:
// `insert <id> <name> <email>` and `select`, plus the
// `.exit` / `.btree` / `.constants` meta-commands. It is a hand-rolled
// scanner, not a general SQL parser — the grammar
// is fixed and tiny on purpose, kept entirely separate from the storage
// engine.
package parser

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/l4zy9uy/bptreedb/internal/row"
)

// Meta-command errors.
var ErrMetaCommandUnrecognized = errors.New("unrecognized command")

// Prepare-time errors. A row that fails one of these never
// reaches the engine.
var (
	ErrPrepareSyntax        = errors.New("syntax error")
	ErrPrepareUnrecognized  = errors.New("unrecognized keyword at start of")
	ErrPrepareNegativeID    = errors.New("id must be positive")
	ErrPrepareStringTooLong = errors.New("String is too long")
)

// MetaCommand identifies one of the dot-commands.
type MetaCommand int

const (
	MetaExit MetaCommand = iota
	MetaBTree
	MetaConstants
)

// ParseMetaCommand recognizes a line starting with '.'. It returns
// ErrMetaCommandUnrecognized wrapped with the offending text if line isn't
// one of the known meta-commands.
func ParseMetaCommand(line string) (MetaCommand, error) {
	switch line {
	case ".exit":
		return MetaExit, nil
	case ".btree":
		return MetaBTree, nil
	case ".constants":
		return MetaConstants, nil
	default:
		return 0, fmt.Errorf("%w '%s'", ErrMetaCommandUnrecognized, line)
	}
}

// StatementType distinguishes the two statements the grammar supports.
type StatementType int

const (
	StatementInsert StatementType = iota
	StatementSelect
)

// Statement is a parsed, validated line ready for the engine. RowToInsert
// is only meaningful when Type == StatementInsert.
type Statement struct {
	Type        StatementType
	RowToInsert row.Row
}

// Prepare parses a single input line into a Statement, performing every
// validation required before the row ever
// reaches the engine: non-negative id, name within row.NameSize, email
// within row.EmailSize.
func Prepare(line string) (Statement, error) {
	if line == "select" {
		return Statement{Type: StatementSelect}, nil
	}
	if strings.HasPrefix(line, "insert") {
		return prepareInsert(line)
	}
	return Statement{}, fmt.Errorf("%w '%s'", ErrPrepareUnrecognized, firstWord(line))
}

func prepareInsert(line string) (Statement, error) {
	fields := strings.Fields(line)
	if len(fields) != 4 || fields[0] != "insert" {
		return Statement{}, ErrPrepareSyntax
	}
	id, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return Statement{}, ErrPrepareSyntax
	}
	if id < 0 {
		return Statement{}, ErrPrepareNegativeID
	}
	if id > math.MaxUint32 {
		return Statement{}, ErrPrepareSyntax
	}
	name, email := fields[2], fields[3]
	if len(name) > row.NameSize {
		return Statement{}, ErrPrepareStringTooLong
	}
	if len(email) > row.EmailSize {
		return Statement{}, ErrPrepareStringTooLong
	}
	return Statement{
		Type:        StatementInsert,
		RowToInsert: row.Row{ID: uint32(id), Name: name, Email: email},
	}, nil
}

func firstWord(line string) string {
	if i := strings.IndexByte(line, ' '); i >= 0 {
		return line[:i]
	}
	return line
}
