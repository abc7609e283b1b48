package parser

import (
	"strings"
	"testing"

	"github.com/l4zy9uy/bptreedb/internal/row"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMetaCommand(t *testing.T) {
	cases := []struct {
		line string
		want MetaCommand
	}{
		{".exit", MetaExit},
		{".btree", MetaBTree},
		{".constants", MetaConstants},
	}
	for _, c := range cases {
		got, err := ParseMetaCommand(c.line)
		require.NoError(t, err)
		assert.Equal(t, c.want, got)
	}
}

func TestParseMetaCommandUnrecognized(t *testing.T) {
	_, err := ParseMetaCommand(".frobnicate")
	assert.ErrorIs(t, err, ErrMetaCommandUnrecognized)
}

func TestPrepareSelect(t *testing.T) {
	stmt, err := Prepare("select")
	require.NoError(t, err)
	assert.Equal(t, StatementSelect, stmt.Type)
}

func TestPrepareInsertValid(t *testing.T) {
	stmt, err := Prepare("insert 1 user1 person1@example.com")
	require.NoError(t, err)
	assert.Equal(t, StatementInsert, stmt.Type)
	assert.Equal(t, row.Row{ID: 1, Name: "user1", Email: "person1@example.com"}, stmt.RowToInsert)
}

func TestPrepareInsertUnrecognizedKeyword(t *testing.T) {
	_, err := Prepare("bogus 1 a b")
	assert.ErrorIs(t, err, ErrPrepareUnrecognized)
}

func TestPrepareInsertSyntaxErrorTooFewArgs(t *testing.T) {
	_, err := Prepare("insert 1 user1")
	assert.ErrorIs(t, err, ErrPrepareSyntax)
}

func TestPrepareInsertSyntaxErrorNonNumericID(t *testing.T) {
	_, err := Prepare("insert foo user1 person1@example.com")
	assert.ErrorIs(t, err, ErrPrepareSyntax)
}

func TestPrepareInsertNegativeID(t *testing.T) {
	_, err := Prepare("insert -1 user1 person1@example.com")
	assert.ErrorIs(t, err, ErrPrepareNegativeID)
}

func TestPrepareInsertMaxLengthStringsAccepted(t *testing.T) {
	name := strings.Repeat("a", row.NameSize)
	email := strings.Repeat("b", row.EmailSize)
	stmt, err := Prepare("insert 1 " + name + " " + email)
	require.NoError(t, err)
	assert.Equal(t, name, stmt.RowToInsert.Name)
	assert.Equal(t, email, stmt.RowToInsert.Email)
}

func TestPrepareInsertNameTooLong(t *testing.T) {
	name := strings.Repeat("a", row.NameSize+1)
	_, err := Prepare("insert 1 " + name + " person1@example.com")
	assert.ErrorIs(t, err, ErrPrepareStringTooLong)
}

func TestPrepareInsertEmailTooLong(t *testing.T) {
	email := strings.Repeat("b", row.EmailSize+1)
	_, err := Prepare("insert 1 user1 " + email)
	assert.ErrorIs(t, err, ErrPrepareStringTooLong)
}
