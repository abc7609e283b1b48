// Package repl drives the read-eval-print loop: one command per input
// line, dispatched to either a meta-command or a statement. Line reading
// is delegated to chzyer/readline for history and
// editing, while keeping the one-line-per-command contract the loop has
// always relied on.
package repl

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/l4zy9uy/bptreedb/internal/btree"
	"github.com/l4zy9uy/bptreedb/internal/parser"
	"github.com/l4zy9uy/bptreedb/internal/table"
	"go.uber.org/zap"
)

const prompt = "db > "

// Run drives the loop against t until `.exit`, EOF, or an unrecoverable
// read error. It returns the process exit code the driver should use.
func Run(t *table.Table, out io.Writer, errOut io.Writer, log *zap.SugaredLogger) int {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryLimit:    1000,
		InterruptPrompt: "^C",
		EOFPrompt:       "",
	})
	if err != nil {
		fmt.Fprintf(errOut, "repl: %v\n", err)
		return 1
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
				return exitCleanly(t, out, log)
			}
			fmt.Fprintf(errOut, "repl: %v\n", err)
			return 1
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			if code, stop := handleMeta(t, line, out, errOut, log); stop {
				return code
			}
			continue
		}

		handleStatement(t, line, out, errOut)
	}
}

// handleMeta reports whether the REPL should stop, and with what exit
// code, when line is a recognized `.exit`.
func handleMeta(t *table.Table, line string, out, errOut io.Writer, log *zap.SugaredLogger) (code int, stop bool) {
	cmd, err := parser.ParseMetaCommand(line)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v.\n", err)
		return 0, false
	}
	switch cmd {
	case parser.MetaExit:
		return exitCleanly(t, out, log), true
	case parser.MetaBTree:
		tree, err := t.DebugTree()
		if err != nil {
			fmt.Fprintf(errOut, "Error: %v.\n", err)
			return 0, false
		}
		fmt.Fprint(out, tree)
		return 0, false
	case parser.MetaConstants:
		fmt.Fprint(out, btree.ConstantsDump())
		return 0, false
	}
	return 0, false
}

func exitCleanly(t *table.Table, out io.Writer, log *zap.SugaredLogger) int {
	if err := t.Close(); err != nil {
		log.Errorw("close failed", "err", err)
		return 1
	}
	return 0
}

func handleStatement(t *table.Table, line string, out, errOut io.Writer) {
	stmt, err := parser.Prepare(line)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v.\n", err)
		return
	}

	switch stmt.Type {
	case parser.StatementInsert:
		if err := t.Insert(stmt.RowToInsert); err != nil {
			fmt.Fprintf(errOut, "Error: %v.\n", describeInsertError(err))
			return
		}
		fmt.Fprintln(out, "Executed.")
	case parser.StatementSelect:
		if err := selectAll(t, out); err != nil {
			fmt.Fprintf(errOut, "Error: %v.\n", err)
			return
		}
		fmt.Fprintln(out, "Executed.")
	}
}

func selectAll(t *table.Table, out io.Writer) error {
	cur, err := t.Scan()
	if err != nil {
		return err
	}
	for cur.Valid() {
		r, err := cur.Row()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, r.String())
		if err := cur.Next(); err != nil {
			return err
		}
	}
	return nil
}

func describeInsertError(err error) string {
	if errors.Is(err, btree.ErrDuplicateKey) {
		return "Duplicate key"
	}
	if errors.Is(err, btree.ErrTableFull) {
		return "Table full"
	}
	return err.Error()
}

