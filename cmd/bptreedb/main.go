// Command bptreedb is the command-line driver: `bptreedb <database-file>`
// opens (or creates) the file and starts the REPL.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/l4zy9uy/bptreedb/internal/pager"
	"github.com/l4zy9uy/bptreedb/internal/repl"
	"github.com/l4zy9uy/bptreedb/internal/table"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	if len(args) != 2 {
		fmt.Fprintln(stderr, "usage: bptreedb <database-file>")
		return 1
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(stderr, "failed to initialize logger:", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Sugar()

	t, err := table.Open(afero.NewOsFs(), args[1], log)
	if err != nil {
		if errors.Is(err, pager.ErrCorruptFile) {
			fmt.Fprintln(stderr, "Error: database file is corrupt.")
		} else {
			fmt.Fprintln(stderr, "Error: could not open database file:", err)
		}
		return 1
	}

	return repl.Run(t, stdout, stderr, log)
}
