package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/chazuruo/tokentpl/internal/cli"
	tplerrors "github.com/chazuruo/tokentpl/internal/errors"
)

// Version is set at build time using ldflags
var Version = "dev"

// Commit is set at build time using ldflags
var Commit = "unknown"

// Date is set at build time using ldflags
var Date = "unknown"

// BuiltBy is set at build time using ldflags
var BuiltBy = "unknown"

func main() {
	rootCmd := cli.NewRootCommand(cli.BuildInfo{
		Version: Version,
		Commit:  Commit,
		Date:    Date,
		BuiltBy: BuiltBy,
	})

	if err := rootCmd.Execute(); err != nil {
		switch {
		case errors.Is(err, cli.ErrNoMatch):
			// The match output already says everything.
		case tplerrors.IsCanceled(err):
			fmt.Fprintln(os.Stderr, "canceled")
		default:
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
