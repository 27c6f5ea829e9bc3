// Command purestate runs the pure-state SWAP elimination pass.
//
// Usage:
//
//	purestate optimize circuit.qasm -o circuit.opt.qasm --verify --db runs.db
//	purestate validate ./circuits
//	purestate test ./scenarios
//	purestate report runs.db
package main

import (
	"os"

	"github.com/roach88/purestate/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		cli.ReportError(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
