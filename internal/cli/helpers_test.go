package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// mixedQASM has one removable SWAP and one that becomes an aswap.
const mixedQASM = `OPENQASM 2.0;
include "qelib1.inc";
qreg q[3];
swap q[0],q[1];
h q[0];
cx q[0],q[1];
swap q[1],q[2];
`

const circuitsCUE = `package test

circuit: bell_swap: {
	qubits: 2
	ops: [
		{gate: "h", wires: [0]},
		{gate: "swap", wires: [0, 1]},
	]
}

circuit: idle_swap: {
	qubits: 2
	ops: [
		{gate: "swap", wires: [0, 1]},
	]
}
`

// writeFile writes content under dir and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// executeCommand runs the root command and captures both streams.
func executeCommand(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}
