package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const passingScenario = `name: passing
description: "Left operand wins"
session: cli-session-1
handlers:
  - name: L
    kind: tag
steps:
  - op: wrap
    handler: L
    value: 1
    as: l
  - op: binary
    operator: "+"
    args: ["$l", 2]
    expect: "L.left +"
  - op: unary
    operator: "-"
    args: [3]
    expect: -3
assertions:
  - type: trace_count
    route: left
    count: 1
`

const failingScenario = `name: failing
description: "Wrong expectation"
session: cli-session-2
steps:
  - op: binary
    operator: "+"
    args: [1, 2]
    expect: 4
`

// writeFile writes content under dir and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// execute runs cmd with args and returns stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}
