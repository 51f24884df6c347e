// Package main provides tests for the LeapCalc CLI.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/leapstack-labs/leapcalc/internal/cli"
	"github.com/leapstack-labs/leapcalc/internal/cli/commands"
	"github.com/leapstack-labs/leapcalc/internal/cli/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command in a fresh working directory so the
// default history database is private to the test.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := cli.NewRootCmd()
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)
}

func TestVersionCommand(t *testing.T) {
	isolate(t)

	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "LeapCalc")
}

func TestHelpCommand(t *testing.T) {
	out, _, err := run(t, "--help")
	require.NoError(t, err)

	for _, name := range []string{"serve", "eval", "repl", "tui", "history", "migrate"} {
		assert.Contains(t, out, name, "help should list %s", name)
	}
}

func TestEvalCommand(t *testing.T) {
	isolate(t)

	out, _, err := run(t, "eval", "2", "+", "3", "*", "4")
	require.NoError(t, err)
	assert.Equal(t, "14\n", out)
}

func TestEvalCommand_Failure(t *testing.T) {
	isolate(t)

	out, errOut, err := run(t, "eval", "1/0")
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrEvaluation)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "Division By Zero")
}

func TestEvalRecordThenHistory(t *testing.T) {
	isolate(t)

	_, _, err := run(t, "eval", "--record", "--session", "alpha", "6*7")
	require.NoError(t, err)
	_, _, err = run(t, "eval", "--record", "--session", "beta", "1+1")
	require.NoError(t, err)

	out, _, err := run(t, "history", "list", "--session", "alpha", "-o", "json")
	require.NoError(t, err)

	var entries []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "6*7", entries[0]["expression"])
	assert.Equal(t, "42", entries[0]["result"])
	assert.Equal(t, "alpha", entries[0]["session_key"])

	out, _, err = run(t, "history", "list", "--all", "-o", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "6*7")
	assert.Contains(t, out, "1+1")
	assert.True(t, strings.Contains(out, "|"), "markdown output should be a table")
}

func TestInvalidOutputFlag(t *testing.T) {
	isolate(t)

	_, _, err := run(t, "eval", "-o", "xml", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output")
}
