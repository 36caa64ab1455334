// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testModel = `
standard: std1q_xyi
default_param: tp
strings: ["{}", "Gx", "Gx,Gx"]
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()

	return out.String(), err
}

func writeModel(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testModel), 0o600))

	return path
}

func TestProbsCmd(t *testing.T) {
	t.Parallel()
	path := writeModel(t)

	out, err := run(t, "probs", "-m", path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"string", "plus", "minus"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"Gx", "0.500000", "0.500000"}, strings.Fields(lines[2]))
	assert.Equal(t, "1.000000", strings.Fields(lines[3])[1])

	out, err = run(t, "probs", "-m", path, "--string", "Gy", "--derivs", "-w", "2")
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Len(t, strings.Fields(lines[1]), 5)
}

func TestGaugeCmd(t *testing.T) {
	t.Parallel()
	out, err := run(t, "gauge", "-m", writeModel(t))
	require.NoError(t, err)
	assert.Equal(t, "params=43 gauge=12 non-gauge=31\n", out)
}

func TestBasisCmd(t *testing.T) {
	t.Parallel()
	out, err := run(t, "basis", "std", "2")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"1.0000", "0.0000", "0.0000", "0.0000"}, strings.Fields(lines[0]))

	_, err = run(t, "basis", "xx", "2")
	assert.Error(t, err)
	_, err = run(t, "basis", "pp")
	assert.Error(t, err)
}

func TestRootCmd_Errors(t *testing.T) {
	t.Parallel()
	_, err := run(t, "probs", "-m", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, err = run(t, "gauge", "-m", writeModel(t), "--log-level", "loud")
	assert.Error(t, err)
}
