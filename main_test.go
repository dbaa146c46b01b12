package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command with an empty home directory.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func golden(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(data)
}

func TestRenderFile(t *testing.T) {
	out, err := run(t, "", "render", filepath.Join("testdata", "bell.qasm"))
	require.NoError(t, err)
	assert.Equal(t, golden(t, "bell.tex"), out)
}

func TestRenderStdin(t *testing.T) {
	out, err := run(t, golden(t, "bell.qasm"), "render")
	require.NoError(t, err)
	assert.Equal(t, golden(t, "bell.tex"), out)

	out, err = run(t, golden(t, "bell.qasm"), "render", "-")
	require.NoError(t, err)
	assert.Equal(t, golden(t, "bell.tex"), out)
}

func TestRenderOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bell.tex")
	out, err := run(t, "", "render", "-o", path, filepath.Join("testdata", "bell.qasm"))
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, golden(t, "bell.tex"), string(data))
}

func TestRenderConfigAndFlags(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "opts.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("row_sep: 0.4cm\nstandalone: true\nborder: 1mm\n"), 0644))
	src := filepath.Join("testdata", "bell.qasm")

	out, err := run(t, "", "render", "--config", cfgPath, src)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, `\documentclass[tikz,border=1mm]{standalone}`), out)
	assert.Contains(t, out, `\begin{quantikz}[row sep={0.4cm}]`)
	assert.True(t, strings.HasSuffix(out, "\\end{document}\n"))

	out, err = run(t, "", "render", "--config", cfgPath, "--row-sep", "1cm", "--col-sep", "2mm", "--standalone=false", src)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, `\begin{quantikz}[row sep={1cm}, column sep={2mm}]`), out)
	assert.NotContains(t, out, `\documentclass`)
}

func TestRenderTable(t *testing.T) {
	out, err := run(t, "", "render", "--table", filepath.Join("testdata", "teleport.qasm"))
	require.NoError(t, err)

	for _, want := range []string{
		"Wire", "Cells", "Measured",
		"q[0]", "c0", "c1",
		`0:\gate{H}`,
		`4:\meter{}\wire[d][2]{c}`,
		`4:\gate{Z}`,
		`6:\gate{X}`,
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, `\begin{quantikz}`)
}

func TestRenderErrors(t *testing.T) {
	_, err := run(t, "qubit[2] q;\nh r[0];\n", "render")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2:3: unknown quantum register r")

	_, err = run(t, "qubit[2] q\nh q[0];\n", "render")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")

	_, err = run(t, "", "render", filepath.Join(t.TempDir(), "missing.qasm"))
	assert.Error(t, err)

	_, err = run(t, "", "render", "--config", filepath.Join(t.TempDir(), "missing.yaml"), filepath.Join("testdata", "bell.qasm"))
	assert.Error(t, err)
}

func TestWatchRequiresOutput(t *testing.T) {
	_, err := run(t, "", "watch", filepath.Join("testdata", "bell.qasm"))
	assert.Error(t, err)
}
