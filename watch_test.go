package main

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestWatchFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bell.qasm")
	require.NoError(t, os.WriteFile(path, []byte("qubit q;\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	var builds atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, zaptest.NewLogger(t), func() error {
			builds.Add(1)
			return nil
		})
	}()

	require.Eventually(t, func() bool { return builds.Load() == 1 }, 5*time.Second, 10*time.Millisecond)

	// Other files in the directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.qasm"), []byte("qubit r;\n"), 0644))
	require.NoError(t, os.WriteFile(path, []byte("qubit q;\nh q;\n"), 0644))
	require.Eventually(t, func() bool { return builds.Load() >= 2 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watchFile did not stop")
	}
}

func TestWatchFileMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "bell.qasm")
	err := watchFile(context.Background(), path, zaptest.NewLogger(t), func() error { return nil })
	assert.Error(t, err)
}

func TestRenderFileKeepsLastDiagram(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "bell.qasm")
	out := filepath.Join(dir, "bell.tex")
	input, err := os.ReadFile(filepath.Join("testdata", "bell.qasm"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(src, input, 0644))

	f := &renderFlags{output: out}
	require.NoError(t, renderFile(src, f, &Config{}, zaptest.NewLogger(t)))
	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, golden(t, "bell.tex"), string(got))

	// A broken source keeps the last good diagram.
	require.NoError(t, os.WriteFile(src, []byte("qubit q;\nh r;\n"), 0644))
	assert.Error(t, renderFile(src, f, &Config{}, zaptest.NewLogger(t)))
	got, err = os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, golden(t, "bell.tex"), string(got))
}
