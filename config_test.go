package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "opts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`row_sep: 0.4cm
column_sep: 3mm
border: 5pt
standalone: true
verbose: true
`), 0644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, &Config{
		RowSep:     "0.4cm",
		ColumnSep:  "3mm",
		Border:     "5pt",
		Standalone: true,
		Verbose:    true,
	}, cfg)

	opts := cfg.options(nil)
	assert.Equal(t, "0.4cm", opts.RowSep)
	assert.Equal(t, "3mm", opts.ColumnSep)
}

func TestLoadConfigDefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	// A missing default file is not an error.
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)

	require.NoError(t, os.WriteFile(filepath.Join(home, configFile), []byte("column_sep: 1mm\n"), 0644))
	cfg, err = loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "1mm", cfg.ColumnSep)
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := loadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	unknown := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, os.WriteFile(unknown, []byte("rowsep: 1cm\n"), 0644))
	_, err = loadConfig(unknown)
	assert.Error(t, err)

	malformed := filepath.Join(dir, "malformed.yaml")
	require.NoError(t, os.WriteFile(malformed, []byte("row_sep: [\n"), 0644))
	_, err = loadConfig(malformed)
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	for _, verbose := range []bool{false, true} {
		log, err := newLogger(verbose)
		require.NoError(t, err)
		assert.Equal(t, verbose, log.Core().Enabled(zapcore.DebugLevel))
	}
}
