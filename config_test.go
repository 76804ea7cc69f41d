package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scroll.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.True(t, cfg.Pruning)
	assert.Equal(t, 2, cfg.Depth)
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, "pruning: false\ndepth: 5\ndb: runs.db\nmetricsFile: out.prom\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.False(t, cfg.Pruning)
	assert.Equal(t, 5, cfg.Depth)
	assert.Equal(t, "runs.db", cfg.DBPath)
	assert.Equal(t, "out.prom", cfg.MetricsFile)
	assert.False(t, cfg.Verbose, "unset keys keep their default")
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "depth: 5\ndb: file.db\n")
	t.Setenv("SCROLL_DEPTH", "1")
	t.Setenv("SCROLL_PRUNING", "false")
	t.Setenv("SCROLL_VERBOSE", "true")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Depth)
	assert.False(t, cfg.Pruning)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "file.db", cfg.DBPath)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read ")

	_, err = LoadConfig(writeConfig(t, "depth: [oops\n"))
	assert.ErrorContains(t, err, "parse ")

	_, err = LoadConfig(writeConfig(t, "depth: -1\n"))
	assert.ErrorContains(t, err, "depth")

	_, err = LoadConfig(writeConfig(t, "depth: 13\n"))
	assert.ErrorContains(t, err, "depth must be in 0..12")

	t.Setenv("SCROLL_DEPTH", "many")
	_, err = LoadConfig("")
	assert.ErrorContains(t, err, "parse env")
}

func TestNewLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	quiet := newLogger(&buf, DefaultConfig())
	quiet.Debug("hidden")
	assert.Empty(t, buf.String())

	cfg := DefaultConfig()
	cfg.Verbose = true
	loud := newLogger(&buf, cfg)
	loud.Debug("shown", "k", 1)
	assert.Contains(t, buf.String(), "msg=shown")
	assert.Contains(t, buf.String(), "k=1")
}

func TestValidateDepthBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Depth = MaxDepth
	assert.NoError(t, cfg.Validate())

	cfg.Depth = MaxDepth + 1
	assert.Error(t, cfg.Validate())

	cfg.Depth = 255
	assert.Error(t, cfg.Validate())
}
