package tactic_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tactic-labs/tactic"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := tactic.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, tactic.DefaultConfig(), cfg)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".tactic.yaml")
	data := "timeout: 500ms\nmax-atoms: 8\nlog-level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := tactic.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, cfg.Timeout)
	assert.Equal(t, 8, cfg.MaxAtoms)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".tactic.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max-atoms: 20\n"), 0o644))

	cfg, err := tactic.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.MaxAtoms)
	assert.Equal(t, tactic.DefaultConfig().Timeout, cfg.Timeout)
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".tactic.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timeout: [what"), 0o644))

	_, err := tactic.LoadConfig(path)
	assert.Error(t, err)
}
