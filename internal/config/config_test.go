package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileMissingReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadFile(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, PlatformBrowser, cfg.Platform)
	assert.Equal(t, 500*time.Millisecond, cfg.Debounce)
	assert.Equal(t, 15*time.Minute, cfg.InterstitialCooldown)
	assert.Equal(t, filepath.Join(dir, "notes.db"), cfg.DBPath)
	assert.Equal(t, "manual", cfg.DefaultSort)
}

func TestLoadFileParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yml := `
platform: app
debounce: 250ms
share_command: termux-share
premium: true
default_sort: modified-newest
interstitial_cooldown: 1m
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, PlatformApp, cfg.Platform)
	assert.Equal(t, 250*time.Millisecond, cfg.Debounce)
	assert.Equal(t, "termux-share", cfg.ShareCommand)
	assert.True(t, cfg.Premium)
	assert.Equal(t, "modified-newest", cfg.DefaultSort)
	assert.Equal(t, time.Minute, cfg.InterstitialCooldown)
}

func TestLoadFileRejectsUnknownPlatform(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("platform: desktop\n"), 0644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestDebounceEnvOverride(t *testing.T) {
	t.Setenv("NOTEPADO_DEBOUNCE_MS", "50")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("debounce: 2s\n"), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 50*time.Millisecond, cfg.Debounce)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg, err := LoadFile(path)
	require.NoError(t, err)

	cfg.LogLevel = "DEBUG"
	cfg.ConfirmDelete = false
	require.NoError(t, cfg.Save())

	again, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", again.LogLevel)
	assert.False(t, again.ConfirmDelete)
	assert.Equal(t, path, again.Path())
}

func TestDirHonorsEnv(t *testing.T) {
	t.Setenv("NOTEPADO_HOME", "/tmp/np-home")
	dir, err := Dir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/np-home", dir)
}
