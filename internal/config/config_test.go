package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TRACKER_DATA_DIR", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, PlatformWeb, cfg.Platform)
	assert.True(t, filepath.IsAbs(cfg.DataDir))
	assert.Equal(t, filepath.Join(cfg.DataDir, "tracker.db"), cfg.DatabasePath)
	assert.Equal(t, filepath.Join(cfg.DataDir, "photos"), cfg.PhotosDir)
	assert.False(t, cfg.BackupEnabled)
	assert.Equal(t, "@daily", cfg.BackupSchedule)
	assert.Equal(t, 14, cfg.BackupRetention)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TRACKER_DATA_DIR", dir)
	t.Setenv("TRACKER_PLATFORM", "native")
	t.Setenv("TRACKER_PORT", "9999")
	t.Setenv("TRACKER_BACKUP_ENABLED", "true")
	t.Setenv("TRACKER_BACKUP_RETENTION", "3")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, PlatformNative, cfg.Platform)
	assert.Equal(t, 9999, cfg.Port)
	assert.True(t, cfg.BackupEnabled)
	assert.Equal(t, 3, cfg.BackupRetention)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_RejectsUnknownPlatform(t *testing.T) {
	t.Setenv("TRACKER_DATA_DIR", t.TempDir())
	t.Setenv("TRACKER_PLATFORM", "mainframe")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_BadIntFallsBack(t *testing.T) {
	t.Setenv("TRACKER_DATA_DIR", t.TempDir())
	t.Setenv("TRACKER_PORT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
}
