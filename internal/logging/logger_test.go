package logger

import (
	"os"
	"path/filepath"
	"testing"

	"salespulse/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitUsesConfiguredDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "app-logs")
	cfg := config.LoggingConfig{
		Directory:  dir,
		MaxSize:    1,
		MaxBackups: 1,
		MaxAge:     1,
		Compress:   false,
	}

	log, err := Init(cfg)
	require.NoError(t, err)
	defer log.Sync()

	log.Info("configured directory smoke entry")
	log.Sync()

	// The per-level file cores create the configured directory, not a
	// hardcoded one.
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}

func TestInitDefaultsEmptyDirectory(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	tmp := t.TempDir()
	require.NoError(t, os.Chdir(tmp))
	defer os.Chdir(wd)

	log, err := Init(config.LoggingConfig{MaxSize: 1, MaxBackups: 1, MaxAge: 1})
	require.NoError(t, err)
	defer log.Sync()

	_, err = os.Stat(filepath.Join(tmp, "logs"))
	assert.NoError(t, err)
}

func TestConsoleLoggerIsUsableBeforeConfig(t *testing.T) {
	log := Console()
	require.NotNil(t, log)
	log.Info("bootstrap entry")
}
