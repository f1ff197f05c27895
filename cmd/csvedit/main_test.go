package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"csvedit/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_FlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("CSVEDIT_LOG_LEVEL", "warn")
	envFile = filepath.Join(t.TempDir(), "absent.env")
	logLevel, logFormat = "debug", "json"
	t.Cleanup(func() { logLevel, logFormat = "", "" })

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadConfig_FlagReplacesInvalidEnvironment(t *testing.T) {
	t.Setenv("CSVEDIT_LOG_LEVEL", "bogus")
	envFile = filepath.Join(t.TempDir(), "absent.env")
	logLevel = "debug"
	t.Cleanup(func() { logLevel = "" })

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfig_RejectsBadFlag(t *testing.T) {
	envFile = filepath.Join(t.TempDir(), "absent.env")
	logFormat = "xml"
	t.Cleanup(func() { logFormat = "" })

	_, err := loadConfig()
	assert.Error(t, err)
}

func TestNewEditor_UsesConfiguredDialect(t *testing.T) {
	t.Setenv("CSVEDIT_DELIMITER", ";")
	t.Setenv("CSVEDIT_QUOTE", "\"")
	t.Setenv("CSVEDIT_RAGGED_POLICY", "reject")
	envFile = filepath.Join(t.TempDir(), "absent.env")

	cfg, err := loadConfig()
	require.NoError(t, err)

	ed, svc, err := newEditor(cfg, logger.NoOpLogger{})
	require.NoError(t, err)

	dir := t.TempDir()
	good := filepath.Join(dir, "good.csv")
	require.NoError(t, os.WriteFile(good, []byte("a;b\n\"x;y\";2\n"), 0o644))
	require.NoError(t, ed.Load(context.Background(), good))
	assert.Equal(t, "x;y", ed.Cell(0, 0))

	ragged := filepath.Join(dir, "ragged.csv")
	require.NoError(t, os.WriteFile(ragged, []byte("a;b\n1\n"), 0o644))
	assert.Error(t, ed.Load(context.Background(), ragged))

	assert.Equal(t, 1, svc.Timings().Get("load").Count)
}

func TestNewEditor_RejectsLineBreakDelimiter(t *testing.T) {
	t.Setenv("CSVEDIT_DELIMITER", "\n")
	envFile = filepath.Join(t.TempDir(), "absent.env")

	cfg, err := loadConfig()
	require.NoError(t, err)

	_, _, err = newEditor(cfg, logger.NoOpLogger{})
	assert.Error(t, err)
}
