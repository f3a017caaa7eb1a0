package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFor(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zerolog.Level
	}{
		{-1, zerolog.WarnLevel},
		{0, zerolog.WarnLevel},
		{1, zerolog.InfoLevel},
		{2, zerolog.DebugLevel},
		{3, zerolog.TraceLevel},
		{7, zerolog.TraceLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelFor(tt.verbosity), "verbosity %d", tt.verbosity)
	}
}

func TestSetupWritesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "rig.log")
	t.Setenv(EnvLogFile, path)

	var console bytes.Buffer
	Setup(1, &console)
	{
		logger := GetLogger("test")
		logger.Info().Msg("hello from test")
	}

	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	assert.Contains(t, console.String(), "hello from test")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"test"`)
}

func TestSetupFileOff(t *testing.T) {
	t.Setenv(EnvLogFile, "off")
	assert.Empty(t, logFilePath())

	var console bytes.Buffer
	Setup(0, &console)
	{
		logger := GetLogger("test")
		logger.Info().Msg("suppressed")
	}
	{
		logger := GetLogger("test")
		logger.Warn().Msg("shown")
	}

	assert.NotContains(t, console.String(), "suppressed")
	assert.Contains(t, console.String(), "shown")
}

func TestSetupReplacesLogFile(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.log")
	second := filepath.Join(dir, "second.log")
	t.Cleanup(func() { _ = Close() })

	var console bytes.Buffer
	t.Setenv(EnvLogFile, first)
	Setup(1, &console)
	previous := logFile
	require.NotNil(t, previous)

	t.Setenv(EnvLogFile, second)
	Setup(1, &console)
	{
		logger := GetLogger("test")
		logger.Info().Msg("after re-setup")
	}

	_, err := previous.Write([]byte("late\n"))
	assert.ErrorIs(t, err, os.ErrClosed)

	data, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "after re-setup")
	data, err = os.ReadFile(second)
	require.NoError(t, err)
	assert.Contains(t, string(data), "after re-setup")

	t.Setenv(EnvLogFile, "off")
	Setup(1, &console)
	assert.Nil(t, logFile)
}

func TestLogFilePathDefault(t *testing.T) {
	state := t.TempDir()
	t.Setenv(EnvLogFile, "")
	t.Setenv("XDG_STATE_HOME", state)
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	assert.Equal(t, filepath.Join(state, "rig", "rig.log"), logFilePath())
}

func TestLogOperationStart(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	done := LogOperationStart(logger, "clone")
	done()

	out := buf.String()
	require.Contains(t, out, `"operation":"clone"`)
	assert.Contains(t, out, "Operation started")
	assert.Contains(t, out, "Operation completed")
}

func TestLogCommand(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	LogCommand(logger, "git", []string{"clone", "--recursive"})

	assert.Contains(t, buf.String(), `"command":"git"`)
	assert.Contains(t, buf.String(), `"args":["clone","--recursive"]`)
}
