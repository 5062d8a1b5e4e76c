package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/oshokin/hermesx-build/internal/logger"
)

// TestConfigCommand_AppliesLogLevel honours --log-level on the config subcommand.
func TestConfigCommand_AppliesLogLevel(t *testing.T) {
	// Not parallel: cobra flags and the logger level are global.
	previous := logger.Level()
	t.Cleanup(func() { logger.SetLevel(previous) })

	dest := filepath.Join(t.TempDir(), "fontgen.yaml")

	rootCmd.SetArgs([]string{"config", "--log-level", "debug", "--root", t.TempDir(), dest})
	require.NoError(t, rootCmd.Execute())
	require.Equal(t, zapcore.DebugLevel, logger.Level())

	_, err := os.Stat(dest)
	require.NoError(t, err)
}

// TestConfigCommand_RejectsUnknownLogLevel fails before writing anything.
func TestConfigCommand_RejectsUnknownLogLevel(t *testing.T) {
	previous := logger.Level()
	t.Cleanup(func() { logger.SetLevel(previous) })

	dest := filepath.Join(t.TempDir(), "fontgen.yaml")

	rootCmd.SetArgs([]string{"config", "--log-level", "loud", dest})
	require.Error(t, rootCmd.Execute())

	_, err := os.Stat(dest)
	require.ErrorIs(t, err, os.ErrNotExist)
}
