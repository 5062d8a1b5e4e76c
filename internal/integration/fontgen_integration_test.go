package integration

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/hermesx-build/internal/config"
	"github.com/oshokin/hermesx-build/internal/service/fontgen"
)

// converterScript writes a minimal u8g2 font table to the -o path.
const converterScript = `#!/bin/sh
out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "-o" ]; then out="$2"; fi
  shift
done
printf 'const uint8_t HermesX_EM16_ZH[8] U8G2_FONT_SECTION("HermesX_EM16_ZH") = {0};\n' > "$out"
`

// setupFontCheckout prepares a checkout, a BDF server and a settings file.
func setupFontCheckout(t *testing.T) (string, string) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("fake bdfconv is a shell script")
	}

	root := t.TempDir()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "STARTFONT 2.1\nENDFONT\n")
	}))
	t.Cleanup(server.Close)

	converter := writeFile(t, t.TempDir(), "bdfconv", converterScript)
	require.NoError(t, os.Chmod(converter, 0o700)) //nolint:gosec // Test executable.

	writeFile(t, root, filepath.Join(config.DefaultToolsDir, config.DefaultCharsetFile), "HermesX 緊急\n")

	cfgPath := filepath.Join(root, config.DefaultConfigFilename)
	require.NoError(t, config.Save(cfgPath, &config.Config{
		RepoRoot:    root,
		BDFURL:      server.URL + "/unifont.bdf",
		BdfconvPath: converter,
		Timeout:     10 * time.Second,
	}))

	return root, cfgPath
}

// TestFontgen_Run regenerates the font sources end to end.
func TestFontgen_Run(t *testing.T) {
	t.Parallel()

	root, cfgPath := setupFontCheckout(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	require.NoError(t, fontgen.Run(ctx, &fontgen.Options{ConfigPath: cfgPath}))

	cfg := config.Default(root)

	source, err := os.ReadFile(cfg.SourcePath())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(source), `#include "OLEDDisplayFontsZH.h"`))
	require.Contains(t, string(source), "PROGMEM = {0};")

	_, err = os.Stat(cfg.HeaderPath())
	require.NoError(t, err)

	// The run marker is gone after a successful run.
	_, err = os.Stat(filepath.Join(cfg.CacheDir(), fontgen.MarkerFilename))
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestFontgen_RunRefusesConcurrentRun stops when another live process holds the marker.
func TestFontgen_RunRefusesConcurrentRun(t *testing.T) {
	t.Parallel()

	root, cfgPath := setupFontCheckout(t)

	cfg := config.Default(root)
	marker := writeFile(t, cfg.CacheDir(), fontgen.MarkerFilename, strconv.Itoa(os.Getppid()))

	err := fontgen.Run(context.Background(), &fontgen.Options{ConfigPath: cfgPath})
	require.Error(t, err)

	// The foreign marker is left alone and nothing was generated.
	_, err = os.Stat(marker)
	require.NoError(t, err)

	_, err = os.Stat(cfg.SourcePath())
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestFontgen_RepoRootOverride lets the flag win over the settings file.
func TestFontgen_RepoRootOverride(t *testing.T) {
	t.Parallel()

	_, cfgPath := setupFontCheckout(t)
	other := t.TempDir()

	cfg, err := fontgen.LoadConfig(&fontgen.Options{ConfigPath: cfgPath, RepoRoot: other})
	require.NoError(t, err)
	require.Equal(t, other, cfg.RepoRoot)
}
