package fontgen

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/oshokin/hermesx-build/internal/logger"
)

const bdfconvName = "bdfconv"

// bdfconvInstallHint explains how to build bdfconv where no binary is published.
const bdfconvInstallHint = `bdfconv not found. Install u8g2 tooling first:

  git clone https://github.com/olikraus/u8g2.git
  cd u8g2/tools/font/bdfconv && make
  export PATH=$PWD:$PATH`

var errBdfconvNotFound = errors.New(bdfconvInstallHint)

// ensureBdfconv finds a bdfconv executable: the configured path, PATH, the
// tools bin folder, or on Windows a freshly downloaded copy.
func (g *generator) ensureBdfconv(ctx context.Context) (string, error) {
	if g.cfg.BdfconvPath != "" {
		if _, err := os.Stat(g.cfg.BdfconvPath); err != nil {
			return "", fmt.Errorf("configured bdfconv: %w", err)
		}

		return g.cfg.BdfconvPath, nil
	}

	if binary, err := g.lookPath(bdfconvName); err == nil {
		return binary, nil
	}

	candidate := filepath.Join(g.cfg.BinDir(), bdfconvName+g.executableExtension())
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}

	if g.goos != "windows" {
		return "", errBdfconvNotFound
	}

	if err := g.ensureDirectories(); err != nil {
		return "", err
	}

	if err := g.installBinary(ctx, g.cfg.BdfconvURL, candidate); err != nil {
		return "", err
	}

	return candidate, nil
}

// bdfconvArgs builds the converter command line.
func (g *generator) bdfconvArgs(mapping string) []string {
	args := make([]string, 0, 11)

	if g.verbose {
		args = append(args, "-v")
	}

	return append(args,
		"-f", "1",
		"-m", mapping,
		"-n", g.cfg.FontSymbol,
		"-o", g.cfg.RawFontPath(),
		g.cfg.BDFPath(),
	)
}

// runBdfconv converts the BDF database into the raw font table.
func (g *generator) runBdfconv(ctx context.Context, bdfconv, mapping string) error {
	if err := g.ensureBDF(ctx); err != nil {
		return err
	}

	if err := g.ensureDirectories(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	logger.InfoKV(ctx, "Running bdfconv", "binary", bdfconv)

	cmd := exec.CommandContext(ctx, bdfconv, g.bdfconvArgs(mapping)...)
	cmd.Stdout = g.stdout
	cmd.Stderr = g.stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run bdfconv: %w", err)
	}

	return nil
}

// ensureBDF downloads the BDF database unless it is cached.
func (g *generator) ensureBDF(ctx context.Context) error {
	if _, err := os.Stat(g.cfg.BDFPath()); err == nil {
		return nil
	}

	if err := g.ensureDirectories(); err != nil {
		return err
	}

	return g.downloadFile(ctx, g.cfg.BDFURL, g.cfg.BDFPath())
}

// executableExtension returns ".exe" on Windows and "" elsewhere.
func (g *generator) executableExtension() string {
	if g.goos == "windows" {
		return ".exe"
	}

	return ""
}
