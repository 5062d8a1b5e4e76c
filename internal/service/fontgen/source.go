package fontgen

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/oshokin/hermesx-build/internal/logger"
)

// sourceFileMode is applied to the rewritten firmware sources.
const sourceFileMode os.FileMode = 0o644

var headerTemplate = template.Must(template.New("header").Parse(`#ifndef {{.Guard}}
#define {{.Guard}}

#ifdef ARDUINO
#include <Arduino.h>
#elif __MBED__
#define PROGMEM
#endif

extern const uint8_t {{.Symbol}}[] PROGMEM;

#endif
`))

// RenderHeader returns the header declaring the font table.
func RenderHeader(sourceName, symbol string) (string, error) {
	var b strings.Builder

	data := struct {
		Guard  string
		Symbol string
	}{
		Guard:  strings.ToUpper(sourceName) + "_h",
		Symbol: symbol,
	}

	if err := headerTemplate.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render header: %w", err)
	}

	return b.String(), nil
}

// TransformSource adapts raw bdfconv output for the Arduino build: the u8g2
// section attribute becomes PROGMEM and the header include is added once.
func TransformSource(raw, symbol, headerName string) string {
	transformed := strings.ReplaceAll(raw, `U8G2_FONT_SECTION("`+symbol+`")`, "PROGMEM")

	include := `#include "` + headerName + `"`
	if !strings.Contains(transformed, include) {
		transformed = include + "\n\n" + transformed
	}

	return transformed
}

// ensureHeader writes the header unless it already exists.
func (g *generator) ensureHeader(ctx context.Context) error {
	path := g.cfg.HeaderPath()

	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat header: %w", err)
	}

	header, err := RenderHeader(g.cfg.SourceName, g.cfg.FontSymbol)
	if err != nil {
		return err
	}

	logger.InfoKV(ctx, "Writing header", "path", path)

	if err = os.WriteFile(filepath.Clean(path), []byte(header), sourceFileMode); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	return nil
}

// transformSource rewrites the font source from the raw converter output.
func (g *generator) transformSource(ctx context.Context) error {
	raw, err := os.ReadFile(filepath.Clean(g.cfg.RawFontPath()))
	if err != nil {
		return fmt.Errorf("read converter output: %w", err)
	}

	transformed := TransformSource(string(raw), g.cfg.FontSymbol, g.cfg.HeaderName())

	logger.InfoKV(ctx, "Updating font source", "path", g.cfg.SourcePath())

	if err = os.WriteFile(filepath.Clean(g.cfg.SourcePath()), []byte(transformed), sourceFileMode); err != nil {
		return fmt.Errorf("write font source: %w", err)
	}

	return nil
}
