package fontgen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/dustin/go-humanize"

	"github.com/oshokin/hermesx-build/internal/config"
	"github.com/oshokin/hermesx-build/internal/logger"
)

// Options contains inputs for the font generator entry point.
type Options struct {
	// ConfigPath is an optional settings file; defaults are used when empty.
	ConfigPath string
	// RepoRoot overrides the repository root from the settings when not empty.
	RepoRoot string
	// Verbose passes -v to bdfconv.
	Verbose bool
	// Watch regenerates the font whenever the charset file changes.
	Watch bool
}

// directoryMode is applied to the folders the generator creates.
const directoryMode os.FileMode = 0o755

var errTooManyGlyphs = errors.New("too many glyphs for the single byte range")

// generator holds the settings and collaborators of one run.
// It is unexported: callers should use Run.
type generator struct {
	cfg     *config.Config
	verbose bool
	// goos selects platform behaviour; runtime.GOOS outside tests.
	goos     string
	client   *http.Client
	lookPath func(file string) (string, error)
	stdout   io.Writer
	stderr   io.Writer
}

// Run regenerates the font once and, with Options.Watch, keeps regenerating
// until ctx is cancelled.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "hermesx-fontgen")

	cfg, err := LoadConfig(opts)
	if err != nil {
		return err
	}

	g := newGenerator(cfg, opts.Verbose)

	if err = g.ensureDirectories(); err != nil {
		return err
	}

	release, err := acquireMarker(ctx, cfg.CacheDir())
	if err != nil {
		return err
	}

	defer release()

	if err = g.generate(ctx); err != nil {
		return fmt.Errorf("generate font: %w", err)
	}

	if opts.Watch {
		return g.watch(ctx)
	}

	return nil
}

// LoadConfig returns the settings selected by opts.
func LoadConfig(opts *Options) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)

	if opts.ConfigPath != "" {
		if cfg, err = config.Load(opts.ConfigPath); err != nil {
			return nil, fmt.Errorf("load configuration: %w", err)
		}
	} else {
		cfg = config.Default("")
	}

	if opts.RepoRoot != "" {
		cfg.RepoRoot = opts.RepoRoot
	}

	return cfg, nil
}

// WriteConfig saves the settings selected by opts to dest.
func WriteConfig(ctx context.Context, opts *Options, dest string) error {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return err
	}

	if err = config.Save(dest, cfg); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Settings written", "path", dest)

	return nil
}

func newGenerator(cfg *config.Config, verbose bool) *generator {
	return &generator{
		cfg:      cfg,
		verbose:  verbose,
		goos:     runtime.GOOS,
		client:   http.DefaultClient,
		lookPath: exec.LookPath,
		stdout:   os.Stderr,
		stderr:   os.Stderr,
	}
}

// generate runs the whole pipeline once.
func (g *generator) generate(ctx context.Context) error {
	if err := g.ensureDirectories(); err != nil {
		return err
	}

	if err := g.ensureHeader(ctx); err != nil {
		return err
	}

	chars, err := ReadCharset(g.cfg.CharsetPath())
	if err != nil {
		return err
	}

	if remapped := len(Remapped(chars)); remapped > g.cfg.MaxGlyphs() {
		return fmt.Errorf("%d glyphs above 0x%02X, at most %d fit: %w",
			remapped, g.cfg.MapBase, g.cfg.MaxGlyphs(), errTooManyGlyphs)
	}

	mapping := FormatMap(chars, g.cfg.MapBase)

	bdfconv, err := g.ensureBdfconv(ctx)
	if err != nil {
		return err
	}

	if err = g.runBdfconv(ctx, bdfconv, mapping); err != nil {
		return err
	}

	if err = g.transformSource(ctx); err != nil {
		return err
	}

	return g.summarize(ctx, chars)
}

// ensureDirectories creates the tools and fonts folders.
func (g *generator) ensureDirectories() error {
	for _, dir := range []string{
		g.cfg.BinDir(),
		g.cfg.CacheDir(),
		g.cfg.OutDir(),
		filepath.Dir(g.cfg.SourcePath()),
	} {
		if err := os.MkdirAll(dir, directoryMode); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	return nil
}

// summarize logs the glyph count, the resource size and the mapping.
func (g *generator) summarize(ctx context.Context, chars []rune) error {
	info, err := os.Stat(g.cfg.SourcePath())
	if err != nil {
		return fmt.Errorf("stat font source: %w", err)
	}

	size := uint64(info.Size()) //nolint:gosec // File sizes are never negative.

	logger.Infof(ctx, "Glyphs included: %d", len(chars))
	logger.Infof(ctx, "Font resource size: %s (%d bytes)", humanize.IBytes(size), size)
	logger.Info(ctx, "Mapping:")

	for offset, ch := range Remapped(chars) {
		logger.Infof(ctx, "  U+%04X -> 0x%02X (%c)", ch, g.cfg.MapBase+offset, ch)
	}

	return nil
}
