package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the font generator settings.
type Config struct {
	// RepoRoot is the firmware checkout; relative paths below resolve against it.
	RepoRoot string `yaml:"repo_root"`
	// ToolsDir holds the charset file and the bin, cache and generated folders.
	ToolsDir string `yaml:"tools_dir"`
	// CharsetFile lists the characters to embed, relative to ToolsDir.
	CharsetFile string `yaml:"charset_file"`
	// FontsDir is where the font source and header are written.
	FontsDir string `yaml:"fonts_dir"`
	// SourceName is the base name of the font .cpp and .h files.
	SourceName string `yaml:"source_name"`
	// FontSymbol is the C array name of the generated font.
	FontSymbol string `yaml:"font_symbol"`
	// MapBase is the first code the non-ASCII glyphs are remapped to.
	MapBase int `yaml:"map_base"`
	// BDFURL is where the unifont BDF database is downloaded from.
	BDFURL string `yaml:"bdf_url"`
	// BdfconvURL is where a Windows bdfconv binary is downloaded from.
	BdfconvURL string `yaml:"bdfconv_url"`
	// BdfconvChecksum is the optional base64 SHA-512 of the downloaded bdfconv.
	BdfconvChecksum string `yaml:"bdfconv_sha512,omitempty"`
	// BdfconvPath pins an explicit bdfconv executable.
	BdfconvPath string `yaml:"bdfconv_path,omitempty"`
	// Timeout bounds each download and converter run.
	Timeout time.Duration `yaml:"timeout"`
}

const (
	// DefaultConfigFilename is the conventional settings file name.
	DefaultConfigFilename = "hermesx-fontgen.yaml"

	// DefaultToolsDir is the font tooling folder inside the repository.
	DefaultToolsDir = "tools/fonts"

	// DefaultCharsetFile is the charset file name inside the tools folder.
	DefaultCharsetFile = "hermesx_em_charset.txt"

	// DefaultFontsDir is the firmware fonts folder.
	DefaultFontsDir = "src/graphics/fonts"

	// DefaultSourceName is the base name of the rewritten font sources.
	DefaultSourceName = "OLEDDisplayFontsZH"

	// DefaultFontSymbol is the name of the generated font table.
	DefaultFontSymbol = "HermesX_EM16_ZH"

	// DefaultMapBase is the first remapped code point.
	DefaultMapBase = 0x80

	// DefaultBDFURL points to the unifont BDF shipped with u8g2.
	DefaultBDFURL = "https://raw.githubusercontent.com/olikraus/u8g2/master/tools/font/bdf/unifont.bdf"

	// DefaultBdfconvURL points to the prebuilt Windows bdfconv.
	DefaultBdfconvURL = "https://raw.githubusercontent.com/olikraus/u8g2/master/tools/font/bdfconv/bdfconv.exe"

	// DefaultTimeout is the default duration for downloads and the converter.
	DefaultTimeout = 2 * time.Minute

	// DefaultFilePermissions is the default file permission for written files.
	DefaultFilePermissions = 0o600

	// maxMapCode is the largest single-byte code a glyph can be remapped to.
	maxMapCode = 0xFF
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errInvalidSymbol is returned when the font symbol is not a C identifier.
	errInvalidSymbol = errors.New("font symbol must be a C identifier")
	// errInvalidMapBase is returned when the remap base is outside 0x80..0xFF.
	errInvalidMapBase = errors.New("map base must be within 0x80..0xFF")

	cIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Default returns settings for a checkout rooted at root.
func Default(root string) *Config {
	cfg := &Config{RepoRoot: root}

	// Defaults never fail validation.
	_ = Validate(cfg)

	return cfg
}

// Load reads settings from the provided path and validates them.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills in defaults and checks formatting of the provided settings.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	setDefaults(cfg)

	if !cIdentifier.MatchString(cfg.FontSymbol) {
		return fmt.Errorf("%q: %w", cfg.FontSymbol, errInvalidSymbol)
	}

	if cfg.MapBase < DefaultMapBase || cfg.MapBase > maxMapCode {
		return fmt.Errorf("0x%X: %w", cfg.MapBase, errInvalidMapBase)
	}

	if _, err := url.ParseRequestURI(cfg.BDFURL); err != nil {
		return fmt.Errorf("invalid BDF URL: %w", err)
	}

	if _, err := url.ParseRequestURI(cfg.BdfconvURL); err != nil {
		return fmt.Errorf("invalid bdfconv URL: %w", err)
	}

	return nil
}

// setDefaults replaces zero values with the defaults.
func setDefaults(cfg *Config) {
	defaults := []struct {
		field *string
		value string
	}{
		{&cfg.RepoRoot, "."},
		{&cfg.ToolsDir, DefaultToolsDir},
		{&cfg.CharsetFile, DefaultCharsetFile},
		{&cfg.FontsDir, DefaultFontsDir},
		{&cfg.SourceName, DefaultSourceName},
		{&cfg.FontSymbol, DefaultFontSymbol},
		{&cfg.BDFURL, DefaultBDFURL},
		{&cfg.BdfconvURL, DefaultBdfconvURL},
	}

	for _, d := range defaults {
		if *d.field == "" {
			*d.field = d.value
		}
	}

	if cfg.MapBase == 0 {
		cfg.MapBase = DefaultMapBase
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
}

// MaxGlyphs is how many non-ASCII glyphs fit above MapBase.
func (c *Config) MaxGlyphs() int {
	return maxMapCode - c.MapBase + 1
}

// BinDir holds downloaded tool binaries.
func (c *Config) BinDir() string {
	return c.toolsPath("bin")
}

// CacheDir holds downloaded inputs.
func (c *Config) CacheDir() string {
	return c.toolsPath("cache")
}

// OutDir holds raw converter output.
func (c *Config) OutDir() string {
	return c.toolsPath("generated")
}

// CharsetPath is the charset file location.
func (c *Config) CharsetPath() string {
	return c.toolsPath(c.CharsetFile)
}

// BDFPath is the cached BDF database location.
func (c *Config) BDFPath() string {
	return filepath.Join(c.CacheDir(), "unifont.bdf")
}

// RawFontPath is where bdfconv writes the font table.
func (c *Config) RawFontPath() string {
	return filepath.Join(c.OutDir(), c.FontSymbol+".c")
}

// SourcePath is the rewritten font .cpp file.
func (c *Config) SourcePath() string {
	return c.rootPath(c.FontsDir, c.SourceName+".cpp")
}

// HeaderPath is the font header file.
func (c *Config) HeaderPath() string {
	return c.rootPath(c.FontsDir, c.SourceName+".h")
}

// HeaderName is the header file name used in the #include directive.
func (c *Config) HeaderName() string {
	return c.SourceName + ".h"
}

func (c *Config) toolsPath(elem ...string) string {
	return c.rootPath(append([]string{c.ToolsDir}, elem...)...)
}

// rootPath joins elem onto RepoRoot unless the first element is absolute.
func (c *Config) rootPath(elem ...string) string {
	joined := filepath.Join(elem...)
	if filepath.IsAbs(joined) {
		return joined
	}

	return filepath.Join(c.RepoRoot, joined)
}
