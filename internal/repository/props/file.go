package props

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-ini/ini"

	"github.com/oshokin/hermesx-build/internal/domain/buildver"
)

const (
	// DefaultFilename is the properties file looked up when no path is given.
	DefaultFilename = "version.properties"

	// SectionName is the INI section holding the version triple.
	SectionName = "VERSION"

	keyMajor = "major"
	keyMinor = "minor"
	keyBuild = "build"
)

// Repository loads the version triple.
type Repository interface {
	Load(ctx context.Context) (*buildver.VersionSpec, error)
}

// FileRepository reads the version triple from an INI file on disk.
type FileRepository struct {
	// path is the filesystem location of the properties file.
	path string
}

// NewFileRepository creates a repository reading the properties file at path.
func NewFileRepository(path string) *FileRepository {
	if path == "" {
		path = DefaultFilename
	}

	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Path returns the properties file location.
func (r *FileRepository) Path() string {
	return r.path
}

// Load parses the [VERSION] section. Every failure is a *ConfigError.
func (r *FileRepository) Load(_ context.Context) (*buildver.VersionSpec, error) {
	// Keys are case-insensitive, section names are not.
	//nolint:exhaustruct // Remaining options keep their ini defaults.
	file, err := ini.LoadSources(ini.LoadOptions{InsensitiveKeys: true}, r.path)
	if err != nil {
		return nil, &ConfigError{Path: r.path, Err: fmt.Errorf("read properties: %w", err)}
	}

	section, err := file.GetSection(SectionName)
	if err != nil {
		return nil, &ConfigError{Path: r.path, Err: ErrSectionMissing}
	}

	defaults := file.Section(ini.DefaultSection)

	var spec buildver.VersionSpec

	fields := []struct {
		key    string
		target *int
	}{
		{keyMajor, &spec.Major},
		{keyMinor, &spec.Minor},
		{keyBuild, &spec.Build},
	}

	for _, field := range fields {
		value, err := r.parseKey(section, defaults, field.key)
		if err != nil {
			return nil, err
		}

		*field.target = value
	}

	return &spec, nil
}

// parseKey reads one non-negative integer key from the section.
// Keys missing from the section are inherited from [DEFAULT].
func (r *FileRepository) parseKey(section, defaults *ini.Section, key string) (int, error) {
	switch {
	case section.HasKey(key):
	case defaults.HasKey(key):
		section = defaults
	default:
		return 0, &ConfigError{Path: r.path, Key: key, Err: ErrKeyMissing}
	}

	raw := strings.TrimSpace(section.Key(key).String())

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ConfigError{Path: r.path, Key: key, Err: fmt.Errorf("%q: %w", raw, ErrKeyNotNumeric)}
	}

	if value < 0 {
		return 0, &ConfigError{Path: r.path, Key: key, Err: fmt.Errorf("%d: %w", value, ErrNegative)}
	}

	return value, nil
}
