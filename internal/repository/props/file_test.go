package props

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/hermesx-build/internal/domain/buildver"
)

func writeProps(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), DefaultFilename)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	return path
}

// TestFileRepository_Load reads a well-formed properties file.
func TestFileRepository_Load(t *testing.T) {
	t.Parallel()

	path := writeProps(t, "[VERSION]\nmajor = 2\nminor = 5\nbuild = 23\n")

	spec, err := NewFileRepository(path).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, &buildver.VersionSpec{Major: 2, Minor: 5, Build: 23}, spec)
	require.Equal(t, "2.5.23", spec.Short())
}

// TestFileRepository_KeysAreCaseInsensitive matches keys regardless of case.
func TestFileRepository_KeysAreCaseInsensitive(t *testing.T) {
	t.Parallel()

	path := writeProps(t, "[other]\nx = y\n\n[VERSION]\nMajor = 1\nMINOR = 2\nbuild=3\n")

	spec, err := NewFileRepository(path).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, "1.2.3", spec.Short())
}

// TestFileRepository_InheritsDefaults takes missing keys from [DEFAULT].
func TestFileRepository_InheritsDefaults(t *testing.T) {
	t.Parallel()

	path := writeProps(t, "[DEFAULT]\nbuild = 9\nminor = 7\n\n[VERSION]\nmajor = 1\nminor = 2\n")

	spec, err := NewFileRepository(path).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, &buildver.VersionSpec{Major: 1, Minor: 2, Build: 9}, spec)
}

// TestFileRepository_Errors covers every ConfigError cause.
func TestFileRepository_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		contents string
		key      string
		want     error
	}{
		{
			name:     "missing section",
			contents: "[BUILD]\nmajor = 1\n",
			want:     ErrSectionMissing,
		},
		{
			name:     "lowercase section",
			contents: "[version]\nmajor = 1\nminor = 2\nbuild = 3\n",
			want:     ErrSectionMissing,
		},
		{
			name:     "missing key",
			contents: "[VERSION]\nmajor = 1\nminor = 2\n",
			key:      keyBuild,
			want:     ErrKeyMissing,
		},
		{
			name:     "not numeric",
			contents: "[VERSION]\nmajor = 1\nminor = two\nbuild = 3\n",
			key:      keyMinor,
			want:     ErrKeyNotNumeric,
		},
		{
			name:     "negative",
			contents: "[VERSION]\nmajor = -1\nminor = 2\nbuild = 3\n",
			key:      keyMajor,
			want:     ErrNegative,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			path := writeProps(t, tc.contents)

			spec, err := NewFileRepository(path).Load(context.Background())
			require.Nil(t, spec)
			require.ErrorIs(t, err, tc.want)

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			require.Equal(t, tc.key, cfgErr.Key)
			require.Equal(t, path, cfgErr.Path)
		})
	}
}

// TestFileRepository_MissingFile reports unreadable files as ConfigError.
func TestFileRepository_MissingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "absent.properties")

	_, err := NewFileRepository(path).Load(context.Background())

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	require.ErrorIs(t, err, fs.ErrNotExist)
}

// TestNewFileRepository_DefaultPath falls back to the conventional filename.
func TestNewFileRepository_DefaultPath(t *testing.T) {
	t.Parallel()

	require.Equal(t, DefaultFilename, NewFileRepository("").Path())
}
