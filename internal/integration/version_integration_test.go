package integration

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/hermesx-build/internal/repository/props"
	"github.com/oshokin/hermesx-build/internal/service/resolver"
)

const versionProps = "[VERSION]\nmajor = 1\nminor = 2\nbuild = 3\n"

// TestResolver_GitCheckout resolves against a real repository on a versioned branch.
func TestResolver_GitCheckout(t *testing.T) {
	requireGit(t)
	t.Setenv("GITHUB_RUN_NUMBER", "77")
	t.Setenv("BUILD_LOCATION", "ci")

	dir := t.TempDir()
	propsPath := writeFile(t, dir, props.DefaultFilename, versionProps)

	git(t, dir, "init", "-q")
	git(t, dir, "symbolic-ref", "HEAD", "refs/heads/hermesX_b0.2.6")
	git(t, dir, "add", props.DefaultFilename)
	git(t, dir, "commit", "-q", "-m", "version")

	hash := strings.TrimSpace(git(t, dir, "rev-parse", "--short", "HEAD"))

	got, err := resolver.Run(context.Background(), &resolver.Options{PropsPath: propsPath, RepoDir: dir})
	require.NoError(t, err)
	require.Equal(t, "1.2.3", got.Short)
	require.Equal(t, "1.2.3."+hash, got.Long)
	require.Equal(t, "1.2.3.77~ci"+hash, got.Deb)
	require.Equal(t, "HXB_0.2.6"+hash, got.Display)
	require.False(t, got.Dirty)

	// A modified tracked file makes the tree dirty.
	writeFile(t, dir, props.DefaultFilename, versionProps+"# local edit\n")

	got, err = resolver.Run(context.Background(), &resolver.Options{
		PropsPath:   propsPath,
		RepoDir:     dir,
		DirtyMarker: "+",
	})
	require.NoError(t, err)
	require.True(t, got.Dirty)
	require.Equal(t, "1.2.3."+hash+"+", got.Long)
	require.Equal(t, "1.2.3.77~ci"+hash, got.Deb)
}

// TestResolver_NoRepository falls back to the plain version strings.
func TestResolver_NoRepository(t *testing.T) {
	t.Setenv("GITHUB_RUN_NUMBER", "0")
	t.Setenv("BUILD_LOCATION", "local")

	dir := t.TempDir()
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))

	propsPath := writeFile(t, dir, props.DefaultFilename, versionProps)

	got, err := resolver.Run(context.Background(), &resolver.Options{PropsPath: propsPath, RepoDir: dir})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, resolver.Write(&out, got, resolver.FormatEnv, ""))
	require.Equal(t, "VERSION_DEB=\"1.2.3.0~local\"\n"+
		"VERSION_DISPLAY=\"HXB_1.2.3\"\n"+
		"VERSION_LONG=\"1.2.3\"\n"+
		"VERSION_SHORT=\"1.2.3\"\n", out.String())
}

// TestResolver_EnvFile reads CI variables from a dotenv file.
func TestResolver_EnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))

	// Unset for the duration of the test so the file provides them.
	unsetEnv(t, "GITHUB_RUN_NUMBER")
	unsetEnv(t, "BUILD_LOCATION")

	propsPath := writeFile(t, dir, props.DefaultFilename, versionProps)
	envPath := writeFile(t, dir, "ci.env", "GITHUB_RUN_NUMBER=9\nBUILD_LOCATION=lab\n")

	got, err := resolver.Run(context.Background(), &resolver.Options{
		PropsPath: propsPath,
		RepoDir:   dir,
		EnvFile:   envPath,
	})
	require.NoError(t, err)
	require.Equal(t, "1.2.3.9~lab", got.Deb)
}
