package vcs

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeRunner answers git commands from a table keyed by the joined arguments.
func fakeRunner(outputs map[string]string, failures map[string]error) Runner {
	return func(_ context.Context, _, _ string, args ...string) ([]byte, error) {
		key := strings.Join(args, " ")
		if err, ok := failures[key]; ok {
			return nil, err
		}

		return []byte(outputs[key]), nil
	}
}

// TestGit_Queries checks argument wiring and output trimming.
func TestGit_Queries(t *testing.T) {
	t.Parallel()

	g := NewGit(WithRunner(fakeRunner(map[string]string{
		"rev-parse --short HEAD":      "abc123\n",
		"diff HEAD":                   "diff --git a/x b/x\n",
		"rev-parse --abbrev-ref HEAD": "hermesX_b0.2.6\n",
	}, nil)))

	ctx := context.Background()

	hash, err := g.ShortHash(ctx)
	require.NoError(t, err)
	require.Equal(t, "abc123", hash)

	dirty, err := g.IsDirty(ctx)
	require.NoError(t, err)
	require.True(t, dirty)

	branch, err := g.Branch(ctx)
	require.NoError(t, err)
	require.Equal(t, "hermesX_b0.2.6", branch)
}

// TestGit_CleanTree reports an empty diff as clean.
func TestGit_CleanTree(t *testing.T) {
	t.Parallel()

	g := NewGit(WithRunner(fakeRunner(map[string]string{"diff HEAD": "  \n"}, nil)))

	dirty, err := g.IsDirty(context.Background())
	require.NoError(t, err)
	require.False(t, dirty)
}

// TestGit_EmptyHashIsAnError rejects blank hash output.
func TestGit_EmptyHashIsAnError(t *testing.T) {
	t.Parallel()

	g := NewGit(WithRunner(fakeRunner(nil, nil)))

	_, err := g.ShortHash(context.Background())
	require.ErrorIs(t, err, errEmptyOutput)
}

// TestGit_PassesDirAndBinary verifies options reach the runner.
func TestGit_PassesDirAndBinary(t *testing.T) {
	t.Parallel()

	var gotDir, gotName string

	runner := func(_ context.Context, dir, name string, _ ...string) ([]byte, error) {
		gotDir, gotName = dir, name
		return []byte("abc"), nil
	}

	g := NewGit(WithDir("/src/firmware"), WithBinary("/usr/bin/git"), WithRunner(runner))

	_, err := g.ShortHash(context.Background())
	require.NoError(t, err)
	require.Equal(t, "/src/firmware", gotDir)
	require.Equal(t, "/usr/bin/git", gotName)
}

// TestGit_NotARepository runs the real client outside a repository.
func TestGit_NotARepository(t *testing.T) {
	t.Parallel()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git is not installed")
	}

	dir := t.TempDir()

	g := NewGit(WithDir(dir), WithRunner(func(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
		cmd := exec.CommandContext(ctx, name, args...)
		cmd.Dir = dir
		// Keep git from walking up into an enclosing repository.
		cmd.Env = append(os.Environ(), "GIT_CEILING_DIRECTORIES="+filepath.Dir(dir))

		return cmd.Output()
	}))

	probe := Inspect(context.Background(), g)
	require.False(t, probe.Available())
	require.Error(t, probe.Err)
}

// TestGit_MissingBinary fails like any other unavailable repository.
func TestGit_MissingBinary(t *testing.T) {
	t.Parallel()

	g := NewGit(WithBinary(filepath.Join(t.TempDir(), "no-such-git")))

	_, err := g.ShortHash(context.Background())
	require.Error(t, err)
	require.True(t, errors.Is(err, os.ErrNotExist) || strings.Contains(err.Error(), "no-such-git"))
}
