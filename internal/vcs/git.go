package vcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultCommandTimeout bounds every git invocation.
const DefaultCommandTimeout = 10 * time.Second

// errEmptyOutput is returned when git succeeds but prints nothing.
var errEmptyOutput = errors.New("empty git output")

// Querier answers the three repository questions the resolver needs.
type Querier interface {
	// ShortHash returns the abbreviated hash of HEAD.
	ShortHash(ctx context.Context) (string, error)
	// IsDirty reports whether the working tree differs from HEAD.
	IsDirty(ctx context.Context) (bool, error)
	// Branch returns the abbreviated ref name of HEAD.
	Branch(ctx context.Context) (string, error)
}

// Runner executes a command in dir and returns its standard output.
type Runner func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

// Git runs the git command-line client.
type Git struct {
	// dir is the working directory for git commands; empty means the current one.
	dir string
	// binary is the git executable name or path.
	binary string
	// timeout bounds each command.
	timeout time.Duration
	// run executes commands; replaced in tests.
	run Runner
}

// Option configures Git.
type Option func(*Git)

// WithDir runs git inside dir.
func WithDir(dir string) Option {
	return func(g *Git) {
		g.dir = dir
	}
}

// WithBinary overrides the git executable.
func WithBinary(binary string) Option {
	return func(g *Git) {
		if binary != "" {
			g.binary = binary
		}
	}
}

// WithTimeout sets the per-command timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(g *Git) {
		if timeout > 0 {
			g.timeout = timeout
		}
	}
}

// WithRunner replaces the command runner.
func WithRunner(run Runner) Option {
	return func(g *Git) {
		if run != nil {
			g.run = run
		}
	}
}

// NewGit creates a git querier.
func NewGit(opts ...Option) *Git {
	g := &Git{
		binary:  "git",
		timeout: DefaultCommandTimeout,
		run:     execRunner,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// ShortHash implements Querier using `git rev-parse --short HEAD`.
func (g *Git) ShortHash(ctx context.Context) (string, error) {
	return g.nonEmpty(ctx, "rev-parse", "--short", "HEAD")
}

// IsDirty implements Querier using `git diff HEAD`.
func (g *Git) IsDirty(ctx context.Context) (bool, error) {
	out, err := g.output(ctx, "diff", "HEAD")
	if err != nil {
		return false, err
	}

	return out != "", nil
}

// Branch implements Querier using `git rev-parse --abbrev-ref HEAD`.
func (g *Git) Branch(ctx context.Context) (string, error) {
	return g.nonEmpty(ctx, "rev-parse", "--abbrev-ref", "HEAD")
}

// nonEmpty runs git and rejects blank output.
func (g *Git) nonEmpty(ctx context.Context, args ...string) (string, error) {
	out, err := g.output(ctx, args...)
	if err != nil {
		return "", err
	}

	if out == "" {
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), errEmptyOutput)
	}

	return out, nil
}

// output runs git with the configured timeout and returns trimmed stdout.
func (g *Git) output(ctx context.Context, args ...string) (string, error) {
	cmdCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	out, err := g.run(cmdCtx, g.dir, g.binary, args...)
	if err != nil {
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}

	return strings.TrimSpace(string(out)), nil
}

// execRunner runs the command with os/exec, keeping stderr for error messages.
func execRunner(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}

		return nil, err
	}

	return out, nil
}
