package resolver

import (
	"context"
	"fmt"

	"github.com/oshokin/hermesx-build/internal/config"
	"github.com/oshokin/hermesx-build/internal/domain/buildver"
	"github.com/oshokin/hermesx-build/internal/logger"
	"github.com/oshokin/hermesx-build/internal/repository/props"
	"github.com/oshokin/hermesx-build/internal/vcs"
)

// Options contains inputs for the resolver entry point.
type Options struct {
	// PropsPath is the properties file holding the [VERSION] section.
	PropsPath string
	// RepoDir is the git working tree to inspect; empty means the current directory.
	RepoDir string
	// EnvFile is an optional dotenv file supplementing the process environment.
	EnvFile string
	// DirtyMarker overrides HERMESX_DIRTY_MARKER when not empty.
	DirtyMarker string
}

// Resolver combines the version triple, the CI context and the repository state.
type Resolver struct {
	// repo supplies the version triple.
	repo props.Repository
	// querier answers git questions.
	querier vcs.Querier
	// build carries the CI run number and build location.
	build buildver.BuildContext
	// dirtyMarker is appended to the hash of dirty trees.
	dirtyMarker string
}

// New creates a Resolver. build is copied and never read from the environment again.
func New(repo props.Repository, querier vcs.Querier, build buildver.BuildContext, dirtyMarker string) *Resolver {
	return &Resolver{
		repo:        repo,
		querier:     querier,
		build:       build,
		dirtyMarker: dirtyMarker,
	}
}

// Run loads the environment, resolves the version and returns the descriptor.
func Run(ctx context.Context, opts *Options) (*buildver.Descriptor, error) {
	ctx = logger.WithName(ctx, "hermesx-version")

	environment, err := config.LoadEnvironment(opts.EnvFile)
	if err != nil {
		return nil, err
	}

	dirtyMarker := environment.DirtyMarker
	if opts.DirtyMarker != "" {
		dirtyMarker = opts.DirtyMarker
	}

	r := New(
		props.NewFileRepository(opts.PropsPath),
		vcs.NewGit(vcs.WithDir(opts.RepoDir)),
		environment.BuildContext(),
		dirtyMarker,
	)

	return r.Resolve(ctx)
}

// Resolve produces the descriptor. Only properties errors are returned;
// git problems degrade the output instead.
func (r *Resolver) Resolve(ctx context.Context) (*buildver.Descriptor, error) {
	spec, err := r.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load version: %w", err)
	}

	probe := vcs.Inspect(ctx, r.querier)

	switch {
	case !probe.Available():
		logger.DebugKV(ctx, "Git unavailable, using plain version", "error", probe.Err)
	case probe.BranchErr != nil:
		logger.DebugKV(ctx, "Branch lookup failed, keeping numeric display version", "error", probe.BranchErr)
	}

	descriptor := Derive(*spec, r.build, probe, r.dirtyMarker)

	logger.DebugKV(ctx, "Resolved version",
		"short", descriptor.Short,
		"long", descriptor.Long,
		"deb", descriptor.Deb,
		"display", descriptor.Display)

	return &descriptor, nil
}
