package vcs

import (
	"context"
)

// Probe is the outcome of inspecting the repository once.
type Probe struct {
	// Hash is the abbreviated HEAD hash.
	Hash string
	// Dirty reports uncommitted changes against HEAD.
	Dirty bool
	// Branch is the abbreviated ref name of HEAD.
	Branch string

	// Err is set when the repository could not be queried; the other fields are then empty.
	Err error
	// BranchErr is set when only the branch lookup failed.
	BranchErr error
}

// Available reports whether the hash and dirty queries succeeded.
func (p Probe) Available() bool {
	return p.Err == nil
}

// Unavailable returns a probe for a repository that could not be queried.
func Unavailable(err error) Probe {
	return Probe{Err: err}
}

// Inspect asks q for hash, dirty status and branch.
// A failing hash or dirty query marks the whole probe unavailable; a failing
// branch query only sets BranchErr.
func Inspect(ctx context.Context, q Querier) Probe {
	hash, err := q.ShortHash(ctx)
	if err != nil {
		return Unavailable(err)
	}

	dirty, err := q.IsDirty(ctx)
	if err != nil {
		return Unavailable(err)
	}

	probe := Probe{
		Hash:  hash,
		Dirty: dirty,
	}

	probe.Branch, probe.BranchErr = q.Branch(ctx)

	return probe
}
