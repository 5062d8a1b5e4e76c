package resolver

import (
	"regexp"

	"github.com/oshokin/hermesx-build/internal/domain/buildver"
	"github.com/oshokin/hermesx-build/internal/vcs"
)

// branchVersion finds an x.y.z triple anywhere in a branch name.
var branchVersion = regexp.MustCompile(`\d+\.\d+\.\d+`)

// Derive builds the descriptor from already collected inputs.
// dirtyMarker is appended to the hash in Long and Display for dirty trees.
func Derive(
	spec buildver.VersionSpec,
	build buildver.BuildContext,
	probe vcs.Probe,
	dirtyMarker string,
) buildver.Descriptor {
	short := spec.Short()
	deb := short + "." + build.RunNumber + "~" + build.BuildLocation

	if !probe.Available() {
		return buildver.Descriptor{
			Short:   short,
			Long:    short,
			Deb:     deb,
			Display: buildver.DisplayPrefix + short,
		}
	}

	suffix := probe.Hash
	if probe.Dirty {
		suffix += dirtyMarker
	}

	return buildver.Descriptor{
		Short:   short,
		Long:    short + "." + suffix,
		Deb:     deb + probe.Hash,
		Display: buildver.DisplayPrefix + displayShort(short, probe) + suffix,
		Hash:    probe.Hash,
		Dirty:   probe.Dirty,
	}
}

// displayShort prefers the version found in the branch name.
func displayShort(short string, probe vcs.Probe) string {
	if probe.BranchErr != nil {
		return short
	}

	if match := branchVersion.FindString(probe.Branch); match != "" {
		return match
	}

	return short
}
