package version

import (
	"fmt"
	"runtime/debug"
)

const unset = "none"

var (
	// Version is the semantic version of the build. It can be overridden via ldflags.
	Version = "dev"
	// Commit is the short git SHA embedded at build time (or "none").
	Commit = unset
	// BuildTime is the UTC build timestamp embedded at build time.
	BuildTime = "unknown"
)

// shortCommitLength matches `git rev-parse --short`.
const shortCommitLength = 7

// Short returns only the semantic version string.
func Short() string {
	if Version != "dev" {
		return Version
	}

	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	return Version
}

// Full returns a human-readable version string with commit and build time.
func Full() string {
	commit, built := Commit, BuildTime

	if commit == unset {
		commit, built = fromBuildInfo(built)
	}

	return fmt.Sprintf("version: %s, commit: %s, built at: %s", Short(), commit, built)
}

// fromBuildInfo reads the VCS stamp the toolchain records for `go build` in a checkout.
func fromBuildInfo(built string) (string, string) {
	commit := unset

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return commit, built
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			commit = setting.Value
			if len(commit) > shortCommitLength {
				commit = commit[:shortCommitLength]
			}
		case "vcs.time":
			if built == "unknown" {
				built = setting.Value
			}
		}
	}

	return commit, built
}
