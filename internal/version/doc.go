// Package version exposes build metadata of the hermesx tools themselves.
//
// Variables Version, Commit, and BuildTime are injected at build time via
// Go ldflags. When they are not, the module and VCS data recorded by the Go
// toolchain are used instead.
package version
