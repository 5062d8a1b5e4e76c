// Package vcs queries the git working tree for the build version.
//
// Inspect runs every query and folds the outcome into a single Probe value,
// so callers decide how to degrade instead of handling each command failure.
package vcs
