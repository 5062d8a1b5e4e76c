// Package resolver derives the firmware version strings.
//
// Resolve reads the version triple, inspects git once and hands both to Derive,
// a pure function implementing the two fallbacks: an unavailable repository
// drops the hash from every string, and a branch without an x.y.z version keeps
// the numeric triple in the display string.
package resolver
