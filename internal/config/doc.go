// Package config holds the settings of the build tools.
//
// Environment carries the CI variables consumed by the version resolver and is
// parsed once at start-up. Config describes where the font generator downloads
// its inputs and which sources it rewrites; it is loaded from and saved to YAML.
package config
