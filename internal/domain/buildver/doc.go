// Package buildver defines the build version model: the numeric VersionSpec read
// from the properties file, the CI BuildContext and the derived Descriptor.
package buildver
