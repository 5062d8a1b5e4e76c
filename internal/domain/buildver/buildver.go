package buildver

import "strconv"

// DisplayPrefix starts every display version string.
const DisplayPrefix = "HXB_"

// VersionSpec is the numeric version triple from the [VERSION] section.
type VersionSpec struct {
	// Major is the major version component.
	Major int
	// Minor is the minor version component.
	Minor int
	// Build is the build (patch) version component.
	Build int
}

// Short renders the triple as "major.minor.build".
func (v VersionSpec) Short() string {
	return strconv.Itoa(v.Major) + "." + strconv.Itoa(v.Minor) + "." + strconv.Itoa(v.Build)
}

// BuildContext carries CI inputs that end up in the packaging version.
type BuildContext struct {
	// RunNumber identifies the CI run ("0" for local builds).
	RunNumber string
	// BuildLocation labels where the build happened ("local" by default).
	BuildLocation string
}

// Descriptor holds the four version strings produced for one build.
// It is created once by the resolver and never modified afterwards.
type Descriptor struct {
	// Short is the plain "major.minor.build" version.
	Short string `json:"short" yaml:"short"`
	// Long is Short followed by the commit hash when one is known.
	Long string `json:"long" yaml:"long"`
	// Deb is the packaging version including the CI run and build location.
	Deb string `json:"deb" yaml:"deb"`
	// Display is the human facing version shown on the device.
	Display string `json:"display" yaml:"display"`

	// Hash is the short commit hash, empty when git was unavailable.
	Hash string `json:"hash,omitempty" yaml:"hash,omitempty"`
	// Dirty reports uncommitted changes against HEAD. Omitted when clean
	// or when git was unavailable.
	Dirty bool `json:"dirty,omitempty" yaml:"dirty,omitempty"`
}

// Field returns the named version string.
func (d Descriptor) Field(name string) (string, bool) {
	switch name {
	case "short":
		return d.Short, true
	case "long":
		return d.Long, true
	case "deb":
		return d.Deb, true
	case "display":
		return d.Display, true
	default:
		return "", false
	}
}

// Fields lists the names accepted by Field.
func Fields() []string {
	return []string{"short", "long", "deb", "display"}
}
