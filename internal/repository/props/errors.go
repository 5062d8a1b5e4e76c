package props

import (
	"errors"
	"strings"
)

var (
	// ErrSectionMissing is returned when the properties file has no [VERSION] section.
	ErrSectionMissing = errors.New("version section missing")
	// ErrKeyMissing is returned when one of the version keys is absent.
	ErrKeyMissing = errors.New("version key missing")
	// ErrKeyNotNumeric is returned when a version key does not hold an integer.
	ErrKeyNotNumeric = errors.New("version key is not an integer")
	// ErrNegative is returned when a version key holds a negative integer.
	ErrNegative = errors.New("version key is negative")
)

// ConfigError describes a properties file that cannot produce a version.
type ConfigError struct {
	// Path is the properties file that was read.
	Path string
	// Key is the offending key, empty for file or section level problems.
	Key string
	// Err is the underlying cause.
	Err error
}

// Error implements error.
func (e *ConfigError) Error() string {
	var b strings.Builder

	b.WriteString("properties ")
	b.WriteString(e.Path)

	if e.Key != "" {
		b.WriteString(", key ")
		b.WriteString(e.Key)
	}

	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}

	return b.String()
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *ConfigError) Unwrap() error {
	return e.Err
}
