package resolver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/hermesx-build/internal/domain/buildver"
)

// Output formats accepted by Write.
const (
	FormatYAML  = "yaml"
	FormatJSON  = "json"
	FormatEnv   = "env"
	FormatField = "field"
)

// envPrefix starts every variable name of the env format.
const envPrefix = "VERSION_"

var (
	errUnknownFormat = errors.New("unknown output format")
	errUnknownField  = errors.New("unknown version field")
)

// Formats lists the names accepted by Write.
func Formats() []string {
	return []string{FormatYAML, FormatJSON, FormatEnv, FormatField}
}

// Write renders the descriptor to w. field is only used by FormatField.
func Write(w io.Writer, d *buildver.Descriptor, format, field string) error {
	switch strings.ToLower(format) {
	case FormatYAML, "":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)

		if err := encoder.Encode(d); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}

		return encoder.Close()
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")

		return encoder.Encode(d)
	case FormatEnv:
		return writeEnv(w, d)
	case FormatField:
		value, ok := d.Field(strings.ToLower(field))
		if !ok {
			return fmt.Errorf("%q (want one of %s): %w", field, strings.Join(buildver.Fields(), ", "), errUnknownField)
		}

		_, err := fmt.Fprintln(w, value)

		return err
	default:
		return fmt.Errorf("%q (want one of %s): %w", format, strings.Join(Formats(), ", "), errUnknownFormat)
	}
}

// writeEnv prints the four version strings as dotenv assignments.
func writeEnv(w io.Writer, d *buildver.Descriptor) error {
	vars := make(map[string]string, len(buildver.Fields()))

	for _, name := range buildver.Fields() {
		value, _ := d.Field(name)
		vars[envPrefix+strings.ToUpper(name)] = value
	}

	contents, err := godotenv.Marshal(vars)
	if err != nil {
		return fmt.Errorf("encode env: %w", err)
	}

	_, err = fmt.Fprintln(w, contents)

	return err
}
