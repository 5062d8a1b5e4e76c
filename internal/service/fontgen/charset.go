package fontgen

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// asciiFirst and asciiLast bound the printable ASCII range bdfconv keeps in place.
	asciiFirst = 32
	asciiLast  = 126
)

// errCharsetMissing is returned when the charset file does not exist.
var errCharsetMissing = errors.New("charset file missing")

// ReadCharset returns every character of the charset file once, in first-seen order.
// Blank lines are ignored; characters inside a line, spaces included, are kept.
func ReadCharset(path string) ([]rune, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, errCharsetMissing)
		}

		return nil, fmt.Errorf("read charset: %w", err)
	}

	var (
		chars []rune
		seen  = make(map[rune]struct{})
	)

	for _, line := range strings.Split(string(contents), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		for _, ch := range line {
			if _, ok := seen[ch]; ok {
				continue
			}

			seen[ch] = struct{}{}
			chars = append(chars, ch)
		}
	}

	return chars, nil
}

// Remapped returns the characters that bdfconv moves above the map base.
func Remapped(chars []rune) []rune {
	remapped := make([]rune, 0, len(chars))

	for _, ch := range chars {
		if isPrintableASCII(ch) {
			continue
		}

		remapped = append(remapped, ch)
	}

	return remapped
}

// FormatMap builds the bdfconv -m argument: printable ASCII at its own codes,
// then every other character at base, base+1 and so on.
func FormatMap(chars []rune, base int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%d-%d", asciiFirst, asciiLast)

	for offset, ch := range Remapped(chars) {
		fmt.Fprintf(&b, ",$%04x>$%02x", ch, base+offset)
	}

	return b.String()
}

func isPrintableASCII(ch rune) bool {
	return ch >= asciiFirst && ch <= asciiLast
}
