// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

package depspec

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a parsed package version under the conda-flavored
// ordering grammar: an optional epoch ("2!1.0"), dot-separated parts,
// each part an alternating run of numbers and letters ("0a1" is the
// components 0, "a", 1).
//
// Ordering rules, matching the packaging ecosystem's resolver:
//   - Epochs compare first.
//   - Parts compare element-wise; missing parts count as zero, so
//     "1.1" == "1.1.0".
//   - Within a part, letter components sort before numbers ("1.0a1"
//     precedes "1.0"), except "post" which sorts after everything.
//   - "dev" sorts before every other letter component.
//   - Comparison is case-insensitive.
type Version struct {
	// Epoch is the leading "N!" epoch, zero when absent.
	Epoch int

	// parts holds the parsed dot-separated parts. Each part begins
	// with a numeric component (implicit 0 when the source part
	// starts with a letter, so "a" parses like "0a").
	parts [][]component

	raw string
}

// component is one numeric or alphabetic run within a version part.
type component struct {
	number  int
	letters string
	numeric bool
}

// ParseVersion parses a version string. Returns an error for empty
// strings, malformed epochs, and characters outside [A-Za-z0-9._!].
func ParseVersion(raw string) (Version, error) {
	if raw == "" {
		return Version{}, fmt.Errorf("empty version")
	}

	version := Version{raw: raw}
	rest := strings.ToLower(strings.TrimSpace(raw))

	if bang := strings.IndexByte(rest, '!'); bang >= 0 {
		epoch, err := strconv.Atoi(rest[:bang])
		if err != nil || epoch < 0 {
			return Version{}, fmt.Errorf("invalid epoch in %q", raw)
		}
		version.Epoch = epoch
		rest = rest[bang+1:]
	}
	if rest == "" {
		return Version{}, fmt.Errorf("version %q has no parts after epoch", raw)
	}

	// Underscores and hyphens are part separators, same as dots.
	rest = strings.NewReplacer("_", ".", "-", ".").Replace(rest)

	for _, part := range strings.Split(rest, ".") {
		components, err := parsePart(part)
		if err != nil {
			return Version{}, fmt.Errorf("version %q: %w", raw, err)
		}
		version.parts = append(version.parts, components)
	}

	return version, nil
}

// MustParseVersion parses a version string and panics on error. For
// use with literals in tests and tables.
func MustParseVersion(raw string) Version {
	version, err := ParseVersion(raw)
	if err != nil {
		panic(err)
	}
	return version
}

// parsePart splits one dot-separated part into alternating numeric
// and letter components. A part that starts with a letter gets an
// implicit leading zero so "a" compares like "0a".
func parsePart(part string) ([]component, error) {
	if part == "" {
		return nil, fmt.Errorf("empty part")
	}

	var components []component
	index := 0
	for index < len(part) {
		start := index
		if isDigit(part[index]) {
			for index < len(part) && isDigit(part[index]) {
				index++
			}
			number, err := strconv.Atoi(part[start:index])
			if err != nil {
				return nil, fmt.Errorf("numeric run %q too large", part[start:index])
			}
			components = append(components, component{number: number, numeric: true})
		} else if isLetter(part[index]) {
			for index < len(part) && isLetter(part[index]) {
				index++
			}
			if len(components) == 0 {
				components = append(components, component{numeric: true})
			}
			components = append(components, component{letters: part[start:index]})
		} else {
			return nil, fmt.Errorf("invalid character %q in part %q", part[index], part)
		}
	}

	return components, nil
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }

// String returns the original version string.
func (v Version) String() string { return v.raw }

// MarshalText implements encoding.TextMarshaler so versions embed as
// text strings in CBOR and JSON records.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.raw), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := ParseVersion(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Compare returns -1, 0, or 1 as v orders before, equal to, or after
// other.
func Compare(v, other Version) int {
	if v.Epoch != other.Epoch {
		if v.Epoch < other.Epoch {
			return -1
		}
		return 1
	}

	length := len(v.parts)
	if len(other.parts) > length {
		length = len(other.parts)
	}

	zeroPart := []component{{numeric: true}}
	for i := 0; i < length; i++ {
		left, right := zeroPart, zeroPart
		if i < len(v.parts) {
			left = v.parts[i]
		}
		if i < len(other.parts) {
			right = other.parts[i]
		}
		if result := comparePart(left, right); result != 0 {
			return result
		}
	}
	return 0
}

// Equal reports whether two versions order the same ("1.1" equals
// "1.1.0").
func (v Version) Equal(other Version) bool { return Compare(v, other) == 0 }

// Less reports whether v orders strictly before other.
func (v Version) Less(other Version) bool { return Compare(v, other) < 0 }

func comparePart(left, right []component) int {
	length := len(left)
	if len(right) > length {
		length = len(right)
	}

	zero := component{numeric: true}
	for i := 0; i < length; i++ {
		a, b := zero, zero
		if i < len(left) {
			a = left[i]
		}
		if i < len(right) {
			b = right[i]
		}
		if result := compareComponent(a, b); result != 0 {
			return result
		}
	}
	return 0
}

// compareComponent orders a single component pair: dev < other
// letters < numbers < post.
func compareComponent(a, b component) int {
	rankA, rankB := componentRank(a), componentRank(b)
	if rankA != rankB {
		if rankA < rankB {
			return -1
		}
		return 1
	}

	switch rankA {
	case rankNumber:
		switch {
		case a.number < b.number:
			return -1
		case a.number > b.number:
			return 1
		}
		return 0
	case rankLetters:
		return strings.Compare(a.letters, b.letters)
	default:
		// dev == dev, post == post.
		return 0
	}
}

const (
	rankDev = iota
	rankLetters
	rankNumber
	rankPost
)

func componentRank(c component) int {
	if c.numeric {
		return rankNumber
	}
	switch c.letters {
	case "dev":
		return rankDev
	case "post":
		return rankPost
	default:
		return rankLetters
	}
}

// startsWith reports whether v falls under the prefix version: every
// part of prefix matches the corresponding part of v exactly. This is
// the "=1.2" / "1.2.*" prefix-match semantics: "=1.2" admits 1.2,
// 1.2.0, and 1.2.9, but not 1.20.
func (v Version) startsWith(prefix Version) bool {
	if v.Epoch != prefix.Epoch {
		return false
	}
	if len(prefix.parts) > len(v.parts) {
		// Shorter candidate can still match when the missing parts
		// of the prefix are all zero ("1.2.0" prefix admits "1.2").
		for i := len(v.parts); i < len(prefix.parts); i++ {
			if comparePart(prefix.parts[i], []component{{numeric: true}}) != 0 {
				return false
			}
		}
	}
	for i, part := range prefix.parts {
		if i >= len(v.parts) {
			break
		}
		if comparePart(part, v.parts[i]) != 0 {
			return false
		}
	}
	return true
}
