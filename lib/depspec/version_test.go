// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

package depspec

import (
	"testing"
)

func TestCompare_Ordering(t *testing.T) {
	t.Parallel()

	// Each version orders strictly before the next. This is the
	// reference ordering chain for the packaging ecosystem's grammar:
	// dev tags before alpha tags, alpha tags before releases, post
	// tags after, epochs above everything.
	ordered := []string{
		"0.4",
		"0.4.1.rc",
		"0.4.1",
		"0.5a1",
		"0.5b3",
		"0.5c1",
		"0.5",
		"0.9.6",
		"0.960923",
		"1.0",
		"1.1dev1",
		"1.1a1",
		"1.1.dev1",
		"1.1.a1",
		"1.1.0rc1",
		"1.1",
		"1.1.0post1",
		"1.1post1",
		"1996.07.12",
		"1!0.4.1",
		"2!0.4.1",
	}

	for i := 0; i < len(ordered)-1; i++ {
		left := MustParseVersion(ordered[i])
		right := MustParseVersion(ordered[i+1])
		if !left.Less(right) {
			t.Errorf("expected %q < %q", ordered[i], ordered[i+1])
		}
		if !right.Equal(right) {
			t.Errorf("expected %q == itself", ordered[i+1])
		}
	}
}

func TestCompare_Equalities(t *testing.T) {
	t.Parallel()

	pairs := [][2]string{
		{"1.1", "1.1.0"},
		{"1.1", "1.1.0.0"},
		{"0.4.1.rc", "0.4.1.RC"},
		{"1.1.0post1", "1.1.post1"},
		{"1.0_1", "1.0-1"},
	}

	for _, pair := range pairs {
		left := MustParseVersion(pair[0])
		right := MustParseVersion(pair[1])
		if Compare(left, right) != 0 {
			t.Errorf("expected %q == %q", pair[0], pair[1])
		}
	}
}

func TestParseVersion_Invalid(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "!1.0", "x!1.0", "1..0", "1.0+local", "1.0 2"} {
		if _, err := ParseVersion(raw); err == nil {
			t.Errorf("ParseVersion(%q): expected error", raw)
		}
	}
}

func TestVersion_TextRoundTrip(t *testing.T) {
	t.Parallel()

	original := MustParseVersion("2!1.4.0rc2")
	text, err := original.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}

	var decoded Version
	if err := decoded.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if Compare(original, decoded) != 0 || decoded.String() != "2!1.4.0rc2" {
		t.Errorf("round trip mismatch: %q", decoded.String())
	}
}
