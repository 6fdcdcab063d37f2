// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"abc", "abc", 0},
		{"abc", "abd", 1},
		{"abc", "acb", 2},
		{"recipe", "recpie", 2},
		{"validate", "valdiate", 2},
		{"pipeline", "pipline", 1},
		{"kitten", "sitting", 3},
		{"version", "zzzzzzz", 7},
	}

	for _, test := range tests {
		t.Run(test.a+"/"+test.b, func(t *testing.T) {
			if got := levenshtein(test.a, test.b); got != test.want {
				t.Errorf("levenshtein(%q, %q) = %d, want %d", test.a, test.b, got, test.want)
			}
		})
	}
}

func TestLevenshtein_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"recipe", "recpie"},
		{"pipeline", "pip"},
		{"a", "abcdef"},
	}
	for _, pair := range pairs {
		forward := levenshtein(pair[0], pair[1])
		backward := levenshtein(pair[1], pair[0])
		if forward != backward {
			t.Errorf("levenshtein(%q, %q) = %d but reversed = %d",
				pair[0], pair[1], forward, backward)
		}
	}
}

func TestSuggestCommand(t *testing.T) {
	commands := []*Command{
		{Name: "pipeline"},
		{Name: "recipe"},
		{Name: "secret"},
		{Name: "pack"},
		{Name: "docs"},
		{Name: "version"},
	}

	tests := []struct {
		input string
		want  string
	}{
		{"recpie", "recipe"},
		{"pipline", "pipeline"},
		{"secrt", "secret"},
		{"versoin", "version"},
		{"pck", "pack"},
		{"zzzzzzzzz", ""},
		{"q", ""},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			if got := suggestCommand(test.input, commands); got != test.want {
				t.Errorf("suggestCommand(%q) = %q, want %q", test.input, got, test.want)
			}
		})
	}
}

func TestSuggestFlag(t *testing.T) {
	newFlagSet := func() *pflag.FlagSet {
		flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flagSet.String("key-file", "", "")
		flagSet.Bool("json", false, "")
		flagSet.String("output", "", "")
		return flagSet
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"close typo", []string{"--ksy-file"}, "--key-file"},
		{"transposition", []string{"--josn"}, "--json"},
		{"with value", []string{"--ouput=dist"}, "--output"},
		{"after positional", []string{"ci.yml", "--jsn"}, "--json"},
		{"distant", []string{"--zzzzzzzzzz"}, ""},
		{"defined flag only", []string{"--json"}, ""},
		{"no flags at all", []string{"ci.yml"}, ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := suggestFlag(test.args, newFlagSet()); got != test.want {
				t.Errorf("suggestFlag(%v) = %q, want %q", test.args, got, test.want)
			}
		})
	}
}
