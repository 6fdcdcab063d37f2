// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string

	root := &Command{
		Name: "beamforge",
		Subcommands: []*Command{
			{
				Name: "version",
				Run: func(args []string) error {
					called = "version"
					return nil
				},
			},
			{
				Name: "recipe",
				Run: func(args []string) error {
					called = "recipe"
					return nil
				},
			},
		},
	}

	if err := root.Execute([]string{"recipe"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "recipe" {
		t.Errorf("dispatched to %q, want %q", called, "recipe")
	}
}

func TestCommand_Execute_NestedSubcommands(t *testing.T) {
	var called string
	var receivedArgs []string

	root := &Command{
		Name: "beamforge",
		Subcommands: []*Command{
			{
				Name: "recipe",
				Subcommands: []*Command{
					{
						Name: "validate",
						Run: func(args []string) error {
							called = "recipe validate"
							receivedArgs = args
							return nil
						},
					},
				},
			},
		},
	}

	if err := root.Execute([]string{"recipe", "validate", "recipe.yaml"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "recipe validate" {
		t.Errorf("dispatched to %q, want %q", called, "recipe validate")
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "recipe.yaml" {
		t.Errorf("args = %v, want [recipe.yaml]", receivedArgs)
	}
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	var keyFile string
	var target string

	command := &Command{
		Name: "env",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("env", pflag.ContinueOnError)
			flagSet.StringVar(&keyFile, "key-file", "/default.key", "age identity file")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				target = args[0]
			}
			return nil
		},
	}

	if err := command.Execute([]string{"--key-file", "/custom.key", "ci.yml"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if keyFile != "/custom.key" {
		t.Errorf("keyFile = %q, want %q", keyFile, "/custom.key")
	}
	if target != "ci.yml" {
		t.Errorf("target = %q, want %q", target, "ci.yml")
	}
}

func TestCommand_Execute_UnknownFlagSuggestion(t *testing.T) {
	command := &Command{
		Name: "env",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("env", pflag.ContinueOnError)
			flagSet.Bool("json", false, "output as JSON")
			flagSet.String("key-file", "/default.key", "age identity file")
			return flagSet
		},
		Run: func(args []string) error { return nil },
	}

	err := command.Execute([]string{"--ksy-file"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	errStr := err.Error()
	if !strings.Contains(errStr, "did you mean --key-file") {
		t.Errorf("error = %q, want suggestion for '--key-file'", errStr)
	}
	if !strings.Contains(errStr, "ksy-file") {
		t.Errorf("error = %q, should mention the bad flag", errStr)
	}
	if !strings.Contains(errStr, "--help") {
		t.Errorf("error = %q, should point to --help", errStr)
	}
}

func TestCommand_Execute_UnknownFlagNoSuggestion(t *testing.T) {
	command := &Command{
		Name: "env",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("env", pflag.ContinueOnError)
			flagSet.Bool("json", false, "output as JSON")
			return flagSet
		},
		Run: func(args []string) error { return nil },
	}

	err := command.Execute([]string{"--zzzzzzzzz"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %q, should not suggest for distant flag", err.Error())
	}
	if !strings.Contains(err.Error(), "--help") {
		t.Errorf("error = %q, should point to --help", err.Error())
	}
}

func TestCommand_Execute_UnknownSubcommandSuggestion(t *testing.T) {
	root := &Command{
		Name: "beamforge",
		Subcommands: []*Command{
			{Name: "pipeline"},
			{Name: "recipe"},
			{Name: "version"},
		},
	}

	err := root.Execute([]string{"recpie"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown subcommand")
	}
	if !strings.Contains(err.Error(), "did you mean \"recipe\"") {
		t.Errorf("error = %q, want suggestion for 'recipe'", err.Error())
	}
}

func TestCommand_Execute_UnknownSubcommandNoSuggestion(t *testing.T) {
	root := &Command{
		Name: "beamforge",
		Subcommands: []*Command{
			{Name: "pipeline"},
			{Name: "recipe"},
		},
	}

	err := root.Execute([]string{"zzzzzzz"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown subcommand")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %q, should not contain suggestion for distant input", err.Error())
	}
}

func TestCommand_Execute_HelpFlag(t *testing.T) {
	for _, helpArg := range []string{"-h", "--help", "help"} {
		t.Run(helpArg, func(t *testing.T) {
			root := &Command{
				Name:    "beamforge",
				Summary: "Pipeline and recipe tooling",
				Subcommands: []*Command{
					{Name: "recipe", Summary: "Recipe operations"},
				},
			}

			err := root.Execute([]string{helpArg})
			if err != nil {
				t.Errorf("Execute(%q) error: %v", helpArg, err)
			}
		})
	}
}

func TestCommand_Execute_NoArgsShowsHelp(t *testing.T) {
	root := &Command{
		Name: "beamforge",
		Subcommands: []*Command{
			{Name: "recipe", Summary: "Recipe operations"},
		},
	}

	err := root.Execute([]string{})
	if err == nil {
		t.Fatal("Execute() = nil, want error for missing subcommand")
	}
	if !strings.Contains(err.Error(), "subcommand required") {
		t.Errorf("error = %q, want 'subcommand required'", err.Error())
	}
}

func TestCommand_PrintHelp(t *testing.T) {
	command := &Command{
		Name:        "beamforge",
		Description: "CI pipeline and package recipe tooling.",
		Subcommands: []*Command{
			{Name: "pipeline", Summary: "Work with pipeline configuration"},
			{Name: "recipe", Summary: "Work with package recipes"},
			{Name: "version", Summary: "Print version information"},
		},
		Examples: []Example{
			{
				Description: "Validate the pipeline configuration",
				Command:     "beamforge pipeline validate ci.yml",
			},
			{
				Description: "Render a recipe with directives expanded",
				Command:     "beamforge recipe render conda-recipe/recipe.yaml",
			},
		},
	}

	var buffer bytes.Buffer
	command.PrintHelp(&buffer)
	output := buffer.String()

	// Verify structural elements are present.
	for _, want := range []string{
		"CI pipeline and package recipe tooling.",
		"Usage:",
		"beamforge <command> [flags]",
		"Commands:",
		"pipeline",
		"Work with pipeline configuration",
		"recipe",
		"Work with package recipes",
		"Examples:",
		"beamforge pipeline validate ci.yml",
		"beamforge recipe render",
		"Run 'beamforge <command> --help'",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q\n\nFull output:\n%s", want, output)
		}
	}
}

func TestCommand_PrintHelp_WithFlags(t *testing.T) {
	command := &Command{
		Name:    "env",
		Summary: "Print the resolved environment block",
		Usage:   "beamforge pipeline env <file> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("env", pflag.ContinueOnError)
			flagSet.String("key-file", "", "age identity for sealed entries")
			flagSet.Bool("json", false, "output as JSON")
			return flagSet
		},
	}

	var buffer bytes.Buffer
	command.PrintHelp(&buffer)
	output := buffer.String()

	for _, want := range []string{
		"beamforge pipeline env <file> [flags]",
		"Flags:",
		"key-file",
		"json",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q\n\nFull output:\n%s", want, output)
		}
	}
}

func TestCommand_FullName(t *testing.T) {
	root := &Command{Name: "beamforge"}
	recipe := &Command{Name: "recipe", parent: root}
	validate := &Command{Name: "validate", parent: recipe}

	if got := root.fullName(); got != "beamforge" {
		t.Errorf("root.fullName() = %q, want %q", got, "beamforge")
	}
	if got := recipe.fullName(); got != "beamforge recipe" {
		t.Errorf("recipe.fullName() = %q, want %q", got, "beamforge recipe")
	}
	if got := validate.fullName(); got != "beamforge recipe validate" {
		t.Errorf("validate.fullName() = %q, want %q", got, "beamforge recipe validate")
	}
}
