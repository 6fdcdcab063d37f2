// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local development machines.
	Development Environment = "development"
	// Staging is for pre-production testing.
	Staging Environment = "staging"
	// Production is for production CI runners.
	Production Environment = "production"
)

// Config is the master configuration for Beamforge.
type Config struct {
	// Environment identifies the deployment type (development,
	// staging, production).
	Environment Environment `yaml:"environment"`

	// Paths configures directory locations.
	Paths PathsConfig `yaml:"paths"`

	// Pipeline configures pipeline file handling.
	Pipeline PipelineConfig `yaml:"pipeline"`

	// Recipe configures recipe file handling.
	Recipe RecipeConfig `yaml:"recipe"`

	// Secrets configures sealed-secret key handling.
	Secrets SecretsConfig `yaml:"secrets"`

	// Per-environment overrides, applied after the base config is
	// loaded.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per environment.
type ConfigOverrides struct {
	Paths    *PathsConfig    `yaml:"paths,omitempty"`
	Pipeline *PipelineConfig `yaml:"pipeline,omitempty"`
	Recipe   *RecipeConfig   `yaml:"recipe,omitempty"`
	Secrets  *SecretsConfig  `yaml:"secrets,omitempty"`
}

// PathsConfig configures directory locations.
type PathsConfig struct {
	// Root is the base directory for Beamforge data.
	Root string `yaml:"root"`

	// Store is the package archive store directory.
	Store string `yaml:"store"`

	// Cache is where the solve cache database lives.
	Cache string `yaml:"cache"`

	// Docs is the documentation output directory.
	Docs string `yaml:"docs"`
}

// PipelineConfig configures pipeline file handling.
type PipelineConfig struct {
	// File is the pipeline configuration file path, relative to the
	// repository root.
	// Default: ci.yml
	File string `yaml:"file"`
}

// RecipeConfig configures recipe file handling.
type RecipeConfig struct {
	// File is the recipe file name inside the recipe folder.
	// Default: recipe.yaml
	File string `yaml:"file"`

	// VariantsFile is the JSONC pin file consulted for
	// {{ pin("...") }} directives. Empty disables pins.
	VariantsFile string `yaml:"variants_file"`
}

// SecretsConfig configures sealed-secret key handling.
type SecretsConfig struct {
	// KeyFile is the path to the age identity used to open sealed
	// env entries.
	// Default: ${BEAMFORGE_ROOT}/keys/secrets.key
	KeyFile string `yaml:"key_file"`

	// AllowKeygen permits `beamforge secret keygen` to write a new
	// keypair to KeyFile.
	// Default: true (development), false (production)
	AllowKeygen bool `yaml:"allow_keygen"`
}

// Default returns the default configuration. These defaults are used
// as a base before loading the config file. They exist primarily to
// ensure all fields have sensible zero-values, not as a fallback -
// the config file is required.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultRoot := filepath.Join(homeDir, ".cache", "beamforge")

	return &Config{
		Environment: Development,
		Paths: PathsConfig{
			Root:  defaultRoot,
			Store: filepath.Join(defaultRoot, "store"),
			Cache: filepath.Join(defaultRoot, "cache"),
			Docs:  filepath.Join(defaultRoot, "docs"),
		},
		Pipeline: PipelineConfig{
			File: "ci.yml",
		},
		Recipe: RecipeConfig{
			File: "recipe.yaml",
		},
		Secrets: SecretsConfig{
			KeyFile:     filepath.Join(defaultRoot, "keys", "secrets.key"),
			AllowKeygen: true,
		},
	}
}

// Load loads configuration from the BEAMFORGE_CONFIG environment
// variable.
//
// This is the only way to load configuration without an explicit
// path. There are no fallbacks or defaults - if BEAMFORGE_CONFIG is
// not set, this fails. This ensures deterministic, auditable
// configuration with no hidden overrides.
func Load() (*Config, error) {
	configPath := os.Getenv("BEAMFORGE_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("BEAMFORGE_CONFIG environment variable not set; " +
			"set it to the path of your beamforge.yaml config file, or use --config flag")
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
//
// The config file is the single source of truth. Environment
// variables do not override config values - this ensures
// deterministic, auditable configuration. The only expansion
// performed is ${HOME} and similar path variables for portability.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	// Apply environment-specific overrides (development/staging/production
	// sections in the file).
	cfg.applyEnvironmentOverrides()

	// Expand ${HOME} and similar variables in paths for portability.
	cfg.expandVariables()

	return cfg, nil
}

// loadFile loads a single configuration file, merging into the
// current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, c)
}

// applyEnvironmentOverrides applies the environment-specific overrides.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
		// Production defaults: no on-the-fly keypairs.
		if overrides == nil {
			overrides = &ConfigOverrides{
				Secrets: &SecretsConfig{
					AllowKeygen: false,
				},
			}
		}
	}

	if overrides == nil {
		return
	}

	if overrides.Paths != nil {
		if overrides.Paths.Root != "" {
			c.Paths.Root = overrides.Paths.Root
		}
		if overrides.Paths.Store != "" {
			c.Paths.Store = overrides.Paths.Store
		}
		if overrides.Paths.Cache != "" {
			c.Paths.Cache = overrides.Paths.Cache
		}
		if overrides.Paths.Docs != "" {
			c.Paths.Docs = overrides.Paths.Docs
		}
	}

	if overrides.Pipeline != nil {
		if overrides.Pipeline.File != "" {
			c.Pipeline.File = overrides.Pipeline.File
		}
	}

	if overrides.Recipe != nil {
		if overrides.Recipe.File != "" {
			c.Recipe.File = overrides.Recipe.File
		}
		if overrides.Recipe.VariantsFile != "" {
			c.Recipe.VariantsFile = overrides.Recipe.VariantsFile
		}
	}

	if overrides.Secrets != nil {
		if overrides.Secrets.KeyFile != "" {
			c.Secrets.KeyFile = overrides.Secrets.KeyFile
		}
		// AllowKeygen is a bool, so we always apply it from overrides.
		c.Secrets.AllowKeygen = overrides.Secrets.AllowKeygen
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"BEAMFORGE_ROOT": c.Paths.Root,
		"HOME":           os.Getenv("HOME"),
	}

	c.Paths.Root = expandVars(c.Paths.Root, vars)
	vars["BEAMFORGE_ROOT"] = c.Paths.Root // Update for dependent paths.

	c.Paths.Store = expandVars(c.Paths.Store, vars)
	c.Paths.Cache = expandVars(c.Paths.Cache, vars)
	c.Paths.Docs = expandVars(c.Paths.Docs, vars)
	c.Recipe.VariantsFile = expandVars(c.Recipe.VariantsFile, vars)
	c.Secrets.KeyFile = expandVars(c.Secrets.KeyFile, vars)
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if c.Paths.Root == "" {
		errs = append(errs, fmt.Errorf("paths.root is required"))
	}
	if c.Paths.Store == "" {
		errs = append(errs, fmt.Errorf("paths.store is required"))
	}
	if c.Paths.Cache == "" {
		errs = append(errs, fmt.Errorf("paths.cache is required"))
	}

	if c.Pipeline.File == "" {
		errs = append(errs, fmt.Errorf("pipeline.file is required"))
	}
	if c.Recipe.File == "" {
		errs = append(errs, fmt.Errorf("recipe.file is required"))
	}
	if c.Secrets.KeyFile == "" {
		errs = append(errs, fmt.Errorf("secrets.key_file is required"))
	}

	return errors.Join(errs...)
}
