// Copyright 2026 The Convoy Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for convoy.
//
// Configuration is loaded from a single YAML file specified by:
//   - CONVOY_CONFIG environment variable, or
//   - --config flag passed to the command
//
// There are no fallbacks and no automatic discovery. This ensures
// deterministic, auditable configuration with no hidden overrides.
//
// The file may contain environment-specific sections (staging,
// production) that override base values when the selected environment
// matches.
package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Environment names a deployment environment section in the config file.
type Environment string

const (
	// Staging is for pre-production targets.
	Staging Environment = "staging"
	// Production is for production targets.
	Production Environment = "production"
)

// Config is the deploy manifest for one application.
type Config struct {
	// Environment selects which override section applies. The
	// --environment flag, when given, takes precedence over this field.
	Environment Environment `yaml:"environment"`

	// DeployTo is the deployment root on every host. Releases live in
	// <deploy_to>/releases; the current and upcoming symlinks live
	// directly under it.
	DeployTo string `yaml:"deploy_to"`

	// Hosts are the ssh destinations of the fleet ("deploy@web1" or a
	// ~/.ssh/config alias). An empty list means deploy to the local
	// machine.
	Hosts []string `yaml:"hosts"`

	// KeepReleases is how many historical releases cleanup retains in
	// addition to the currently published one. Default 3.
	KeepReleases int `yaml:"keep_releases"`

	// Workspace is the local source tree releases are staged from. It
	// must be a git checkout; the release name embeds its revision.
	Workspace string `yaml:"workspace"`

	// Sources are the workspace subdirectories uploaded into each new
	// release, by relative path.
	Sources []string `yaml:"sources"`

	// Restart are the commands run on every host after publish.
	Restart []string `yaml:"restart"`

	// SSH configures the transport.
	SSH SSHConfig `yaml:"ssh"`

	// Per-environment override sections, applied after the base values
	// when Environment matches.
	StagingOverrides    *Overrides `yaml:"staging,omitempty"`
	ProductionOverrides *Overrides `yaml:"production,omitempty"`
}

// SSHConfig configures the ssh transport.
type SSHConfig struct {
	// Options are extra flags passed to every ssh invocation (for
	// example "-p", "2222").
	Options []string `yaml:"options"`
}

// Overrides contains the fields an environment section may override.
// List fields replace the base entirely; scalar fields override only
// when non-zero.
type Overrides struct {
	DeployTo     string     `yaml:"deploy_to,omitempty"`
	Hosts        []string   `yaml:"hosts,omitempty"`
	KeepReleases int        `yaml:"keep_releases,omitempty"`
	Workspace    string     `yaml:"workspace,omitempty"`
	Sources      []string   `yaml:"sources,omitempty"`
	Restart      []string   `yaml:"restart,omitempty"`
	SSH          *SSHConfig `yaml:"ssh,omitempty"`
}

// Default returns a Config with defaults applied. The config file is
// still required; defaults only give optional fields sensible values.
func Default() *Config {
	return &Config{
		KeepReleases: 3,
	}
}

// Load loads configuration from the CONVOY_CONFIG environment
// variable. The environment argument selects an override section; ""
// uses whatever the file sets.
func Load(environment Environment) (*Config, error) {
	configPath := os.Getenv("CONVOY_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("CONVOY_CONFIG environment variable not set; " +
			"set it to the path of your convoy.yaml, or use the --config flag")
	}
	return LoadFile(configPath, environment)
}

// LoadFile loads configuration from a specific file path. The config
// file is the single source of truth: environment variables do not
// override values. The only expansion performed is ${VAR} and
// ${VAR:-default} in path fields, for portability.
func LoadFile(path string, environment Environment) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if environment != "" {
		cfg.Environment = environment
	}
	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that the config describes a usable deployment.
func (c *Config) Validate() error {
	if c.DeployTo == "" {
		return fmt.Errorf("deploy_to is required")
	}
	if c.Workspace == "" {
		return fmt.Errorf("workspace is required")
	}
	if c.KeepReleases < 0 {
		return fmt.Errorf("keep_releases must not be negative (got %d)", c.KeepReleases)
	}
	if len(c.Sources) == 0 {
		return fmt.Errorf("sources must name at least one workspace subdirectory")
	}
	for _, source := range c.Sources {
		if source == "" || source[0] == '/' {
			return fmt.Errorf("sources entries must be relative paths (got %q)", source)
		}
	}
	switch c.Environment {
	case "", Staging, Production:
	default:
		return fmt.Errorf("unknown environment %q (want staging or production)", c.Environment)
	}
	return nil
}

// applyEnvironmentOverrides merges the section matching Environment
// over the base values.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *Overrides
	switch c.Environment {
	case Staging:
		overrides = c.StagingOverrides
	case Production:
		overrides = c.ProductionOverrides
	}
	if overrides == nil {
		return
	}

	if overrides.DeployTo != "" {
		c.DeployTo = overrides.DeployTo
	}
	if len(overrides.Hosts) > 0 {
		c.Hosts = overrides.Hosts
	}
	if overrides.KeepReleases != 0 {
		c.KeepReleases = overrides.KeepReleases
	}
	if overrides.Workspace != "" {
		c.Workspace = overrides.Workspace
	}
	if len(overrides.Sources) > 0 {
		c.Sources = overrides.Sources
	}
	if len(overrides.Restart) > 0 {
		c.Restart = overrides.Restart
	}
	if overrides.SSH != nil {
		c.SSH = *overrides.SSH
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in the
// path fields.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.DeployTo = expandVars(c.DeployTo, vars)
	c.Workspace = expandVars(c.Workspace, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns.
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

		// Check provided vars first, then the environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}
