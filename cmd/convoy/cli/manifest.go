// Copyright 2026 The Convoy Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/convoy-deploy/convoy/lib/config"
	"github.com/convoy-deploy/convoy/lib/executor"
)

// ManifestFlags holds the flags shared by every command that operates
// on a deployment manifest. Commands embed the registered values and
// call Load after flag parsing.
type ManifestFlags struct {
	// ConfigPath overrides CONVOY_CONFIG. Empty means "use the env var".
	ConfigPath string

	// Environment selects the override section (staging or
	// production). Empty defers to the manifest's environment field.
	Environment string
}

// Register adds the shared --config and --environment flags.
func (m *ManifestFlags) Register(flags *pflag.FlagSet) {
	flags.StringVarP(&m.ConfigPath, "config", "c", "", "path to the deploy manifest (default: $CONVOY_CONFIG)")
	flags.StringVarP(&m.Environment, "environment", "e", "", "target environment, staging or production (default: the manifest's environment field)")
}

// Load reads and validates the manifest selected by the flags.
func (m *ManifestFlags) Load() (*config.Config, error) {
	environment := config.Environment(m.Environment)
	if m.ConfigPath != "" {
		return config.LoadFile(m.ConfigPath, environment)
	}
	return config.Load(environment)
}

// NewRunner builds the fleet runner for a manifest: an SSH fleet when
// hosts are configured, otherwise a local runner for single-machine
// deployments (the deploy root lives on the machine running convoy).
func NewRunner(cfg *config.Config) executor.Runner {
	if len(cfg.Hosts) > 0 {
		return executor.NewSSHFleet(cfg.Hosts, cfg.SSH.Options...)
	}
	return executor.NewLocal("localhost")
}

// Validation returns an error for invalid command-line input. The
// message should tell the user what to fix, not describe internals.
func Validation(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}
