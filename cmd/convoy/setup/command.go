// Copyright 2026 The Convoy Authors
// SPDX-License-Identifier: Apache-2.0

// Package setup provides the "convoy setup" command that prepares a
// fleet for its first deploy.
package setup

import (
	"context"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/convoy-deploy/convoy/cmd/convoy/cli"
	"github.com/convoy-deploy/convoy/lib/clock"
	libdeploy "github.com/convoy-deploy/convoy/lib/deploy"
)

// Command returns the "convoy setup" command.
func Command() *cli.Command {
	var manifest cli.ManifestFlags

	return &cli.Command{
		Name:    "setup",
		Summary: "Create the deployment root layout on every host",
		Description: `Create the deploy root and its releases directory on every host in
the fleet. Safe to run repeatedly; existing directories are left
alone. Run this once per environment before the first deploy.`,
		Usage: "convoy setup [flags]",
		Examples: []cli.Example{
			{
				Description: "Prepare a new production fleet",
				Command:     "convoy setup --environment production",
			},
		},
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("setup", pflag.ContinueOnError)
			manifest.Register(flags)
			return flags
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			cfg, err := manifest.Load()
			if err != nil {
				return err
			}
			pipeline := libdeploy.New(cfg, cli.NewRunner(cfg), clock.Real(), logger)
			return pipeline.Setup(ctx)
		},
	}
}
