// Copyright 2026 The Convoy Authors
// SPDX-License-Identifier: Apache-2.0

// Package deploy provides the "convoy deploy" and "convoy rollback"
// commands: the two operations that change which release is live.
package deploy

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/convoy-deploy/convoy/cmd/convoy/cli"
	"github.com/convoy-deploy/convoy/lib/clock"
	libdeploy "github.com/convoy-deploy/convoy/lib/deploy"
)

// Command returns the "convoy deploy" command.
func Command() *cli.Command {
	var manifest cli.ManifestFlags

	return &cli.Command{
		Name:    "deploy",
		Summary: "Stage the workspace onto the fleet and publish it",
		Description: `Deploy the current workspace revision to every host in the fleet.

The sequence checks the fleet for leftover state from an interrupted
deploy, refuses dirty workspaces, uploads the configured sources into
a fresh timestamped release directory (seeded from the live release
so unchanged files need no transfer), then atomically repoints the
current symlink on every host. Old releases beyond the retention
quota are pruned afterwards.

A failure before publish leaves the live release untouched.`,
		Usage: "convoy deploy [flags]",
		Examples: []cli.Example{
			{
				Description: "Deploy to staging",
				Command:     "convoy deploy",
			},
			{
				Description: "Deploy to production with an explicit manifest",
				Command:     "convoy deploy --config deploy.yml --environment production",
			},
		},
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("deploy", pflag.ContinueOnError)
			manifest.Register(flags)
			return flags
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			pipeline, err := newPipeline(manifest, logger)
			if err != nil {
				return err
			}
			return pipeline.Deploy(ctx)
		},
	}
}

// RollbackCommand returns the "convoy rollback" command.
func RollbackCommand() *cli.Command {
	var manifest cli.ManifestFlags

	return &cli.Command{
		Name:    "rollback",
		Summary: "Republish the release preceding the current one",
		Description: `Repoint the current symlink at the release that preceded the live
one, on every host, and run the restart commands.

The previous release directory is still on disk (retention keeps it
for exactly this), so a rollback is a symlink swap: no build, no
upload. Rolling back twice does not ping-pong; the target is always
the release older than the live one, so a second rollback steps back
another release.`,
		Usage: "convoy rollback [flags]",
		Examples: []cli.Example{
			{
				Description: "Roll production back one release",
				Command:     "convoy rollback --environment production",
			},
		},
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("rollback", pflag.ContinueOnError)
			manifest.Register(flags)
			return flags
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			pipeline, err := newPipeline(manifest, logger)
			if err != nil {
				return err
			}
			return pipeline.Rollback(ctx)
		},
	}
}

// newPipeline loads the manifest and assembles the deploy pipeline.
// Every run gets a fresh deploy ID so fleet-wide log lines from one
// invocation can be correlated when hosts log to a shared sink.
func newPipeline(manifest cli.ManifestFlags, logger *slog.Logger) (*libdeploy.Pipeline, error) {
	cfg, err := manifest.Load()
	if err != nil {
		return nil, err
	}
	logger = logger.With(
		"deploy_id", uuid.NewString(),
		"environment", string(cfg.Environment),
	)
	return libdeploy.New(cfg, cli.NewRunner(cfg), clock.Real(), logger), nil
}
