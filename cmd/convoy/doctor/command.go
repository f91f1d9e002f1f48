// Copyright 2026 The Convoy Authors
// SPDX-License-Identifier: Apache-2.0

// Package doctor provides the "convoy check" command for verifying
// that a fleet is safe to deploy to.
package doctor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/convoy-deploy/convoy/cmd/convoy/cli"
	"github.com/convoy-deploy/convoy/lib/clock"
	libdeploy "github.com/convoy-deploy/convoy/lib/deploy"
)

// Command returns the "convoy check" command.
func Command() *cli.Command {
	var manifest cli.ManifestFlags

	return &cli.Command{
		Name:    "check",
		Summary: "Verify the fleet is safe to deploy to",
		Description: `Inspect the deployment root on every host and report anything that
would make a deploy unsafe: a leftover upcoming symlink from an
interrupted deploy, a current entry that is not a symlink, or a
releases entry that is not a directory.

Exits 0 when the fleet is clean, 1 when there are findings. The same
inspection runs automatically at the start of deploy and rollback;
this command exists for scripts and for diagnosing a refused deploy.`,
		Usage: "convoy check [flags]",
		Examples: []cli.Example{
			{
				Description: "Check production before a deploy window",
				Command:     "convoy check --environment production",
			},
		},
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("check", pflag.ContinueOnError)
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
			return runCheck(ctx, pipeline, os.Stdout, os.Stderr)
		},
	}
}

// runCheck inspects the fleet and reports. A clean fleet also gets its
// release lifecycle state (no-release, staged, published), so the
// operator sees at a glance whether an upcoming release is in flight.
func runCheck(ctx context.Context, pipeline *libdeploy.Pipeline, out, errOut io.Writer) error {
	err := pipeline.Check(ctx)
	var unsafeState *libdeploy.UnsafeStateError
	if errors.As(err, &unsafeState) {
		for _, finding := range unsafeState.Findings {
			fmt.Fprintf(errOut, "%s: %s\n", finding.Host, finding.Problem)
		}
		return &cli.ExitError{Code: 1}
	}
	if err != nil {
		return err
	}

	state, err := pipeline.Store().ReleaseState(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "fleet is clean (%s)\n", state)
	return nil
}
