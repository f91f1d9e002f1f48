// Copyright 2026 The Convoy Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete convoy CLI command tree.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/convoy-deploy/convoy/cmd/convoy/cli"
	deploycmd "github.com/convoy-deploy/convoy/cmd/convoy/deploy"
	doctorcmd "github.com/convoy-deploy/convoy/cmd/convoy/doctor"
	releasescmd "github.com/convoy-deploy/convoy/cmd/convoy/releases"
	setupcmd "github.com/convoy-deploy/convoy/cmd/convoy/setup"
	"github.com/convoy-deploy/convoy/lib/version"
)

// Root builds and returns the complete convoy CLI command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "convoy",
		Description: `Convoy: atomic deployments for host fleets.

Stage a release directory on every host, then publish it with a
single symlink swap. Every host serves the same release at all
times; a broken deploy rolls back with another swap.`,
		Subcommands: []*cli.Command{
			setupcmd.Command(),
			doctorcmd.Command(),
			deploycmd.Command(),
			deploycmd.RollbackCommand(),
			releasescmd.Command(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, args []string, _ *slog.Logger) error {
					fmt.Printf("convoy %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Prepare a fresh fleet (run once per environment)",
				Command:     "convoy setup --environment production",
			},
			{
				Description: "Deploy the current workspace to staging",
				Command:     "convoy deploy",
			},
			{
				Description: "Deploy to production",
				Command:     "convoy deploy --environment production",
			},
			{
				Description: "Undo a bad production deploy",
				Command:     "convoy rollback --environment production",
			},
			{
				Description: "See what is on the fleet",
				Command:     "convoy releases list",
			},
		},
	}
}
