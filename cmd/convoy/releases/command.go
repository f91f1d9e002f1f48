// Copyright 2026 The Convoy Authors
// SPDX-License-Identifier: Apache-2.0

// Package releases provides the "convoy releases" command group for
// inspecting and pruning the release catalog.
package releases

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/pflag"

	"github.com/convoy-deploy/convoy/cmd/convoy/cli"
	"github.com/convoy-deploy/convoy/lib/clock"
	libdeploy "github.com/convoy-deploy/convoy/lib/deploy"
	"github.com/convoy-deploy/convoy/lib/release"
)

var (
	currentStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	upcomingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	faintStyle    = lipgloss.NewStyle().Faint(true)
)

// Command returns the "convoy releases" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "releases",
		Summary: "Inspect and prune the release catalog",
		Subcommands: []*cli.Command{
			listCommand(),
			cleanupCommand(),
		},
	}
}

func listCommand() *cli.Command {
	var manifest cli.ManifestFlags
	var plain bool

	return &cli.Command{
		Name:    "list",
		Summary: "List releases on the fleet, oldest first",
		Description: `List every release directory on the fleet, oldest first. The live
release is marked with "*" and the leftover target of an interrupted
deploy (if any) with "^". Fails if the hosts disagree about the
catalog.`,
		Usage: "convoy releases list [flags]",
		Examples: []cli.Example{
			{
				Description: "List production releases",
				Command:     "convoy releases list --environment production",
			},
			{
				Description: "Unstyled output for scripts",
				Command:     "convoy releases list --plain",
			},
		},
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("list", pflag.ContinueOnError)
			manifest.Register(flags)
			flags.BoolVar(&plain, "plain", false, "plain output without markers or color")
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
			store := release.NewStore(cli.NewRunner(cfg), cfg.DeployTo)
			return runList(ctx, store, plain)
		},
	}
}

func runList(ctx context.Context, store *release.Store, plain bool) error {
	names, err := store.List(ctx)
	if err != nil {
		return err
	}
	current, err := store.Current(ctx)
	if err != nil {
		return err
	}
	upcoming, err := store.Upcoming(ctx)
	if err != nil {
		return err
	}

	for _, name := range names {
		if plain {
			fmt.Println(name)
			continue
		}
		switch name {
		case current:
			fmt.Printf("* %s\n", currentStyle.Render(name))
		case upcoming:
			fmt.Printf("^ %s\n", upcomingStyle.Render(name))
		default:
			fmt.Printf("  %s\n", faintStyle.Render(name))
		}
	}
	if !plain && len(names) == 0 {
		fmt.Fprintln(os.Stderr, "no releases")
	}
	return nil
}

func cleanupCommand() *cli.Command {
	var manifest cli.ManifestFlags

	return &cli.Command{
		Name:    "cleanup",
		Summary: "Prune old releases and abandoned staging state",
		Description: `Remove any leftover upcoming symlink and its target (the residue of
an interrupted deploy), then delete the oldest releases beyond the
retention quota. The live release is never deleted, whatever the
quota says.`,
		Usage: "convoy releases cleanup [flags]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("cleanup", pflag.ContinueOnError)
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
			return pipeline.Cleanup(ctx)
		},
	}
}
