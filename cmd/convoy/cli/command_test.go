// Copyright 2026 The Convoy Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string

	root := &Command{
		Name: "convoy",
		Subcommands: []*Command{
			{
				Name: "version",
				Run: func(_ context.Context, args []string, _ *slog.Logger) error {
					called = "version"
					return nil
				},
			},
			{
				Name: "deploy",
				Run: func(_ context.Context, args []string, _ *slog.Logger) error {
					called = "deploy"
					return nil
				},
			},
		},
	}

	if err := root.Execute(context.Background(), []string{"deploy"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "deploy" {
		t.Errorf("dispatched to %q, want %q", called, "deploy")
	}
}

func TestCommand_Execute_NestedSubcommands(t *testing.T) {
	var called string
	var receivedArgs []string

	root := &Command{
		Name: "convoy",
		Subcommands: []*Command{
			{
				Name: "releases",
				Subcommands: []*Command{
					{
						Name: "list",
						Run: func(_ context.Context, args []string, _ *slog.Logger) error {
							called = "releases list"
							receivedArgs = args
							return nil
						},
					},
				},
			},
		},
	}

	if err := root.Execute(context.Background(), []string{"releases", "list", "extra"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "releases list" {
		t.Errorf("dispatched to %q, want %q", called, "releases list")
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "extra" {
		t.Errorf("args = %v, want [extra]", receivedArgs)
	}
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	var environment string

	command := &Command{
		Name: "deploy",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("deploy", pflag.ContinueOnError)
			flags.StringVar(&environment, "environment", "staging", "target environment")
			return flags
		},
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			return nil
		},
	}

	if err := command.Execute(context.Background(), []string{"--environment", "production"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if environment != "production" {
		t.Errorf("environment = %q, want %q", environment, "production")
	}
}

func TestCommand_Execute_UnknownFlagSuggestion(t *testing.T) {
	command := &Command{
		Name: "deploy",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("deploy", pflag.ContinueOnError)
			flags.String("environment", "staging", "target environment")
			return flags
		},
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			return nil
		},
	}

	err := command.Execute(context.Background(), []string{"--enviroment", "production"})
	if err == nil {
		t.Fatal("Execute() succeeded with unknown flag")
	}
	if !strings.Contains(err.Error(), "--environment") {
		t.Errorf("error %q does not suggest --environment", err)
	}
}

func TestCommand_Execute_UnknownSubcommandSuggestion(t *testing.T) {
	root := &Command{
		Name: "convoy",
		Subcommands: []*Command{
			{Name: "deploy", Run: func(_ context.Context, _ []string, _ *slog.Logger) error { return nil }},
			{Name: "rollback", Run: func(_ context.Context, _ []string, _ *slog.Logger) error { return nil }},
		},
	}

	err := root.Execute(context.Background(), []string{"rollbck"})
	if err == nil {
		t.Fatal("Execute() succeeded with unknown subcommand")
	}
	if !strings.Contains(err.Error(), `"rollback"`) {
		t.Errorf("error %q does not suggest rollback", err)
	}
}

func TestCommand_Execute_SubcommandRequired(t *testing.T) {
	root := &Command{
		Name: "convoy",
		Subcommands: []*Command{
			{Name: "deploy", Run: func(_ context.Context, _ []string, _ *slog.Logger) error { return nil }},
		},
	}

	err := root.Execute(context.Background(), nil)
	if err == nil || !strings.Contains(err.Error(), "subcommand required") {
		t.Errorf("Execute() error = %v, want subcommand required", err)
	}
}

func TestCommand_PrintHelp(t *testing.T) {
	command := &Command{
		Name:    "convoy",
		Summary: "Atomic fleet deployments",
		Subcommands: []*Command{
			{Name: "deploy", Summary: "Build, upload, and publish a release"},
			{Name: "rollback", Summary: "Republish the previous release"},
		},
		Examples: []Example{
			{Description: "Deploy to staging", Command: "convoy deploy"},
		},
	}

	var buffer bytes.Buffer
	command.PrintHelp(&buffer)
	help := buffer.String()

	for _, want := range []string{
		"Atomic fleet deployments",
		"deploy",
		"Republish the previous release",
		"# Deploy to staging",
		"Run 'convoy <command> --help'",
	} {
		if !strings.Contains(help, want) {
			t.Errorf("help output missing %q:\n%s", want, help)
		}
	}
}

func TestCommand_FullName(t *testing.T) {
	root := &Command{Name: "convoy"}
	releases := &Command{Name: "releases", parent: root}
	list := &Command{Name: "list", parent: releases}

	if got := list.fullName(); got != "convoy releases list" {
		t.Errorf("fullName() = %q, want %q", got, "convoy releases list")
	}
}
