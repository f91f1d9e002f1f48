// Copyright 2026 The Convoy Authors
// SPDX-License-Identifier: Apache-2.0

// Package executor runs shell commands on the hosts of a deployment
// fleet and copies directory trees to them. It is the only layer that
// talks to a transport; everything above reasons about per-host
// [Result] values.
//
// Two production implementations exist: [SSHFleet] drives the user's
// ssh and rsync binaries so that host aliases, agent authentication,
// and ProxyJump from ~/.ssh/config all apply, and [Local] runs
// commands on the local machine for single-host deployments and
// end-to-end tests. [Fake] is a scripted in-memory Runner for unit
// tests, following the same in-package fake convention as lib/clock.
//
// Run never converts a non-zero exit into an error: consistency
// checks need the per-host output either way. Callers that require
// success use [RunChecked].
package executor

import (
	"context"
	"fmt"
	"strings"
)

// Result is the outcome of one command on one host.
type Result struct {
	// Host identifies the fleet host that produced this result.
	Host string

	// Stdout is the captured standard output, untrimmed.
	Stdout string

	// Stderr is the captured standard error, untrimmed.
	Stderr string

	// ExitCode is the command's exit status. For SSH transport
	// failures this is 255, following the ssh binary's convention.
	ExitCode int
}

// CopyOptions control CopyTree behavior.
type CopyOptions struct {
	// DeleteExtraneous removes files on the target that do not exist
	// in the source, giving mirror semantics. Deploy uploads default
	// to true so a release never accumulates files the workspace has
	// deleted.
	DeleteExtraneous bool
}

// Runner executes shell commands on every host of a fleet.
type Runner interface {
	// Hosts returns the fleet's host identifiers in stable order.
	Hosts() []string

	// Run executes the shell command on every host concurrently and
	// returns one Result per host, in Hosts() order. The error is
	// non-nil only when a command could not be executed at all;
	// non-zero exits are reported through Result.ExitCode.
	Run(ctx context.Context, command string) ([]Result, error)

	// CopyTree mirrors the local directory tree to remoteDir on every
	// host. Uploads to different hosts proceed concurrently; the first
	// failure is returned after all transfers settle.
	CopyTree(ctx context.Context, localDir, remoteDir string, options CopyOptions) error
}

// RunChecked executes the command on every host and fails if any host
// exits non-zero. The error names the first failing host, its exit
// code, and its stderr.
func RunChecked(ctx context.Context, runner Runner, command string) ([]Result, error) {
	results, err := runner.Run(ctx, command)
	if err != nil {
		return nil, err
	}
	for _, result := range results {
		if result.ExitCode != 0 {
			return nil, fmt.Errorf("command %q on %s: exit %d (stderr: %s)",
				command, result.Host, result.ExitCode, strings.TrimSpace(result.Stderr))
		}
	}
	return results, nil
}
