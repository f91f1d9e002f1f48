// Copyright 2026 The Convoy Authors
// SPDX-License-Identifier: Apache-2.0

package executor

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
)

// SSHFleet runs commands on a set of remote hosts through the ssh
// binary and copies trees with rsync. Hosts are ssh destinations
// ("deploy@web1", or an alias from ~/.ssh/config). BatchMode is forced
// so a missing key fails immediately instead of prompting.
type SSHFleet struct {
	hosts   []string
	options []string
}

// NewSSHFleet returns a fleet runner for the given ssh destinations.
// Extra ssh options ("-p 2222", "-i key") are passed through to every
// invocation and, via rsync's -e flag, to every copy.
func NewSSHFleet(hosts []string, options ...string) *SSHFleet {
	return &SSHFleet{hosts: hosts, options: options}
}

// Hosts returns the fleet's ssh destinations in configuration order.
func (f *SSHFleet) Hosts() []string {
	return f.hosts
}

// Run executes the command on every host concurrently. Results are
// returned in Hosts() order regardless of completion order. ssh's own
// exit code conventions apply: the remote command's exit code on
// success, 255 on transport failure.
func (f *SSHFleet) Run(ctx context.Context, command string) ([]Result, error) {
	results := make([]Result, len(f.hosts))

	var pendingHosts sync.WaitGroup
	for i, host := range f.hosts {
		pendingHosts.Add(1)
		go func() {
			defer pendingHosts.Done()
			results[i] = f.runOne(ctx, host, command)
		}()
	}
	pendingHosts.Wait()

	return results, nil
}

// sshArgs builds the argument list for one ssh invocation.
func (f *SSHFleet) sshArgs(host, command string) []string {
	args := append([]string{"-o", "BatchMode=yes"}, f.options...)
	return append(args, host, command)
}

// runOne executes the command on a single host.
func (f *SSHFleet) runOne(ctx context.Context, host, command string) Result {
	var stdout, stderr bytes.Buffer
	process := exec.CommandContext(ctx, "ssh", f.sshArgs(host, command)...)
	process.Stdout = &stdout
	process.Stderr = &stderr

	exitCode := 0
	if err := process.Run(); err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			exitCode = exitError.ExitCode()
		} else {
			// ssh could not be started at all; report it as a
			// transport failure on this host.
			exitCode = 255
			fmt.Fprintf(&stderr, "starting ssh: %v", err)
		}
	}
	return Result{
		Host:     host,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
}

// CopyTree mirrors localDir to remoteDir on every host concurrently
// using rsync over ssh. The first failure is returned after all
// transfers settle.
func (f *SSHFleet) CopyTree(ctx context.Context, localDir, remoteDir string, options CopyOptions) error {
	errs := make([]error, len(f.hosts))

	var pendingCopies sync.WaitGroup
	for i, host := range f.hosts {
		pendingCopies.Add(1)
		go func() {
			defer pendingCopies.Done()
			errs[i] = f.copyOne(ctx, host, localDir, remoteDir, options)
		}()
	}
	pendingCopies.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// rsyncArgs builds the argument list for one rsync invocation.
func (f *SSHFleet) rsyncArgs(host, localDir, remoteDir string, options CopyOptions) []string {
	args := []string{"-a"}
	if options.DeleteExtraneous {
		args = append(args, "--delete")
	}
	remoteShell := "ssh -o BatchMode=yes"
	if len(f.options) > 0 {
		remoteShell += " " + strings.Join(f.options, " ")
	}
	args = append(args, "-e", remoteShell)
	return append(args, strings.TrimSuffix(localDir, "/")+"/", host+":"+remoteDir)
}

// copyOne mirrors localDir to a single host.
func (f *SSHFleet) copyOne(ctx context.Context, host, localDir, remoteDir string, options CopyOptions) error {
	var stderr bytes.Buffer
	process := exec.CommandContext(ctx, "rsync", f.rsyncArgs(host, localDir, remoteDir, options)...)
	process.Stderr = &stderr
	if err := process.Run(); err != nil {
		return fmt.Errorf("rsync %s -> %s:%s: %w (stderr: %s)",
			localDir, host, remoteDir, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
