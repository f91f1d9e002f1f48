// Copyright 2026 The Convoy Authors
// SPDX-License-Identifier: Apache-2.0

package executor

import (
	"context"
	"strings"
	"sync"
)

// Fake is a scripted Runner for tests. Commands are matched against
// the script verbatim; unscripted commands succeed on every host with
// empty output, so tests only script the commands whose output they
// care about. Every executed command and copy is recorded for
// assertion.
//
// Fake is safe for concurrent use: staging uploads source directories
// from multiple goroutines.
type Fake struct {
	fleetHosts []string

	mu       sync.Mutex
	script   map[string][]Result
	commands []string
	copies   []CopyCall
}

// CopyCall records one CopyTree invocation.
type CopyCall struct {
	LocalDir  string
	RemoteDir string
	Options   CopyOptions
}

// NewFake returns a Fake with the given fleet hosts.
func NewFake(hosts ...string) *Fake {
	return &Fake{
		fleetHosts: hosts,
		script:     make(map[string][]Result),
	}
}

// Script sets the per-host results returned for an exact command. The
// results must carry one entry per fleet host.
func (f *Fake) Script(command string, results []Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.script[command] = results
}

// ScriptUniform scripts the command to return the same stdout with
// exit 0 on every host.
func (f *Fake) ScriptUniform(command, stdout string) {
	results := make([]Result, len(f.fleetHosts))
	for i, host := range f.fleetHosts {
		results[i] = Result{Host: host, Stdout: stdout}
	}
	f.Script(command, results)
}

// ScriptHost overrides the scripted result for one host of a command,
// scripting the command uniformly empty first if it was unscripted.
// This is how divergence scenarios are constructed.
func (f *Fake) ScriptHost(command, host, stdout string) {
	f.mu.Lock()
	existing, ok := f.script[command]
	f.mu.Unlock()
	if !ok {
		f.ScriptUniform(command, "")
		f.mu.Lock()
		existing = f.script[command]
		f.mu.Unlock()
	}
	for i := range existing {
		if existing[i].Host == host {
			existing[i].Stdout = stdout
		}
	}
}

// ScriptFailure scripts the command to fail on the given host with the
// exit code and stderr, succeeding with empty output everywhere else.
func (f *Fake) ScriptFailure(command, host string, exitCode int, stderr string) {
	results := make([]Result, len(f.fleetHosts))
	for i, fleetHost := range f.fleetHosts {
		results[i] = Result{Host: fleetHost}
		if fleetHost == host {
			results[i].ExitCode = exitCode
			results[i].Stderr = stderr
		}
	}
	f.Script(command, results)
}

// Hosts returns the fake fleet's hosts.
func (f *Fake) Hosts() []string {
	return f.fleetHosts
}

// Run records the command and returns its scripted results, or uniform
// success when unscripted.
func (f *Fake) Run(_ context.Context, command string) ([]Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.commands = append(f.commands, command)
	if results, ok := f.script[command]; ok {
		return results, nil
	}
	results := make([]Result, len(f.fleetHosts))
	for i, host := range f.fleetHosts {
		results[i] = Result{Host: host}
	}
	return results, nil
}

// CopyTree records the copy and succeeds.
func (f *Fake) CopyTree(_ context.Context, localDir, remoteDir string, options CopyOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.copies = append(f.copies, CopyCall{LocalDir: localDir, RemoteDir: remoteDir, Options: options})
	return nil
}

// Commands returns the commands executed so far, in order.
func (f *Fake) Commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.commands...)
}

// Copies returns the CopyTree calls recorded so far.
func (f *Fake) Copies() []CopyCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]CopyCall(nil), f.copies...)
}

// Ran reports whether any executed command contains the substring.
// Convenience for asserting that a mutation happened (or did not)
// without reproducing the full command line in the test.
func (f *Fake) Ran(substring string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, command := range f.commands {
		if strings.Contains(command, substring) {
			return true
		}
	}
	return false
}
