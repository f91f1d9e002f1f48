// Copyright 2026 The Convoy Authors
// SPDX-License-Identifier: Apache-2.0

// Package fleet verifies that every host in a deployment fleet agrees
// on an observed filesystem fact before any decision is made from it.
//
// There is no reconciliation and no majority vote: two hosts that
// disagree mean the fleet is already inconsistent, and the only safe
// move is to stop and leave repair to a human. [Agree] is the gate
// every fleet-wide read passes through; a [DivergenceError] from it
// must abort the calling operation before any mutation.
package fleet

import (
	"context"
	"fmt"
	"strings"

	"github.com/convoy-deploy/convoy/lib/executor"
)

// Observation is one host's trimmed output for an inspection command.
type Observation struct {
	Host  string
	Value string
}

// DivergenceError reports that fleet hosts disagree on an inspected
// value. It carries every host's observation so the operator can see
// which hosts drifted without re-running the inspection by hand.
type DivergenceError struct {
	// Command is the inspection command whose outputs disagreed.
	Command string

	// Observations holds each host's trimmed output, in fleet order.
	Observations []Observation
}

func (e *DivergenceError) Error() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "fleet divergence on %q:", e.Command)
	for _, observation := range e.Observations {
		value := observation.Value
		if value == "" {
			value = "(absent)"
		}
		fmt.Fprintf(&builder, "\n  %s: %s", observation.Host, value)
	}
	return builder.String()
}

// Agree executes a read-only inspection command on every host and
// requires all trimmed outputs to be byte-equal. It returns the single
// agreed value; an empty string means "not present" and must itself be
// unanimous. Commands passed here must be idempotent: Agree may be the
// first of several reads in one operation.
//
// A non-zero exit on any host is a command failure, not a divergence.
func Agree(ctx context.Context, runner executor.Runner, command string) (string, error) {
	results, err := executor.RunChecked(ctx, runner, command)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", fmt.Errorf("fleet has no hosts")
	}

	observations := make([]Observation, len(results))
	for i, result := range results {
		observations[i] = Observation{
			Host:  result.Host,
			Value: strings.TrimSpace(result.Stdout),
		}
	}

	agreed := observations[0].Value
	for _, observation := range observations[1:] {
		if observation.Value != agreed {
			return "", &DivergenceError{Command: command, Observations: observations}
		}
	}
	return agreed, nil
}
