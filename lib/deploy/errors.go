// Copyright 2026 The Convoy Authors
// SPDX-License-Identifier: Apache-2.0

package deploy

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoCurrentRelease reports a rollback attempt on a fleet where
// nothing has ever been published.
var ErrNoCurrentRelease = errors.New("no current release is published")

// ErrNoRollbackTarget reports that no release precedes the current one
// to roll back to: either fewer than two releases exist, or current is
// already the oldest.
var ErrNoRollbackTarget = errors.New("no release available to roll back to")

// ErrNothingStaged reports a publish attempt with no upcoming release.
var ErrNothingStaged = errors.New("no upcoming release is staged")

// Finding is one problem the environment check observed on one host.
type Finding struct {
	// Host identifies where the problem was observed.
	Host string

	// Problem is a human-readable description of the violation.
	Problem string
}

// UnsafeStateError reports that the pre-existing filesystem layout on
// one or more hosts violates the deployment invariants. Deploys must
// not start against such a fleet; the error lists every finding so the
// operator can repair all of them in one pass.
type UnsafeStateError struct {
	Findings []Finding
}

func (e *UnsafeStateError) Error() string {
	var builder strings.Builder
	builder.WriteString("unsafe remote state:")
	for _, finding := range e.Findings {
		fmt.Fprintf(&builder, "\n  %s: %s", finding.Host, finding.Problem)
	}
	return builder.String()
}
