// Copyright 2026 The Convoy Authors
// SPDX-License-Identifier: Apache-2.0

package deploy

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestRunSteps_InOrder(t *testing.T) {
	t.Parallel()

	var order []string
	step := func(name string) Step {
		return Step{name, func(ctx context.Context) error {
			order = append(order, name)
			return nil
		}}
	}

	err := RunSteps(context.Background(), discardLogger(), []Step{
		step("first"), step("second"), step("third"),
	})
	if err != nil {
		t.Fatalf("RunSteps: %v", err)
	}
	if got := strings.Join(order, ","); got != "first,second,third" {
		t.Errorf("execution order = %s", got)
	}
}

func TestRunSteps_AbortsOnFirstFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	var thirdRan bool

	err := RunSteps(context.Background(), discardLogger(), []Step{
		{"first", func(ctx context.Context) error { return nil }},
		{"second", func(ctx context.Context) error { return boom }},
		{"third", func(ctx context.Context) error { thirdRan = true; return nil }},
	})

	if !errors.Is(err, boom) {
		t.Fatalf("RunSteps error = %v, want wrapped boom", err)
	}
	if !strings.Contains(err.Error(), "step second") {
		t.Errorf("error %q does not name the failing step", err)
	}
	if thirdRan {
		t.Error("step after the failure still ran")
	}
}
