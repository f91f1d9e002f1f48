// Copyright 2026 The Convoy Authors
// SPDX-License-Identifier: Apache-2.0

package release

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// TimestampFormat is the fixed-width UTC timestamp prefix of a release
// name. Fixed width means lexicographic order of names coincides with
// chronological order of creation.
const TimestampFormat = "20060102150405"

var namePattern = regexp.MustCompile(`^\d{14}-.+$`)

// Name builds a release name from a creation time and a workspace
// revision: "<UTC-timestamp>-<revision>". Any trailing dirty marker on
// the revision is stripped; a release is only ever staged from a clean
// workspace, so the marker carries no information here.
func Name(now time.Time, revision string) string {
	return fmt.Sprintf("%s-%s", now.UTC().Format(TimestampFormat), StripDirtyMarker(revision))
}

// StripDirtyMarker removes a trailing dirty marker from a revision
// identifier. Both the "+" suffix (hg style) and the "-dirty" suffix
// (git describe style) are recognized. A clean revision is returned
// unchanged.
func StripDirtyMarker(revision string) string {
	revision = strings.TrimSuffix(revision, "-dirty")
	return strings.TrimSuffix(revision, "+")
}

// ValidName reports whether s has the timestamp-prefixed release name
// shape. The store uses it to reject stray entries in the releases
// directory (editor backups, lost+found) rather than treating them as
// releases.
func ValidName(s string) bool {
	return namePattern.MatchString(s)
}
