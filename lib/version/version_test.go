// Copyright 2026 The Hrdesk Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"runtime"
	"strings"
	"testing"
)

func stamp(t *testing.T, version, commit, dirty, buildTime string) {
	t.Helper()
	origVersion, origCommit, origDirty, origTime := Version, GitCommit, GitDirty, BuildTime
	t.Cleanup(func() {
		Version, GitCommit, GitDirty, BuildTime = origVersion, origCommit, origDirty, origTime
	})
	Version, GitCommit, GitDirty, BuildTime = version, commit, dirty, buildTime
}

func TestInfo(t *testing.T) {
	stamp(t, "1.4.0", "abc1234", "false", "2026-08-01T12:00:00Z")
	if got, want := Info(), "1.4.0 (abc1234, 2026-08-01T12:00:00Z)"; got != want {
		t.Errorf("Info() = %q, want %q", got, want)
	}

	GitDirty = "true"
	if got := Info(); !strings.Contains(got, "abc1234-dirty") {
		t.Errorf("Info() = %q, want a -dirty commit marker", got)
	}
}

func TestShort(t *testing.T) {
	stamp(t, "1.4.0", "abc1234", "false", "unknown")
	if got := Short(); got != "1.4.0" {
		t.Errorf("Short() = %q, want 1.4.0", got)
	}
}

func TestFull(t *testing.T) {
	stamp(t, "1.4.0", "abc1234", "false", "unknown")
	full := Full()
	if !strings.HasPrefix(full, Info()) {
		t.Errorf("Full() = %q, want Info() prefix %q", full, Info())
	}
	if !strings.Contains(full, runtime.Version()) {
		t.Errorf("Full() = %q, missing toolchain version", full)
	}
	if !strings.Contains(full, runtime.GOOS+"/"+runtime.GOARCH) {
		t.Errorf("Full() = %q, missing target platform", full)
	}
}
