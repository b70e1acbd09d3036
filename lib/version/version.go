// Copyright 2026 The Hrdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package version exposes the build identity stamped into the binary.
//
// Release builds inject the values with -ldflags, for example:
//
//	go build -ldflags "\
//	  -X github.com/cclogistics/hrdesk/lib/version.Version=1.4.0 \
//	  -X github.com/cclogistics/hrdesk/lib/version.GitCommit=$(git rev-parse --short HEAD)"
package version

import (
	"fmt"
	"runtime"
)

var (
	// Version is the release number. Local builds keep the -dev suffix.
	Version = "0.1.0-dev"

	// GitCommit is the short hash of the commit the binary was built from.
	GitCommit = "unknown"

	// GitDirty is "true" when the build tree had uncommitted changes.
	GitDirty = "false"

	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"
)

// Short returns the bare release number. The API client sends it to
// the HR server as part of the User-Agent header.
func Short() string {
	return Version
}

// Info returns the one-line form used in log records: release number,
// commit (with a -dirty marker when applicable), and build time.
func Info() string {
	commit := GitCommit
	if GitDirty == "true" {
		commit += "-dirty"
	}
	return fmt.Sprintf("%s (%s, %s)", Version, commit, BuildTime)
}

// Full returns the multi-line form printed by --version, adding the
// toolchain and target platform to Info.
func Full() string {
	return fmt.Sprintf("%s\n  go:       %s\n  platform: %s/%s",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
