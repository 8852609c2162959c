// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package gitx wraps the handful of git primitives apivet needs: repository
// discovery, branch/commit inspection, checkout, and the dirty-tree check.
// It is deliberately not a general-purpose git client.
package gitx
