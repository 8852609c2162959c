// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package checkout mutates a shared git working tree across sequential
// checkouts to materialize public API collections, guaranteeing the original
// repository state is restored on every exit path.
package checkout
