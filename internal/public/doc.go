// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package public holds the canonical model of a publicly visible declaration
// and the machinery to compute differences between two API surfaces.
package public
