// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package builder turns a Go package, located through its go.mod manifest,
// into a structured API description document: a JSON file listing every
// publicly reachable declaration with its classified signature fragments.
// The document is the machine-readable boundary between building and
// diffing; see package extract for the consuming side.
package builder
