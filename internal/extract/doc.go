// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package extract parses API description documents into public item
// collections, tolerating incomplete or malformed rendering structure.
package extract
