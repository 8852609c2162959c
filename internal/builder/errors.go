// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package builder

import "fmt"

// VirtualManifestError means the manifest locates a module whose root holds
// no buildable Go package, so there is nothing to document without an
// explicit package selection.
type VirtualManifestError struct {
	Manifest string
}

func (e *VirtualManifestError) Error() string {
	return fmt.Sprintf(
		"listing or diffing the public API of an entire module tree is not supported; %q has no Go package at its root, pass --package to choose one",
		e.Manifest)
}

// ManifestError wraps a go.mod that could not be read as a module manifest.
type ManifestError struct {
	Manifest string
	Err      error
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("failed to parse manifest %q: %v", e.Manifest, e.Err)
}

func (e *ManifestError) Unwrap() error {
	return e.Err
}

// MetadataError covers package metadata problems: an unknown --package
// selection, or a directory holding more than one package.
type MetadataError struct {
	Reason string
}

func (e *MetadataError) Error() string {
	return "package metadata error: " + e.Reason
}

// BuildFailedError is the general failure case, carrying the captured
// diagnostic text verbatim. Builds are deterministic for a given source
// state and are never retried.
type BuildFailedError struct {
	Diag string
}

func (e *BuildFailedError) Error() string {
	return "failed to build API document. Diagnostics: " + e.Diag
}
