// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package target classifies user-supplied diff operands into recipes
// describing how to obtain a public item collection: read a document file,
// check out a git reference, or fetch a published module version.
package target

import (
	"fmt"
	"os"
	"strings"

	goversion "github.com/hashicorp/go-version"
	"golang.org/x/mod/modfile"

	"github.com/apivet/apivet/internal/log"
)

// Recipe is a closed sum over the three ways to source an item collection.
// Consumers switch over the concrete types and treat anything else as a
// programming error, so each case stays exhaustively handled.
type Recipe interface {
	recipe()
	fmt.Stringer
}

// FromFile reads a prebuilt API description document.
type FromFile struct {
	Path string
}

// FromReference builds the API at a git reference, via the checkout
// orchestrator.
type FromReference struct {
	Ref string
}

// FromPublished fetches a published module version from the registry and
// builds its API.
type FromPublished struct {
	Name    string
	Version string
}

func (FromFile) recipe()      {}
func (FromReference) recipe() {}
func (FromPublished) recipe() {}

func (r FromFile) String() string      { return "file " + r.Path }
func (r FromReference) String() string { return "reference " + r.Ref }
func (r FromPublished) String() string { return "published " + r.Name + "@" + r.Version }

// Resolver classifies operands. ManifestPath supplies the module's own name
// for bare "@version" published specifiers.
type Resolver struct {
	ManifestPath string
}

// Resolve classifies one operand in smart mode:
//
//  1. an existing filesystem path is a document file
//  2. a name@version or @version shape is a published specifier
//  3. anything else is a git reference; whether it resolves is decided
//     at checkout time, never silently here
func (r Resolver) Resolve(operand string) (Recipe, error) {
	if operand == "" {
		return nil, fmt.Errorf("empty diff target")
	}

	if info, err := os.Stat(operand); err == nil && !info.IsDir() {
		log.Debugf("operand %q classified as document file", operand)
		return FromFile{Path: operand}, nil
	}

	if name, version, ok := splitPublished(operand); ok {
		if name == "" {
			var err error
			name, err = moduleName(r.ManifestPath)
			if err != nil {
				return nil, fmt.Errorf("cannot resolve bare @%s against the module manifest: %w", version, err)
			}
		}
		log.Debugf("operand %q classified as published %s@%s", operand, name, version)
		return FromPublished{Name: name, Version: version}, nil
	}

	log.Debugf("operand %q classified as git reference", operand)
	return FromReference{Ref: operand}, nil
}

// ResolvePublished parses an operand that must be a published specifier,
// for the explicit mode that bypasses smart classification.
func (r Resolver) ResolvePublished(operand string) (FromPublished, error) {
	name, version, ok := splitPublished(operand)
	if !ok {
		return FromPublished{}, fmt.Errorf("'%s' isn't a valid published version, expected name@version or @version", operand)
	}

	if name == "" {
		var err error
		name, err = moduleName(r.ManifestPath)
		if err != nil {
			return FromPublished{}, fmt.Errorf("cannot resolve bare @%s against the module manifest: %w", version, err)
		}
	}

	return FromPublished{Name: name, Version: version}, nil
}

// splitPublished recognizes the name@version shape. The version half must
// parse as a version for the operand to count as a published specifier;
// otherwise it may be a branch name containing '@'.
func splitPublished(operand string) (name, version string, ok bool) {
	at := strings.LastIndex(operand, "@")
	if at < 0 {
		return "", "", false
	}

	name, version = operand[:at], operand[at+1:]
	if version == "" {
		return "", "", false
	}
	if _, err := goversion.NewVersion(version); err != nil {
		return "", "", false
	}

	return name, version, true
}

// moduleName reads the module path out of the manifest.
func moduleName(manifestPath string) (string, error) {
	if manifestPath == "" {
		manifestPath = "go.mod"
	}

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return "", err
	}

	mf, err := modfile.Parse(manifestPath, data, nil)
	if err != nil {
		return "", err
	}
	if mf.Module == nil || mf.Module.Mod.Path == "" {
		return "", fmt.Errorf("manifest %s has no module directive", manifestPath)
	}

	return mf.Module.Mod.Path, nil
}
