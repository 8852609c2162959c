// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apivet/apivet/internal/builder"
	"github.com/apivet/apivet/internal/checkout"
	"github.com/apivet/apivet/internal/extract"
	"github.com/apivet/apivet/internal/gitx"
	"github.com/apivet/apivet/internal/log"
	"github.com/apivet/apivet/internal/public"
	"github.com/apivet/apivet/internal/registry"
	"github.com/apivet/apivet/internal/target"
)

// side is one materialized diff operand: the extracted items plus the API
// description document they came from.
type side struct {
	items    []public.Item
	document string
}

// pipeline turns recipes into item collections. It carries the build options
// shared by every side.
type pipeline struct {
	ManifestPath string
	Package      string
	TargetDir    string
	Force        bool
}

// workDir returns a fresh directory for one build. Distinct builds of the
// same package produce the same document filename, so each build gets its
// own directory even under an explicit --target-dir.
func (p pipeline) workDir() (string, error) {
	if p.TargetDir == "" {
		return "", nil
	}
	if err := os.MkdirAll(p.TargetDir, 0o755); err != nil {
		return "", err
	}
	return os.MkdirTemp(p.TargetDir, "build-")
}

// build documents and extracts one manifest.
func (p pipeline) build(manifestPath string) (side, error) {
	dir, err := p.workDir()
	if err != nil {
		return side{}, err
	}

	b := builder.Builder{
		ManifestPath: manifestPath,
		Package:      p.Package,
		TargetDir:    dir,
	}
	document, err := b.Build()
	if err != nil {
		return side{}, err
	}

	items, err := extract.Items(document)
	if err != nil {
		return side{}, err
	}

	return side{items: items, document: document}, nil
}

// currentTree builds the working tree as it stands.
func (p pipeline) currentTree() (side, error) {
	return p.build(p.ManifestPath)
}

// materialize produces both sides of the diff. Reference recipes share one
// orchestrator run so the working tree is captured and restored exactly
// once; the other recipe kinds never touch repository state.
func (p pipeline) materialize(ctx context.Context, recipes [2]target.Recipe) ([2]side, error) {
	var sides [2]side

	var refSlots []int
	var refs []string
	for n, recipe := range recipes {
		if ref, ok := recipe.(target.FromReference); ok {
			refSlots = append(refSlots, n)
			refs = append(refs, ref.Ref)
		}
	}

	if len(refs) > 0 {
		manifestAbs, err := filepath.Abs(p.ManifestPath)
		if err != nil {
			return sides, err
		}
		root, err := gitx.DiscoverRoot(filepath.Dir(manifestAbs))
		if err != nil {
			return sides, err
		}

		var documents []string
		orchestrator := &checkout.Orchestrator{
			RepoRoot: root,
			Force:    p.Force,
			Extract: func(ctx context.Context) ([]public.Item, error) {
				s, buildErr := p.build(p.ManifestPath)
				if buildErr != nil {
					return nil, buildErr
				}
				documents = append(documents, s.document)
				return s.items, nil
			},
		}

		collections, err := orchestrator.ItemsAtRefs(ctx, refs...)
		if err != nil {
			return sides, err
		}
		for n, slot := range refSlots {
			sides[slot] = side{items: collections[n], document: documents[n]}
		}
	}

	for n, recipe := range recipes {
		var err error
		switch r := recipe.(type) {
		case nil:
			sides[n], err = p.currentTree()

		case target.FromFile:
			var items []public.Item
			items, err = extract.Items(r.Path)
			sides[n] = side{items: items, document: r.Path}

		case target.FromPublished:
			sides[n], err = p.published(ctx, r)

		case target.FromReference:
			// Materialized above.
		}
		if err != nil {
			return sides, fmt.Errorf("failed to materialize %s: %w", describeSlot(recipes[n]), err)
		}
	}

	return sides, nil
}

// published fetches a module version from the registry and builds it in
// place.
func (p pipeline) published(ctx context.Context, r target.FromPublished) (side, error) {
	dir, err := registry.Fetcher{}.Fetch(ctx, r.Name, r.Version)
	if err != nil {
		return side{}, err
	}
	log.Debugf("published %s@%s unpacked to %s", r.Name, r.Version, dir)

	sub := pipeline{
		ManifestPath: filepath.Join(dir, "go.mod"),
		Package:      p.Package,
		TargetDir:    p.TargetDir,
	}
	return sub.build(sub.ManifestPath)
}

func describeSlot(recipe target.Recipe) string {
	if recipe == nil {
		return "current source tree"
	}
	return recipe.String()
}
