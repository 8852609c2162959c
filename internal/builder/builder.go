// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package builder

import (
	"encoding/json"
	"fmt"
	"go/ast"
	"go/doc"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/mod/modfile"

	"github.com/apivet/apivet/internal/log"
)

// Builder produces an API description document for one Go package. The zero
// value documents the package at the root of the module whose go.mod sits in
// the current directory.
type Builder struct {
	// ManifestPath is the go.mod of the module to document. Defaults to
	// "./go.mod".
	ManifestPath string

	// Package selects a package inside the module tree, either as a path
	// relative to the module root or as a package name to search for. When
	// empty the module root package is documented.
	Package string

	// TargetDir is where the document file is written. A temp dir is
	// created when empty.
	TargetDir string
}

// Build parses the selected package and writes its API description document,
// returning the document path. Failures are deterministic for a given
// source state; callers must not retry.
func (b Builder) Build() (string, error) {
	manifest := b.ManifestPath
	if manifest == "" {
		manifest = "go.mod"
	}
	absManifest, err := filepath.Abs(manifest)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(absManifest)
	if err != nil {
		return "", fmt.Errorf("failed to read manifest: %w", err)
	}

	mf, err := modfile.Parse(absManifest, data, nil)
	if err != nil {
		return "", &ManifestError{Manifest: absManifest, Err: err}
	}
	if mf.Module == nil || mf.Module.Mod.Path == "" {
		return "", &ManifestError{Manifest: absManifest, Err: fmt.Errorf("missing module directive")}
	}
	modPath := mf.Module.Mod.Path
	root := filepath.Dir(absManifest)

	pkgDir, err := b.packageDir(root)
	if err != nil {
		return "", err
	}

	fset := token.NewFileSet()
	pkgs, err := parser.ParseDir(fset, pkgDir, func(fi fs.FileInfo) bool {
		return !strings.HasSuffix(fi.Name(), "_test.go")
	}, parser.ParseComments)
	if err != nil {
		return "", &BuildFailedError{Diag: err.Error()}
	}

	// Drop external test packages; they are not public surface.
	for name := range pkgs {
		if strings.HasSuffix(name, "_test") {
			delete(pkgs, name)
		}
	}

	if len(pkgs) == 0 {
		if b.Package == "" && pkgDir == root {
			return "", &VirtualManifestError{Manifest: absManifest}
		}
		return "", &MetadataError{Reason: fmt.Sprintf("no Go package in %s", pkgDir)}
	}
	if len(pkgs) > 1 {
		names := make([]string, 0, len(pkgs))
		for name := range pkgs {
			names = append(names, name)
		}
		sort.Strings(names)
		return "", &MetadataError{Reason: fmt.Sprintf("more than one package in %s: %s", pkgDir, strings.Join(names, ", "))}
	}

	var astPkg *ast.Package
	for _, p := range pkgs {
		astPkg = p
	}
	if astPkg.Name == "main" {
		return "", &MetadataError{Reason: fmt.Sprintf("package main in %s has no importable public API", pkgDir)}
	}

	importPath := modPath
	if rel, relErr := filepath.Rel(root, pkgDir); relErr == nil && rel != "." {
		importPath = modPath + "/" + filepath.ToSlash(rel)
	}

	docPkg := doc.New(astPkg, importPath, 0)

	document := renderPackage(docPkg, modPath, importPath)

	buf, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return "", &BuildFailedError{Diag: err.Error()}
	}

	outDir := b.TargetDir
	if outDir == "" {
		outDir, err = os.MkdirTemp("", "apivet-doc-")
		if err != nil {
			return "", err
		}
	}
	out := filepath.Join(outDir, docPkg.Name+".api.json")
	if err := os.WriteFile(out, buf, 0600); err != nil {
		return "", err
	}

	log.Infof("wrote API document %s (%s, %d items)", out, humanize.Bytes(uint64(len(buf))), len(document.Items))

	return out, nil
}

// packageDir resolves the Package selection to a directory under root.
func (b Builder) packageDir(root string) (string, error) {
	if b.Package == "" {
		return root, nil
	}

	// A path-looking selection is taken relative to the module root.
	cand := filepath.Join(root, filepath.FromSlash(b.Package))
	if info, err := os.Stat(cand); err == nil && info.IsDir() {
		return cand, nil
	}

	// Otherwise search the tree for a package with that name.
	var found string
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return err
		}
		base := d.Name()
		if path != root && (strings.HasPrefix(base, ".") || strings.HasPrefix(base, "_") ||
			base == "vendor" || base == "testdata") {
			return filepath.SkipDir
		}
		name, ok := packageName(path)
		if ok && name == b.Package {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	if walkErr != nil {
		return "", walkErr
	}
	if found == "" {
		return "", &MetadataError{Reason: fmt.Sprintf("package %q not found under %s", b.Package, root)}
	}
	return found, nil
}

// packageName reads just the package clause of the first Go file in dir.
func packageName(dir string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	fset := token.NewFileSet()
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".go") || strings.HasSuffix(entry.Name(), "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, filepath.Join(dir, entry.Name()), nil, parser.PackageClauseOnly)
		if err != nil {
			continue
		}
		return f.Name.Name, true
	}
	return "", false
}
