// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package builder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

// writeFixtureModule lays out a small module and returns its go.mod path.
func writeFixtureModule(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	}
	return filepath.Join(root, "go.mod")
}

const fixtureSource = `package example

// Answer is a constant.
const Answer = 42

// Verbose toggles diagnostics.
var Verbose bool

// Options configures a run.
type Options struct {
	Quiet   bool
	retries int
}

// Runner runs things.
type Runner interface {
	Run(opts Options) error
}

// Mode is a small enum.
type Mode string

// Do performs a run.
func Do(opts Options, extra ...string) (int, error) { return 0, nil }

// WithQuiet sets quiet mode.
func (o *Options) WithQuiet() *Options { return o }

func unexported() {}
`

func TestBuild(t *testing.T) {
	manifest := writeFixtureModule(t, map[string]string{
		"go.mod":     "module example.com/fixture\n\ngo 1.24\n",
		"example.go": fixtureSource,
	})

	docPath, err := Builder{ManifestPath: manifest, TargetDir: t.TempDir()}.Build()
	require.NoError(t, err)

	data, err := os.ReadFile(docPath)
	require.NoError(t, err)
	doc := gjson.ParseBytes(data)

	assert.Equal(t, int64(FormatVersion), doc.Get("format_version").Int())
	assert.Equal(t, "example.com/fixture", doc.Get("module").String())
	assert.Equal(t, "example", doc.Get("package.name").String())

	var rendered []string
	for _, item := range doc.Get("items").Array() {
		rendered = append(rendered,
			item.Get("prefix").String()+item.Get("path").String()+item.Get("suffix").String())
	}

	assert.Contains(t, rendered, "const example.Answer")
	assert.Contains(t, rendered, "var example.Verbose bool")
	assert.Contains(t, rendered, "type example.Options struct")
	assert.Contains(t, rendered, "example.Options.Quiet bool")
	assert.Contains(t, rendered, "type example.Runner interface")
	assert.Contains(t, rendered, "func example.Runner.Run(opts Options) error")
	assert.Contains(t, rendered, "type example.Mode string")
	assert.Contains(t, rendered, "func example.Do(opts Options, extra ...string) (int, error)")
	assert.Contains(t, rendered, "func (*Options) example.Options.WithQuiet() *Options")

	for _, line := range rendered {
		assert.NotContains(t, line, "retries", "unexported field must not leak")
		assert.NotContains(t, line, "unexported()")
	}

	// Declared types are registered as refs and referenced from tokens.
	assert.Equal(t, "example.Options", doc.Get("refs.example\\.Options").String())
	foundRef := false
	for _, item := range doc.Get("items").Array() {
		for _, tok := range item.Get("tokens").Array() {
			if tok.Get("ref").String() == "example.Options" {
				foundRef = true
			}
		}
	}
	assert.True(t, foundRef, "expected a token ref to example.Options")
}

func TestBuildItemsAreSorted(t *testing.T) {
	manifest := writeFixtureModule(t, map[string]string{
		"go.mod":     "module example.com/fixture\n\ngo 1.24\n",
		"example.go": "package example\n\nfunc Zebra() {}\n\nfunc Alpha() {}\n",
	})

	docPath, err := Builder{ManifestPath: manifest, TargetDir: t.TempDir()}.Build()
	require.NoError(t, err)

	data, err := os.ReadFile(docPath)
	require.NoError(t, err)
	items := gjson.GetBytes(data, "items.#.path").Array()
	require.Len(t, items, 2)
	assert.Equal(t, "example.Alpha", items[0].String())
	assert.Equal(t, "example.Zebra", items[1].String())
}

func TestBuildErrors(t *testing.T) {
	t.Run("virtual_manifest", func(t *testing.T) {
		manifest := writeFixtureModule(t, map[string]string{
			"go.mod":           "module example.com/tree\n\ngo 1.24\n",
			"inner/example.go": "package inner\n\nfunc F() {}\n",
		})

		_, err := Builder{ManifestPath: manifest}.Build()
		require.Error(t, err)

		var vmErr *VirtualManifestError
		assert.ErrorAs(t, err, &vmErr)
	})

	t.Run("package_selection_fixes_virtual_manifest", func(t *testing.T) {
		manifest := writeFixtureModule(t, map[string]string{
			"go.mod":           "module example.com/tree\n\ngo 1.24\n",
			"inner/example.go": "package inner\n\nfunc F() {}\n",
		})

		docPath, err := Builder{ManifestPath: manifest, Package: "inner", TargetDir: t.TempDir()}.Build()
		require.NoError(t, err)

		data, rerr := os.ReadFile(docPath)
		require.NoError(t, rerr)
		assert.Equal(t, "example.com/tree/inner", gjson.GetBytes(data, "package.import_path").String())
	})

	t.Run("package_found_by_name", func(t *testing.T) {
		manifest := writeFixtureModule(t, map[string]string{
			"go.mod":              "module example.com/tree\n\ngo 1.24\n",
			"a/deep/example.go":   "package wanted\n\nfunc F() {}\n",
			"b/other/whatever.go": "package other\n\nfunc G() {}\n",
		})

		docPath, err := Builder{ManifestPath: manifest, Package: "wanted", TargetDir: t.TempDir()}.Build()
		require.NoError(t, err)
		data, rerr := os.ReadFile(docPath)
		require.NoError(t, rerr)
		assert.Equal(t, "wanted", gjson.GetBytes(data, "package.name").String())
	})

	t.Run("unknown_package", func(t *testing.T) {
		manifest := writeFixtureModule(t, map[string]string{
			"go.mod":     "module example.com/tree\n\ngo 1.24\n",
			"example.go": "package example\n",
		})

		_, err := Builder{ManifestPath: manifest, Package: "nope"}.Build()
		require.Error(t, err)

		var metaErr *MetadataError
		assert.ErrorAs(t, err, &metaErr)
	})

	t.Run("bad_manifest", func(t *testing.T) {
		manifest := writeFixtureModule(t, map[string]string{
			"go.mod": "this is not a manifest\n",
		})

		_, err := Builder{ManifestPath: manifest}.Build()
		require.Error(t, err)

		var mErr *ManifestError
		assert.ErrorAs(t, err, &mErr)
	})

	t.Run("missing_manifest", func(t *testing.T) {
		_, err := Builder{ManifestPath: filepath.Join(t.TempDir(), "go.mod")}.Build()
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("package_main", func(t *testing.T) {
		manifest := writeFixtureModule(t, map[string]string{
			"go.mod":  "module example.com/cmd\n\ngo 1.24\n",
			"main.go": "package main\n\nfunc main() {}\n",
		})

		_, err := Builder{ManifestPath: manifest}.Build()
		require.Error(t, err)

		var metaErr *MetadataError
		require.ErrorAs(t, err, &metaErr)
		assert.Contains(t, metaErr.Reason, "package main")
	})
}
