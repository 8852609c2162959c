// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package builder

// FormatVersion identifies the API description document schema. Bumped on
// incompatible schema changes.
const FormatVersion = 1

// Document is the structured API description written by Build. Consumers
// should treat it as read-only; package extract parses it back into items.
type Document struct {
	FormatVersion int         `json:"format_version"`
	Module        string      `json:"module"`
	Package       PackageInfo `json:"package"`

	// Refs maps the path of every exported type declared in the package to
	// its display text. Tokens of kind "type" may carry a ref into this
	// table instead of inline text.
	Refs map[string]string `json:"refs,omitempty"`

	// Items lists every public declaration, already ordered by path.
	Items []DocItem `json:"items"`
}

// PackageInfo identifies the documented package.
type PackageInfo struct {
	Name       string `json:"name"`
	ImportPath string `json:"import_path"`
}

// DocItem is the wire form of one public declaration.
type DocItem struct {
	Prefix string     `json:"prefix"`
	Path   string     `json:"path"`
	Suffix string     `json:"suffix"`
	Tokens []DocToken `json:"tokens,omitempty"`
}

// DocToken is one classified signature fragment. Exactly one of Text or Ref
// is set; Ref points into Document.Refs.
type DocToken struct {
	Kind string `json:"kind"`
	Text string `json:"text,omitempty"`
	Ref  string `json:"ref,omitempty"`
}
