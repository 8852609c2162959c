// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"

	"github.com/apivet/apivet/internal/builder"
	"github.com/apivet/apivet/internal/log"
	"github.com/apivet/apivet/internal/public"
)

// Items parses an API description document into the ordered public item
// collection. The document is trusted on identity (paths) but not on
// structure: a malformed or incompletely cross-referenced token stream
// degrades that item to plain prefix/path/suffix rendering with a warning.
// Rendering problems never fail the extraction.
func Items(documentPath string) ([]public.Item, error) {
	data, err := os.ReadFile(documentPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read API document: %w", err)
	}
	return itemsFromDocument(documentPath, data)
}

func itemsFromDocument(documentPath string, data []byte) ([]public.Item, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("API document %s is not valid JSON", documentPath)
	}

	doc := gjson.ParseBytes(data)

	if version := doc.Get("format_version").Int(); version != builder.FormatVersion {
		return nil, fmt.Errorf("unsupported API document format version %d in %s", version, documentPath)
	}

	refs := doc.Get("refs")

	var items []public.Item
	doc.Get("items").ForEach(func(_, raw gjson.Result) bool {
		path := raw.Get("path").String()
		if path == "" {
			log.Warnf("API document item without a path skipped in %s", documentPath)
			return true
		}

		item := public.Item{
			Prefix: raw.Get("prefix").String(),
			Path:   path,
			Suffix: raw.Get("suffix").String(),
		}

		tokens, tokErr := tokens(raw.Get("tokens"), refs)
		if tokErr != nil {
			// Graceful degradation: keep the item, drop the token stream.
			log.Warnf("%v for %s; falling back to plain rendering", tokErr, path)
		} else {
			item.Tokens = tokens
		}

		items = append(items, item)
		return true
	})

	public.SortItems(items)

	return items, nil
}

var tokenKinds = map[string]public.TokenKind{
	"qualifier":  public.TokenQualifier,
	"keyword":    public.TokenKeyword,
	"identifier": public.TokenIdentifier,
	"symbol":     public.TokenSymbol,
	"type":       public.TokenType,
	"whitespace": public.TokenWhitespace,
}

// tokens decodes one item's token stream, resolving refs against the
// document's ref table.
func tokens(raw, refs gjson.Result) ([]public.Token, error) {
	if !raw.Exists() || !raw.IsArray() {
		return nil, fmt.Errorf("API document item has no token stream")
	}

	var out []public.Token
	var tokErr error
	raw.ForEach(func(_, tok gjson.Result) bool {
		kind, known := tokenKinds[tok.Get("kind").String()]
		if !known {
			tokErr = fmt.Errorf("unknown token kind %q", tok.Get("kind").String())
			return false
		}

		text := tok.Get("text").String()
		if ref := tok.Get("ref").String(); ref != "" {
			resolved := refs.Get(escapeRefKey(ref))
			if !resolved.Exists() {
				tokErr = fmt.Errorf("API document missing referenced item %q", ref)
				return false
			}
			text = resolved.String()
		}

		out = append(out, public.Token{Kind: kind, Text: text})
		return true
	})
	if tokErr != nil {
		return nil, tokErr
	}

	return out, nil
}

// escapeRefKey escapes gjson path syntax in a ref id so dotted paths address
// a single map key.
func escapeRefKey(ref string) string {
	escaped := make([]byte, 0, len(ref))
	for i := 0; i < len(ref); i++ {
		switch ref[i] {
		case '.', '*', '?', '\\', '|', '#', '@':
			escaped = append(escaped, '\\')
		}
		escaped = append(escaped, ref[i])
	}
	return string(escaped)
}
