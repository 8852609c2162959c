// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package builder

import (
	"strings"
	"unicode"
)

var goKeywords = map[string]bool{
	"func": true, "type": true, "const": true, "var": true,
	"struct": true, "interface": true, "map": true, "chan": true,
}

var builtinTypes = map[string]bool{
	"any": true, "bool": true, "byte": true, "complex64": true,
	"complex128": true, "error": true, "float32": true, "float64": true,
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"rune": true, "string": true, "uint": true, "uint8": true,
	"uint16": true, "uint32": true, "uint64": true, "uintptr": true,
}

// tokenize classifies a rendered signature into fragments for rich display.
// Words naming a type declared in this package become refs into the
// document's ref table; the extractor resolves them back to display text.
func (r *renderer) tokenize(prefix, path, suffix string) []DocToken {
	var tokens []DocToken
	tokens = append(tokens, r.scan(prefix, "qualifier")...)
	tokens = append(tokens, DocToken{Kind: "identifier", Text: path})
	tokens = append(tokens, r.scan(suffix, "identifier")...)
	return tokens
}

// scan splits text into word, whitespace and symbol runs. wordKind is the
// fallback classification for words that are neither keywords, builtin
// types, nor declared type names.
func (r *renderer) scan(text, wordKind string) []DocToken {
	var tokens []DocToken

	const (
		classNone = iota
		classSpace
		classWord
		classSymbol
	)

	flush := func(run string, class int) {
		if run == "" {
			return
		}
		switch class {
		case classSpace:
			tokens = append(tokens, DocToken{Kind: "whitespace", Text: run})
		case classWord:
			tokens = append(tokens, r.word(run, wordKind))
		default:
			tokens = append(tokens, DocToken{Kind: "symbol", Text: run})
		}
	}

	var run strings.Builder
	runClass := classNone
	for _, c := range text {
		class := classSymbol
		switch {
		case unicode.IsSpace(c):
			class = classSpace
		case isWordRune(c):
			class = classWord
		}
		if class != runClass && run.Len() > 0 {
			flush(run.String(), runClass)
			run.Reset()
		}
		runClass = class
		run.WriteRune(c)
	}
	flush(run.String(), runClass)

	return tokens
}

func (r *renderer) word(text, fallback string) DocToken {
	switch {
	case goKeywords[text]:
		return DocToken{Kind: "keyword", Text: text}
	case builtinTypes[text]:
		return DocToken{Kind: "type", Text: text}
	case r.declared[text]:
		return DocToken{Kind: "type", Ref: r.pkgName + "." + text}
	default:
		return DocToken{Kind: fallback, Text: text}
	}
}

func isWordRune(c rune) bool {
	return c == '_' || c == '.' || unicode.IsLetter(c) || unicode.IsDigit(c)
}
