// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package public

import (
	"sort"
	"strings"
)

// TokenKind classifies one fragment of a rendered signature.
type TokenKind string

const (
	TokenQualifier  TokenKind = "qualifier"
	TokenKeyword    TokenKind = "keyword"
	TokenIdentifier TokenKind = "identifier"
	TokenSymbol     TokenKind = "symbol"
	TokenType       TokenKind = "type"
	TokenWhitespace TokenKind = "whitespace"
)

// Token is one classified fragment of a rendered signature. A sequence of
// tokens carries enough structure for rich (e.g. colorized) rendering.
type Token struct {
	Kind TokenKind
	Text string
}

// Item is one publicly reachable declaration at a point in time. Path is the
// identity key used to match a declaration across two versions; Prefix and
// Suffix complete the rendered signature around it. Tokens is nil when token
// rendering failed, in which case display degrades to the plain
// prefix+path+suffix form. Items are never mutated after extraction.
type Item struct {
	Prefix string
	Path   string
	Suffix string
	Tokens []Token
}

// String renders the full plain-text signature.
func (i Item) String() string {
	var b strings.Builder
	b.WriteString(i.Prefix)
	b.WriteString(i.Path)
	b.WriteString(i.Suffix)
	return b.String()
}

// Equal reports full structural equality, token stream included. Two items
// are the same declaration only if signature and structure both match.
func (i Item) Equal(other Item) bool {
	if i.Prefix != other.Prefix || i.Path != other.Path || i.Suffix != other.Suffix {
		return false
	}
	if len(i.Tokens) != len(other.Tokens) {
		return false
	}
	for n, tok := range i.Tokens {
		if tok != other.Tokens[n] {
			return false
		}
	}
	return true
}

// Compare imposes the total order used throughout: lexicographic by Path,
// then by the full rendered signature. Items sharing a Path therefore sort
// adjacently, which the merge in Between depends on.
func (i Item) Compare(other Item) int {
	if c := strings.Compare(i.Path, other.Path); c != 0 {
		return c
	}
	return strings.Compare(i.String(), other.String())
}

// SortItems sorts items ascending by the total order. The sort is stable so
// duplicate-valued items keep their relative input order.
func SortItems(items []Item) {
	sort.SliceStable(items, func(one, two int) bool {
		return items[one].Compare(items[two]) < 0
	})
}
