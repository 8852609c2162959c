// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package deny

import (
	"fmt"
	"strings"

	"github.com/apivet/apivet/internal/public"
)

// Rule selects one diff category that must be empty for CI to pass.
type Rule string

const (
	RuleAll     Rule = "all"
	RuleAdded   Rule = "added"
	RuleChanged Rule = "changed"
	RuleRemoved Rule = "removed"
)

// ParseRule validates a single --deny value.
func ParseRule(s string) (Rule, error) {
	switch Rule(s) {
	case RuleAll, RuleAdded, RuleChanged, RuleRemoved:
		return Rule(s), nil
	}
	return "", fmt.Errorf("'%s' isn't a valid value for --deny, must be one of [all added changed removed]", s)
}

// ParseRules validates a set of --deny values.
func ParseRules(values []string) ([]Rule, error) {
	var rules []Rule
	for _, v := range values {
		rule, err := ParseRule(v)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// Violation is one selected rule whose bucket turned out non-empty, carrying
// the rendered signatures that triggered it in sorted order.
type Violation struct {
	Rule  Rule
	Items []string
}

func (v Violation) String() string {
	var what string
	switch v.Rule {
	case RuleAdded:
		what = "Added"
	case RuleChanged:
		what = "Changed"
	case RuleRemoved:
		what = "Removed"
	}
	return fmt.Sprintf("%s items not allowed: [%s]", what, strings.Join(v.Items, ", "))
}

// Error is the deliberate, expected non-zero outcome of a denied diff. It is
// distinct from any build or checkout failure.
type Error struct {
	Violations []Violation
}

func (e *Error) Error() string {
	texts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		texts = append(texts, v.String())
	}
	return "the API diff is not allowed as per --deny: " + strings.Join(texts, "; ")
}

// Evaluate checks a computed diff against the selected rules. RuleAll is the
// union of the other three. It returns nil when every selected bucket is
// empty, else an *Error naming each offending rule and its items. Calling
// this without having computed a diff is a usage error that the command
// layer rejects before any build work; Evaluate itself assumes diff mode.
func Evaluate(d public.Diff, rules []Rule) error {
	denyAdded := false
	denyChanged := false
	denyRemoved := false
	for _, rule := range rules {
		switch rule {
		case RuleAll:
			denyAdded, denyChanged, denyRemoved = true, true, true
		case RuleAdded:
			denyAdded = true
		case RuleChanged:
			denyChanged = true
		case RuleRemoved:
			denyRemoved = true
		}
	}

	var violations []Violation
	if denyRemoved && len(d.Removed) > 0 {
		violations = append(violations, Violation{Rule: RuleRemoved, Items: renderItems(d.Removed)})
	}
	if denyChanged && len(d.Changed) > 0 {
		items := make([]string, 0, len(d.Changed))
		for _, pair := range d.Changed {
			items = append(items, pair.New.String())
		}
		violations = append(violations, Violation{Rule: RuleChanged, Items: items})
	}
	if denyAdded && len(d.Added) > 0 {
		violations = append(violations, Violation{Rule: RuleAdded, Items: renderItems(d.Added)})
	}

	if len(violations) == 0 {
		return nil
	}
	return &Error{Violations: violations}
}

func renderItems(items []public.Item) []string {
	texts := make([]string, 0, len(items))
	for _, item := range items {
		texts = append(texts, item.String())
	}
	return texts
}
