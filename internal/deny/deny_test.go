// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package deny

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apivet/apivet/internal/public"
)

func TestParseRule(t *testing.T) {
	tests := []struct {
		value   string
		want    Rule
		wantErr bool
	}{
		{value: "all", want: RuleAll},
		{value: "added", want: RuleAdded},
		{value: "changed", want: RuleChanged},
		{value: "removed", want: RuleRemoved},
		{value: "invalid", wantErr: true},
		{value: "", wantErr: true},
		{value: "ALL", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := ParseRule(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				assert.ErrorContains(t, err, "isn't a valid value")
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluate(t *testing.T) {
	removedOnly := public.Diff{
		Removed: []public.Item{{Prefix: "func ", Path: "pkg.Gone", Suffix: "()"}},
	}
	changedOnly := public.Diff{
		Changed: []public.ChangedItem{{
			Old: public.Item{Prefix: "func ", Path: "pkg.F", Suffix: "(v int)"},
			New: public.Item{Prefix: "func ", Path: "pkg.F", Suffix: "(v string)"},
		}},
	}
	addedOnly := public.Diff{
		Added: []public.Item{{Prefix: "func ", Path: "pkg.New", Suffix: "()"}},
	}

	tests := []struct {
		name     string
		diff     public.Diff
		rules    []Rule
		wantPass bool
		wantText string
	}{
		{
			name:     "all_against_empty_diff_passes",
			diff:     public.Diff{},
			rules:    []Rule{RuleAll},
			wantPass: true,
		},
		{
			name:     "all_against_removed_fails",
			diff:     removedOnly,
			rules:    []Rule{RuleAll},
			wantText: "Removed items not allowed: [func pkg.Gone()]",
		},
		{
			name:     "removed_rule_ignores_additions",
			diff:     addedOnly,
			rules:    []Rule{RuleRemoved},
			wantPass: true,
		},
		{
			name:     "added_rule_catches_additions",
			diff:     addedOnly,
			rules:    []Rule{RuleAdded},
			wantText: "Added items not allowed: [func pkg.New()]",
		},
		{
			name:     "changed_rule_lists_new_shape",
			diff:     changedOnly,
			rules:    []Rule{RuleChanged},
			wantText: "Changed items not allowed: [func pkg.F(v string)]",
		},
		{
			name:     "no_rules_always_passes",
			diff:     removedOnly,
			rules:    nil,
			wantPass: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Evaluate(tt.diff, tt.rules)
			if tt.wantPass {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorContains(t, err, "the API diff is not allowed as per --deny")
			assert.ErrorContains(t, err, tt.wantText)
		})
	}
}

func TestEvaluateReportsEveryViolatedRule(t *testing.T) {
	diff := public.Diff{
		Removed: []public.Item{{Prefix: "func ", Path: "pkg.Gone", Suffix: "()"}},
		Added:   []public.Item{{Prefix: "func ", Path: "pkg.New", Suffix: "()"}},
	}

	err := Evaluate(diff, []Rule{RuleAll})
	require.Error(t, err)

	var denyErr *Error
	require.ErrorAs(t, err, &denyErr)
	require.Len(t, denyErr.Violations, 2)
	assert.Equal(t, RuleRemoved, denyErr.Violations[0].Rule)
	assert.Equal(t, RuleAdded, denyErr.Violations[1].Rule)
}
