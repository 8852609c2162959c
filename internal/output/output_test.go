// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// no-cloc

package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apivet/apivet/internal/public"
)

func TestParseColorMode(t *testing.T) {
	tests := []struct {
		in      string
		want    ColorMode
		wantErr bool
	}{
		{in: "auto", want: ColorAuto},
		{in: "always", want: ColorAlways},
		{in: "never", want: ColorNever},
		{in: "sometimes", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColorMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrintItemsSorted(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(ColorNever, &buf)

	r.PrintItems([]public.Item{
		{Prefix: "func ", Path: "lib.Zeta", Suffix: "()"},
		{Prefix: "func ", Path: "lib.Alpha", Suffix: "()"},
	})

	assert.Equal(t, "func lib.Alpha()\nfunc lib.Zeta()\n", buf.String())
}

func TestPrintDiffPlain(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(ColorNever, &buf)

	diff := public.Between(
		[]public.Item{{Prefix: "func ", Path: "lib.Gone", Suffix: "()"}},
		[]public.Item{{Prefix: "func ", Path: "lib.New", Suffix: "()"}},
	)
	require.NoError(t, r.PrintDiff(diff))

	out := buf.String()
	assert.Contains(t, out, "Removed items from the public API\n-func lib.Gone()\n")
	assert.Contains(t, out, "Changed items in the public API\n(nothing)\n")
	assert.Contains(t, out, "Added items to the public API\n+func lib.New()\n")
	assert.NotContains(t, out, "\x1b[")
}

func TestPrintDiffAlways(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(ColorAlways, &buf)

	diff := public.Between(
		[]public.Item{{Prefix: "func ", Path: "lib.Gone", Suffix: "()"}},
		nil,
	)
	require.NoError(t, r.PrintDiff(diff))

	out := buf.String()
	assert.Contains(t, out, "\x1b[31m")
	assert.Contains(t, out, "lib.Gone()")
}

func TestPrintDiffAutoOffTTY(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(ColorAuto, &buf)

	diff := public.Between(nil, []public.Item{{Prefix: "func ", Path: "lib.New", Suffix: "()"}})
	require.NoError(t, r.PrintDiff(diff))

	// A bytes.Buffer is never a terminal, so auto falls back to plain.
	assert.False(t, strings.Contains(buf.String(), "\x1b["))
}
