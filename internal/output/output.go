// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/apivet/apivet/internal/public"
)

// ColorMode controls whether diff output is colorized.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode validates a --color flag value.
func ParseColorMode(s string) (ColorMode, error) {
	switch ColorMode(s) {
	case ColorAuto, ColorAlways, ColorNever:
		return ColorMode(s), nil
	}
	return "", fmt.Errorf("'%s' isn't a valid value for --color, expected one of auto, always, never", s)
}

// Renderer writes item lists and diffs to w.
type Renderer struct {
	Mode ColorMode
	W    io.Writer
}

// NewRenderer builds a Renderer writing to w, or os.Stdout when w is nil.
func NewRenderer(mode ColorMode, w io.Writer) *Renderer {
	if w == nil {
		w = os.Stdout
	}
	return &Renderer{Mode: mode, W: w}
}

// colorize reports whether output should carry ANSI colors. In auto mode we
// colorize only when stdout is a terminal.
func (r *Renderer) colorize() bool {
	switch r.Mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if f, ok := r.W.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// PrintItems writes one item per line in sorted order.
func (r *Renderer) PrintItems(items []public.Item) {
	public.SortItems(items)
	for _, item := range items {
		fmt.Fprintln(r.W, item.String())
	}
}

// PrintDiff writes the three diff sections. Removed items render red and
// added items green when colorization is active.
func (r *Renderer) PrintDiff(diff public.Diff) error {
	if !r.colorize() {
		return diff.PrintWithHeaders(r.W,
			"Removed items from the public API",
			"Changed items in the public API",
			"Added items to the public API")
	}

	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	if r.Mode == ColorAlways {
		// The color package disables itself off-tty; always means always.
		red.EnableColor()
		green.EnableColor()
	}

	printSection := func(header string, lines []string) error {
		if _, err := fmt.Fprintln(r.W, header); err != nil {
			return err
		}
		if len(lines) == 0 {
			if _, err := fmt.Fprintln(r.W, "(nothing)"); err != nil {
				return err
			}
		}
		for _, line := range lines {
			if _, err := fmt.Fprintln(r.W, line); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintln(r.W)
		return err
	}

	var removed []string
	for _, item := range diff.Removed {
		removed = append(removed, red.Sprintf("-%s", item.String()))
	}
	if err := printSection("Removed items from the public API", removed); err != nil {
		return err
	}

	var changed []string
	for _, pair := range diff.Changed {
		changed = append(changed,
			red.Sprintf("-%s", pair.Old.String()),
			green.Sprintf("+%s", pair.New.String()))
	}
	if err := printSection("Changed items in the public API", changed); err != nil {
		return err
	}

	var added []string
	for _, item := range diff.Added {
		added = append(added, green.Sprintf("+%s", item.String()))
	}
	return printSection("Added items to the public API", added)
}
