// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package public

import (
	"fmt"
	"io"
	"sort"
)

// ChangedItem pairs the two shapes of one declaration whose Path is the same
// in both versions but whose signature differs.
type ChangedItem struct {
	Old Item
	New Item
}

// Diff is the three-way classification between two API surfaces. Removed is
// a MAJOR change in semver terms, Added a MINOR one, Changed generally
// MAJOR. All three buckets are sorted by the total order. An item present
// unchanged on both sides appears in none of them.
type Diff struct {
	Removed []Item
	Changed []ChangedItem
	Added   []Item
}

// IsEmpty reports whether the two surfaces were identical.
func (d Diff) IsEmpty() bool {
	return len(d.Removed) == 0 && len(d.Changed) == 0 && len(d.Added) == 0
}

// Between computes the difference between two item collections. Either
// collection may contain duplicate-valued items; distinct declarations can
// legitimately render identically, so the merge never collapses entries into
// a set. Items are only ever moved, never synthesized, to rule out
// duplication and loss.
//
// Both sides are sorted ascending and then consumed as stacks from the
// greatest element down:
//
//   - one side empty: drain the other into removed/added
//   - same Path, different structure: pop both as a changed pair
//   - otherwise order decides which side cannot have a counterpart; that
//     element is classified and the other is pushed back for the next round
func Between(oldItems, newItems []Item) Diff {
	oldSorted := append([]Item(nil), oldItems...)
	SortItems(oldSorted)

	newSorted := append([]Item(nil), newItems...)
	SortItems(newSorted)

	var removed, added []Item
	var changed []ChangedItem

	for len(oldSorted) > 0 || len(newSorted) > 0 {
		switch {
		case len(newSorted) == 0:
			removed = append(removed, popItem(&oldSorted))

		case len(oldSorted) == 0:
			added = append(added, popItem(&newSorted))

		default:
			oldTop := popItem(&oldSorted)
			newTop := popItem(&newSorted)

			if oldTop.Path == newTop.Path && !oldTop.Equal(newTop) {
				// Same identity, changed shape.
				changed = append(changed, ChangedItem{Old: oldTop, New: newTop})
				continue
			}

			switch c := oldTop.Compare(newTop); {
			case c < 0:
				// Everything left on the old side sorts at or below oldTop,
				// so newTop has no counterpart. Push oldTop back for the
				// next comparison.
				added = append(added, newTop)
				oldSorted = append(oldSorted, oldTop)
			case c == 0:
				// Identical declaration on both sides; unchanged, dropped.
			default:
				removed = append(removed, oldTop)
				newSorted = append(newSorted, newTop)
			}
		}
	}

	// Re-sort so the output is stable regardless of input ordering.
	SortItems(removed)
	SortItems(added)
	sort.SliceStable(changed, func(one, two int) bool {
		if c := changed[one].Old.Compare(changed[two].Old); c != 0 {
			return c < 0
		}
		return changed[one].New.Compare(changed[two].New) < 0
	})

	return Diff{Removed: removed, Changed: changed, Added: added}
}

func popItem(stack *[]Item) Item {
	last := len(*stack) - 1
	item := (*stack)[last]
	*stack = (*stack)[:last]
	return item
}

// PrintWithHeaders writes the three sections to w under the given headers.
// Empty sections get a literal "(nothing)" placeholder and every section is
// followed by a blank line.
func (d Diff) PrintWithHeaders(w io.Writer, headerRemoved, headerChanged, headerAdded string) error {
	if err := printSection(w, headerRemoved, len(d.Removed), func(n int) error {
		_, err := fmt.Fprintf(w, "-%s\n", d.Removed[n])
		return err
	}); err != nil {
		return err
	}

	if err := printSection(w, headerChanged, len(d.Changed), func(n int) error {
		if _, err := fmt.Fprintf(w, "-%s\n", d.Changed[n].Old); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "+%s\n", d.Changed[n].New)
		return err
	}); err != nil {
		return err
	}

	return printSection(w, headerAdded, len(d.Added), func(n int) error {
		_, err := fmt.Fprintf(w, "+%s\n", d.Added[n])
		return err
	})
}

func printSection(w io.Writer, header string, count int, line func(int) error) error {
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}

	if count == 0 {
		if _, err := fmt.Fprintln(w, "(nothing)"); err != nil {
			return err
		}
	}

	for n := 0; n < count; n++ {
		if err := line(n); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w)
	return err
}
