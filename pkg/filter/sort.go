// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package filter

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ShowMore is the number of options a collapsed section shows once it
// overflows.
const ShowMore = 10

// showMoreSlack is the number of options beyond ShowMore a section may hold
// before it gets a "show more" toggle.
const showMoreSlack = 2

// SortOptions orders options in place: the "All" option first, the "other"
// bucket last, everything else by label using the collation rules of locale.
// The sort is stable.
func SortOptions(options []Option, locale string) {
	collator := collate.New(language.Make(locale))
	slices.SortStableFunc(options, func(a, b Option) int {
		switch {
		case a.IsAll && !b.IsAll:
			return -1
		case !a.IsAll && b.IsAll:
			return 1
		case a.IsOther && !b.IsOther:
			return 1
		case !a.IsOther && b.IsOther:
			return -1
		}
		return collator.CompareString(a.Label, b.Label)
	})
}

// Truncate returns the options a section shows.
//
// overflow is len(options) minus ShowMore and the slack. When it is not
// positive the section shows everything and has no toggle. Otherwise the
// toggle is shown; a collapsed section keeps the first ShowMore options and
// reports overflow as the count for its "show more" text, an expanded section
// shows everything.
func Truncate(options []Option, expanded bool) (visible []Option, overflow int, toggle bool) {
	overflow = len(options) - ShowMore - showMoreSlack
	if overflow <= 0 {
		return options, 0, false
	}
	if expanded {
		return options, overflow, true
	}
	return options[:ShowMore], overflow, true
}
