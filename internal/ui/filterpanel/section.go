// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package filterpanel

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/confighub/cub-console/pkg/filter"
)

type rowKind int

const (
	rowTitle rowKind = iota
	rowOption
	rowToggle
	rowBlank
)

// row is one line of the panel body.
type row struct {
	kind    rowKind
	section string
	label   string
	option  filter.Option
	// fixed options are the sole value of their category and cannot change
	fixed bool
	// toggle rows only
	expanded bool
	toggle   func()
}

func (r row) selectable() bool {
	return r.kind == rowOption || r.kind == rowToggle
}

// key identifies a row across rebuilds.
func (r row) key() string {
	switch r.kind {
	case rowOption:
		return r.option.ID
	case rowToggle:
		return r.section + "/#toggle"
	default:
		return ""
	}
}

var fallbackFormats = map[string]string{
	keyTitle:           "Filters",
	filter.KeyExpand:   "Show %d more",
	filter.KeyCollapse: "Show less",
}

func translate(t filter.Translator, locale, key string, args ...any) string {
	if t == nil {
		return fmt.Sprintf(fallbackFormats[key], args...)
	}
	return t.T(locale, key, args...)
}

// renderSection lays out one section: its title, the visible options and,
// when the section overflows, the expand or collapse toggle. A section
// without options still gets its title.
func renderSection(s filter.Section, t filter.Translator, locale string) []row {
	rows := []row{{kind: rowTitle, section: s.ID, label: s.Name}}

	visible, overflow, toggle := filter.Truncate(s.Options, s.Expanded)
	fixed := len(s.Options) == 1
	for _, o := range visible {
		rows = append(rows, row{kind: rowOption, section: s.ID, label: o.Label, option: o, fixed: fixed})
	}

	if toggle {
		label := translate(t, locale, filter.KeyCollapse)
		if !s.Expanded {
			label = translate(t, locale, filter.KeyExpand, overflow)
		}
		rows = append(rows, row{kind: rowToggle, section: s.ID, label: label, expanded: s.Expanded, toggle: s.OnExpand})
	}

	return append(rows, row{kind: rowBlank, section: s.ID})
}

// formatRow renders r in exactly width cells.
func formatRow(r row, width int, selected bool) string {
	var text string
	switch r.kind {
	case rowTitle:
		text = sectionStyle.Render(ansi.Truncate(r.label, width, "…"))
	case rowOption:
		box, style := "[ ] ", uncheckedStyle
		if r.option.Checked {
			box, style = "[x] ", checkedStyle
		}
		label := ansi.Truncate(r.label, width-len(box)-1, "…")
		if r.option.IsOther {
			label = otherStyle.Render(label)
		}
		text = " " + style.Render(box) + label
	case rowToggle:
		arrow := "▸ "
		if r.expanded {
			arrow = "▾ "
		}
		text = " " + toggleStyle.Render(arrow+ansi.Truncate(r.label, width-3, "…"))
	}

	if pad := width - ansi.StringWidth(text); pad > 0 {
		text += strings.Repeat(" ", pad)
	}
	if selected {
		return cursorStyle.Render(ansi.Strip(text))
	}
	return text
}
