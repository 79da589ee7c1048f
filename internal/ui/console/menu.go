// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package console

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/confighub/cub-console/internal/inventory"
	"github.com/confighub/cub-console/pkg/actions"
)

// menu is the row action menu.
type menu struct {
	open   bool
	entry  inventory.Entry
	items  []actions.ActionID
	cursor int
}

func newMenu(entry inventory.Entry) menu {
	return menu{
		open:  true,
		entry: entry,
		items: actions.ForKind(entry.Kind),
	}
}

func (m *menu) move(delta int) {
	if len(m.items) == 0 {
		return
	}
	m.cursor = (m.cursor + delta + len(m.items)) % len(m.items)
}

func (m menu) selected() (actions.ActionID, bool) {
	if !m.open || len(m.items) == 0 {
		return "", false
	}
	return m.items[m.cursor], true
}

func (m menu) view(cat Catalog, locale string) string {
	labels := make([]string, len(m.items))
	width := ansi.StringWidth(m.entry.Name)
	for i, id := range m.items {
		labels[i] = cat.T(locale, string(id))
		width = max(width, ansi.StringWidth(labels[i])+2)
	}

	var b strings.Builder
	b.WriteString(headingStyle.Render(cat.T(locale, "console.actions.title")))
	b.WriteString("\n" + dimStyle.Render(m.entry.Name))
	for i, label := range labels {
		line := "  " + label
		if i == m.cursor {
			line = selectStyle.Render("› " + label + strings.Repeat(" ", width-ansi.StringWidth(label)-2))
		}
		b.WriteString("\n" + line)
	}
	return boxStyle.Render(b.String())
}
