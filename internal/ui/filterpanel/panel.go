// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package filterpanel implements the resource filter panel: a scrollable
// column of checkbox sections, one per filter category, drawn over the right
// edge of the console.
//
// The panel never owns the filter selection. Checkbox changes are forwarded
// to the caller's filter.UpdateFunc and the panel re-reads the selection it
// was given. The only state it keeps is which sections are expanded.
package filterpanel

import (
	"maps"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/confighub/cub-console/internal/throttle"
	"github.com/confighub/cub-console/internal/ui/overlay"
	"github.com/confighub/cub-console/pkg/filter"
)

const (
	// Width is the panel width in cells, border and scrollbar included.
	Width = 36

	// header line and rule above the sections
	chromeHeight = 2

	wheelStep = 3

	closeGlyph = "✕"

	keyTitle = "filter.view.title"
)

// CloseFunc is called when the user dismisses the panel.
type CloseFunc func()

// ClosedMsg is emitted once when the user dismisses the panel. The host
// should call Close and stop rendering the panel.
type ClosedMsg struct{}

// ChangedMsg is emitted after a checkbox change was forwarded to the
// UpdateFunc.
type ChangedMsg struct {
	Category string
	Value    string
	Checked  bool
}

type layoutMsg struct{}

// Config holds what the panel needs from its host.
type Config struct {
	Categories filter.Categories
	Active     filter.Active
	Update     filter.UpdateFunc
	Close      CloseFunc

	Translator filter.Translator
	Locale     string

	// Width and Height are the terminal size.
	Width, Height int
	// HeaderHeight is the number of rows above the panel.
	HeaderHeight int

	// Throttle limits layout passes on resize. Nil uses the default interval.
	Throttle *throttle.Throttle
}

// Panel is a bubbletea component. Update has value semantics like the
// bubbles components.
type Panel struct {
	categories filter.Categories
	active     filter.Active
	update     filter.UpdateFunc
	onClose    CloseFunc
	translator filter.Translator
	locale     string

	expanded map[string]bool
	rows     []row
	cursor   int
	viewport viewport.Model
	keys     KeyMap
	throttle *throttle.Throttle

	termWidth, termHeight int
	pendingW, pendingH    int
	headerHeight          int

	mounted bool
	closing bool
}

// New creates a panel. It is inert until Open is called.
func New(cfg Config) Panel {
	th := cfg.Throttle
	if th == nil {
		th = throttle.New(throttle.DefaultInterval)
	}
	active := cfg.Active
	if active == nil {
		active = filter.Active{}
	}

	p := Panel{
		categories:   cfg.Categories,
		active:       active,
		update:       cfg.Update,
		onClose:      cfg.Close,
		translator:   cfg.Translator,
		locale:       cfg.Locale,
		expanded:     map[string]bool{},
		keys:         DefaultKeyMap(),
		throttle:     th,
		headerHeight: cfg.HeaderHeight,
		viewport:     viewport.New(Width-2, 0),
		pendingW:     cfg.Width,
		pendingH:     cfg.Height,
	}
	p.layout()
	return p
}

// Open mounts the panel and returns the command enabling mouse reporting.
func (p *Panel) Open() tea.Cmd {
	p.mounted = true
	p.closing = false
	p.throttle.Reset()
	return tea.EnableMouseCellMotion
}

// Close unmounts the panel and returns the command disabling mouse
// reporting. It is safe to call on a panel that is not open.
func (p *Panel) Close() tea.Cmd {
	if !p.mounted {
		return nil
	}
	p.mounted = false
	return tea.DisableMouse
}

// Mounted reports whether the panel is open.
func (p Panel) Mounted() bool {
	return p.mounted
}

// SetCategories replaces the available values, for example after a reload.
func (p *Panel) SetCategories(c filter.Categories) {
	p.categories = c
	p.refresh()
}

// Expanded reports whether a category shows all of its options.
func (p Panel) Expanded(category string) bool {
	return p.expanded[category]
}

// KeyMap returns the panel's bindings, for help rendering.
func (p Panel) KeyMap() KeyMap {
	return p.keys
}

// Height returns the panel height: the terminal height minus the header.
func (p Panel) Height() int {
	return max(0, p.termHeight-p.headerHeight)
}

// Rect returns the screen rectangle the panel covers.
func (p Panel) Rect() overlay.Rect {
	return overlay.Rect{
		X:      max(0, p.termWidth-Width),
		Y:      p.headerHeight,
		Width:  Width,
		Height: p.Height(),
	}
}

// Sections returns the section view models as currently rendered.
func (p Panel) Sections() []filter.Section {
	return filter.BuildSections(p.categories, p.active, p.expanded, p.buildOptions())
}

func (p Panel) Init() tea.Cmd {
	return nil
}

// Update handles keys, mouse and resize. A panel that is not open ignores
// every message.
func (p Panel) Update(msg tea.Msg) (Panel, tea.Cmd) {
	if !p.mounted {
		return p, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return p.handleKey(msg)

	case tea.MouseMsg:
		return p.handleMouse(msg)

	case tea.WindowSizeMsg:
		p.pendingW, p.pendingH = msg.Width, msg.Height
		decision, wait := p.throttle.Allow()
		switch decision {
		case throttle.Run:
			p.layout()
		case throttle.Defer:
			return p, tea.Tick(wait, func(time.Time) tea.Msg { return layoutMsg{} })
		}

	case layoutMsg:
		p.throttle.Fire()
		p.layout()
	}
	return p, nil
}

func (p Panel) handleKey(msg tea.KeyMsg) (Panel, tea.Cmd) {
	switch {
	case key.Matches(msg, p.keys.Close):
		return p, p.requestClose()
	case key.Matches(msg, p.keys.Up):
		p.moveCursor(-1)
	case key.Matches(msg, p.keys.Down):
		p.moveCursor(1)
	case key.Matches(msg, p.keys.PageUp):
		p.scroll(-p.viewport.Height)
	case key.Matches(msg, p.keys.PageDown):
		p.scroll(p.viewport.Height)
	case key.Matches(msg, p.keys.Toggle):
		return p, p.activate()
	}
	return p, nil
}

func (p Panel) handleMouse(msg tea.MouseMsg) (Panel, tea.Cmd) {
	rect := p.Rect()
	inside := rect.Contains(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionRelease:
		if !inside || p.onCloseGlyph(msg.X, msg.Y) {
			return p, p.requestClose()
		}
		if i, ok := p.rowAt(msg.Y); ok {
			p.cursor = i
			return p, p.activate()
		}

	case tea.MouseActionPress:
		if !inside {
			break
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			p.scroll(-wheelStep)
		case tea.MouseButtonWheelDown:
			p.scroll(wheelStep)
		}
	}
	return p, nil
}

// requestClose reports the close at most once per Open.
func (p *Panel) requestClose() tea.Cmd {
	if p.closing {
		return nil
	}
	p.closing = true
	if p.onClose != nil {
		p.onClose()
	}
	return func() tea.Msg { return ClosedMsg{} }
}

// activate toggles the row under the cursor.
func (p *Panel) activate() tea.Cmd {
	// rebuild so the row handlers are bound to this copy of the panel
	p.refresh()
	if p.cursor < 0 || p.cursor >= len(p.rows) {
		return nil
	}

	r := p.rows[p.cursor]
	var cmd tea.Cmd
	switch r.kind {
	case rowOption:
		if r.fixed {
			return nil
		}
		checked := !r.option.Checked
		r.option.OnChange(checked)
		category, value, _ := strings.Cut(r.option.ID, "/")
		cmd = func() tea.Msg { return ChangedMsg{Category: category, Value: value, Checked: checked} }
	case rowToggle:
		if r.toggle != nil {
			r.toggle()
		}
	}
	p.refresh()
	return cmd
}

func (p Panel) buildOptions() filter.BuildOptions {
	return filter.BuildOptions{
		Locale:     p.locale,
		Translator: p.translator,
		Update:     p.update,
	}
}

// refresh rebuilds the rows and the viewport content from the current
// selection and expansion state, keeping the cursor on the same row.
func (p *Panel) refresh() {
	var cursorKey string
	if p.cursor >= 0 && p.cursor < len(p.rows) {
		cursorKey = p.rows[p.cursor].key()
	}

	opts := p.buildOptions()
	opts.OnExpand = p.toggleExpanded

	rows := make([]row, 0, len(p.rows))
	for _, s := range filter.BuildSections(p.categories, p.active, p.expanded, opts) {
		rows = append(rows, renderSection(s, p.translator, p.locale)...)
	}
	p.rows = rows

	p.cursor = p.findRow(cursorKey)
	p.render()
}

func (p *Panel) toggleExpanded(category string) {
	next := maps.Clone(p.expanded)
	next[category] = !next[category]
	p.expanded = next
}

func (p Panel) findRow(rowKey string) int {
	if rowKey != "" {
		for i, r := range p.rows {
			if r.key() == rowKey {
				return i
			}
		}
	}
	return p.nextSelectable(min(max(p.cursor, 0), max(len(p.rows)-1, 0)), 1)
}

// nextSelectable returns the first selectable row at or after from in the
// direction dir, or the nearest one the other way.
func (p Panel) nextSelectable(from, dir int) int {
	for i := from; i >= 0 && i < len(p.rows); i += dir {
		if p.rows[i].selectable() {
			return i
		}
	}
	for i := from; i >= 0 && i < len(p.rows); i -= dir {
		if p.rows[i].selectable() {
			return i
		}
	}
	return -1
}

func (p *Panel) moveCursor(delta int) {
	if p.cursor < 0 {
		return
	}
	for i := p.cursor + delta; i >= 0 && i < len(p.rows); i += delta {
		if p.rows[i].selectable() {
			p.cursor = i
			break
		}
	}
	p.render()
}

func (p *Panel) scroll(delta int) {
	p.viewport.SetYOffset(p.viewport.YOffset + delta)
}

func (p *Panel) layout() {
	p.termWidth, p.termHeight = p.pendingW, p.pendingH
	p.viewport.Width = Width - 2
	p.viewport.Height = max(0, p.Height()-chromeHeight)
	p.refresh()
}

// render writes the rows into the viewport and scrolls the cursor into view.
func (p *Panel) render() {
	lines := make([]string, len(p.rows))
	for i, r := range p.rows {
		lines[i] = formatRow(r, p.viewport.Width, i == p.cursor)
	}
	p.viewport.SetContent(strings.Join(lines, "\n"))

	if p.cursor < 0 || p.viewport.Height == 0 {
		return
	}
	switch {
	case p.cursor < p.viewport.YOffset:
		p.viewport.SetYOffset(p.cursor)
	case p.cursor >= p.viewport.YOffset+p.viewport.Height:
		p.viewport.SetYOffset(p.cursor - p.viewport.Height + 1)
	}
}

func (p Panel) onCloseGlyph(x, y int) bool {
	rect := p.Rect()
	return y == rect.Y && x >= rect.X+Width-3
}

func (p Panel) rowAt(y int) (int, bool) {
	line := y - p.Rect().Y - chromeHeight
	if line < 0 || line >= p.viewport.Height {
		return 0, false
	}
	i := p.viewport.YOffset + line
	if i >= len(p.rows) || !p.rows[i].selectable() {
		return 0, false
	}
	return i, true
}

// View renders the panel. The host splices it at Rect().
func (p Panel) View() string {
	height := p.Height()
	if height == 0 {
		return ""
	}
	inner := Width - 2

	title := ansi.Truncate(translate(p.translator, p.locale, keyTitle), inner-2, "…")
	header := titleStyle.Render(title) +
		strings.Repeat(" ", max(0, inner-1-ansi.StringWidth(title))) +
		closeStyle.Render(closeGlyph) + " "
	rule := ruleStyle.Render(strings.Repeat("─", inner+1))

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		p.viewport.View(),
		overlay.Scrollbar(p.viewport.Height, p.viewport.TotalLineCount(), p.viewport.Height, p.viewport.YOffset, trackStyle, thumbStyle),
	)

	content := header + "\n" + rule
	if p.viewport.Height > 0 {
		content += "\n" + body
	}
	return frameStyle.MaxHeight(height).Render(content)
}
