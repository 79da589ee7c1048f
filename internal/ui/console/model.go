// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package console is the interactive resource browser: a table of
// resources with the filter panel and a search bar, a row action menu,
// modals and an in-process router for the views actions navigate to.
package console

import (
	"context"
	"log/slog"
	"maps"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/confighub/cub-console/internal/clierr"
	"github.com/confighub/cub-console/internal/i18n"
	"github.com/confighub/cub-console/internal/inventory"
	"github.com/confighub/cub-console/internal/logging"
	"github.com/confighub/cub-console/internal/throttle"
	"github.com/confighub/cub-console/internal/ui/filterpanel"
	"github.com/confighub/cub-console/internal/ui/overlay"
	"github.com/confighub/cub-console/pkg/actions"
	"github.com/confighub/cub-console/pkg/filter"
	"github.com/confighub/cub-console/pkg/queries"
	"github.com/confighub/cub-console/pkg/query"
)

// headerHeight is the title line and the column header.
const headerHeight = 2

// Catalog is what the console needs from the message catalog.
type Catalog interface {
	filter.Translator
	Has(locale, key string) bool
	Title(locale, s string) string
}

// LoadFunc returns the resources to browse.
type LoadFunc func(ctx context.Context) ([]inventory.Entry, error)

// Options configure a console Model.
type Options struct {
	Load        LoadFunc
	Catalog     Catalog
	Locale      string
	ContextPath string

	// Kind and Active select the first view.
	Kind   string
	Active filter.Active
	// Query narrows every view before the filters apply.
	Query *query.Query
	// Searches resolves @name in the search bar.
	Searches *queries.Store

	Dispatcher     *actions.Dispatcher
	ResizeThrottle time.Duration
	Logger         *slog.Logger
}

type loadedMsg struct {
	entries []inventory.Entry
	err     error
}

// Model is the console's bubbletea model.
type Model struct {
	ctx        context.Context
	load       LoadFunc
	catalog    Catalog
	locale     string
	logger     *slog.Logger
	dispatcher *actions.Dispatcher
	interval   time.Duration

	keys    keyMap
	help    help.Model
	spinner spinner.Model

	entries []inventory.Entry
	rows    []inventory.Entry
	kind    string
	// active is shared with the filter panel and is never reassigned
	active filter.Active
	cursor int
	offset int

	search    textinput.Model
	searching bool
	query     *query.Query
	searches  *queries.Store

	panel       filterpanel.Panel
	showPanel   bool
	menu        menu
	modals      *ModalStore
	modalOffset int
	router      *Router

	width, height int
	loading       bool
	err           error
	status        string
	quitting      bool
}

// New creates the console model. Resources are loaded by Init.
func New(ctx context.Context, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}
	cat := opts.Catalog
	if cat == nil {
		cat = i18n.MustLoad()
	}
	dispatcher := opts.Dispatcher
	if dispatcher == nil {
		dispatcher = actions.NewDispatcher(actions.WithContextPath(opts.ContextPath), actions.WithLogger(logger))
	}

	searches := opts.Searches
	if searches == nil {
		// built-in searches only
		searches, _ = queries.Open("")
	}

	active := filter.Active{}
	if opts.Active != nil {
		maps.Copy(active, opts.Active.Clone())
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = cat.T(opts.Locale, "console.search.placeholder")
	if !opts.Query.Empty() {
		ti.SetValue(opts.Query.String())
	}

	return Model{
		ctx:        ctx,
		load:       opts.Load,
		catalog:    cat,
		locale:     opts.Locale,
		logger:     logger,
		dispatcher: dispatcher,
		interval:   opts.ResizeThrottle,
		keys:       defaultKeyMap(),
		help:       help.New(),
		spinner:    s,
		search:     ti,
		query:      opts.Query,
		searches:   searches,
		kind:       opts.Kind,
		active:     active,
		modals:     NewModalStore(logger),
		router:     NewRouter(opts.ContextPath, Location{Kind: opts.Kind, Active: active.Clone()}, logger),
		loading:    true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd())
}

func (m Model) loadCmd() tea.Cmd {
	ctx, load := m.ctx, m.load
	return func() tea.Msg {
		if load == nil {
			return loadedMsg{}
		}
		entries, err := load(ctx)
		return loadedMsg{entries: entries, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.scrollToCursor()
		if m.showPanel {
			var cmd tea.Cmd
			m.panel, cmd = m.panel.Update(msg)
			return m, cmd
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.logger.Error("load resources", "error", msg.err)
			return m, nil
		}
		m.entries = msg.entries
		m.logger.Info("resources loaded", "count", len(msg.entries))
		m.refilter()
		if m.showPanel {
			m.panel.SetCategories(m.categories())
		}
		return m, nil

	case filterpanel.ClosedMsg:
		m.showPanel = false
		return m, m.panel.Close()

	case filterpanel.ChangedMsg:
		m.logger.Debug("filter changed", "category", msg.Category, "value", msg.Value, "checked", msg.Checked)
		m.refilter()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.searching {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	if m.showPanel {
		var cmd tea.Cmd
		m.panel, cmd = m.panel.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKey(msg)
	}
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Sequence(m.panel.Close(), tea.Quit)
	}

	if _, ok := m.modals.Current(); ok {
		return m.handleModalKey(msg)
	}
	if m.menu.open {
		return m.handleMenuKey(msg)
	}
	if m.showPanel {
		var cmd tea.Cmd
		m.panel, cmd = m.panel.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Filter):
		return m.openPanel()
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.status = ""
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.Actions):
		if e, ok := m.selected(); ok {
			m.menu = newMenu(e)
		}
	case key.Matches(msg, m.keys.Back):
		if m.router.Back() {
			m.goTo(m.router.Current())
		}
	case key.Matches(msg, m.keys.Reload):
		m.loading = true
		m.err = nil
		return m, tea.Batch(m.spinner.Tick, m.loadCmd())
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Esc):
		m.status = ""
	}
	return m, nil
}

// handleSearchKey edits the search bar. Only ctrl+c quits while typing.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Sequence(m.panel.Close(), tea.Quit)
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.search.SetValue(m.query.String())
		m.search.CursorEnd()
		return m, nil
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		q, err := m.searches.Parse(m.search.Value())
		if err != nil {
			m.logger.Debug("invalid search", "query", m.search.Value(), "error", err)
			m.status = clierr.Line(err)
			return m, nil
		}
		m.query = q
		m.search.SetValue(q.String())
		m.search.CursorEnd()
		m.cursor, m.offset = 0, 0
		m.refilter()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.menu.move(-1)
	case key.Matches(msg, m.keys.Down):
		m.menu.move(1)
	case key.Matches(msg, m.keys.Esc):
		m.menu = menu{}
	case key.Matches(msg, m.keys.Enter):
		if id, ok := m.menu.selected(); ok {
			m.runAction(id, m.menu.entry)
		}
		m.menu = menu{}
	}
	return m, nil
}

func (m Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	md, _ := m.modals.Current()
	switch {
	case key.Matches(msg, m.keys.Up):
		m.modalOffset = max(0, m.modalOffset-1)
	case key.Matches(msg, m.keys.Down):
		m.modalOffset++
	case key.Matches(msg, m.keys.Esc):
		text := resolveModal(md, m.catalog, m.locale)
		m.status = m.catalog.T(m.locale, "console.dismissed", text.heading)
		m.modals.Dismiss()
	case key.Matches(msg, m.keys.Enter):
		text := resolveModal(md, m.catalog, m.locale)
		if text.primary != "" {
			m.logger.Info("modal submitted",
				"type", string(md.Type), "action", md.Action, "resourceType", md.ResourceType.Name, "name", dataName(md.Data))
			m.status = submitSummary(md, text, m.catalog, m.locale)
		}
		m.modals.Dismiss()
	}
	return m, nil
}

// runAction dispatches id for entry against the modal store and router.
func (m *Model) runAction(id actions.ActionID, entry inventory.Entry) {
	m.router.SetActive(m.active)
	effect := m.dispatcher.Dispatch(id, entry.Object, entry.ResourceType(), m.modals, m.router)

	switch e := effect.(type) {
	case actions.OpenModal:
		m.modalOffset = 0
		m.status = ""
	case actions.Navigate:
		if err := m.router.Err(); err != nil {
			m.status = clierr.Line(err)
			return
		}
		m.logger.Info("navigate", "path", e.Path)
		m.goTo(m.router.Current())
		m.status = ""
	case actions.NoOp:
		m.status = string(e.ID)
	}
}

// goTo shows loc. The active selection is updated in place so the
// panel's update function keeps writing to it.
func (m *Model) goTo(loc Location) {
	m.kind = loc.Kind
	clear(m.active)
	maps.Copy(m.active, loc.Active.Clone())
	m.cursor, m.offset = 0, 0
	m.refilter()
	if m.showPanel {
		m.panel.SetCategories(m.categories())
	}
}

func (m Model) openPanel() (tea.Model, tea.Cmd) {
	active := m.active
	logger := m.logger
	m.panel = filterpanel.New(filterpanel.Config{
		Categories: m.categories(),
		Active:     active,
		Update: func(category, value string, checked bool) {
			active.Apply(category, value, checked)
		},
		Close: func() {
			logger.Debug("filter panel dismissed")
		},
		Translator:   m.catalog,
		Locale:       m.locale,
		Width:        m.width,
		Height:       m.height,
		HeaderHeight: headerHeight,
		Throttle:     throttle.New(m.interval),
	})
	m.showPanel = true
	return m, m.panel.Open()
}

// base returns the entries of the current kind, before filtering.
func (m Model) base() []inventory.Entry {
	if m.kind == "" {
		return m.entries
	}
	return inventory.OfKind(m.entries, m.kind)
}

func (m Model) categories() filter.Categories {
	return inventory.Categories(m.base(), m.catalog, m.locale)
}

func (m *Model) refilter() {
	m.rows = inventory.Filter(inventory.Search(m.base(), m.query), m.active, m.catalog, m.locale)
	if m.cursor >= len(m.rows) {
		m.cursor = max(0, len(m.rows)-1)
	}
	m.scrollToCursor()
}

func (m Model) selected() (inventory.Entry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return inventory.Entry{}, false
	}
	return m.rows[m.cursor], true
}

func (m *Model) moveCursor(delta int) {
	if len(m.rows) == 0 {
		return
	}
	m.cursor = max(0, min(len(m.rows)-1, m.cursor+delta))
	m.scrollToCursor()
}

func (m Model) bodyHeight() int {
	return max(1, m.height-headerHeight-m.footerHeight())
}

func (m *Model) scrollToCursor() {
	h := m.bodyHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	m.offset = max(0, min(m.offset, len(m.rows)-h))
}

// Rows returns the entries currently shown.
func (m Model) Rows() []inventory.Entry {
	return m.rows
}

// Active returns the current filter selection.
func (m Model) Active() filter.Active {
	return m.active
}

// Kind returns the kind the table shows, or "" for every kind.
func (m Model) Kind() string {
	return m.kind
}

// PanelOpen reports whether the filter panel is shown.
func (m Model) PanelOpen() bool {
	return m.showPanel
}

// Query returns the applied search in canonical form.
func (m Model) Query() string {
	return m.query.String()
}

// Searching reports whether the search bar has focus.
func (m Model) Searching() bool {
	return m.searching
}

// Modal returns the open modal.
func (m Model) Modal() (actions.Modal, bool) {
	return m.modals.Current()
}

// Status returns the status line message.
func (m Model) Status() string {
	return m.status
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "\n  Initializing..."
	}

	lines := make([]string, 0, m.height)
	lines = append(lines, m.renderTitle(), m.renderColumns())
	lines = append(lines, m.renderBody()...)
	lines = append(lines, m.renderFooter())
	view := strings.Join(lines, "\n")

	if m.showPanel {
		r := m.panel.Rect()
		view = overlay.Splice(view, m.panel.View(), r.X, r.Y)
	}
	if m.menu.open {
		view, _ = overlay.Place(view, m.menu.view(m.catalog, m.locale), m.width, m.height)
	}
	if md, ok := m.modals.Current(); ok {
		text := resolveModal(md, m.catalog, m.locale)
		view, _ = overlay.Place(view, renderModal(text, m.width, m.height, m.modalOffset, m.catalog, m.locale), m.width, m.height)
	}
	return view
}

func (m Model) renderTitle() string {
	crumb := m.catalog.T(m.locale, "console.title")
	if m.kind != "" {
		crumb += " › " + m.catalog.Title(m.locale, ListName(m.kind))
	}
	left := titleStyle.Render("cub-console") + "  " + crumbStyle.Render(crumb)
	if m.router.Depth() > 1 {
		left += "  " + dimStyle.Render("‹ "+m.catalog.T(m.locale, "console.back"))
	}

	right := m.catalog.T(m.locale, "console.count", len(m.rows), len(m.base()))
	if q, err := m.active.Encode(); err == nil && q != "{}" {
		right = badgeStyle.Render(q) + "  " + right
	}
	if !m.query.Empty() {
		right = badgeStyle.Render("/"+m.query.String()) + "  " + right
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return ansi.Truncate(left, m.width, "…")
	}
	return left + strings.Repeat(" ", gap) + right
}

type column struct {
	title string
	width int
	value func(inventory.Entry) string
}

func (m Model) columns() []column {
	cols := []column{
		{"CLUSTER", 14, func(e inventory.Entry) string { return e.Cluster }},
		{"NAMESPACE", 14, func(e inventory.Entry) string { return e.Namespace }},
		{"KIND", 16, func(e inventory.Entry) string { return e.Kind }},
		{"NAME", 0, func(e inventory.Entry) string { return e.Name }},
		{"OWNER", 12, func(e inventory.Entry) string { return e.Owner }},
		{"STATUS", 10, func(e inventory.Entry) string { return e.Status }},
	}
	fixed := 0
	for _, c := range cols {
		fixed += c.width + 1
	}
	cols[3].width = max(12, m.width-fixed)
	return cols
}

func cell(s string, width int) string {
	s = ansi.Truncate(s, width, "…")
	return s + strings.Repeat(" ", max(0, width-ansi.StringWidth(s)))
}

func (m Model) renderColumns() string {
	var parts []string
	for _, c := range m.columns() {
		parts = append(parts, cell(c.title, c.width))
	}
	return columnStyle.Render(ansi.Truncate(strings.Join(parts, " "), m.width, ""))
}

func (m Model) renderBody() []string {
	h := m.bodyHeight()
	body := make([]string, 0, h)

	switch {
	case m.loading:
		body = append(body, "  "+m.spinner.View()+" "+m.catalog.T(m.locale, "console.loading"))
	case m.err != nil:
		body = append(body, "  "+errStyle.Render(clierr.Line(m.err)))
	case len(m.rows) == 0:
		body = append(body, "  "+dimStyle.Render(m.catalog.T(m.locale, "console.empty")))
	default:
		cols := m.columns()
		end := min(len(m.rows), m.offset+h)
		for i := m.offset; i < end; i++ {
			body = append(body, m.renderRow(m.rows[i], cols, i == m.cursor))
		}
	}

	for len(body) < h {
		body = append(body, "")
	}
	return body
}

func (m Model) renderRow(e inventory.Entry, cols []column, selected bool) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = cell(c.value(e), c.width)
	}
	if selected {
		return selectStyle.Render(ansi.Truncate(strings.Join(parts, " "), m.width, ""))
	}
	status := len(parts) - 1
	parts[status] = statusStyle(e.Status).Render(parts[status])
	return ansi.Truncate(strings.Join(parts, " "), m.width, "")
}

func (m Model) renderFooter() string {
	if m.searching {
		return ansi.Truncate(m.search.View(), m.width, "")
	}
	if m.status != "" {
		return dimStyle.Render(ansi.Truncate(m.status, m.width, "…"))
	}
	var km help.KeyMap = m.keys
	switch {
	case m.menu.open:
		km = menuKeyMap{m.keys}
	case m.showPanel:
		km = m.panel.KeyMap()
	default:
		if _, ok := m.modals.Current(); ok {
			km = menuKeyMap{m.keys}
		}
	}
	return m.help.View(km)
}

func (m Model) footerHeight() int {
	return max(1, lipgloss.Height(m.renderFooter()))
}

