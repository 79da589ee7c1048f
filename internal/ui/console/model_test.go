// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package console

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/confighub/cub-console/internal/inventory"
	"github.com/confighub/cub-console/internal/ui/filterpanel"
	"github.com/confighub/cub-console/pkg/actions"
	"github.com/confighub/cub-console/pkg/filter"
	"github.com/confighub/cub-console/pkg/query"
)

// selectRow moves the cursor to the named row.
func selectRow(t *testing.T, m Model, name string) Model {
	t.Helper()
	for i, e := range m.Rows() {
		if e.Name == name {
			for j := 0; j < i; j++ {
				m, _ = send(t, m, down)
			}
			return m
		}
	}
	t.Fatalf("no row %q", name)
	return m
}

func TestConsole_Loads(t *testing.T) {
	m := newLoaded(t, testOptions(nil))

	assert.Len(t, m.Rows(), 6)
	view := ansi.Strip(m.View())
	assert.Contains(t, view, "6 of 6 resources")
	assert.Contains(t, view, "east-node-1")
	assert.Contains(t, view, "NAMESPACE")
	assert.Len(t, strings.Split(view, "\n"), 30)
}

func TestConsole_LoadingAndErrors(t *testing.T) {
	m := New(context.Background(), testOptions(func(context.Context) ([]inventory.Entry, error) {
		return nil, errors.New("dial tcp 10.0.0.1:6443: connect: connection refused")
	}))
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 20})
	assert.Contains(t, ansi.Strip(m.View()), "Loading resources")

	m, _ = send(t, m, m.loadCmd()())
	view := ansi.Strip(m.View())
	assert.Contains(t, view, "connection refused")
	assert.Contains(t, view, "cluster-info")

	// reload clears the error and shows the spinner again
	m, cmd := send(t, m, runes("r"))
	assert.NotNil(t, cmd)
	assert.Contains(t, ansi.Strip(m.View()), "Loading resources")
}

func TestConsole_InitialLocation(t *testing.T) {
	opts := testOptions(nil)
	opts.Kind = "Pod"
	opts.Active = filter.Active{"cluster": sets.New("west")}
	m := newLoaded(t, opts)

	assert.Equal(t, []string{"api-0"}, names(m.Rows()))
	view := ansi.Strip(m.View())
	assert.Contains(t, view, "Resources › Pods")
	assert.Contains(t, view, "1 of 2 resources")
	assert.Contains(t, view, `{"cluster":["west"]}`)
}

func TestConsole_FOpensPanel(t *testing.T) {
	m := newLoaded(t, testOptions(nil))

	m, cmd := send(t, m, runes("f"))
	require.True(t, m.PanelOpen())
	assert.NotNil(t, cmd, "opening enables mouse reporting")

	view := ansi.Strip(m.View())
	assert.Contains(t, view, "Filters")
	assert.Contains(t, view, "Cluster")
	assert.Len(t, strings.Split(view, "\n"), 30)

	r := m.panel.Rect()
	assert.Equal(t, 120-filterpanel.Width, r.X)
	assert.Equal(t, headerHeight, r.Y)
}

func TestConsole_PanelFiltersRows(t *testing.T) {
	m := newLoaded(t, testOptions(nil))
	m, _ = send(t, m, runes("f"))

	// cluster section: All, east, west
	m, _ = send(t, m, down)
	m, cmd := send(t, m, space)
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, filterpanel.ChangedMsg{Category: "cluster", Value: "east", Checked: true}, msg)

	m, _ = send(t, m, msg)
	assert.Equal(t, []string{"east", "east-node-1", "web-1", "web"}, names(m.Rows()))
	assert.Equal(t, sets.New("east"), m.Active()["cluster"])

	// the table keeps the selection after the panel closes
	m, cmd = send(t, m, esc)
	m, _ = send(t, m, cmd())
	assert.False(t, m.PanelOpen())
	assert.Len(t, m.Rows(), 4)
}

func TestConsole_OutsideClickClosesPanel(t *testing.T) {
	m := newLoaded(t, testOptions(nil))
	m, _ = send(t, m, runes("f"))

	m, cmd := send(t, m, tea.MouseMsg{X: 5, Y: 10, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	require.NotNil(t, cmd)
	closed := cmd()
	assert.Equal(t, filterpanel.ClosedMsg{}, closed)
	assert.True(t, m.PanelOpen(), "the host hides the panel when it handles the message")

	m, cmd = send(t, m, closed)
	assert.False(t, m.PanelOpen())
	assert.False(t, m.panel.Mounted())
	assert.NotNil(t, cmd, "closing disables mouse reporting")
	assert.NotContains(t, ansi.Strip(m.View()), "Filters")
}

func TestConsole_PanelResizeFollowsTerminal(t *testing.T) {
	m := newLoaded(t, testOptions(nil))
	m, _ = send(t, m, runes("f"))

	m, _ = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 24})
	assert.Equal(t, 100-filterpanel.Width, m.panel.Rect().X)
	assert.Equal(t, 24-headerHeight, m.panel.Rect().Height)
}

func TestConsole_QuitClosesPanel(t *testing.T) {
	m := newLoaded(t, testOptions(nil))
	m, _ = send(t, m, runes("f"))

	m, cmd := send(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.False(t, m.panel.Mounted())
	assert.Empty(t, m.View())
}

func TestConsole_ActionMenu(t *testing.T) {
	m := newLoaded(t, testOptions(nil))

	m, _ = send(t, m, runes("a"))
	require.True(t, m.menu.open)
	assert.Equal(t, actions.ForKind("ManagedCluster"), m.menu.items)

	view := ansi.Strip(m.View())
	assert.Contains(t, view, "Actions")
	assert.Contains(t, view, "View nodes")
	assert.Contains(t, view, "Edit labels")

	m, _ = send(t, m, esc)
	assert.False(t, m.menu.open)
}

func TestConsole_EditModal(t *testing.T) {
	m := newLoaded(t, testOptions(nil))

	// ManagedCluster actions: view nodes, view pods, edit labels, edit, remove
	m = keys(t, m, runes("a"), down, down, down, enter)
	md, ok := m.Modal()
	require.True(t, ok)
	assert.Equal(t, actions.ModalResourceEdit, md.Type)
	assert.Equal(t, "east", md.Data["metadata"].(map[string]any)["name"])

	view := ansi.Strip(m.View())
	assert.Contains(t, view, "Edit cluster")
	assert.Contains(t, view, `"kind": "ManagedCluster"`)
	assert.Contains(t, view, "Submit")

	m, _ = send(t, m, esc)
	_, ok = m.Modal()
	assert.False(t, ok)
	assert.Equal(t, "Edit cluster: cancelled", m.Status())
	assert.NotContains(t, ansi.Strip(m.View()), "Submit")
}

func TestConsole_RemoveSubmits(t *testing.T) {
	m := newLoaded(t, testOptions(nil))
	m = selectRow(t, m, "web-1")

	// Pod actions: logs, edit, remove
	m = keys(t, m, runes("a"), down, down, enter)
	md, ok := m.Modal()
	require.True(t, ok)
	assert.Equal(t, actions.ModalResourceRemove, md.Type)
	assert.Contains(t, ansi.Strip(m.View()), `Remove Pod "web-1"?`)

	m, _ = send(t, m, enter)
	_, ok = m.Modal()
	assert.False(t, ok)
	assert.Equal(t, "Remove Pod web-1: submitted", m.Status())
}

func TestConsole_LogsModal(t *testing.T) {
	m := newLoaded(t, testOptions(nil))
	m = selectRow(t, m, "api-0")

	m = keys(t, m, runes("a"), enter)
	md, ok := m.Modal()
	require.True(t, ok)
	assert.Equal(t, actions.ModalViewLogs, md.Type)
	assert.Contains(t, ansi.Strip(m.View()), "Logs: api-0")

	m, _ = send(t, m, enter)
	_, ok = m.Modal()
	assert.False(t, ok)
	assert.Empty(t, m.Status())
}

func TestConsole_ViewNodesNavigatesAndBack(t *testing.T) {
	m := newLoaded(t, testOptions(nil))

	m = keys(t, m, runes("a"), enter)
	assert.Equal(t, "Node", m.Kind())
	assert.Equal(t, filter.Active{"cluster": sets.New("east")}, m.Active())
	assert.Equal(t, []string{"east-node-1"}, names(m.Rows()))
	assert.Contains(t, ansi.Strip(m.View()), "Back")

	m, _ = send(t, m, runes("b"))
	assert.Equal(t, "", m.Kind())
	assert.Empty(t, m.Active())
	assert.Len(t, m.Rows(), 6)
}

func TestConsole_ViewPodsKeepsPanelBinding(t *testing.T) {
	m := newLoaded(t, testOptions(nil))
	m = selectRow(t, m, "west")
	m = keys(t, m, runes("a"), down, enter)

	require.Equal(t, "Pod", m.Kind())
	assert.Equal(t, []string{"api-0"}, names(m.Rows()))

	// the panel writes to the selection the router restored
	m, _ = send(t, m, runes("f"))
	sections := m.panel.Sections()
	require.NotEmpty(t, sections)
	assert.Equal(t, "cluster", sections[0].ID)

	active := m.Active()
	active.Apply("namespace", "api", true)
	assert.Equal(t, sets.New("api"), m.Active()["namespace"])
}

func TestConsole_CursorScrolls(t *testing.T) {
	var entries []inventory.Entry
	for i := 0; i < 40; i++ {
		entries = append(entries, fleet()[3])
	}
	opts := testOptions(staticLoad(entries))
	m := newLoaded(t, opts)

	for i := 0; i < 35; i++ {
		m, _ = send(t, m, down)
	}
	assert.Equal(t, 35, m.cursor)
	assert.LessOrEqual(t, m.offset, 35)
	assert.Greater(t, m.offset+m.bodyHeight(), 35)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 34, m.cursor)
}

func TestConsole_Search(t *testing.T) {
	m := newLoaded(t, testOptions(nil))

	m, cmd := send(t, m, runes("/"))
	require.True(t, m.Searching())
	assert.NotNil(t, cmd, "focus starts the cursor blink")

	// keys type into the bar instead of running table commands
	m, _ = send(t, m, runes("kind=Pod OR wef"))
	assert.False(t, m.PanelOpen())
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	m, _ = send(t, m, runes("b"))
	assert.Contains(t, ansi.Strip(m.View()), "/ kind=Pod OR web")

	m, _ = send(t, m, enter)
	assert.False(t, m.Searching())
	assert.Equal(t, "kind=Pod OR web", m.Query())
	assert.Equal(t, []string{"web-1", "api-0", "web"}, names(m.Rows()))
	view := ansi.Strip(m.View())
	assert.Contains(t, view, "/kind=Pod OR web")
	assert.Contains(t, view, "3 of 6 resources")

	// esc restores the applied search
	m = keys(t, m, runes("/"), runes(" AND cluster=west"), esc)
	assert.Equal(t, "kind=Pod OR web", m.Query())
	assert.Len(t, m.Rows(), 3)
}

func TestConsole_SearchCombinesWithFilters(t *testing.T) {
	opts := testOptions(nil)
	opts.Query = query.MustParse("kind=Pod,Deployment")
	opts.Active = filter.Active{"cluster": sets.New("east")}
	m := newLoaded(t, opts)

	assert.Equal(t, []string{"web-1", "web"}, names(m.Rows()))
	assert.Equal(t, "kind=Pod,Deployment", m.Query())

	// clearing the search leaves the filters
	m = keys(t, m, runes("/"), tea.KeyMsg{Type: tea.KeyCtrlU}, enter)
	assert.Empty(t, m.Query())
	assert.Equal(t, []string{"east", "east-node-1", "web-1", "web"}, names(m.Rows()))
}

func TestConsole_InvalidSearch(t *testing.T) {
	m := newLoaded(t, testOptions(nil))

	m = keys(t, m, runes("/"), runes("OR"), enter)
	assert.False(t, m.Searching())
	assert.Empty(t, m.Query())
	assert.Len(t, m.Rows(), 6)
	assert.Equal(t, "OR without a preceding condition", m.Status())
}

func TestConsole_QuitWhileSearching(t *testing.T) {
	m := newLoaded(t, testOptions(nil))

	m = keys(t, m, runes("/"), runes("q"))
	assert.NotEmpty(t, m.View(), "q types into the search bar")

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.Empty(t, m.View())
}

func TestConsole_SavedSearch(t *testing.T) {
	m := newLoaded(t, testOptions(nil))

	m = keys(t, m, runes("/"), runes("@clusters"), enter)
	assert.Equal(t, "kind=ManagedCluster", m.Query())
	assert.Equal(t, []string{"east", "west"}, names(m.Rows()))

	m = keys(t, m, runes("/"), tea.KeyMsg{Type: tea.KeyCtrlU}, runes("@nope"), enter)
	assert.Equal(t, `no saved search "nope"`, m.Status())
	assert.Equal(t, "kind=ManagedCluster", m.Query())
}
