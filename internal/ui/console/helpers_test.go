// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package console

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/confighub/cub-console/internal/i18n"
	"github.com/confighub/cub-console/internal/inventory"
	"github.com/confighub/cub-console/internal/logging"
)

func object(apiVersion, kind, cluster, namespace, name string, labels map[string]any) *unstructured.Unstructured {
	metadata := map[string]any{
		"name":        name,
		"annotations": map[string]any{inventory.ClusterAnnotation: cluster},
	}
	if namespace != "" {
		metadata["namespace"] = namespace
	}
	if labels != nil {
		metadata["labels"] = labels
	}
	return &unstructured.Unstructured{Object: map[string]any{
		"apiVersion": apiVersion,
		"kind":       kind,
		"metadata":   metadata,
	}}
}

// fleet is two clusters with a node, two pods and a deployment.
func fleet() []inventory.Entry {
	return inventory.FromObjects([]*unstructured.Unstructured{
		object("cluster.open-cluster-management.io/v1", "ManagedCluster", "east", "", "east", map[string]any{"env": "prod", "region": "us-east"}),
		object("cluster.open-cluster-management.io/v1", "ManagedCluster", "west", "", "west", nil),
		object("v1", "Node", "east", "", "east-node-1", nil),
		object("v1", "Pod", "east", "shop", "web-1", map[string]any{"app.kubernetes.io/managed-by": "Helm"}),
		object("v1", "Pod", "west", "api", "api-0", nil),
		object("apps/v1", "Deployment", "east", "shop", "web", nil),
	}, "")
}

func testOptions(load LoadFunc) Options {
	return Options{
		Load:    load,
		Catalog: i18n.MustLoad(),
		Locale:  "en",
		Logger:  logging.Discard(),
	}
}

func staticLoad(entries []inventory.Entry) LoadFunc {
	return func(context.Context) ([]inventory.Entry, error) {
		return entries, nil
	}
}

// newLoaded returns a sized model with the fleet loaded.
func newLoaded(t *testing.T, opts Options) Model {
	t.Helper()
	if opts.Load == nil {
		opts.Load = staticLoad(fleet())
	}
	m := New(context.Background(), opts)
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})
	m, _ = send(t, m, m.loadCmd()())
	return m
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok, "Update returned %T", next)
	return out, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keys(t *testing.T, m Model, msgs ...tea.KeyMsg) Model {
	t.Helper()
	for _, msg := range msgs {
		m, _ = send(t, m, msg)
	}
	return m
}

var (
	down  = tea.KeyMsg{Type: tea.KeyDown}
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

func names(entries []inventory.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}
