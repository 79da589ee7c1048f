// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package inventory

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/util/sets"
	dynamicfake "k8s.io/client-go/dynamic/fake"

	"github.com/confighub/cub-console/internal/i18n"
	"github.com/confighub/cub-console/pkg/actions"
	"github.com/confighub/cub-console/pkg/filter"
	"github.com/confighub/cub-console/pkg/query"
)

func loadFleet(t *testing.T) []Entry {
	t.Helper()
	objs, err := LoadFile("testdata/fleet.yaml")
	require.NoError(t, err)
	return FromObjects(objs, "local")
}

func TestLoadFile(t *testing.T) {
	entries := loadFleet(t)
	require.Len(t, entries, 7)

	byName := map[string]Entry{}
	for _, e := range entries {
		byName[e.Name] = e
	}

	assert.Equal(t, "east", byName["east"].Cluster, "cluster kinds belong to themselves")
	assert.Equal(t, StatusReady, byName["east"].Status)
	assert.Equal(t, StatusNotReady, byName["west"].Status)
	assert.Equal(t, "Helm", byName["web-7d9f-abcde"].Owner)
	assert.Equal(t, "Flux", byName["web"].Owner)
	assert.Equal(t, StatusNotReady, byName["web"].Status)
	assert.Equal(t, "ArgoCD", byName["api-0"].Owner)
	assert.Equal(t, StatusPending, byName["api-0"].Status)
	assert.Equal(t, "west", byName["settings"].Cluster)
	assert.Empty(t, byName["settings"].Owner)
	assert.Equal(t, StatusUnknown, byName["settings"].Status)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile("testdata/nope.yaml")
	assert.ErrorContains(t, err, "open testdata/nope.yaml")
}

func TestDecode(t *testing.T) {
	objs, err := Decode(strings.NewReader("---\n---\n{\"apiVersion\":\"v1\",\"kind\":\"Pod\",\"metadata\":{\"name\":\"p\"}}\n"))
	require.NoError(t, err)
	require.Len(t, objs, 1)
	assert.Equal(t, "p", objs[0].GetName())

	_, err = Decode(strings.NewReader("metadata:\n  name: x\n"))
	assert.ErrorContains(t, err, "parse document 1")

	_, err = Decode(strings.NewReader("kind: Pod\n---\nkind: [\n"))
	assert.ErrorContains(t, err, "parse document 2")
}

func TestFromObject_DefaultCluster(t *testing.T) {
	obj := &unstructured.Unstructured{}
	obj.SetKind("Pod")
	obj.SetName("p")
	assert.Equal(t, "local", FromObject(obj, "local").Cluster)
}

func TestCategories(t *testing.T) {
	catalog := i18n.MustLoad()
	cats := Categories(loadFleet(t), catalog, "en")

	assert.ElementsMatch(t, CategoryIDs, cats.IDs())
	assert.Equal(t, "Cluster", cats[CategoryCluster].Name)
	assert.Equal(t, sets.New("east", "west"), cats[CategoryCluster].Available)
	assert.Equal(t, sets.New("Other", "shop", "payments"), cats[CategoryNamespace].Available)
	assert.Equal(t, sets.New("ArgoCD", "Flux", "Helm", "Other"), cats[CategoryOwner].Available)

	de := Categories(loadFleet(t), catalog, "de")
	assert.Equal(t, "Besitzer", de[CategoryOwner].Name)
	assert.True(t, de[CategoryNamespace].Available.Has("Andere"))
}

func TestFilter(t *testing.T) {
	catalog := i18n.MustLoad()
	entries := loadFleet(t)

	tests := []struct {
		name   string
		active filter.Active
		want   int
	}{
		{name: "unconstrained", active: filter.Active{}, want: 7},
		{name: "one cluster", active: filter.Active{CategoryCluster: sets.New("west")}, want: 3},
		{name: "other namespace", active: filter.Active{CategoryNamespace: sets.New("Other")}, want: 4},
		{name: "two categories", active: filter.Active{CategoryCluster: sets.New("east"), CategoryKind: sets.New("Pod")}, want: 1},
		{name: "no match", active: filter.Active{CategoryKind: sets.New("Secret")}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, Filter(entries, tt.active, catalog, "en"), tt.want)
		})
	}
}

func TestFilter_IgnoresUnknownCategories(t *testing.T) {
	entries := loadFleet(t)
	catalog := i18n.MustLoad()

	got := Filter(entries, filter.Active{"bogus": sets.New("x")}, catalog, "en")
	assert.Len(t, got, len(entries))

	got = Filter(entries, filter.Active{"bogus": sets.New("x"), CategoryCluster: sets.New("west")}, catalog, "en")
	var names []string
	for _, e := range got {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"west", "api-0", "settings"}, names)
}

func TestOfKindAndKinds(t *testing.T) {
	entries := loadFleet(t)
	assert.Len(t, OfKind(entries, "pod"), 2)
	assert.Equal(t, []string{"ConfigMap", "Deployment", "ManagedCluster", "Node", "Pod"}, Kinds(entries))
}

func TestEntryResourceType(t *testing.T) {
	entries := loadFleet(t)
	byName := make(map[string]Entry)
	for _, e := range entries {
		byName[e.Name] = e
	}

	assert.Equal(t, actions.ResourceType{Name: "Cluster", APIVersion: "cluster.open-cluster-management.io/v1"}, byName["east"].ResourceType())
	assert.Equal(t, actions.ResourceType{Name: "Deployment", APIVersion: "apps/v1"}, byName["web"].ResourceType())
}

func TestSearch(t *testing.T) {
	entries := loadFleet(t)

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"east", "west", "east-node-1", "web-7d9f-abcde", "web", "api-0", "settings"}},
		{"web", []string{"web-7d9f-abcde", "web"}},
		{"kind=Pod status!=Ready", []string{"api-0"}},
		{"cluster=west AND kind=ConfigMap OR owner=Helm", []string{"web-7d9f-abcde", "settings"}},
		{"labels[app.kubernetes.io/instance]=web", []string{"web-7d9f-abcde"}},
		{"apiVersion~=^apps/", []string{"web"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var got []string
			for _, e := range Search(entries, query.MustParse(tt.query)) {
				got = append(got, e.Name)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLookup(t *testing.T) {
	e := Entry{Name: "web", Kind: "Pod", Labels: map[string]string{"app": "web"}}

	v, ok := e.Lookup("labels[app]")
	assert.True(t, ok)
	assert.Equal(t, "web", v)

	_, ok = e.Lookup("labels[tier]")
	assert.False(t, ok)
	_, ok = e.Lookup("color")
	assert.False(t, ok)

	v, ok = e.Lookup("namespace")
	assert.True(t, ok, "known fields exist even when empty")
	assert.Empty(t, v)
}

func TestNewStats(t *testing.T) {
	s := NewStats(loadFleet(t))
	assert.Equal(t, 7, s.Total)
	assert.Equal(t, 2, s.ByKind["Pod"])
	assert.Equal(t, 4, s.ByOwner[""])
}

func TestLoadCluster(t *testing.T) {
	pods := schema.GroupVersionResource{Version: "v1", Resource: "pods"}
	pod := &unstructured.Unstructured{Object: map[string]any{
		"apiVersion": "v1",
		"kind":       "Pod",
		"metadata":   map[string]any{"name": "web-1", "namespace": "shop"},
		"status":     map[string]any{"phase": "Running"},
	}}

	client := dynamicfake.NewSimpleDynamicClientWithCustomListKinds(runtime.NewScheme(),
		map[schema.GroupVersionResource]string{pods: "PodList"}, pod)

	entries, err := LoadCluster(context.Background(), client, "kind-dev", []schema.GroupVersionResource{pods})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "kind-dev", entries[0].Cluster)
	assert.Equal(t, StatusReady, entries[0].Status)
}
