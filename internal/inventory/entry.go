// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package inventory turns Kubernetes objects into the rows the console lists
// and derives the filter categories for them.
package inventory

import (
	"slices"
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/confighub/cub-console/pkg/actions"
	"github.com/confighub/cub-console/pkg/filter"
	"github.com/confighub/cub-console/pkg/query"
)

// Category ids, in the order the table shows their columns.
const (
	CategoryCluster   = "cluster"
	CategoryNamespace = "namespace"
	CategoryKind      = "kind"
	CategoryOwner     = "owner"
	CategoryStatus    = "status"
)

// CategoryIDs lists every filterable category.
var CategoryIDs = []string{CategoryCluster, CategoryNamespace, CategoryKind, CategoryOwner, CategoryStatus}

// ClusterAnnotation names the cluster an object was collected from. Objects
// without it belong to the default cluster of the load.
const ClusterAnnotation = "console.confighub.com/cluster"

// Entry is one resource row.
type Entry struct {
	Cluster    string            `json:"cluster"`
	Namespace  string            `json:"namespace,omitempty"`
	Kind       string            `json:"kind"`
	Name       string            `json:"name"`
	APIVersion string            `json:"apiVersion"`
	Owner      string            `json:"owner,omitempty"`
	Status     string            `json:"status"`
	Labels     map[string]string `json:"labels,omitempty"`

	Object *unstructured.Unstructured `json:"-"`
}

// FromObject builds the entry for obj.
func FromObject(obj *unstructured.Unstructured, defaultCluster string) Entry {
	cluster := obj.GetAnnotations()[ClusterAnnotation]
	if isClusterKind(obj.GetKind()) {
		cluster = obj.GetName()
	}
	if cluster == "" {
		cluster = defaultCluster
	}

	return Entry{
		Cluster:    cluster,
		Namespace:  obj.GetNamespace(),
		Kind:       obj.GetKind(),
		Name:       obj.GetName(),
		APIVersion: obj.GetAPIVersion(),
		Owner:      DisplayOwner(DetectOwner(obj).Type),
		Status:     DetectStatus(obj),
		Labels:     obj.GetLabels(),
		Object:     obj,
	}
}

// FromObjects builds one entry per object.
func FromObjects(objs []*unstructured.Unstructured, defaultCluster string) []Entry {
	entries := make([]Entry, 0, len(objs))
	for _, obj := range objs {
		entries = append(entries, FromObject(obj, defaultCluster))
	}
	return entries
}

// Field returns the entry's value for a category id.
func (e Entry) Field(category string) string {
	switch category {
	case CategoryCluster:
		return e.Cluster
	case CategoryNamespace:
		return e.Namespace
	case CategoryKind:
		return e.Kind
	case CategoryOwner:
		return e.Owner
	case CategoryStatus:
		return e.Status
	default:
		return ""
	}
}

// Lookup implements query.Fields. Besides the category ids it knows name,
// apiversion and labels[<key>].
func (e Entry) Lookup(field string) (string, bool) {
	switch field {
	case "name":
		return e.Name, true
	case "apiversion":
		return e.APIVersion, true
	case CategoryCluster, CategoryNamespace, CategoryKind, CategoryOwner, CategoryStatus:
		return e.Field(field), true
	}
	if key, ok := strings.CutPrefix(field, "labels["); ok && strings.HasSuffix(key, "]") {
		v, found := e.Labels[strings.TrimSuffix(key, "]")]
		return v, found
	}
	return "", false
}

// Value is Field with empty values reported as other.
func (e Entry) Value(category, other string) string {
	if v := e.Field(category); v != "" {
		return v
	}
	return other
}

// Categories derives the available values per category from entries.
// Entries without a value for a category are counted under the localized
// "other" label.
func Categories(entries []Entry, t filter.Translator, locale string) filter.Categories {
	other := otherLabel(t, locale)
	cats := make(filter.Categories, len(CategoryIDs))
	for _, id := range CategoryIDs {
		values := sets.New[string]()
		for _, e := range entries {
			values.Insert(e.Value(id, other))
		}
		cats[id] = filter.Category{
			Name:      categoryName(t, locale, id),
			Available: values,
		}
	}
	return cats
}

// Filter returns the entries matching active.
func Filter(entries []Entry, active filter.Active, t filter.Translator, locale string) []Entry {
	other := otherLabel(t, locale)
	active = known(active)
	var out []Entry
	for _, e := range entries {
		if active.Matches(func(category string) string { return e.Value(category, other) }) {
			out = append(out, e)
		}
	}
	return out
}

// known drops categories entries have no values for.
func known(active filter.Active) filter.Active {
	out := make(filter.Active, len(active))
	for category, selected := range active {
		if slices.Contains(CategoryIDs, category) {
			out[category] = selected
		}
	}
	return out
}

// Search returns the entries matching q.
func Search(entries []Entry, q *query.Query) []Entry {
	if q.Empty() {
		return entries
	}
	var out []Entry
	for _, e := range entries {
		if q.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}

// OfKind returns the entries whose kind matches, ignoring case.
func OfKind(entries []Entry, kind string) []Entry {
	var out []Entry
	for _, e := range entries {
		if strings.EqualFold(e.Kind, kind) {
			out = append(out, e)
		}
	}
	return out
}

// Kinds returns the distinct kinds in entries, sorted.
func Kinds(entries []Entry) []string {
	kinds := sets.New[string]()
	for _, e := range entries {
		kinds.Insert(e.Kind)
	}
	return sets.List(kinds)
}

// ResourceType is the row action resource type of the entry. Cluster kinds
// share the "cluster" message keys.
func (e Entry) ResourceType() actions.ResourceType {
	name := e.Kind
	if isClusterKind(e.Kind) {
		name = "Cluster"
	}
	return actions.ResourceType{Name: name, APIVersion: e.APIVersion}
}

func categoryName(t filter.Translator, locale, id string) string {
	if t == nil {
		return id
	}
	return t.T(locale, "filter.category."+id)
}

func otherLabel(t filter.Translator, locale string) string {
	if t == nil {
		return "Other"
	}
	return t.T(locale, filter.KeyOther)
}

func isClusterKind(kind string) bool {
	return kind == "ManagedCluster" || kind == "Cluster"
}

// Stats counts entries by owner, kind and status.
type Stats struct {
	ByOwner  map[string]int
	ByKind   map[string]int
	ByStatus map[string]int
	Total    int
}

// NewStats counts entries.
func NewStats(entries []Entry) Stats {
	s := Stats{
		ByOwner:  make(map[string]int),
		ByKind:   make(map[string]int),
		ByStatus: make(map[string]int),
	}
	for _, e := range entries {
		s.Total++
		s.ByOwner[e.Owner]++
		s.ByKind[e.Kind]++
		s.ByStatus[e.Status]++
	}
	return s
}
