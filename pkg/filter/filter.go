// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package filter builds the view models behind the resource filter panel.
//
// A filter panel shows one section per category (cluster, namespace, kind,
// ...). Each section lists the values available for that category as
// checkboxes. When a category has more than one value a synthetic "All"
// option is added; it is checked while nothing is selected, since an empty
// selection means the category is unconstrained.
//
// The package is free of rendering concerns: it produces ordered, possibly
// truncated option lists that a terminal or any other front end can draw.
package filter

import (
	"k8s.io/apimachinery/pkg/util/sets"
)

// AllValue is the value forwarded to an UpdateFunc when the "All" option of a
// section changes.
const AllValue = "all"

// Catalog keys used when building sections.
const (
	KeyAll      = "filter.view.all"
	KeyOther    = "filter.view.other"
	KeyExpand   = "filter.view.expand"
	KeyCollapse = "filter.view.collapse"
)

// Category is one filterable dimension and every value it can take.
type Category struct {
	Name      string
	Available sets.Set[string]
}

// NewCategory creates a Category from a display name and its values.
func NewCategory(name string, values ...string) Category {
	return Category{Name: name, Available: sets.New(values...)}
}

// Categories maps a category id to its available values.
type Categories map[string]Category

// IDs returns the category ids in a stable order.
func (c Categories) IDs() []string {
	return sets.List(sets.KeySet(c))
}

// UpdateFunc receives a checkbox change. value is AllValue when the synthetic
// "All" option changed.
type UpdateFunc func(category, value string, checked bool)

// Translator is the localization lookup used for synthetic labels.
type Translator interface {
	T(locale, key string, args ...any) string
}

// Option is one checkbox in a section.
type Option struct {
	ID       string
	Label    string
	IsAll    bool
	IsOther  bool
	Checked  bool
	OnChange func(checked bool)
}

// Section is the view model for one category.
type Section struct {
	ID       string
	Name     string
	Options  []Option
	Expanded bool
	OnExpand func()
}

// BuildOptions carries the collaborators BuildSection needs.
type BuildOptions struct {
	Locale     string
	Translator Translator
	Update     UpdateFunc
	OnExpand   func(category string)
}

var defaultLabels = map[string]string{
	KeyAll:   "All",
	KeyOther: "Other",
}

func (o BuildOptions) translate(key string) string {
	if o.Translator == nil {
		return defaultLabels[key]
	}
	return o.Translator.T(o.Locale, key)
}

func (o BuildOptions) forward(category, value string) func(bool) {
	return func(checked bool) {
		if o.Update != nil {
			o.Update(category, value, checked)
		}
	}
}

func noChange(bool) {}

// BuildSection produces the view model of one category. A nil active set is
// treated as empty.
//
// Single-valued categories get no "All" option and their only option is
// always checked with a no-op change handler. Options are returned in
// display order (see SortOptions) but not truncated; use Truncate for that.
func BuildSection(id string, category Category, active sets.Set[string], expanded bool, opts BuildOptions) Section {
	multiple := category.Available.Len() > 1
	other := opts.translate(KeyOther)

	options := make([]Option, 0, category.Available.Len()+1)
	if multiple {
		options = append(options, Option{
			ID:       optionID(id, AllValue),
			Label:    opts.translate(KeyAll),
			IsAll:    true,
			Checked:  active.Len() == 0,
			OnChange: opts.forward(id, AllValue),
		})
	}

	for _, value := range sets.List(category.Available) {
		option := Option{
			ID:       optionID(id, value),
			Label:    value,
			IsOther:  value == other,
			Checked:  !multiple || active.Has(value),
			OnChange: noChange,
		}
		if multiple {
			option.OnChange = opts.forward(id, value)
		}
		options = append(options, option)
	}

	SortOptions(options, opts.Locale)

	return Section{
		ID:       id,
		Name:     category.Name,
		Options:  options,
		Expanded: expanded,
		OnExpand: func() {
			if opts.OnExpand != nil {
				opts.OnExpand(id)
			}
		},
	}
}

// BuildSections builds one section per category, ordered by category id.
// Categories without an entry in active are unconstrained.
func BuildSections(categories Categories, active Active, expanded map[string]bool, opts BuildOptions) []Section {
	sections := make([]Section, 0, len(categories))
	for _, id := range categories.IDs() {
		sections = append(sections, BuildSection(id, categories[id], active.Get(id), expanded[id], opts))
	}
	return sections
}

func optionID(category, value string) string {
	return category + "/" + value
}
