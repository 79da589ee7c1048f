// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package filter

import (
	"encoding/json"
	"fmt"

	"k8s.io/apimachinery/pkg/util/sets"
)

// Active holds the selected values per category. A missing or empty set
// means every value of that category is allowed.
type Active map[string]sets.Set[string]

// Get returns the selection for category, or an empty set.
func (a Active) Get(category string) sets.Set[string] {
	if s, ok := a[category]; ok && s != nil {
		return s
	}
	return sets.New[string]()
}

// Apply records a checkbox change. Checking AllValue clears the category;
// unchecking it changes nothing. Removing the last value of a category
// leaves it unconstrained.
func (a Active) Apply(category, value string, checked bool) {
	if value == AllValue {
		if checked {
			delete(a, category)
		}
		return
	}

	if checked {
		if a[category] == nil {
			a[category] = sets.New[string]()
		}
		a[category].Insert(value)
		return
	}

	if s, ok := a[category]; ok {
		s.Delete(value)
		if s.Len() == 0 {
			delete(a, category)
		}
	}
}

// Matches reports whether a record passes every constrained category. value
// returns the record's value for a category id.
func (a Active) Matches(value func(category string) string) bool {
	for category, selected := range a {
		if selected.Len() == 0 {
			continue
		}
		if !selected.Has(value(category)) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (a Active) Clone() Active {
	out := make(Active, len(a))
	for category, selected := range a {
		out[category] = selected.Clone()
	}
	return out
}

// Encode renders the selection as the JSON object used in console URLs, for
// example {"cluster":["foo"]}. Values are sorted and empty categories are
// omitted.
func (a Active) Encode() (string, error) {
	wire := make(map[string][]string, len(a))
	for category, selected := range a {
		if selected.Len() == 0 {
			continue
		}
		wire[category] = sets.List(selected)
	}
	b, err := json.Marshal(wire)
	if err != nil {
		return "", fmt.Errorf("encode filters: %w", err)
	}
	return string(b), nil
}

// Decode parses the JSON form produced by Encode.
func Decode(raw string) (Active, error) {
	if raw == "" {
		return Active{}, nil
	}
	var wire map[string][]string
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return nil, fmt.Errorf("decode filters %q: %w", raw, err)
	}
	out := make(Active, len(wire))
	for category, values := range wire {
		if len(values) == 0 {
			continue
		}
		out[category] = sets.New(values...)
	}
	return out, nil
}
