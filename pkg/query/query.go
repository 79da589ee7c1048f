// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package query implements the search expressions of the console's search
// bar and the --query flag.
//
// Syntax:
//
//	field=value           exact match, case-insensitive; * is a wildcard
//	field!=value          not equal
//	field~=pattern        regular expression
//	field=v1,v2           any of the listed values
//	word                  the name contains word
//
// Conditions are joined with AND (the default between adjacent
// conditions) and OR. AND binds tighter than OR.
//
// Examples:
//
//	kind=Pod status!=Ready
//	owner=Flux OR owner=Argo
//	cluster=prod-* AND labels[app]=web
//	web
package query

import (
	"fmt"
	"regexp"
	"strings"
)

// Comparator is how a condition compares a field with its value.
type Comparator string

const (
	CmpEqual    Comparator = "="
	CmpNotEqual Comparator = "!="
	CmpRegex    Comparator = "~="
	CmpIn       Comparator = "IN"
	// CmpContains is a bare word matched against the name.
	CmpContains Comparator = "CONTAINS"
)

// NameField is the field bare words are matched against.
const NameField = "name"

// Condition is one comparison.
type Condition struct {
	Field      string
	Comparator Comparator
	Value      string
	Values     []string

	pattern *regexp.Regexp
}

// Query is a disjunction of conjunctions: it matches when every condition
// of at least one group matches.
type Query struct {
	Groups [][]Condition
}

// Fields looks up a field of the thing being matched.
type Fields interface {
	Lookup(field string) (string, bool)
}

// Parse parses input. An empty input matches everything.
func Parse(input string) (*Query, error) {
	q := &Query{}
	var group []Condition
	pendingOr, pendingAnd := false, false

	for _, word := range strings.Fields(input) {
		switch strings.ToUpper(word) {
		case "OR":
			if pendingAnd {
				return nil, fmt.Errorf("AND without a following condition")
			}
			if len(group) == 0 {
				return nil, fmt.Errorf("OR without a preceding condition")
			}
			q.Groups = append(q.Groups, group)
			group = nil
			pendingOr = true
			continue
		case "AND":
			if pendingAnd {
				return nil, fmt.Errorf("AND without a following condition")
			}
			if len(group) == 0 {
				return nil, fmt.Errorf("AND without a preceding condition")
			}
			pendingAnd = true
			continue
		}

		cond, err := parseCondition(word)
		if err != nil {
			return nil, err
		}
		group = append(group, cond)
		pendingOr, pendingAnd = false, false
	}

	if pendingAnd {
		return nil, fmt.Errorf("AND without a following condition")
	}
	if pendingOr {
		return nil, fmt.Errorf("OR without a following condition")
	}
	if len(group) > 0 {
		q.Groups = append(q.Groups, group)
	}
	return q, nil
}

// MustParse is Parse for expressions known to be valid.
func MustParse(input string) *Query {
	q, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return q
}

func parseCondition(s string) (Condition, error) {
	for _, cmp := range []Comparator{CmpRegex, CmpNotEqual, CmpEqual} {
		field, value, ok := strings.Cut(s, string(cmp))
		if !ok {
			continue
		}
		if field == "" {
			return Condition{}, fmt.Errorf("condition %q has no field", s)
		}
		cond := Condition{Field: normalizeField(field), Comparator: cmp, Value: value}

		switch {
		case cmp == CmpRegex:
			re, err := regexp.Compile(value)
			if err != nil {
				return Condition{}, fmt.Errorf("invalid pattern %q: %w", value, err)
			}
			cond.pattern = re
		case cmp == CmpEqual && strings.Contains(value, ","):
			cond.Comparator = CmpIn
			cond.Value = ""
			for _, v := range strings.Split(value, ",") {
				if v != "" {
					cond.Values = append(cond.Values, v)
				}
			}
		case cmp == CmpEqual && strings.Contains(value, "*"):
			cond.pattern = wildcard(value)
		}
		return cond, nil
	}

	return Condition{Field: NameField, Comparator: CmpContains, Value: s}, nil
}

// normalizeField lower-cases the field name but not a label key.
func normalizeField(field string) string {
	name, key, ok := strings.Cut(field, "[")
	if !ok {
		return strings.ToLower(field)
	}
	return strings.ToLower(name) + "[" + key
}

func wildcard(value string) *regexp.Regexp {
	expr := "(?i)^" + strings.ReplaceAll(regexp.QuoteMeta(value), `\*`, ".*") + "$"
	return regexp.MustCompile(expr)
}

// Empty reports whether q has no conditions.
func (q *Query) Empty() bool {
	return q == nil || len(q.Groups) == 0
}

// Matches evaluates q against f. A nil or empty query matches everything.
func (q *Query) Matches(f Fields) bool {
	if q.Empty() {
		return true
	}
	for _, group := range q.Groups {
		if matchAll(group, f) {
			return true
		}
	}
	return false
}

func matchAll(group []Condition, f Fields) bool {
	for _, cond := range group {
		if !cond.Matches(f) {
			return false
		}
	}
	return true
}

// Matches evaluates the condition against f.
func (c Condition) Matches(f Fields) bool {
	value, ok := f.Lookup(c.Field)

	switch c.Comparator {
	case CmpNotEqual:
		// a missing field differs from every value
		return !ok || !strings.EqualFold(value, c.Value)
	case CmpEqual:
		if c.pattern != nil {
			return ok && c.pattern.MatchString(value)
		}
		return ok && strings.EqualFold(value, c.Value)
	case CmpRegex:
		return ok && c.pattern.MatchString(value)
	case CmpIn:
		if !ok {
			return false
		}
		for _, v := range c.Values {
			if strings.EqualFold(value, v) {
				return true
			}
		}
		return false
	case CmpContains:
		return ok && strings.Contains(strings.ToLower(value), strings.ToLower(c.Value))
	}
	return false
}

// String renders q in canonical form.
func (q *Query) String() string {
	if q.Empty() {
		return ""
	}
	groups := make([]string, len(q.Groups))
	for i, group := range q.Groups {
		conds := make([]string, len(group))
		for j, c := range group {
			conds[j] = c.String()
		}
		groups[i] = strings.Join(conds, " AND ")
	}
	return strings.Join(groups, " OR ")
}

// String renders the condition as it is written.
func (c Condition) String() string {
	switch c.Comparator {
	case CmpIn:
		return c.Field + "=" + strings.Join(c.Values, ",")
	case CmpContains:
		return c.Value
	default:
		return c.Field + string(c.Comparator) + c.Value
	}
}
