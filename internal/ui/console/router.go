// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package console

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/confighub/cub-console/pkg/filter"
)

// ListAll is the list name for the unfiltered resource view.
const ListAll = "resources"

// listKinds maps list names in console paths to the kind they show.
var listKinds = map[string]string{
	ListAll:        "",
	"clusters":     "ManagedCluster",
	"nodes":        "Node",
	"pods":         "Pod",
	"deployments":  "Deployment",
	"statefulsets": "StatefulSet",
	"daemonsets":   "DaemonSet",
	"applications": "Application",
	"policies":     "Policy",
}

// Location is one list view: the kind it shows and its filters.
type Location struct {
	Kind   string
	Active filter.Active
}

// ListName returns the path segment for kind.
func ListName(kind string) string {
	for list, k := range listKinds {
		if k == kind {
			return list
		}
	}
	return strings.ToLower(kind) + "s"
}

// Path renders the location as a console path under contextPath.
func (l Location) Path(contextPath string) string {
	p := strings.TrimSuffix(contextPath, "/") + "/" + ListName(l.Kind)
	if len(l.Active) == 0 {
		return p
	}
	query, err := l.Active.Encode()
	if err != nil || query == "{}" {
		return p
	}
	return p + "?filters=" + query
}

// ParsePath parses a path produced by the action dispatcher, such as
// /nodes?filters={"cluster":["east"]}, relative to contextPath.
func ParsePath(contextPath, path string) (Location, error) {
	prefix := strings.TrimSuffix(contextPath, "/")
	if !strings.HasPrefix(path, prefix+"/") {
		return Location{}, fmt.Errorf("path %q is outside %q", path, prefix+"/")
	}
	rest, query, _ := strings.Cut(strings.TrimPrefix(path, prefix), "?")

	list := strings.Trim(rest, "/")
	if list == "" {
		list = ListAll
	}
	kind, ok := listKinds[list]
	if !ok {
		return Location{}, fmt.Errorf("unknown list %q", list)
	}

	loc := Location{Kind: kind, Active: filter.Active{}}
	for _, param := range strings.Split(query, "&") {
		name, value, _ := strings.Cut(param, "=")
		if name != "filters" {
			continue
		}
		// the dispatcher does not escape the JSON, so '+' stays literal
		raw, err := url.PathUnescape(value)
		if err != nil {
			return Location{}, fmt.Errorf("unescape filters: %w", err)
		}
		active, err := filter.Decode(raw)
		if err != nil {
			return Location{}, err
		}
		loc.Active = active
	}
	return loc, nil
}

// Router is the console's in-process Navigator. It keeps a stack of
// visited locations.
type Router struct {
	contextPath string
	logger      *slog.Logger
	stack       []Location
	err         error
}

// NewRouter creates a router positioned at start.
func NewRouter(contextPath string, start Location, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	if start.Active == nil {
		start.Active = filter.Active{}
	}
	return &Router{
		contextPath: contextPath,
		logger:      logger,
		stack:       []Location{start},
	}
}

// Navigate pushes the location for path. Paths that do not parse are
// logged and leave the router where it is.
func (r *Router) Navigate(path string) {
	loc, err := ParsePath(r.contextPath, path)
	if err != nil {
		r.logger.Warn("ignoring navigation", "path", path, "error", err)
		r.err = err
		return
	}
	r.err = nil
	r.logger.Debug("navigate", "path", path, "kind", loc.Kind)
	r.stack = append(r.stack, loc)
}

// Current returns the location on top of the stack.
func (r *Router) Current() Location {
	return r.stack[len(r.stack)-1]
}

// SetActive records the filters of the current location so Back can
// restore them.
func (r *Router) SetActive(active filter.Active) {
	r.stack[len(r.stack)-1].Active = active.Clone()
}

// Back pops the current location. It reports false at the first location.
func (r *Router) Back() bool {
	if len(r.stack) == 1 {
		return false
	}
	r.stack = r.stack[:len(r.stack)-1]
	return true
}

// Depth is the number of locations on the stack.
func (r *Router) Depth() int {
	return len(r.stack)
}

// Err returns the error of the last Navigate call, if it failed.
func (r *Router) Err() error {
	return r.err
}

// Path returns the current location as a path.
func (r *Router) Path() string {
	return r.Current().Path(r.contextPath)
}
