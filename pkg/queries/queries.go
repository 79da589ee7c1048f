// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package queries manages saved searches: named search expressions that
// can be used wherever a search is accepted by writing @name.
//
// Saved searches are either built in or user-defined in a YAML file:
//
//	searches:
//	  - name: shop
//	    description: Everything in the shop namespace
//	    query: namespace=shop
package queries

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/confighub/cub-console/pkg/query"
)

// Sources of a saved search.
const (
	SourceBuiltin = "builtin"
	SourceUser    = "user"
)

// Prefix marks a saved search reference in a search input.
const Prefix = "@"

// Saved is a named search.
type Saved struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Query       string `yaml:"query" json:"query"`
	Source      string `yaml:"-" json:"source"`
}

// Builtin are the searches every store starts with.
var Builtin = []Saved{
	{Name: "unmanaged", Description: "Resources no tool claims", Query: "owner="},
	{Name: "gitops", Description: "Resources reconciled by Flux or Argo CD", Query: "owner=Flux,ArgoCD"},
	{Name: "helm", Description: "Helm releases without GitOps", Query: "owner=Helm"},
	{Name: "not-ready", Description: "Resources that are not ready", Query: "status!=Ready"},
	{Name: "failing", Description: "Failed or not ready resources", Query: "status=Failed,NotReady"},
	{Name: "clusters", Description: "Managed clusters", Query: "kind=ManagedCluster"},
	{Name: "prod", Description: "Production namespaces or clusters labelled env=prod", Query: "namespace=prod* OR labels[env]=prod"},
}

type file struct {
	Searches []Saved `yaml:"searches"`
}

// Store holds the built-in searches and the user's.
type Store struct {
	path string
	user []Saved
}

// DefaultPath returns ~/.config/cub-console/searches.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "cub-console", "searches.yaml")
}

// Open loads the user searches at path. A missing file is an empty store.
// Every user search must parse.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read saved searches: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse saved searches %s: %w", path, err)
	}
	for i := range f.Searches {
		if err := validate(f.Searches[i]); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		f.Searches[i].Source = SourceUser
	}
	s.user = f.Searches
	return s, nil
}

func validate(saved Saved) error {
	if saved.Name == "" || strings.ContainsAny(saved.Name, " \t"+Prefix) {
		return fmt.Errorf("invalid search name %q", saved.Name)
	}
	if _, err := query.Parse(saved.Query); err != nil {
		return fmt.Errorf("search %q: %w", saved.Name, err)
	}
	return nil
}

// List returns the built-in searches followed by the user's. A user search
// replaces the built-in one of the same name.
func (s *Store) List() []Saved {
	out := make([]Saved, 0, len(Builtin)+len(s.user))
	for _, b := range Builtin {
		if !slices.ContainsFunc(s.user, func(u Saved) bool { return u.Name == b.Name }) {
			b.Source = SourceBuiltin
			out = append(out, b)
		}
	}
	return append(out, s.user...)
}

// Get returns the search called name.
func (s *Store) Get(name string) (Saved, bool) {
	for _, saved := range s.List() {
		if saved.Name == name {
			return saved, true
		}
	}
	return Saved{}, false
}

// Expand replaces a lone @name input with the saved expression. Other
// input is returned as is.
func (s *Store) Expand(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	name, ok := strings.CutPrefix(trimmed, Prefix)
	if !ok {
		return input, nil
	}
	saved, found := s.Get(name)
	if !found {
		return "", fmt.Errorf("no saved search %q", name)
	}
	return saved.Query, nil
}

// Parse expands input and parses it.
func (s *Store) Parse(input string) (*query.Query, error) {
	expr, err := s.Expand(input)
	if err != nil {
		return nil, err
	}
	return query.Parse(expr)
}

// Save adds or replaces a user search and writes the file.
func (s *Store) Save(saved Saved) error {
	if err := validate(saved); err != nil {
		return err
	}
	saved.Source = SourceUser

	i := slices.IndexFunc(s.user, func(u Saved) bool { return u.Name == saved.Name })
	if i >= 0 {
		s.user[i] = saved
	} else {
		s.user = append(s.user, saved)
	}
	return s.write()
}

// Delete removes a user search and writes the file.
func (s *Store) Delete(name string) error {
	i := slices.IndexFunc(s.user, func(u Saved) bool { return u.Name == name })
	if i < 0 {
		return fmt.Errorf("no user search %q", name)
	}
	s.user = slices.Delete(s.user, i, i+1)
	return s.write()
}

func (s *Store) write() error {
	if s.path == "" {
		return errors.New("no saved searches file")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(file{Searches: s.user})
	if err != nil {
		return fmt.Errorf("marshal saved searches: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write saved searches: %w", err)
	}
	return nil
}
