// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package i18n provides the message catalog used for every label the console
// shows. Messages live in embedded YAML files, one per locale, and are
// fmt-style formats rendered with a locale-aware printer.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var locales embed.FS

// DefaultLocale is used when a requested locale has no match.
const DefaultLocale = "en"

// Catalog resolves message keys for a locale. Lookups never fail: a missing
// key falls back to the default locale and then to the key itself.
type Catalog struct {
	tags     []language.Tag
	matcher  language.Matcher
	messages map[language.Tag]map[string]string
}

// Load reads the embedded catalogs.
func Load() (*Catalog, error) {
	sub, err := fs.Sub(locales, "locales")
	if err != nil {
		return nil, fmt.Errorf("open embedded locales: %w", err)
	}
	return New(sub)
}

// MustLoad is Load for package initialization and tests.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// New reads every <locale>.yaml file at the root of fsys. The default locale
// file must be present.
func New(fsys fs.FS) (*Catalog, error) {
	files, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return nil, fmt.Errorf("list locale files: %w", err)
	}

	c := &Catalog{messages: make(map[language.Tag]map[string]string)}
	defaultTag := language.Make(DefaultLocale)
	// the matcher falls back to its first tag
	c.tags = append(c.tags, defaultTag)

	for _, file := range files {
		name := strings.TrimSuffix(path.Base(file), ".yaml")
		tag, err := language.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("locale file %s: %w", file, err)
		}

		raw, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		msgs := make(map[string]string)
		if err := yaml.Unmarshal(raw, &msgs); err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}

		c.messages[tag] = msgs
		if tag != defaultTag {
			c.tags = append(c.tags, tag)
		}
	}

	if _, ok := c.messages[defaultTag]; !ok {
		return nil, fmt.Errorf("missing catalog for default locale %q", DefaultLocale)
	}

	c.matcher = language.NewMatcher(c.tags)
	return c, nil
}

// Locales returns the locales the catalog has messages for.
func (c *Catalog) Locales() []string {
	out := make([]string, len(c.tags))
	for i, t := range c.tags {
		out[i] = t.String()
	}
	return out
}

// Match returns the catalog locale used for a requested locale.
func (c *Catalog) Match(locale string) language.Tag {
	if locale == "" {
		return c.tags[0]
	}
	_, index, confidence := c.matcher.Match(language.Make(locale))
	if confidence == language.No {
		return c.tags[0]
	}
	return c.tags[index]
}

// Has reports whether key is defined for locale or the default locale.
func (c *Catalog) Has(locale, key string) bool {
	_, _, ok := c.lookup(locale, key)
	return ok
}

// T renders the message key for locale with args.
func (c *Catalog) T(locale, key string, args ...any) string {
	tag, format, ok := c.lookup(locale, key)
	if !ok {
		return key
	}
	if len(args) == 0 {
		return format
	}
	return message.NewPrinter(tag).Sprintf(format, args...)
}

// Title title-cases s with the rules of locale.
func (c *Catalog) Title(locale, s string) string {
	return cases.Title(c.Match(locale)).String(s)
}

func (c *Catalog) lookup(locale, key string) (language.Tag, string, bool) {
	tag := c.Match(locale)
	if msg, ok := c.messages[tag][key]; ok {
		return tag, msg, true
	}
	if msg, ok := c.messages[c.tags[0]][key]; ok {
		return c.tags[0], msg, true
	}
	return tag, "", false
}
