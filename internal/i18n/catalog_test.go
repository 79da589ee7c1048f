// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package i18n

import (
	"maps"
	"slices"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestLoad(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"en", "de"}, c.Locales())
}

func TestT(t *testing.T) {
	c := MustLoad()

	tests := []struct {
		name   string
		locale string
		key    string
		args   []any
		want   string
	}{
		{name: "english", locale: "en", key: "filter.view.all", want: "All"},
		{name: "german", locale: "de", key: "filter.view.all", want: "Alle"},
		{name: "regional variant", locale: "de-AT", key: "filter.view.other", want: "Andere"},
		{name: "unknown locale", locale: "ja", key: "filter.view.all", want: "All"},
		{name: "empty locale", locale: "", key: "filter.view.title", want: "Filters"},
		{name: "german modal", locale: "de", key: "modal.remove.label", args: []any{"Pod", "web-1"}, want: `Pod "web-1" entfernen?`},
		{name: "missing key", locale: "en", key: "no.such.key", want: "no.such.key"},
		{name: "with args", locale: "en", key: "filter.view.expand", args: []any{3}, want: "Show 3 more"},
		{name: "german args", locale: "de", key: "filter.view.expand", args: []any{3}, want: "3 weitere anzeigen"},
		{name: "string args", locale: "en", key: "modal.edit.heading", args: []any{"Pod"}, want: "Edit Pod"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.T(tt.locale, tt.key, tt.args...))
		})
	}
}

func TestT_FallsBackToDefaultLocale(t *testing.T) {
	c, err := New(fstest.MapFS{
		"en.yaml": {Data: []byte("a: A\nb: B\n")},
		"de.yaml": {Data: []byte("a: Ä\n")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Ä", c.T("de", "a"))
	assert.Equal(t, "B", c.T("de", "b"))
	assert.True(t, c.Has("de", "b"))
}

// Every shipped locale translates every key of the default locale.
func TestLocalesHaveTheSameKeys(t *testing.T) {
	c := MustLoad()
	want := maps.Keys(c.messages[c.tags[0]])
	for _, tag := range c.tags[1:] {
		assert.ElementsMatch(t, slices.Collect(want), slices.Collect(maps.Keys(c.messages[tag])), tag.String())
	}
}

func TestHas(t *testing.T) {
	c := MustLoad()
	assert.True(t, c.Has("en", "modal.edit-cluster.heading"))
	assert.True(t, c.Has("de", "modal.edit-cluster.heading"))
	assert.False(t, c.Has("en", "modal.edit-pod.heading"))
}

func TestMatch(t *testing.T) {
	c := MustLoad()
	assert.Equal(t, language.German, c.Match("de-CH"))
	assert.Equal(t, language.English, c.Match("fr"))
}

func TestTitle(t *testing.T) {
	c := MustLoad()
	assert.Equal(t, "Managedcluster", c.Title("en", "managedcluster"))
	assert.Equal(t, "Deployment", c.Title("en", "deployment"))
}

func TestNew_Errors(t *testing.T) {
	_, err := New(fstest.MapFS{
		"de.yaml": {Data: []byte("filter.view.all: Alle\n")},
	})
	assert.ErrorContains(t, err, "missing catalog for default locale")

	_, err = New(fstest.MapFS{
		"en.yaml": {Data: []byte("filter.view.all: [unterminated\n")},
	})
	assert.ErrorContains(t, err, "parse en.yaml")

	_, err = New(fstest.MapFS{
		"en.yaml": {Data: []byte("a: b\n")},
		"12.yaml": {Data: []byte("a: b\n")},
	})
	assert.ErrorContains(t, err, "locale file 12.yaml")
}
