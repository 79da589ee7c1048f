// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package console

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/confighub/cub-console/pkg/actions"
)

const (
	modalMaxWidth = 80
	modalMinWidth = 30
	// border, padding, heading, label, blank lines and buttons
	modalChrome = 8
)

// ModalStore is the console's in-process ModalOpener. It holds at most one
// open modal.
type ModalStore struct {
	current *actions.Modal
	logger  *slog.Logger
}

// NewModalStore creates an empty store.
func NewModalStore(logger *slog.Logger) *ModalStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &ModalStore{logger: logger}
}

// OpenModal replaces the open modal with m.
func (s *ModalStore) OpenModal(m actions.Modal) {
	s.logger.Debug("open modal", "type", string(m.Type), "resourceType", m.ResourceType.Name)
	s.current = &m
}

// Current returns the open modal.
func (s *ModalStore) Current() (actions.Modal, bool) {
	if s.current == nil || !s.current.Open {
		return actions.Modal{}, false
	}
	return *s.current, true
}

// Dismiss closes the open modal.
func (s *ModalStore) Dismiss() {
	s.current = nil
}

// modalText is a modal resolved against the catalog.
type modalText struct {
	heading string
	label   string
	primary string
	cancel  string
	body    []string
}

func resolveModal(m actions.Modal, cat Catalog, locale string) modalText {
	kind := m.ResourceType.Name
	name := dataName(m.Data)

	text := modalText{
		primary: cat.T(locale, "modal.button.submit"),
		cancel:  cat.T(locale, "modal.button.cancel"),
	}

	switch m.Type {
	case actions.ModalResourceEdit:
		text.heading = cat.T(locale, "modal.edit.heading", cat.Title(locale, kind))
		text.label = cat.T(locale, "modal.edit.label", kind)
		text.body = jsonLines(m.Data)
	case actions.ModalResourceRemove:
		text.heading = cat.T(locale, "modal.remove.heading", cat.Title(locale, kind))
		text.label = cat.T(locale, "modal.remove.label", kind, name)
		text.primary = text.heading
	case actions.ModalLabelEditing:
		text.heading = cat.T(locale, "modal.edit.heading", cat.Title(locale, kind))
		text.label = cat.T(locale, "modal.edit.label", kind)
		text.body = labelLines(m.Data)
		if len(text.body) == 0 {
			text.body = []string{cat.T(locale, "console.labels.empty")}
		}
	case actions.ModalViewLogs:
		text.heading = cat.T(locale, "modal.logs.heading", name)
		text.body = []string{cat.T(locale, "modal.logs.empty")}
		text.primary = ""
	}

	// kind-specific keys win over the generic messages
	if l := m.Label; l != nil {
		if cat.Has(locale, l.Heading) {
			text.heading = cat.T(locale, l.Heading)
		}
		if cat.Has(locale, l.Label) {
			text.label = cat.T(locale, l.Label)
		}
		if cat.Has(locale, l.PrimaryBtn) {
			text.primary = cat.T(locale, l.PrimaryBtn)
		}
	}
	return text
}

func dataName(data map[string]any) string {
	name, _, _ := unstructured.NestedString(data, "metadata", "name")
	return name
}

func jsonLines(data map[string]any) []string {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return []string{err.Error()}
	}
	return strings.Split(string(b), "\n")
}

func labelLines(data map[string]any) []string {
	labels, _, _ := unstructured.NestedStringMap(data, "metadata", "labels")
	lines := make([]string, 0, len(labels))
	for k, v := range labels {
		lines = append(lines, k+"="+v)
	}
	sort.Strings(lines)
	return lines
}

// renderModal draws text as a box that fits a width x height screen. The
// body scrolls by offset.
func renderModal(text modalText, width, height, offset int, cat Catalog, locale string) string {
	inner := min(modalMaxWidth, max(modalMinWidth, width-6)) - 4

	var b strings.Builder
	b.WriteString(headingStyle.Render(ansi.Truncate(text.heading, inner, "…")))
	if text.label != "" {
		b.WriteString("\n" + dimStyle.Render(ansi.Truncate(text.label, inner, "…")))
	}

	if len(text.body) > 0 {
		b.WriteString("\n")
		room := max(1, height-modalChrome)
		offset = max(0, min(offset, len(text.body)-room))
		end := min(len(text.body), offset+room)
		for _, line := range text.body[offset:end] {
			b.WriteString("\n" + ansi.Truncate(line, inner, "…"))
		}
		if rest := len(text.body) - end; rest > 0 {
			b.WriteString("\n" + dimStyle.Render(cat.T(locale, "console.more", rest)))
		}
	}

	var buttons []string
	if text.primary != "" {
		buttons = append(buttons, primaryStyle.Render(text.primary))
	}
	buttons = append(buttons, buttonStyle.Render(text.cancel))
	b.WriteString("\n\n" + lipgloss.JoinHorizontal(lipgloss.Top, buttons...))

	return boxStyle.Width(inner + 2).Render(b.String())
}

// submitSummary is the status line shown after a modal is confirmed.
func submitSummary(m actions.Modal, text modalText, cat Catalog, locale string) string {
	name := dataName(m.Data)
	if name == "" {
		return cat.T(locale, "console.submitted", text.heading)
	}
	return cat.T(locale, "console.submitted", fmt.Sprintf("%s %s", text.heading, name))
}
