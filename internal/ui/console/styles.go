// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package console

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/confighub/cub-console/internal/inventory"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	crumbStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("141"))
	columnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("246"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
	selectStyle  = lipgloss.NewStyle().Reverse(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	badgeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("141")).
			Padding(0, 1)

	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	primaryStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("141")).Padding(0, 1)
	buttonStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("246")).Padding(0, 1)
)

// statusStyle colors a status value.
func statusStyle(status string) lipgloss.Style {
	switch status {
	case inventory.StatusReady:
		return okStyle
	case inventory.StatusPending, inventory.StatusUnknown:
		return warnStyle
	case inventory.StatusNotReady, inventory.StatusFailed:
		return errStyle
	default:
		return dimStyle
	}
}
