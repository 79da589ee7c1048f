// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package filterpanel

import "github.com/charmbracelet/lipgloss"

var (
	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("141"))
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	closeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	ruleStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("141"))
	sectionStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("141"))
	checkedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	uncheckedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
	otherStyle     = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("246"))
	toggleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))
	cursorStyle    = lipgloss.NewStyle().Background(lipgloss.Color("236")).Bold(true)
	trackStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	thumbStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("141"))
)
