// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package overlay draws floating boxes (the filter panel, menus, modals) on
// top of a rendered view.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Rect is a screen rectangle in terminal cells.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Splice replaces the region of view starting at (x, y) with the lines of
// box. ANSI sequences in view survive on both sides of the box. Lines that
// fall outside view are dropped.
func Splice(view, box string, x, y int) string {
	if box == "" {
		return view
	}
	boxLines := strings.Split(box, "\n")
	viewLines := strings.Split(view, "\n")

	for i, boxLine := range boxLines {
		row := y + i
		if row < 0 {
			continue
		}
		for row >= len(viewLines) {
			viewLines = append(viewLines, "")
		}

		line := viewLines[row]
		lineWidth := ansi.StringWidth(line)
		boxWidth := ansi.StringWidth(boxLine)

		var b strings.Builder
		if x > 0 {
			prefix := ansi.Truncate(line, x, "")
			b.WriteString(prefix)
			if w := ansi.StringWidth(prefix); w < x {
				b.WriteString(strings.Repeat(" ", x-w))
			}
		}
		b.WriteString("\x1b[0m")
		b.WriteString(boxLine)
		b.WriteString("\x1b[0m")
		if end := x + boxWidth; end < lineWidth {
			b.WriteString(ansi.TruncateLeft(line, end, ""))
		}
		viewLines[row] = b.String()
	}
	return strings.Join(viewLines, "\n")
}

// Place splices box centered within a width x height screen and returns
// the result with the rectangle it occupies.
func Place(view, box string, width, height int) (string, Rect) {
	w, h := lipgloss.Size(box)
	r := Rect{
		X:      max(0, (width-w)/2),
		Y:      max(0, (height-h)/2),
		Width:  w,
		Height: h,
	}
	return Splice(view, box, r.X, r.Y), r
}

// Scrollbar renders a one-column scrollbar of height rows for content of
// total lines, of which visible are shown starting at offset.
func Scrollbar(height, total, visible, offset int, track, thumb lipgloss.Style) string {
	if height <= 0 {
		return ""
	}
	lines := make([]string, height)

	if total <= visible || total <= 0 {
		for i := range lines {
			lines[i] = track.Render(" ")
		}
		return strings.Join(lines, "\n")
	}

	size := max(1, height*visible/total)
	scrollable := total - visible
	travel := height - size
	pos := 0
	if scrollable > 0 && travel > 0 {
		pos = offset * travel / scrollable
	}
	pos = min(pos, height-size)

	for i := range lines {
		if i >= pos && i < pos+size {
			lines[i] = thumb.Render("┃")
		} else {
			lines[i] = track.Render("│")
		}
	}
	return strings.Join(lines, "\n")
}
