// Package overlay draws a modal view on top of another view.
package overlay

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;:]*[A-Za-z~]`)

// StripANSI removes colour and style escapes.
func StripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// Center draws fg in the middle of bg. The background is cut or padded to
// width x height, loses its own styling and is drawn with backdrop; the text
// either side of the modal stays visible.
func Center(bg, fg string, width, height int, backdrop lipgloss.Style) string {
	if width <= 0 || height <= 0 {
		return fg
	}
	rows := background(bg, width, height)
	fgRows := strings.Split(fg, "\n")

	w := 0
	for _, line := range fgRows {
		w = max(w, lipgloss.Width(line))
	}
	w = min(w, width)
	h := min(len(fgRows), height)
	left := (width - w) / 2
	top := (height - h) / 2

	out := make([]string, len(rows))
	for y, row := range rows {
		if y < top || y >= top+h {
			out[y] = backdrop.Render(row)
			continue
		}
		line := pad(fgRows[y-top], w)
		out[y] = backdrop.Render(cut(row, 0, left)) + line + backdrop.Render(cut(row, left+w, width))
	}
	return strings.Join(out, "\n")
}

// background returns exactly height plain rows of exactly width cells.
func background(view string, width, height int) []string {
	lines := strings.Split(StripANSI(view), "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i, line := range lines {
		lines[i] = pad(cut(line, 0, width), width)
	}
	return lines
}

func pad(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// cut returns the runes of plain text s occupying cells [from, to). A wide
// rune straddling either edge is replaced with spaces.
func cut(s string, from, to int) string {
	if to <= from {
		return ""
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		rw := lipgloss.Width(string(r))
		next := col + rw
		switch {
		case next <= from:
		case col >= to:
			return b.String()
		case col < from || next > to:
			b.WriteString(strings.Repeat(" ", min(next, to)-max(col, from)))
		default:
			b.WriteRune(r)
		}
		col = next
	}
	return b.String()
}
