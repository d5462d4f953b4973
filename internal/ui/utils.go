package ui

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

const ellipsis = "…"

// fitWidth truncates s to width display cells, marking the cut with an
// ellipsis, and pads the rest with spaces.
func fitWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, ellipsis)
	}
	return runewidth.FillRight(s, width)
}

// truncateWidth cuts s to width cells without padding.
func truncateWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, ellipsis)
}

// padStyled pads an already styled string to width using its visible width.
func padStyled(s string, width int) string {
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// scrollOffset returns the first visible row so that cursor stays inside a
// window of height rows, moving top as little as possible.
func scrollOffset(top, cursor, height, total int) int {
	if height <= 0 || total <= height {
		return 0
	}
	if cursor < top {
		top = cursor
	}
	if cursor >= top+height {
		top = cursor - height + 1
	}
	if top > total-height {
		top = total - height
	}
	if top < 0 {
		top = 0
	}
	return top
}

// renderPanel draws a rounded box of the given outer size around content.
// Content lines must already be fitted to width-2 cells; missing lines are
// blank and extra lines are dropped.
func renderPanel(title string, content []string, width, height int, st styles) string {
	if width < 2 || height < 2 {
		return ""
	}
	b := lipgloss.RoundedBorder()
	inner := width - 2

	top := b.Top + " " + truncateWidth(title, inner-3) + " "
	if title == "" {
		top = ""
	}
	if w := runewidth.StringWidth(top); w < inner {
		top += strings.Repeat(b.Top, inner-w)
	} else {
		top = runewidth.Truncate(top, inner, "")
	}

	lines := make([]string, 0, height)
	lines = append(lines, st.border.Render(b.TopLeft+top+b.TopRight))
	for i := 0; i < height-2; i++ {
		row := strings.Repeat(" ", inner)
		if i < len(content) {
			row = padStyled(content[i], inner)
		}
		lines = append(lines, st.border.Render(b.Left)+row+st.border.Render(b.Right))
	}
	lines = append(lines, st.border.Render(b.BottomLeft+strings.Repeat(b.Bottom, inner)+b.BottomRight))
	return strings.Join(lines, "\n")
}

// joinColumns places two blocks of equal height side by side.
func joinColumns(left, right string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
