package ui

import (
	"strings"
)

// FooterModel renders the key hints for the active key mode.
type FooterModel struct {
	KeyMode KeyMode
	Width   int
	Search  bool // search input has focus
}

// NewFooterModel creates a footer for the default key mode.
func NewFooterModel() FooterModel {
	return FooterModel{
		Width:   80,
		KeyMode: DefaultKeyMode,
	}
}

// View renders the footer line.
func (m FooterModel) View(st styles) string {
	var hints []keyHint
	if m.Search {
		hints = []keyHint{
			{"Enter", ActionSelect, "apply filter"},
			{"Esc", ActionCancel, "clear"},
			{"↑/↓", ActionDown, "move"},
		}
	} else {
		hints = footerHints(m.KeyMode)
	}

	parts := make([]string, 0, len(hints)*2)
	width := 0
	for _, h := range hints {
		w := len([]rune(h.Keys)) + 1 + len(h.Label) + 1
		if m.Width > 0 && width+w > m.Width {
			break
		}
		width += w
		parts = append(parts, st.badge.Render(h.Keys), h.Label)
	}
	return strings.Join(parts, " ")
}
