package ui

import (
	"github.com/mattn/go-runewidth"
)

// HelpModel is the key binding overlay.
type HelpModel struct {
	Visible bool
	KeyMode KeyMode
}

// Lines renders the overlay content fitted to width.
func (m HelpModel) Lines(width int, st styles) []string {
	hints := helpHints(m.KeyMode)
	keyW := 0
	for _, h := range hints {
		if w := runewidth.StringWidth(h.Keys); w > keyW {
			keyW = w
		}
	}
	lines := []string{
		st.header.Render(fitWidth("Key bindings ("+string(m.KeyMode)+" mode)", width)),
		"",
	}
	for _, h := range hints {
		keys := fitWidth(h.Keys, keyW)
		label := fitWidth(h.Label, width-keyW-2)
		lines = append(lines, st.title.Render(keys)+"  "+st.value.Render(label))
	}
	lines = append(lines, "",
		st.muted.Render(fitWidth("Arrows, Enter, Esc and Ctrl+C work in every mode.", width)),
		st.muted.Render(fitWidth("Press Esc, F1 or ? to close.", width)),
	)
	return lines
}
