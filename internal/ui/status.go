package ui

import (
	"fmt"

	"github.com/mattn/go-runewidth"
)

// StatusKind classifies the status message.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusError
)

// StatusModel is the line between the panes and the footer: a message on the
// left, the position in the key list on the right.
type StatusModel struct {
	Message  string
	Kind     StatusKind
	Position int // 1-based index of the selection, 0 when none
	Visible  int
	Total    int
	Filter   string
	Loading  bool
	InFlight int
	Width    int
}

// NewStatusModel creates an empty status line.
func NewStatusModel() StatusModel {
	return StatusModel{Width: 80}
}

// View renders the status line padded to Width.
func (m StatusModel) View(st styles) string {
	right := fmt.Sprintf("%d/%d", m.Position, m.Visible)
	if m.Filter != "" {
		right = fmt.Sprintf("filter %q %s of %d", m.Filter, right, m.Total)
	}
	if m.InFlight > 0 {
		right = fmt.Sprintf("loading %d · %s", m.InFlight, right)
	}

	msg := m.Message
	if msg == "" && m.Loading {
		msg = "loading keys…"
	}
	room := m.Width - runewidth.StringWidth(right) - 1
	msg = truncateWidth(msg, room)

	style := st.muted
	switch m.Kind {
	case StatusError:
		style = st.err
	case StatusSuccess:
		style = st.success
	}
	left := style.Render(msg)
	gap := m.Width - runewidth.StringWidth(msg) - runewidth.StringWidth(right)
	if gap < 1 {
		gap = 1
	}
	return left + fmt.Sprintf("%*s", gap, "") + st.muted.Render(right)
}
